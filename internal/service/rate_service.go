package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/moneytravel/internal/rates"
	"github.com/mmynk/moneytravel/pkg/api"
)

// RateSource looks up a currency quote.
type RateSource interface {
	Rate(ctx context.Context, pair string) (rates.Quote, error)
}

// RateService exposes the informational currency rate.
type RateService struct {
	source RateSource
	logger *slog.Logger
}

func NewRateService(source RateSource, logger *slog.Logger) *RateService {
	return &RateService{source: source, logger: logger}
}

// Handler returns the mount path and handler of the service.
func (s *RateService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	handle(r, api.RateGetRateProcedure, s.GetRate)
	return r.path(api.RateServiceName)
}

// GetRate returns the current quote for the pair, USD-BRL by default.
func (s *RateService) GetRate(ctx context.Context, req *api.RateRequest) (*api.RateResponse, error) {
	q, err := s.source.Rate(ctx, req.Pair)
	if err != nil {
		s.logger.Warn("Rate lookup failed", "pair", req.Pair, "error", err)
		return nil, err
	}
	return &api.RateResponse{Pair: q.Pair, Rate: q.Rate, FetchedAt: q.FetchedAt}, nil
}
