// Package service implements the Connect RPC handlers of the moneytravel server.
//
// Messages are plain Go structs from pkg/api carried by a JSON codec, so each
// service builds its own handler set instead of relying on generated code.
package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/moneytravel/internal/events"
	"github.com/mmynk/moneytravel/internal/middleware"
	"github.com/mmynk/moneytravel/internal/storage"
	"github.com/mmynk/moneytravel/pkg/api"
)

// routes collects the procedures of one service.
type routes struct {
	mux  *http.ServeMux
	opts []connect.HandlerOption
}

func newRoutes(opts []connect.HandlerOption) *routes {
	return &routes{
		mux:  http.NewServeMux(),
		opts: append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...),
	}
}

// handle registers fn as a unary procedure. Errors returned by fn are mapped
// to Connect codes.
func handle[Req, Res any](r *routes, procedure string, fn func(context.Context, *Req) (*Res, error)) {
	r.mux.Handle(procedure, connect.NewUnaryHandler(
		procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, toConnectError(err)
			}
			return connect.NewResponse(res), nil
		},
		r.opts...,
	))
}

// path returns the service prefix to mount the handler on.
func (r *routes) path(serviceName string) (string, http.Handler) {
	return "/" + strings.Trim(serviceName, "/") + "/", r.mux
}

// notifier publishes ledger events after successful mutations.
type notifier struct {
	publisher events.Publisher
	logger    *slog.Logger
}

func (n notifier) publish(ctx context.Context, t events.Type, tripID, entityID string) {
	e := events.New(t, tripID, entityID, middleware.GetUserID(ctx))
	if err := n.publisher.Publish(ctx, e); err != nil {
		n.logger.Warn("Failed to publish event", "type", t, "trip_id", tripID, "error", err)
	}
}

// requireTrip fails with a NotFound error when the trip does not exist.
func requireTrip(ctx context.Context, store storage.TripStore, tripID string) error {
	_, err := store.GetTrip(ctx, tripID)
	return err
}
