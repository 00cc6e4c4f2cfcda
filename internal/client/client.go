// Package client talks to a moneytravel server over Connect. Client
// implements storage.TripStore, so a ledger.Session can run against a remote
// server exactly as it does against a local database.
package client

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"connectrpc.com/connect"

	"github.com/mmynk/moneytravel/internal/auth"
	"github.com/mmynk/moneytravel/internal/calculator"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/rates"
	"github.com/mmynk/moneytravel/internal/storage"
	"github.com/mmynk/moneytravel/pkg/api"
)

var _ storage.TripStore = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc connect.HTTPClient) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken starts the client with an existing session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient connect.HTTPClient

	mu    sync.RWMutex
	token string
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current session token, empty when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the session token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// bearer attaches the session token to every outgoing call.
func (c *Client) bearer() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token := c.Token(); token != "" && req.Spec().IsClient {
				req.Header().Set("Authorization", auth.BearerHeader(token))
			}
			return next(ctx, req)
		}
	}
}

func call[Req, Res any](ctx context.Context, c *Client, procedure string, req *Req) (*Res, error) {
	rpc := connect.NewClient[Req, Res](
		c.httpClient,
		c.baseURL+procedure,
		connect.WithCodec(api.JSONCodec{}),
		connect.WithInterceptors(c.bearer()),
	)
	res, err := rpc.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, fromConnectError(err)
	}
	return res.Msg, nil
}

// Auth

// Register creates an account and keeps its session token.
func (c *Client) Register(ctx context.Context, email, displayName, password string) (*models.User, error) {
	res, err := call[api.RegisterRequest, api.Session](ctx, c, api.AuthRegisterProcedure, &api.RegisterRequest{
		Email:       email,
		DisplayName: displayName,
		Password:    password,
	})
	if err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return res.User.Model(), nil
}

// Login authenticates and keeps the session token.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	res, err := call[api.LoginRequest, api.Session](ctx, c, api.AuthLoginProcedure, &api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return res.User.Model(), nil
}

// Logout discards the session token.
func (c *Client) Logout(ctx context.Context) error {
	_, err := call[api.Empty, api.Empty](ctx, c, api.AuthLogoutProcedure, &api.Empty{})
	c.SetToken("")
	return err
}

func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	res, err := call[api.Empty, api.User](ctx, c, api.AuthGetCurrentUserProcedure, &api.Empty{})
	if err != nil {
		return nil, err
	}
	return res.Model(), nil
}

// Computations done by the server

// Balances returns the server-computed balances of a trip and their total.
func (c *Client) Balances(ctx context.Context, tripID string) ([]calculator.WalletBalance, float64, error) {
	res, err := call[api.ByTripRequest, api.BalancesResponse](ctx, c, api.LedgerGetBalancesProcedure, &api.ByTripRequest{TripID: tripID})
	if err != nil {
		return nil, 0, err
	}
	balances := make([]calculator.WalletBalance, len(res.Balances))
	for i, b := range res.Balances {
		balances[i] = b.Model()
	}
	return balances, res.Total, nil
}

// Report returns the server-computed report of a trip.
func (c *Client) Report(ctx context.Context, tripID string, r calculator.DateRange) (calculator.Report, error) {
	res, err := call[api.ReportRequest, api.Report](ctx, c, api.LedgerGetReportProcedure, &api.ReportRequest{
		TripID: tripID,
		Range:  string(r),
	})
	if err != nil {
		return calculator.Report{}, err
	}
	return res.Model(), nil
}

// Rate returns the informational quote for pair.
func (c *Client) Rate(ctx context.Context, pair string) (rates.Quote, error) {
	res, err := call[api.RateRequest, api.RateResponse](ctx, c, api.RateGetRateProcedure, &api.RateRequest{Pair: pair})
	if err != nil {
		return rates.Quote{}, err
	}
	return rates.Quote{Pair: res.Pair, Rate: res.Rate, FetchedAt: res.FetchedAt}, nil
}

// UploadAvatar stores an image and returns its public URL. A non-empty
// walletID also saves the URL on that wallet server-side.
func (c *Client) UploadAvatar(ctx context.Context, walletID, contentType string, data []byte) (string, error) {
	res, err := call[api.UploadAvatarRequest, api.UploadAvatarResponse](ctx, c, api.AssetUploadAvatarProcedure, &api.UploadAvatarRequest{
		WalletID:    walletID,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return "", err
	}
	return res.URL, nil
}
