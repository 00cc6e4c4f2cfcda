package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/moneytravel/internal/auth"
	"github.com/mmynk/moneytravel/internal/avatars"
	"github.com/mmynk/moneytravel/internal/events"
	"github.com/mmynk/moneytravel/internal/middleware"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/rates"
	"github.com/mmynk/moneytravel/internal/storage/sqlstore"
	"github.com/mmynk/moneytravel/pkg/api"
)

type fixedRate struct{}

func (fixedRate) Rate(_ context.Context, pair string) (rates.Quote, error) {
	if pair != "" && pair != rates.DefaultPair {
		return rates.Quote{}, rates.ErrUnknownPair
	}
	return rates.Quote{Pair: rates.DefaultPair, Rate: 5.5, FetchedAt: time.Unix(1700000000, 0).UTC()}, nil
}

type testEnv struct {
	url    string
	token  string
	events *recorder
}

// recorder keeps every published event.
type recorder struct {
	mu        sync.Mutex
	published []events.Event
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.published = append(r.published, e)
	return nil
}

func (r *recorder) Close() error { return nil }

// Drain returns and forgets the events published so far.
func (r *recorder) Drain() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.published
	r.published = nil
	return out
}

// newTestEnv serves every service over a temp-file SQLite database with the
// production auth interceptor.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlstore.Open(sqlstore.DialectSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret-test-secret-test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	rec := &recorder{}
	interceptors := connect.WithInterceptors(middleware.RequireAuth(jwtManager, api.PublicProcedures...))

	mux := http.NewServeMux()
	mux.Handle(NewAuthService(authenticator, jwtManager, logger).Handler(interceptors))
	mux.Handle(NewTripService(store, rec, logger).Handler(interceptors))
	mux.Handle(NewLedgerService(store, rec, logger).Handler(interceptors))
	mux.Handle(NewCatalogService(store, rec, logger).Handler(interceptors))
	mux.Handle(NewAssetService(avatars.NewStore(afero.NewMemMapFs(), "http://avatars.test"), store, rec, logger).Handler(interceptors))
	mux.Handle(NewRateService(fixedRate{}, logger).Handler(interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{url: server.URL, events: rec}
}

func call[Req, Res any](env *testEnv, procedure string, req *Req) (*Res, error) {
	client := connect.NewClient[Req, Res](http.DefaultClient, env.url+procedure, connect.WithCodec(api.JSONCodec{}))
	r := connect.NewRequest(req)
	if env.token != "" {
		r.Header().Set("Authorization", auth.BearerHeader(env.token))
	}
	res, err := client.CallUnary(context.Background(), r)
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func mustCall[Req, Res any](t *testing.T, env *testEnv, procedure string, req *Req) *Res {
	t.Helper()
	res, err := call[Req, Res](env, procedure, req)
	require.NoError(t, err, procedure)
	return res
}

// login registers a fresh user and keeps its token on env.
func login(t *testing.T, env *testEnv) api.User {
	t.Helper()
	session := mustCall[api.RegisterRequest, api.Session](t, env, api.AuthRegisterProcedure, &api.RegisterRequest{
		Email:       "ana@example.com",
		DisplayName: "Ana",
		Password:    "correct horse",
	})
	env.token = session.Token
	return session.User
}

func createTrip(t *testing.T, env *testEnv, name string) api.Trip {
	t.Helper()
	return *mustCall[api.Trip, api.Trip](t, env, api.TripCreateTripProcedure, &api.Trip{Name: name})
}

func createWallet(t *testing.T, env *testEnv, tripID, name string, createdAt time.Time) api.Wallet {
	t.Helper()
	return *mustCall[api.CreateWalletRequest, api.Wallet](t, env, api.TripCreateWalletProcedure, &api.CreateWalletRequest{
		Wallet: api.Wallet{TripID: tripID, Name: name, CreatedAt: createdAt},
	})
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 12, 0, 0, 0, time.UTC)
}

func assertCode(t *testing.T, err error, code connect.Code) *connect.Error {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, connect.CodeOf(err), err.Error())
	var ce *connect.Error
	require.ErrorAs(t, err, &ce)
	return ce
}

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t)

	_, err := call[api.Empty, api.User](env, api.AuthGetCurrentUserProcedure, &api.Empty{})
	assertCode(t, err, connect.CodeUnauthenticated)

	user := login(t, env)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEmpty(t, env.token)

	me := mustCall[api.Empty, api.User](t, env, api.AuthGetCurrentUserProcedure, &api.Empty{})
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "Ana", me.DisplayName)

	_, err = call[api.RegisterRequest, api.Session](env, api.AuthRegisterProcedure, &api.RegisterRequest{
		Email: "ANA@example.com", DisplayName: "Ana", Password: "another password",
	})
	assertCode(t, err, connect.CodeAlreadyExists)

	_, err = call[api.RegisterRequest, api.Session](env, api.AuthRegisterProcedure, &api.RegisterRequest{
		Email: "bia@example.com", DisplayName: "Bia", Password: "short",
	})
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = call[api.LoginRequest, api.Session](env, api.AuthLoginProcedure, &api.LoginRequest{
		Email: "ana@example.com", Password: "wrong password",
	})
	assertCode(t, err, connect.CodeUnauthenticated)

	session := mustCall[api.LoginRequest, api.Session](t, env, api.AuthLoginProcedure, &api.LoginRequest{
		Email: "Ana@Example.com", Password: "correct horse",
	})
	assert.Equal(t, user.ID, session.User.ID)

	mustCall[api.Empty, api.Empty](t, env, api.AuthLogoutProcedure, &api.Empty{})
}

func TestTripsAndWallets(t *testing.T) {
	env := newTestEnv(t)
	user := login(t, env)

	trip := createTrip(t, env, "Lisbon")
	assert.Equal(t, user.ID, trip.OwnerID)
	assert.False(t, trip.CreatedAt.IsZero())

	list := mustCall[api.ListTripsRequest, api.TripList](t, env, api.TripListTripsProcedure, &api.ListTripsRequest{})
	require.Len(t, list.Trips, 1)
	assert.Equal(t, trip.ID, list.Trips[0].ID)

	_, err := call[api.Trip, api.Trip](env, api.TripUpdateTripProcedure, &api.Trip{ID: trip.ID, Name: "  "})
	ce := assertCode(t, err, connect.CodeInvalidArgument)
	assert.Equal(t, "name", ce.Meta().Get(api.ErrorFieldHeader))

	renamed := mustCall[api.Trip, api.Trip](t, env, api.TripUpdateTripProcedure, &api.Trip{ID: trip.ID, Name: "Porto"})
	assert.Equal(t, "Porto", renamed.Name)
	assert.Equal(t, user.ID, renamed.OwnerID)

	// Omitted included_in_division defaults to true; omitted created_at to now.
	wallet := createWallet(t, env, trip.ID, "Ana", time.Time{})
	assert.True(t, wallet.IncludedInDivision)
	assert.False(t, wallet.CreatedAt.IsZero())

	excluded := false
	other := mustCall[api.CreateWalletRequest, api.Wallet](t, env, api.TripCreateWalletProcedure, &api.CreateWalletRequest{
		Wallet:             api.Wallet{TripID: trip.ID, Name: "Bia"},
		IncludedInDivision: &excluded,
	})
	assert.False(t, other.IncludedInDivision)

	_, err = call[api.CreateWalletRequest, api.Wallet](env, api.TripCreateWalletProcedure, &api.CreateWalletRequest{
		Wallet: api.Wallet{TripID: "missing", Name: "Cai"},
	})
	assertCode(t, err, connect.CodeNotFound)

	wallet.Budget = 300
	wallet.TripID = "ignored"
	updated := mustCall[api.Wallet, api.Wallet](t, env, api.TripUpdateWalletProcedure, &wallet)
	assert.Equal(t, 300.0, updated.Budget)
	assert.Equal(t, trip.ID, updated.TripID)

	// Ana has a 300 budget, so only Bia can go.
	_, err = call[api.ByIDRequest, api.Empty](env, api.TripDeleteWalletProcedure, &api.ByIDRequest{ID: wallet.ID})
	ce = assertCode(t, err, connect.CodeFailedPrecondition)
	assert.Equal(t, api.ReasonWalletHasBalance, ce.Meta().Get(api.ErrorReasonHeader))

	mustCall[api.ByIDRequest, api.Empty](t, env, api.TripDeleteWalletProcedure, &api.ByIDRequest{ID: other.ID})

	_, err = call[api.ByIDRequest, api.Empty](env, api.TripDeleteWalletProcedure, &api.ByIDRequest{ID: wallet.ID})
	ce = assertCode(t, err, connect.CodeFailedPrecondition)
	assert.Equal(t, api.ReasonLastWallet, ce.Meta().Get(api.ErrorReasonHeader))

	wallets := mustCall[api.ByTripRequest, api.WalletList](t, env, api.TripListWalletsProcedure, &api.ByTripRequest{TripID: trip.ID})
	require.Len(t, wallets.Wallets, 1)

	mustCall[api.ByIDRequest, api.Empty](t, env, api.TripDeleteTripProcedure, &api.ByIDRequest{ID: trip.ID})
	_, err = call[api.ByIDRequest, api.Trip](env, api.TripGetTripProcedure, &api.ByIDRequest{ID: trip.ID})
	assertCode(t, err, connect.CodeNotFound)

	var types []events.Type
	for _, e := range env.events.Drain() {
		types = append(types, e.Type)
		assert.Equal(t, user.ID, e.UserID)
	}
	assert.Equal(t, []events.Type{
		events.TripCreated,
		events.TripUpdated,
		events.WalletCreated,
		events.WalletCreated,
		events.WalletUpdated,
		events.WalletDeleted,
		events.TripDeleted,
	}, types)
}

func TestBalancesAreTimeGated(t *testing.T) {
	env := newTestEnv(t)
	login(t, env)

	trip := createTrip(t, env, "Rio")
	a := createWallet(t, env, trip.ID, "A", day(1))
	b := createWallet(t, env, trip.ID, "B", day(10))

	expense := func(amount float64, d int) {
		mustCall[api.Transaction, api.Transaction](t, env, api.LedgerCreateTransactionProcedure, &api.Transaction{
			TripID:      trip.ID,
			Description: "Dinner",
			Amount:      amount,
			Date:        day(d),
			Category:    "Food",
			Payer:       a.ID,
			IsShared:    true,
		})
	}
	expense(100, 5)
	expense(50, 15)

	ex := mustCall[api.Exchange, api.Exchange](t, env, api.LedgerCreateExchangeProcedure, &api.Exchange{
		TripID:         trip.ID,
		Date:           day(20),
		OriginCurrency: "BRL",
		OriginAmount:   1100,
		TargetAmount:   200,
		TargetWallet:   models.AllEligibleWire,
		Location:       "Wise",
	})
	assert.InDelta(t, 5.5, ex.Rate, 1e-9)

	res := mustCall[api.ByTripRequest, api.BalancesResponse](t, env, api.LedgerGetBalancesProcedure, &api.ByTripRequest{TripID: trip.ID})
	require.Len(t, res.Balances, 2)
	got := map[string]float64{}
	for _, b := range res.Balances {
		got[b.WalletID] = b.Balance
	}
	assert.InDelta(t, -25, got[a.ID], 1e-9)
	assert.InDelta(t, 75, got[b.ID], 1e-9)
	assert.InDelta(t, 50, res.Total, 1e-9)

	_, err := call[api.Exchange, api.Exchange](env, api.LedgerCreateExchangeProcedure, &api.Exchange{
		TripID:         trip.ID,
		OriginCurrency: "BRL",
		OriginAmount:   10,
		TargetAmount:   2,
		TargetWallet:   "no-such-wallet",
	})
	ce := assertCode(t, err, connect.CodeInvalidArgument)
	assert.Equal(t, "target_wallet", ce.Meta().Get(api.ErrorFieldHeader))

	_, err = call[api.Transaction, api.Transaction](env, api.LedgerCreateTransactionProcedure, &api.Transaction{
		TripID: trip.ID, Description: "Taxi", Amount: -3, Category: "Transport", Payer: a.ID,
	})
	ce = assertCode(t, err, connect.CodeInvalidArgument)
	assert.Equal(t, "amount", ce.Meta().Get(api.ErrorFieldHeader))
}

func TestTransactionUpdatesAndReport(t *testing.T) {
	env := newTestEnv(t)
	login(t, env)

	trip := createTrip(t, env, "Rio")
	a := createWallet(t, env, trip.ID, "A", day(1))
	b := createWallet(t, env, trip.ID, "B", day(1))

	tx := mustCall[api.Transaction, api.Transaction](t, env, api.LedgerCreateTransactionProcedure, &api.Transaction{
		TripID:        trip.ID,
		Description:   "Market",
		Amount:        80,
		Tax:           8,
		Date:          day(3),
		Category:      "Food",
		Payer:         a.ID,
		IsShared:      true,
		PaymentMethod: "Cash",
	})
	assert.Equal(t, "expense", tx.Type)

	mustCall[api.Transaction, api.Transaction](t, env, api.LedgerCreateTransactionProcedure, &api.Transaction{
		TripID:      trip.ID,
		Description: "Refund",
		Amount:      20,
		Date:        day(4),
		Category:    "Food",
		Payer:       b.ID,
		Type:        "income",
	})

	tx.Amount = 100
	tx.Tax = 10
	mustCall[api.Transaction, api.Transaction](t, env, api.LedgerUpdateTransactionProcedure, tx)

	noDate := *tx
	noDate.Date = time.Time{}
	_, err := call[api.Transaction, api.Transaction](env, api.LedgerUpdateTransactionProcedure, &noDate)
	assertCode(t, err, connect.CodeInvalidArgument)

	list := mustCall[api.ByTripRequest, api.TransactionList](t, env, api.LedgerListTransactionsProcedure, &api.ByTripRequest{TripID: trip.ID})
	require.Len(t, list.Transactions, 2)
	assert.Equal(t, "Refund", list.Transactions[0].Description, "newest first")

	report := mustCall[api.ReportRequest, api.Report](t, env, api.LedgerGetReportProcedure, &api.ReportRequest{TripID: trip.ID})
	assert.Equal(t, "all", report.Range)
	assert.InDelta(t, 80, report.TotalSpent, 1e-9)
	assert.InDelta(t, 10, report.TotalTax, 1e-9)
	require.Len(t, report.Categories, 1)
	assert.Equal(t, "Food", report.Categories[0].Name)
	assert.InDelta(t, 80, report.Categories[0].Value, 1e-9)

	_, err = call[api.ReportRequest, api.Report](env, api.LedgerGetReportProcedure, &api.ReportRequest{TripID: trip.ID, Range: "forever"})
	ce := assertCode(t, err, connect.CodeInvalidArgument)
	assert.Equal(t, "range", ce.Meta().Get(api.ErrorFieldHeader))

	mustCall[api.ByIDRequest, api.Empty](t, env, api.LedgerDeleteTransactionProcedure, &api.ByIDRequest{ID: tx.ID})
	_, err = call[api.ByIDRequest, api.Empty](env, api.LedgerDeleteTransactionProcedure, &api.ByIDRequest{ID: tx.ID})
	assertCode(t, err, connect.CodeNotFound)
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t)
	login(t, env)
	trip := createTrip(t, env, "Rio")

	mustCall[api.Category, api.Category](t, env, api.CatalogCreateCategoryProcedure, &api.Category{TripID: trip.ID, Name: "Food", Icon: "utensils"})
	_, err := call[api.Category, api.Category](env, api.CatalogCreateCategoryProcedure, &api.Category{TripID: trip.ID, Name: "Food"})
	ce := assertCode(t, err, connect.CodeAlreadyExists)
	assert.Equal(t, api.ReasonDuplicateName, ce.Meta().Get(api.ErrorReasonHeader))

	mustCall[api.RenameRequest, api.Empty](t, env, api.CatalogRenameCategoryProcedure, &api.RenameRequest{TripID: trip.ID, OldName: "Food", NewName: "Meals"})
	mustCall[api.SetAutoSharedRequest, api.Empty](t, env, api.CatalogSetAutoSharedProcedure, &api.SetAutoSharedRequest{TripID: trip.ID, Name: "Meals", AutoShared: true})

	categories := mustCall[api.ByTripRequest, api.CategoryList](t, env, api.CatalogListCategoriesProcedure, &api.ByTripRequest{TripID: trip.ID})
	require.Len(t, categories.Categories, 1)
	assert.Equal(t, "Meals", categories.Categories[0].Name)
	assert.Equal(t, "utensils", categories.Categories[0].Icon)
	assert.True(t, categories.Categories[0].AutoShared)

	_, err = call[api.RenameRequest, api.Empty](env, api.CatalogRenameCategoryProcedure, &api.RenameRequest{TripID: trip.ID, OldName: "Meals"})
	assertCode(t, err, connect.CodeInvalidArgument)

	_, err = call[api.NamedRequest, api.Empty](env, api.CatalogDeleteCategoryProcedure, &api.NamedRequest{TripID: trip.ID, Name: "Food"})
	assertCode(t, err, connect.CodeNotFound)

	mustCall[api.PaymentMethod, api.PaymentMethod](t, env, api.CatalogCreatePaymentMethodProcedure, &api.PaymentMethod{TripID: trip.ID, Name: "Cash"})
	mustCall[api.RenameRequest, api.Empty](t, env, api.CatalogRenamePaymentMethodProcedure, &api.RenameRequest{TripID: trip.ID, OldName: "Cash", NewName: "Pix"})
	methods := mustCall[api.ByTripRequest, api.PaymentMethodList](t, env, api.CatalogListPaymentMethodsProcedure, &api.ByTripRequest{TripID: trip.ID})
	require.Len(t, methods.PaymentMethods, 1)
	assert.Equal(t, "Pix", methods.PaymentMethods[0].Name)

	mustCall[api.NamedRequest, api.Empty](t, env, api.CatalogDeletePaymentMethodProcedure, &api.NamedRequest{TripID: trip.ID, Name: "Pix"})
	mustCall[api.NamedRequest, api.Empty](t, env, api.CatalogDeleteCategoryProcedure, &api.NamedRequest{TripID: trip.ID, Name: "Meals"})
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t)
	login(t, env)
	trip := createTrip(t, env, "Rio")
	wallet := createWallet(t, env, trip.ID, "Ana", time.Time{})

	res := mustCall[api.UploadAvatarRequest, api.UploadAvatarResponse](t, env, api.AssetUploadAvatarProcedure, &api.UploadAvatarRequest{
		WalletID: wallet.ID,
		Data:     []byte("\x89PNG\r\n\x1a\n0000IHDR"),
	})
	assert.True(t, strings.HasPrefix(res.URL, "http://avatars.test/avatars/"), res.URL)

	got := mustCall[api.ByIDRequest, api.Wallet](t, env, api.TripGetWalletProcedure, &api.ByIDRequest{ID: wallet.ID})
	assert.Equal(t, res.URL, got.AvatarURL)

	_, err := call[api.UploadAvatarRequest, api.UploadAvatarResponse](env, api.AssetUploadAvatarProcedure, &api.UploadAvatarRequest{})
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestGetRate(t *testing.T) {
	env := newTestEnv(t)

	_, err := call[api.RateRequest, api.RateResponse](env, api.RateGetRateProcedure, &api.RateRequest{})
	assertCode(t, err, connect.CodeUnauthenticated)

	login(t, env)
	res := mustCall[api.RateRequest, api.RateResponse](t, env, api.RateGetRateProcedure, &api.RateRequest{})
	assert.Equal(t, "USD-BRL", res.Pair)
	assert.InDelta(t, 5.5, res.Rate, 1e-9)

	_, err = call[api.RateRequest, api.RateResponse](env, api.RateGetRateProcedure, &api.RateRequest{Pair: "EUR-USD"})
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestTransactionPayerMustBelongToTrip(t *testing.T) {
	env := newTestEnv(t)
	login(t, env)

	rio := createTrip(t, env, "Rio")
	lima := createTrip(t, env, "Lima")
	a := createWallet(t, env, rio.ID, "A", day(1))
	other := createWallet(t, env, lima.ID, "Other", day(1))

	for _, payer := range []string{"no-such-wallet", other.ID} {
		_, err := call[api.Transaction, api.Transaction](env, api.LedgerCreateTransactionProcedure, &api.Transaction{
			TripID: rio.ID, Description: "Tour", Amount: 40, Date: day(2), Category: "Fun", Payer: payer,
		})
		ce := assertCode(t, err, connect.CodeInvalidArgument)
		assert.Equal(t, "payer", ce.Meta().Get(api.ErrorFieldHeader), payer)
	}

	tx := mustCall[api.Transaction, api.Transaction](t, env, api.LedgerCreateTransactionProcedure, &api.Transaction{
		TripID: rio.ID, Description: "Tour", Amount: 0, Date: day(2), Category: "Fun", Payer: a.ID,
	})
	assert.Zero(t, tx.Amount)

	tx.Payer = other.ID
	_, err := call[api.Transaction, api.Transaction](env, api.LedgerUpdateTransactionProcedure, tx)
	ce := assertCode(t, err, connect.CodeInvalidArgument)
	assert.Equal(t, "payer", ce.Meta().Get(api.ErrorFieldHeader))
}
