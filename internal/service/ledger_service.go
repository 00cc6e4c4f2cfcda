package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/moneytravel/internal/calculator"
	"github.com/mmynk/moneytravel/internal/events"
	"github.com/mmynk/moneytravel/internal/ledger"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
	"github.com/mmynk/moneytravel/pkg/api"
)

// LedgerService records transactions and exchanges and computes balances
// and reports from them.
type LedgerService struct {
	store storage.TripStore
	now   func() time.Time
	notifier
}

// NewLedgerService creates a LedgerService on store.
func NewLedgerService(store storage.TripStore, publisher events.Publisher, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:    store,
		now:      time.Now,
		notifier: notifier{publisher: publisher, logger: logger},
	}
}

// Handler returns the mount path and handler of the service.
func (s *LedgerService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	handle(r, api.LedgerListTransactionsProcedure, s.ListTransactions)
	handle(r, api.LedgerCreateTransactionProcedure, s.CreateTransaction)
	handle(r, api.LedgerUpdateTransactionProcedure, s.UpdateTransaction)
	handle(r, api.LedgerDeleteTransactionProcedure, s.DeleteTransaction)
	handle(r, api.LedgerListExchangesProcedure, s.ListExchanges)
	handle(r, api.LedgerCreateExchangeProcedure, s.CreateExchange)
	handle(r, api.LedgerUpdateExchangeProcedure, s.UpdateExchange)
	handle(r, api.LedgerDeleteExchangeProcedure, s.DeleteExchange)
	handle(r, api.LedgerGetBalancesProcedure, s.GetBalances)
	handle(r, api.LedgerGetReportProcedure, s.GetReport)
	return r.path(api.LedgerServiceName)
}

func (s *LedgerService) ListTransactions(ctx context.Context, req *api.ByTripRequest) (*api.TransactionList, error) {
	txs, err := s.store.ListTransactions(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	return &api.TransactionList{Transactions: api.TransactionsFromModel(txs)}, nil
}

// CreateTransaction records an expense or income. A missing date defaults to
// now and a missing type to expense.
func (s *LedgerService) CreateTransaction(ctx context.Context, req *api.Transaction) (*api.Transaction, error) {
	tx := req.Model()
	tx.ID = ""
	if tx.Date.IsZero() {
		tx.Date = s.now()
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if err := requireTrip(ctx, s.store, tx.TripID); err != nil {
		return nil, err
	}
	if err := s.checkPayer(ctx, &tx); err != nil {
		return nil, err
	}

	if err := s.store.CreateTransaction(ctx, &tx); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction created",
		"trip_id", tx.TripID,
		"transaction_id", tx.ID,
		"amount", tx.Amount,
		"type", tx.Type,
		"shared", tx.IsShared,
	)
	s.publish(ctx, events.TransactionCreated, tx.TripID, tx.ID)

	res := api.TransactionFromModel(tx)
	return &res, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, req *api.Transaction) (*api.Transaction, error) {
	tx := req.Model()
	if tx.Date.IsZero() {
		return nil, models.NewValidationError("date", "is required")
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkPayer(ctx, &tx); err != nil {
		return nil, err
	}

	if err := s.store.UpdateTransaction(ctx, &tx); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction updated", "trip_id", tx.TripID, "transaction_id", tx.ID)
	s.publish(ctx, events.TransactionUpdated, tx.TripID, tx.ID)

	res := api.TransactionFromModel(tx)
	return &res, nil
}

// DeleteTransaction removes a transaction. Delete events carry only the
// entity ID.
func (s *LedgerService) DeleteTransaction(ctx context.Context, req *api.ByIDRequest) (*api.Empty, error) {
	if err := s.store.DeleteTransaction(ctx, req.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction deleted", "transaction_id", req.ID)
	s.publish(ctx, events.TransactionDeleted, "", req.ID)
	return &api.Empty{}, nil
}

func (s *LedgerService) ListExchanges(ctx context.Context, req *api.ByTripRequest) (*api.ExchangeList, error) {
	exs, err := s.store.ListExchanges(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	return &api.ExchangeList{Exchanges: api.ExchangesFromModel(exs)}, nil
}

// CreateExchange records a currency exchange into one wallet or all
// eligible wallets.
func (s *LedgerService) CreateExchange(ctx context.Context, req *api.Exchange) (*api.Exchange, error) {
	ex := req.Model()
	ex.ID = ""
	if ex.Date.IsZero() {
		ex.Date = s.now()
	}
	if err := s.validateExchange(ctx, &ex); err != nil {
		return nil, err
	}

	if err := s.store.CreateExchange(ctx, &ex); err != nil {
		return nil, err
	}

	s.logger.Info("Exchange created",
		"trip_id", ex.TripID,
		"exchange_id", ex.ID,
		"target", ex.Target.String(),
		"target_amount", ex.TargetAmount,
	)
	s.publish(ctx, events.ExchangeCreated, ex.TripID, ex.ID)

	res := api.ExchangeFromModel(ex)
	return &res, nil
}

func (s *LedgerService) UpdateExchange(ctx context.Context, req *api.Exchange) (*api.Exchange, error) {
	ex := req.Model()
	if ex.Date.IsZero() {
		return nil, models.NewValidationError("date", "is required")
	}
	if err := s.validateExchange(ctx, &ex); err != nil {
		return nil, err
	}

	if err := s.store.UpdateExchange(ctx, &ex); err != nil {
		return nil, err
	}

	s.logger.Info("Exchange updated", "trip_id", ex.TripID, "exchange_id", ex.ID)
	s.publish(ctx, events.ExchangeUpdated, ex.TripID, ex.ID)

	res := api.ExchangeFromModel(ex)
	return &res, nil
}

func (s *LedgerService) DeleteExchange(ctx context.Context, req *api.ByIDRequest) (*api.Empty, error) {
	if err := s.store.DeleteExchange(ctx, req.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Exchange deleted", "exchange_id", req.ID)
	s.publish(ctx, events.ExchangeDeleted, "", req.ID)
	return &api.Empty{}, nil
}

// checkPayer rejects payers that are not wallets of the transaction's trip.
func (s *LedgerService) checkPayer(ctx context.Context, tx *models.Transaction) error {
	if tx.Payer == "" {
		return nil
	}
	wallet, err := s.store.GetWallet(ctx, tx.Payer)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && wallet.TripID != tx.TripID) {
		return models.NewValidationError("payer", "unknown wallet "+tx.Payer)
	}
	return err
}

// validateExchange checks the fields and that a specific target is a wallet
// of the same trip. The rate is always derived from the amounts.
func (s *LedgerService) validateExchange(ctx context.Context, ex *models.Exchange) error {
	if err := ex.Validate(); err != nil {
		return err
	}
	if err := requireTrip(ctx, s.store, ex.TripID); err != nil {
		return err
	}
	if walletID, ok := ex.Target.WalletID(); ok {
		wallet, err := s.store.GetWallet(ctx, walletID)
		if err != nil || wallet.TripID != ex.TripID {
			return models.NewValidationError("target_wallet", "unknown wallet "+walletID)
		}
	}
	ex.Rate = ex.ComputeRate()
	return nil
}

// GetBalances returns every wallet's derived balance and the trip total.
func (s *LedgerService) GetBalances(ctx context.Context, req *api.ByTripRequest) (*api.BalancesResponse, error) {
	snap, err := ledger.Load(ctx, s.store, req.TripID)
	if err != nil {
		return nil, err
	}

	return &api.BalancesResponse{
		Balances: api.BalancesFromModel(calculator.Balances(snap)),
		Total:    calculator.TotalBalance(snap),
	}, nil
}

// GetReport aggregates the trip's transactions over the requested range.
func (s *LedgerService) GetReport(ctx context.Context, req *api.ReportRequest) (*api.Report, error) {
	r, err := calculator.ParseDateRange(req.Range)
	if err != nil {
		return nil, models.NewValidationError("range", err.Error())
	}

	snap, err := ledger.Load(ctx, s.store, req.TripID)
	if err != nil {
		return nil, err
	}

	res := api.ReportFromModel(calculator.BuildReport(snap, r, s.now()))
	return &res, nil
}
