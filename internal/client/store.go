package client

import (
	"context"

	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/pkg/api"
)

// Trips

func (c *Client) ListTrips(ctx context.Context, ownerID string) ([]models.Trip, error) {
	res, err := call[api.ListTripsRequest, api.TripList](ctx, c, api.TripListTripsProcedure, &api.ListTripsRequest{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	return api.TripsToModel(res.Trips), nil
}

func (c *Client) GetTrip(ctx context.Context, tripID string) (*models.Trip, error) {
	res, err := call[api.ByIDRequest, api.Trip](ctx, c, api.TripGetTripProcedure, &api.ByIDRequest{ID: tripID})
	if err != nil {
		return nil, err
	}
	trip := res.Model()
	return &trip, nil
}

// CreateTrip creates a trip owned by the logged-in user. The server assigns
// the ID, owner and creation time.
func (c *Client) CreateTrip(ctx context.Context, trip *models.Trip) error {
	req := api.TripFromModel(*trip)
	res, err := call[api.Trip, api.Trip](ctx, c, api.TripCreateTripProcedure, &req)
	if err != nil {
		return err
	}
	*trip = res.Model()
	return nil
}

func (c *Client) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	req := api.TripFromModel(*trip)
	_, err := call[api.Trip, api.Trip](ctx, c, api.TripUpdateTripProcedure, &req)
	return err
}

func (c *Client) DeleteTrip(ctx context.Context, tripID string) error {
	_, err := call[api.ByIDRequest, api.Empty](ctx, c, api.TripDeleteTripProcedure, &api.ByIDRequest{ID: tripID})
	return err
}

// Wallets

func (c *Client) ListWallets(ctx context.Context, tripID string) ([]models.Wallet, error) {
	res, err := call[api.ByTripRequest, api.WalletList](ctx, c, api.TripListWalletsProcedure, &api.ByTripRequest{TripID: tripID})
	if err != nil {
		return nil, err
	}
	return api.WalletsToModel(res.Wallets), nil
}

func (c *Client) GetWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	res, err := call[api.ByIDRequest, api.Wallet](ctx, c, api.TripGetWalletProcedure, &api.ByIDRequest{ID: walletID})
	if err != nil {
		return nil, err
	}
	wallet := res.Model()
	return &wallet, nil
}

func (c *Client) CreateWallet(ctx context.Context, wallet *models.Wallet) error {
	req := api.CreateWalletRequestFromModel(*wallet)
	res, err := call[api.CreateWalletRequest, api.Wallet](ctx, c, api.TripCreateWalletProcedure, &req)
	if err != nil {
		return err
	}
	*wallet = res.Model()
	return nil
}

func (c *Client) UpdateWallet(ctx context.Context, wallet *models.Wallet) error {
	req := api.WalletFromModel(*wallet)
	_, err := call[api.Wallet, api.Wallet](ctx, c, api.TripUpdateWalletProcedure, &req)
	return err
}

func (c *Client) DeleteWallet(ctx context.Context, walletID string) error {
	_, err := call[api.ByIDRequest, api.Empty](ctx, c, api.TripDeleteWalletProcedure, &api.ByIDRequest{ID: walletID})
	return err
}

// Transactions

func (c *Client) ListTransactions(ctx context.Context, tripID string) ([]models.Transaction, error) {
	res, err := call[api.ByTripRequest, api.TransactionList](ctx, c, api.LedgerListTransactionsProcedure, &api.ByTripRequest{TripID: tripID})
	if err != nil {
		return nil, err
	}
	return api.TransactionsToModel(res.Transactions), nil
}

func (c *Client) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	req := api.TransactionFromModel(*tx)
	res, err := call[api.Transaction, api.Transaction](ctx, c, api.LedgerCreateTransactionProcedure, &req)
	if err != nil {
		return err
	}
	*tx = res.Model()
	return nil
}

func (c *Client) UpdateTransaction(ctx context.Context, tx *models.Transaction) error {
	req := api.TransactionFromModel(*tx)
	_, err := call[api.Transaction, api.Transaction](ctx, c, api.LedgerUpdateTransactionProcedure, &req)
	return err
}

func (c *Client) DeleteTransaction(ctx context.Context, txID string) error {
	_, err := call[api.ByIDRequest, api.Empty](ctx, c, api.LedgerDeleteTransactionProcedure, &api.ByIDRequest{ID: txID})
	return err
}

// Exchanges

func (c *Client) ListExchanges(ctx context.Context, tripID string) ([]models.Exchange, error) {
	res, err := call[api.ByTripRequest, api.ExchangeList](ctx, c, api.LedgerListExchangesProcedure, &api.ByTripRequest{TripID: tripID})
	if err != nil {
		return nil, err
	}
	return api.ExchangesToModel(res.Exchanges), nil
}

func (c *Client) CreateExchange(ctx context.Context, ex *models.Exchange) error {
	req := api.ExchangeFromModel(*ex)
	res, err := call[api.Exchange, api.Exchange](ctx, c, api.LedgerCreateExchangeProcedure, &req)
	if err != nil {
		return err
	}
	*ex = res.Model()
	return nil
}

// UpdateExchange sends the exchange and takes back the server-derived rate.
func (c *Client) UpdateExchange(ctx context.Context, ex *models.Exchange) error {
	req := api.ExchangeFromModel(*ex)
	res, err := call[api.Exchange, api.Exchange](ctx, c, api.LedgerUpdateExchangeProcedure, &req)
	if err != nil {
		return err
	}
	ex.Rate = res.Rate
	return nil
}

func (c *Client) DeleteExchange(ctx context.Context, exchangeID string) error {
	_, err := call[api.ByIDRequest, api.Empty](ctx, c, api.LedgerDeleteExchangeProcedure, &api.ByIDRequest{ID: exchangeID})
	return err
}

// Catalog

func (c *Client) ListCategories(ctx context.Context, tripID string) ([]models.Category, error) {
	res, err := call[api.ByTripRequest, api.CategoryList](ctx, c, api.CatalogListCategoriesProcedure, &api.ByTripRequest{TripID: tripID})
	if err != nil {
		return nil, err
	}
	return api.CategoriesToModel(res.Categories), nil
}

func (c *Client) CreateCategory(ctx context.Context, category *models.Category) error {
	req := api.CategoryFromModel(*category)
	_, err := call[api.Category, api.Category](ctx, c, api.CatalogCreateCategoryProcedure, &req)
	return err
}

func (c *Client) RenameCategory(ctx context.Context, tripID, oldName, newName string) error {
	_, err := call[api.RenameRequest, api.Empty](ctx, c, api.CatalogRenameCategoryProcedure, &api.RenameRequest{
		TripID:  tripID,
		OldName: oldName,
		NewName: newName,
	})
	return err
}

func (c *Client) DeleteCategory(ctx context.Context, tripID, name string) error {
	_, err := call[api.NamedRequest, api.Empty](ctx, c, api.CatalogDeleteCategoryProcedure, &api.NamedRequest{TripID: tripID, Name: name})
	return err
}

func (c *Client) SetAutoShared(ctx context.Context, tripID, name string, autoShared bool) error {
	_, err := call[api.SetAutoSharedRequest, api.Empty](ctx, c, api.CatalogSetAutoSharedProcedure, &api.SetAutoSharedRequest{
		TripID:     tripID,
		Name:       name,
		AutoShared: autoShared,
	})
	return err
}

func (c *Client) ListPaymentMethods(ctx context.Context, tripID string) ([]models.PaymentMethod, error) {
	res, err := call[api.ByTripRequest, api.PaymentMethodList](ctx, c, api.CatalogListPaymentMethodsProcedure, &api.ByTripRequest{TripID: tripID})
	if err != nil {
		return nil, err
	}
	return api.PaymentMethodsToModel(res.PaymentMethods), nil
}

func (c *Client) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	req := api.PaymentMethodFromModel(*method)
	_, err := call[api.PaymentMethod, api.PaymentMethod](ctx, c, api.CatalogCreatePaymentMethodProcedure, &req)
	return err
}

func (c *Client) RenamePaymentMethod(ctx context.Context, tripID, oldName, newName string) error {
	_, err := call[api.RenameRequest, api.Empty](ctx, c, api.CatalogRenamePaymentMethodProcedure, &api.RenameRequest{
		TripID:  tripID,
		OldName: oldName,
		NewName: newName,
	})
	return err
}

func (c *Client) DeletePaymentMethod(ctx context.Context, tripID, name string) error {
	_, err := call[api.NamedRequest, api.Empty](ctx, c, api.CatalogDeletePaymentMethodProcedure, &api.NamedRequest{TripID: tripID, Name: name})
	return err
}
