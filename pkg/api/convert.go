package api

import (
	"time"

	"github.com/mmynk/moneytravel/internal/calculator"
	"github.com/mmynk/moneytravel/internal/models"
)

func TripFromModel(t models.Trip) Trip {
	return Trip{ID: t.ID, Name: t.Name, OwnerID: t.OwnerID, CreatedAt: t.CreatedAt}
}

func (t Trip) Model() models.Trip {
	return models.Trip{ID: t.ID, Name: t.Name, OwnerID: t.OwnerID, CreatedAt: t.CreatedAt}
}

func WalletFromModel(w models.Wallet) Wallet {
	return Wallet{
		ID:                 w.ID,
		TripID:             w.TripID,
		Name:               w.Name,
		Budget:             w.Budget,
		AvatarURL:          w.AvatarURL,
		IncludedInDivision: w.IncludedInDivision,
		CreatedAt:          w.CreatedAt,
	}
}

func (w Wallet) Model() models.Wallet {
	return models.Wallet{
		ID:                 w.ID,
		TripID:             w.TripID,
		Name:               w.Name,
		Budget:             w.Budget,
		AvatarURL:          w.AvatarURL,
		IncludedInDivision: w.IncludedInDivision,
		CreatedAt:          w.CreatedAt,
	}
}

func TransactionFromModel(t models.Transaction) Transaction {
	return Transaction{
		ID:            t.ID,
		TripID:        t.TripID,
		Description:   t.Description,
		Amount:        t.Amount,
		Tax:           t.Tax,
		Date:          t.Date,
		Category:      t.Category,
		Payer:         t.Payer,
		IsShared:      t.IsShared,
		PaymentMethod: t.PaymentMethod,
		Type:          string(t.Type),
	}
}

// Model converts to the domain type. Unknown types are kept as-is so that
// validation reports them.
func (t Transaction) Model() models.Transaction {
	txnType, err := models.ParseTransactionType(t.Type)
	if err != nil {
		txnType = models.TransactionType(t.Type)
	}
	return models.Transaction{
		ID:            t.ID,
		TripID:        t.TripID,
		Description:   t.Description,
		Amount:        t.Amount,
		Tax:           t.Tax,
		Date:          t.Date,
		Category:      t.Category,
		Payer:         t.Payer,
		IsShared:      t.IsShared,
		PaymentMethod: t.PaymentMethod,
		Type:          txnType,
	}
}

func ExchangeFromModel(e models.Exchange) Exchange {
	return Exchange{
		ID:             e.ID,
		TripID:         e.TripID,
		Date:           e.Date,
		OriginCurrency: e.OriginCurrency,
		OriginAmount:   e.OriginAmount,
		TargetAmount:   e.TargetAmount,
		Rate:           e.Rate,
		TargetWallet:   e.Target.String(),
		Location:       e.Location,
	}
}

func (e Exchange) Model() models.Exchange {
	return models.Exchange{
		ID:             e.ID,
		TripID:         e.TripID,
		Date:           e.Date,
		OriginCurrency: e.OriginCurrency,
		OriginAmount:   e.OriginAmount,
		TargetAmount:   e.TargetAmount,
		Rate:           e.Rate,
		Target:         models.ParseTarget(e.TargetWallet),
		Location:       e.Location,
	}
}

func CategoryFromModel(c models.Category) Category {
	return Category{TripID: c.TripID, Name: c.Name, Icon: c.Icon, AutoShared: c.AutoShared}
}

func (c Category) Model() models.Category {
	return models.Category{TripID: c.TripID, Name: c.Name, Icon: c.Icon, AutoShared: c.AutoShared}
}

func PaymentMethodFromModel(p models.PaymentMethod) PaymentMethod {
	return PaymentMethod{TripID: p.TripID, Name: p.Name}
}

func (p PaymentMethod) Model() models.PaymentMethod {
	return models.PaymentMethod{TripID: p.TripID, Name: p.Name}
}

// UserFromModel never exposes the password hash.
func UserFromModel(u *models.User) User {
	return User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   time.Unix(u.CreatedAt, 0).UTC(),
	}
}

func BalancesFromModel(balances []calculator.WalletBalance) []WalletBalance {
	return mapSlice(balances, func(b calculator.WalletBalance) WalletBalance {
		return WalletBalance(b)
	})
}

func (b WalletBalance) Model() calculator.WalletBalance {
	return calculator.WalletBalance(b)
}

func ReportFromModel(r calculator.Report) Report {
	return Report{
		Range:          string(r.Range),
		TotalSpent:     r.TotalSpent,
		TotalTax:       r.TotalTax,
		TaxShare:       r.TaxShare,
		Categories:     sharesFromModel(r.Categories),
		Consumption:    sharesFromModel(r.Consumption),
		CashFlow:       sharesFromModel(r.CashFlow),
		PaymentMethods: sharesFromModel(r.PaymentMethods),
		Transfers: mapSlice(r.Transfers, func(t calculator.Transfer) Transfer {
			return Transfer(t)
		}),
	}
}

func (r Report) Model() calculator.Report {
	return calculator.Report{
		Range:          calculator.DateRange(r.Range),
		TotalSpent:     r.TotalSpent,
		TotalTax:       r.TotalTax,
		TaxShare:       r.TaxShare,
		Categories:     sharesToModel(r.Categories),
		Consumption:    sharesToModel(r.Consumption),
		CashFlow:       sharesToModel(r.CashFlow),
		PaymentMethods: sharesToModel(r.PaymentMethods),
		Transfers: mapSlice(r.Transfers, func(t Transfer) calculator.Transfer {
			return calculator.Transfer(t)
		}),
	}
}

func sharesFromModel(shares []calculator.Share) []Share {
	return mapSlice(shares, func(s calculator.Share) Share { return Share(s) })
}

func sharesToModel(shares []Share) []calculator.Share {
	return mapSlice(shares, func(s Share) calculator.Share { return calculator.Share(s) })
}

// Slice conversions used by services and clients.

func TripsFromModel(trips []models.Trip) []Trip { return mapSlice(trips, TripFromModel) }
func TripsToModel(trips []Trip) []models.Trip { return mapSlice(trips, Trip.Model) }

func WalletsFromModel(wallets []models.Wallet) []Wallet { return mapSlice(wallets, WalletFromModel) }
func WalletsToModel(wallets []Wallet) []models.Wallet { return mapSlice(wallets, Wallet.Model) }

func TransactionsFromModel(txs []models.Transaction) []Transaction {
	return mapSlice(txs, TransactionFromModel)
}
func TransactionsToModel(txs []Transaction) []models.Transaction {
	return mapSlice(txs, Transaction.Model)
}

func ExchangesFromModel(exs []models.Exchange) []Exchange { return mapSlice(exs, ExchangeFromModel) }
func ExchangesToModel(exs []Exchange) []models.Exchange { return mapSlice(exs, Exchange.Model) }

func CategoriesFromModel(cs []models.Category) []Category { return mapSlice(cs, CategoryFromModel) }
func CategoriesToModel(cs []Category) []models.Category { return mapSlice(cs, Category.Model) }

func PaymentMethodsFromModel(ps []models.PaymentMethod) []PaymentMethod {
	return mapSlice(ps, PaymentMethodFromModel)
}
func PaymentMethodsToModel(ps []PaymentMethod) []models.PaymentMethod {
	return mapSlice(ps, PaymentMethod.Model)
}

// mapSlice returns an empty (not nil) slice for empty input so lists encode as [].
func mapSlice[S, T any](in []S, fn func(S) T) []T {
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func CreateWalletRequestFromModel(w models.Wallet) CreateWalletRequest {
	included := w.IncludedInDivision
	return CreateWalletRequest{Wallet: WalletFromModel(w), IncludedInDivision: &included}
}

func (r CreateWalletRequest) Model() models.Wallet {
	w := r.Wallet.Model()
	w.IncludedInDivision = r.IncludedInDivision == nil || *r.IncludedInDivision
	return w
}

func (u User) Model() *models.User {
	return &models.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt.Unix(),
	}
}
