package api

import "time"

// Entities. JSON names follow the persisted column names.

type Trip struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

type Wallet struct {
	ID                 string    `json:"id"`
	TripID             string    `json:"trip_id"`
	Name               string    `json:"name"`
	Budget             float64   `json:"budget"`
	AvatarURL          string    `json:"avatar_url,omitempty"`
	IncludedInDivision bool      `json:"included_in_division"`
	CreatedAt          time.Time `json:"created_at,omitzero"` // zero for legacy wallets
}

type Transaction struct {
	ID            string    `json:"id"`
	TripID        string    `json:"trip_id"`
	Description   string    `json:"description"`
	Amount        float64   `json:"amount"`
	Tax           float64   `json:"tax"`
	Date          time.Time `json:"date,omitzero"`
	Category      string    `json:"category"`
	Payer         string    `json:"payer"`
	IsShared      bool      `json:"is_shared"`
	PaymentMethod string    `json:"payment_method"`
	Type          string    `json:"type"` // "expense" or "income"
}

type Exchange struct {
	ID             string    `json:"id"`
	TripID         string    `json:"trip_id"`
	Date           time.Time `json:"date,omitzero"`
	OriginCurrency string    `json:"origin_currency"`
	OriginAmount   float64   `json:"origin_amount"`
	TargetAmount   float64   `json:"target_amount"`
	Rate           float64   `json:"rate"`
	TargetWallet   string    `json:"target_wallet"` // wallet ID or "both"
	Location       string    `json:"location"`
}

type Category struct {
	TripID     string `json:"trip_id"`
	Name       string `json:"name"`
	Icon       string `json:"icon,omitempty"`
	AutoShared bool   `json:"auto_shared"`
}

type PaymentMethod struct {
	TripID string `json:"trip_id"`
	Name   string `json:"name"`
}

type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
}

// Common requests.

// Empty is used by procedures without a meaningful request or response.
type Empty struct{}

type ByIDRequest struct {
	ID string `json:"id"`
}

type ByTripRequest struct {
	TripID string `json:"trip_id"`
}

type NamedRequest struct {
	TripID string `json:"trip_id"`
	Name   string `json:"name"`
}

type RenameRequest struct {
	TripID  string `json:"trip_id"`
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by Register and Login.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// TripService

type ListTripsRequest struct {
	// OwnerID defaults to the authenticated user.
	OwnerID string `json:"owner_id,omitempty"`
}

type TripList struct {
	Trips []Trip `json:"trips"`
}

// CreateWalletRequest carries a new wallet. An absent included_in_division
// means the wallet shares in divisions.
type CreateWalletRequest struct {
	Wallet
	IncludedInDivision *bool `json:"included_in_division,omitempty"`
}

type WalletList struct {
	Wallets []Wallet `json:"wallets"`
}

// LedgerService

type TransactionList struct {
	Transactions []Transaction `json:"transactions"`
}

type ExchangeList struct {
	Exchanges []Exchange `json:"exchanges"`
}

type WalletBalance struct {
	WalletID    string  `json:"wallet_id"`
	Name        string  `json:"name"`
	Budget      float64 `json:"budget"`
	ExchangedIn float64 `json:"exchanged_in"`
	Spent       float64 `json:"spent"`
	Received    float64 `json:"received"`
	Balance     float64 `json:"balance"`
}

type BalancesResponse struct {
	Balances []WalletBalance `json:"balances"`
	Total    float64         `json:"total"`
}

type ReportRequest struct {
	TripID string `json:"trip_id"`
	// Range is "all", "this_month" or "last_month". Empty means all.
	Range string `json:"range,omitempty"`
}

type Share struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type Report struct {
	Range          string     `json:"range"`
	TotalSpent     float64    `json:"total_spent"`
	TotalTax       float64    `json:"total_tax"`
	TaxShare       float64    `json:"tax_share"`
	Categories     []Share    `json:"categories"`
	Consumption    []Share    `json:"consumption"`
	CashFlow       []Share    `json:"cash_flow"`
	PaymentMethods []Share    `json:"payment_methods"`
	Transfers      []Transfer `json:"transfers"`
}

// CatalogService

type CategoryList struct {
	Categories []Category `json:"categories"`
}

type PaymentMethodList struct {
	PaymentMethods []PaymentMethod `json:"payment_methods"`
}

type SetAutoSharedRequest struct {
	TripID     string `json:"trip_id"`
	Name       string `json:"name"`
	AutoShared bool   `json:"auto_shared"`
}

// AssetService

type UploadAvatarRequest struct {
	WalletID    string `json:"wallet_id"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"` // base64 in JSON
}

type UploadAvatarResponse struct {
	URL string `json:"url"`
}

// RateService

type RateRequest struct {
	// Pair defaults to "USD-BRL".
	Pair string `json:"pair,omitempty"`
}

type RateResponse struct {
	// Pair is the currency pair, e.g. "USD-BRL".
	Pair      string    `json:"pair"`
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetched_at"`
}
