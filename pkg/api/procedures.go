package api

// Fully-qualified service names.
const (
	AuthServiceName    = "moneytravel.v1.AuthService"
	TripServiceName    = "moneytravel.v1.TripService"
	LedgerServiceName  = "moneytravel.v1.LedgerService"
	CatalogServiceName = "moneytravel.v1.CatalogService"
	AssetServiceName   = "moneytravel.v1.AssetService"
	RateServiceName    = "moneytravel.v1.RateService"
)

// AuthService procedures.
const (
	AuthRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthLogoutProcedure         = "/" + AuthServiceName + "/Logout"
	AuthGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

// TripService procedures.
const (
	TripListTripsProcedure    = "/" + TripServiceName + "/ListTrips"
	TripGetTripProcedure      = "/" + TripServiceName + "/GetTrip"
	TripCreateTripProcedure   = "/" + TripServiceName + "/CreateTrip"
	TripUpdateTripProcedure   = "/" + TripServiceName + "/UpdateTrip"
	TripDeleteTripProcedure   = "/" + TripServiceName + "/DeleteTrip"
	TripListWalletsProcedure  = "/" + TripServiceName + "/ListWallets"
	TripGetWalletProcedure    = "/" + TripServiceName + "/GetWallet"
	TripCreateWalletProcedure = "/" + TripServiceName + "/CreateWallet"
	TripUpdateWalletProcedure = "/" + TripServiceName + "/UpdateWallet"
	TripDeleteWalletProcedure = "/" + TripServiceName + "/DeleteWallet"
)

// LedgerService procedures.
const (
	LedgerListTransactionsProcedure  = "/" + LedgerServiceName + "/ListTransactions"
	LedgerCreateTransactionProcedure = "/" + LedgerServiceName + "/CreateTransaction"
	LedgerUpdateTransactionProcedure = "/" + LedgerServiceName + "/UpdateTransaction"
	LedgerDeleteTransactionProcedure = "/" + LedgerServiceName + "/DeleteTransaction"
	LedgerListExchangesProcedure     = "/" + LedgerServiceName + "/ListExchanges"
	LedgerCreateExchangeProcedure    = "/" + LedgerServiceName + "/CreateExchange"
	LedgerUpdateExchangeProcedure    = "/" + LedgerServiceName + "/UpdateExchange"
	LedgerDeleteExchangeProcedure    = "/" + LedgerServiceName + "/DeleteExchange"
	LedgerGetBalancesProcedure       = "/" + LedgerServiceName + "/GetBalances"
	LedgerGetReportProcedure         = "/" + LedgerServiceName + "/GetReport"
)

// CatalogService procedures.
const (
	CatalogListCategoriesProcedure      = "/" + CatalogServiceName + "/ListCategories"
	CatalogCreateCategoryProcedure      = "/" + CatalogServiceName + "/CreateCategory"
	CatalogRenameCategoryProcedure      = "/" + CatalogServiceName + "/RenameCategory"
	CatalogDeleteCategoryProcedure      = "/" + CatalogServiceName + "/DeleteCategory"
	CatalogSetAutoSharedProcedure       = "/" + CatalogServiceName + "/SetAutoShared"
	CatalogListPaymentMethodsProcedure  = "/" + CatalogServiceName + "/ListPaymentMethods"
	CatalogCreatePaymentMethodProcedure = "/" + CatalogServiceName + "/CreatePaymentMethod"
	CatalogRenamePaymentMethodProcedure = "/" + CatalogServiceName + "/RenamePaymentMethod"
	CatalogDeletePaymentMethodProcedure = "/" + CatalogServiceName + "/DeletePaymentMethod"
)

// AssetService and RateService procedures.
const (
	AssetUploadAvatarProcedure = "/" + AssetServiceName + "/UploadAvatar"
	RateGetRateProcedure       = "/" + RateServiceName + "/GetRate"
)

// PublicProcedures can be called without a session token.
var PublicProcedures = []string{
	AuthRegisterProcedure,
	AuthLoginProcedure,
}

// Error metadata. Handlers attach these headers to errors so clients can
// rebuild typed errors from a Connect code.
const (
	// ErrorFieldHeader names the invalid field of an InvalidArgument error.
	ErrorFieldHeader = "Moneytravel-Error-Field"
	// ErrorReasonHeader carries a machine-readable reason.
	ErrorReasonHeader = "Moneytravel-Error-Reason"
)

// Reasons sent in ErrorReasonHeader.
const (
	ReasonLastWallet       = "last_wallet"
	ReasonWalletHasBalance = "wallet_has_balance"
	ReasonDuplicateName    = "duplicate_name"
)
