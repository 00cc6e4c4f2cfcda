package ledger

import "errors"

var (
	// ErrNoActiveTrip is returned by operations that need an active trip.
	ErrNoActiveTrip = errors.New("no active trip")
	// ErrSuperseded is returned by a trip load that finished after a newer
	// switch started. Its data is discarded.
	ErrSuperseded = errors.New("trip switch superseded by a newer one")
	// ErrLastWallet is returned when removing the only wallet of a trip.
	ErrLastWallet = errors.New("cannot remove the last wallet of a trip")
	// ErrWalletHasBalance is returned when removing a wallet whose balance is not zero.
	ErrWalletHasBalance = errors.New("cannot remove a wallet with a nonzero balance")
	// ErrDuplicateName is returned when a category or payment method name is taken.
	ErrDuplicateName = errors.New("name already exists")
)
