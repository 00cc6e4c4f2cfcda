package client

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/moneytravel/internal/ledger"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
	"github.com/mmynk/moneytravel/pkg/api"
)

// ErrUnauthenticated is returned when the server rejects the session.
var ErrUnauthenticated = errors.New("not logged in or session expired")

// fromConnectError rebuilds the domain errors the server mapped to codes,
// so callers can keep using errors.Is and errors.As.
func fromConnectError(err error) error {
	var ce *connect.Error
	if !errors.As(err, &ce) {
		return err
	}

	reason := ce.Meta().Get(api.ErrorReasonHeader)
	switch ce.Code() {
	case connect.CodeInvalidArgument:
		if field := ce.Meta().Get(api.ErrorFieldHeader); field != "" {
			return models.NewValidationError(field, reason)
		}
	case connect.CodeNotFound:
		return fmt.Errorf("%s: %w", ce.Message(), storage.ErrNotFound)
	case connect.CodeAlreadyExists:
		if reason == api.ReasonDuplicateName {
			return fmt.Errorf("%s: %w", ce.Message(), storage.ErrAlreadyExists)
		}
	case connect.CodeFailedPrecondition:
		switch reason {
		case api.ReasonLastWallet:
			return ledger.ErrLastWallet
		case api.ReasonWalletHasBalance:
			return ledger.ErrWalletHasBalance
		}
	case connect.CodeUnauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthenticated, ce.Message())
	}
	return err
}
