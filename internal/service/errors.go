package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/moneytravel/internal/auth"
	"github.com/mmynk/moneytravel/internal/avatars"
	"github.com/mmynk/moneytravel/internal/ledger"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/rates"
	"github.com/mmynk/moneytravel/internal/storage"
	"github.com/mmynk/moneytravel/pkg/api"
)

// toConnectError maps domain errors to Connect codes. Typed errors also
// carry metadata so the client can rebuild them.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		ce := connect.NewError(connect.CodeInvalidArgument, err)
		ce.Meta().Set(api.ErrorFieldHeader, validation.Field)
		ce.Meta().Set(api.ErrorReasonHeader, validation.Reason)
		return ce
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrAlreadyExists), errors.Is(err, ledger.ErrDuplicateName):
		return withReason(connect.CodeAlreadyExists, err, api.ReasonDuplicateName)
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ledger.ErrLastWallet):
		return withReason(connect.CodeFailedPrecondition, err, api.ReasonLastWallet)
	case errors.Is(err, ledger.ErrWalletHasBalance):
		return withReason(connect.CodeFailedPrecondition, err, api.ReasonWalletHasBalance)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	case errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, auth.ErrInvalidEmail),
		errors.Is(err, avatars.ErrEmpty),
		errors.Is(err, avatars.ErrTooLarge),
		errors.Is(err, avatars.ErrUnsupportedType),
		errors.Is(err, rates.ErrUnknownPair):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, rates.ErrRateLimited):
		return connect.NewError(connect.CodeResourceExhausted, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func withReason(code connect.Code, err error, reason string) *connect.Error {
	ce := connect.NewError(code, err)
	ce.Meta().Set(api.ErrorReasonHeader, reason)
	return ce
}
