package ledger

import (
	"context"
	"math"
	"slices"

	"github.com/mmynk/moneytravel/internal/calculator"
	"github.com/mmynk/moneytravel/internal/models"
)

// balanceTolerance is the largest balance still shown as zero at two decimals.
const balanceTolerance = 0.005

// AddWallet adds a wallet to the active trip. New wallets are included in
// division and are eligible from now on.
func (s *Session) AddWallet(ctx context.Context, name string, budget float64) (models.Wallet, error) {
	tripID, err := s.view(nil)
	if err != nil {
		return models.Wallet{}, err
	}

	wallet := models.Wallet{
		TripID:             tripID,
		Name:               name,
		Budget:             budget,
		IncludedInDivision: true,
		CreatedAt:          s.now(),
	}
	if err := wallet.Validate(); err != nil {
		return models.Wallet{}, err
	}

	if err := s.backend.CreateWallet(ctx, &wallet); err != nil {
		return models.Wallet{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		snap.wallets = append(snap.wallets, wallet)
	})
	return wallet, nil
}

// RenameWallet changes a wallet's display name.
func (s *Session) RenameWallet(ctx context.Context, walletID, name string) (models.Wallet, error) {
	return s.updateWallet(ctx, walletID, func(w *models.Wallet) { w.Name = name })
}

// SetWalletAvatar stores the public URL of a wallet's picture.
func (s *Session) SetWalletAvatar(ctx context.Context, walletID, avatarURL string) (models.Wallet, error) {
	return s.updateWallet(ctx, walletID, func(w *models.Wallet) { w.AvatarURL = avatarURL })
}

// SetWalletDivision includes or excludes a wallet from shared transactions
// and exchanges.
func (s *Session) SetWalletDivision(ctx context.Context, walletID string, included bool) (models.Wallet, error) {
	return s.updateWallet(ctx, walletID, func(w *models.Wallet) { w.IncludedInDivision = included })
}

// UpdateBudget sets a wallet's baseline. This is the only way to correct a
// balance directly.
func (s *Session) UpdateBudget(ctx context.Context, walletID string, budget float64) (models.Wallet, error) {
	return s.updateWallet(ctx, walletID, func(w *models.Wallet) { w.Budget = budget })
}

// RemoveWallet deletes a wallet. The last wallet of a trip and wallets with a
// nonzero balance are rejected before any backend call.
func (s *Session) RemoveWallet(ctx context.Context, walletID string) error {
	tripID, err := s.view(func(snap *Snapshot) error {
		return CheckWalletRemoval(snap, walletID)
	})
	if err != nil {
		return err
	}

	if err := s.backend.DeleteWallet(ctx, walletID); err != nil {
		return err
	}

	s.apply(tripID, func(snap *Snapshot) {
		snap.wallets = slices.DeleteFunc(snap.wallets, func(w models.Wallet) bool { return w.ID == walletID })
	})
	return nil
}

// CheckWalletRemoval reports why walletID cannot be removed from e, if at all.
func CheckWalletRemoval(e calculator.Entities, walletID string) error {
	wallets := e.Wallets()
	if !slices.ContainsFunc(wallets, func(w models.Wallet) bool { return w.ID == walletID }) {
		return notFound("wallet", walletID)
	}
	if len(wallets) <= 1 {
		return ErrLastWallet
	}
	if math.Abs(calculator.Balance(e, walletID)) >= balanceTolerance {
		return ErrWalletHasBalance
	}
	return nil
}

func (s *Session) updateWallet(ctx context.Context, walletID string, change func(*models.Wallet)) (models.Wallet, error) {
	var wallet models.Wallet
	tripID, err := s.view(func(snap *Snapshot) error {
		w, ok := snap.Wallet(walletID)
		if !ok {
			return notFound("wallet", walletID)
		}
		wallet = w
		return nil
	})
	if err != nil {
		return models.Wallet{}, err
	}

	change(&wallet)
	if err := wallet.Validate(); err != nil {
		return models.Wallet{}, err
	}
	if err := s.backend.UpdateWallet(ctx, &wallet); err != nil {
		return models.Wallet{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		if i := slices.IndexFunc(snap.wallets, func(w models.Wallet) bool { return w.ID == walletID }); i >= 0 {
			snap.wallets[i] = wallet
		}
	})
	return wallet, nil
}
