package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/moneytravel/internal/events"
	"github.com/mmynk/moneytravel/internal/ledger"
	"github.com/mmynk/moneytravel/internal/middleware"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
	"github.com/mmynk/moneytravel/pkg/api"
)

// TripService manages trips and their wallets.
type TripService struct {
	store storage.TripStore
	notifier
}

// NewTripService creates a TripService on store.
func NewTripService(store storage.TripStore, publisher events.Publisher, logger *slog.Logger) *TripService {
	return &TripService{store: store, notifier: notifier{publisher: publisher, logger: logger}}
}

// Handler returns the mount path and handler of the service.
func (s *TripService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	handle(r, api.TripListTripsProcedure, s.ListTrips)
	handle(r, api.TripGetTripProcedure, s.GetTrip)
	handle(r, api.TripCreateTripProcedure, s.CreateTrip)
	handle(r, api.TripUpdateTripProcedure, s.UpdateTrip)
	handle(r, api.TripDeleteTripProcedure, s.DeleteTrip)
	handle(r, api.TripListWalletsProcedure, s.ListWallets)
	handle(r, api.TripGetWalletProcedure, s.GetWallet)
	handle(r, api.TripCreateWalletProcedure, s.CreateWallet)
	handle(r, api.TripUpdateWalletProcedure, s.UpdateWallet)
	handle(r, api.TripDeleteWalletProcedure, s.DeleteWallet)
	return r.path(api.TripServiceName)
}

// ListTrips lists the trips of the requested owner, defaulting to the caller.
func (s *TripService) ListTrips(ctx context.Context, req *api.ListTripsRequest) (*api.TripList, error) {
	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = middleware.GetUserID(ctx)
	}

	trips, err := s.store.ListTrips(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("ListTrips successful", "owner_id", ownerID, "count", len(trips))
	return &api.TripList{Trips: api.TripsFromModel(trips)}, nil
}

func (s *TripService) GetTrip(ctx context.Context, req *api.ByIDRequest) (*api.Trip, error) {
	trip, err := s.store.GetTrip(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	res := api.TripFromModel(*trip)
	return &res, nil
}

// CreateTrip creates a trip owned by the caller.
func (s *TripService) CreateTrip(ctx context.Context, req *api.Trip) (*api.Trip, error) {
	trip := models.Trip{Name: req.Name, OwnerID: middleware.GetUserID(ctx)}
	if err := trip.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateTrip(ctx, &trip); err != nil {
		return nil, err
	}

	s.logger.Info("Trip created", "trip_id", trip.ID, "name", trip.Name)
	s.publish(ctx, events.TripCreated, trip.ID, trip.ID)

	res := api.TripFromModel(trip)
	return &res, nil
}

// UpdateTrip renames a trip.
func (s *TripService) UpdateTrip(ctx context.Context, req *api.Trip) (*api.Trip, error) {
	existing, err := s.store.GetTrip(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	trip := *existing
	trip.Name = req.Name
	if err := trip.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateTrip(ctx, &trip); err != nil {
		return nil, err
	}

	s.logger.Info("Trip updated", "trip_id", trip.ID)
	s.publish(ctx, events.TripUpdated, trip.ID, trip.ID)

	res := api.TripFromModel(trip)
	return &res, nil
}

// DeleteTrip removes a trip and everything scoped to it.
func (s *TripService) DeleteTrip(ctx context.Context, req *api.ByIDRequest) (*api.Empty, error) {
	if err := s.store.DeleteTrip(ctx, req.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Trip deleted", "trip_id", req.ID)
	s.publish(ctx, events.TripDeleted, req.ID, req.ID)
	return &api.Empty{}, nil
}

func (s *TripService) ListWallets(ctx context.Context, req *api.ByTripRequest) (*api.WalletList, error) {
	wallets, err := s.store.ListWallets(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	return &api.WalletList{Wallets: api.WalletsFromModel(wallets)}, nil
}

func (s *TripService) GetWallet(ctx context.Context, req *api.ByIDRequest) (*api.Wallet, error) {
	wallet, err := s.store.GetWallet(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	res := api.WalletFromModel(*wallet)
	return &res, nil
}

// CreateWallet adds a wallet to a trip. A missing creation time defaults to
// now, so the wallet only shares in events from this point on.
func (s *TripService) CreateWallet(ctx context.Context, req *api.CreateWalletRequest) (*api.Wallet, error) {
	wallet := req.Model()
	wallet.ID = ""
	if err := wallet.Validate(); err != nil {
		return nil, err
	}
	if err := requireTrip(ctx, s.store, wallet.TripID); err != nil {
		return nil, err
	}

	if err := s.store.CreateWallet(ctx, &wallet); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet created", "trip_id", wallet.TripID, "wallet_id", wallet.ID, "name", wallet.Name)
	s.publish(ctx, events.WalletCreated, wallet.TripID, wallet.ID)

	res := api.WalletFromModel(wallet)
	return &res, nil
}

// UpdateWallet replaces a wallet's editable fields. The trip and creation
// time never change.
func (s *TripService) UpdateWallet(ctx context.Context, req *api.Wallet) (*api.Wallet, error) {
	existing, err := s.store.GetWallet(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	wallet := req.Model()
	wallet.TripID = existing.TripID
	wallet.CreatedAt = existing.CreatedAt
	if err := wallet.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpdateWallet(ctx, &wallet); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet updated", "trip_id", wallet.TripID, "wallet_id", wallet.ID)
	s.publish(ctx, events.WalletUpdated, wallet.TripID, wallet.ID)

	res := api.WalletFromModel(wallet)
	return &res, nil
}

// DeleteWallet removes a wallet unless it is the trip's last one or its
// balance is not zero.
func (s *TripService) DeleteWallet(ctx context.Context, req *api.ByIDRequest) (*api.Empty, error) {
	wallet, err := s.store.GetWallet(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	snap, err := ledger.Load(ctx, s.store, wallet.TripID)
	if err != nil {
		return nil, err
	}
	if err := ledger.CheckWalletRemoval(snap, wallet.ID); err != nil {
		s.logger.Warn("DeleteWallet rejected", "wallet_id", wallet.ID, "reason", err)
		return nil, err
	}

	if err := s.store.DeleteWallet(ctx, wallet.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Wallet deleted", "trip_id", wallet.TripID, "wallet_id", wallet.ID)
	s.publish(ctx, events.WalletDeleted, wallet.TripID, wallet.ID)
	return &api.Empty{}, nil
}
