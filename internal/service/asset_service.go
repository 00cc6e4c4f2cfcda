package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/moneytravel/internal/events"
	"github.com/mmynk/moneytravel/internal/storage"
	"github.com/mmynk/moneytravel/pkg/api"
)

// AvatarStore stores an image and returns its public URL.
type AvatarStore interface {
	Put(contentType string, data []byte) (string, error)
}

// AssetService accepts avatar uploads.
type AssetService struct {
	avatars AvatarStore
	store   storage.TripStore
	notifier
}

// NewAssetService creates an AssetService.
func NewAssetService(avatars AvatarStore, store storage.TripStore, publisher events.Publisher, logger *slog.Logger) *AssetService {
	return &AssetService{
		avatars:  avatars,
		store:    store,
		notifier: notifier{publisher: publisher, logger: logger},
	}
}

// Handler returns the mount path and handler of the service.
func (s *AssetService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	handle(r, api.AssetUploadAvatarProcedure, s.UploadAvatar)
	return r.path(api.AssetServiceName)
}

// UploadAvatar stores the image and returns its public URL. When a wallet is
// named, the URL is also saved on that wallet.
func (s *AssetService) UploadAvatar(ctx context.Context, req *api.UploadAvatarRequest) (*api.UploadAvatarResponse, error) {
	url, err := s.avatars.Put(req.ContentType, req.Data)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Avatar uploaded", "url", url, "size", len(req.Data))

	if req.WalletID != "" {
		wallet, err := s.store.GetWallet(ctx, req.WalletID)
		if err != nil {
			return nil, err
		}
		wallet.AvatarURL = url
		if err := s.store.UpdateWallet(ctx, wallet); err != nil {
			return nil, err
		}
		s.publish(ctx, events.WalletUpdated, wallet.TripID, wallet.ID)
	}

	return &api.UploadAvatarResponse{URL: url}, nil
}
