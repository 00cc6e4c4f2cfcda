package service

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/moneytravel/internal/events"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
	"github.com/mmynk/moneytravel/pkg/api"
)

// CatalogService manages the per-trip categories and payment methods.
type CatalogService struct {
	store storage.TripStore
	notifier
}

// NewCatalogService creates a CatalogService on store.
func NewCatalogService(store storage.TripStore, publisher events.Publisher, logger *slog.Logger) *CatalogService {
	return &CatalogService{store: store, notifier: notifier{publisher: publisher, logger: logger}}
}

// Handler returns the mount path and handler of the service.
func (s *CatalogService) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	handle(r, api.CatalogListCategoriesProcedure, s.ListCategories)
	handle(r, api.CatalogCreateCategoryProcedure, s.CreateCategory)
	handle(r, api.CatalogRenameCategoryProcedure, s.RenameCategory)
	handle(r, api.CatalogDeleteCategoryProcedure, s.DeleteCategory)
	handle(r, api.CatalogSetAutoSharedProcedure, s.SetAutoShared)
	handle(r, api.CatalogListPaymentMethodsProcedure, s.ListPaymentMethods)
	handle(r, api.CatalogCreatePaymentMethodProcedure, s.CreatePaymentMethod)
	handle(r, api.CatalogRenamePaymentMethodProcedure, s.RenamePaymentMethod)
	handle(r, api.CatalogDeletePaymentMethodProcedure, s.DeletePaymentMethod)
	return r.path(api.CatalogServiceName)
}

func (s *CatalogService) ListCategories(ctx context.Context, req *api.ByTripRequest) (*api.CategoryList, error) {
	categories, err := s.store.ListCategories(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	return &api.CategoryList{Categories: api.CategoriesFromModel(categories)}, nil
}

// CreateCategory adds a category. Names are unique within a trip.
func (s *CatalogService) CreateCategory(ctx context.Context, req *api.Category) (*api.Category, error) {
	category := req.Model()
	category.Name = strings.TrimSpace(category.Name)
	if err := category.Validate(); err != nil {
		return nil, err
	}
	if err := requireTrip(ctx, s.store, category.TripID); err != nil {
		return nil, err
	}

	if err := s.store.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}

	s.logger.Info("Category created", "trip_id", category.TripID, "name", category.Name)
	s.publish(ctx, events.CatalogChanged, category.TripID, category.Name)

	res := api.CategoryFromModel(category)
	return &res, nil
}

// RenameCategory renames a category and re-points its transactions and
// auto-share membership.
func (s *CatalogService) RenameCategory(ctx context.Context, req *api.RenameRequest) (*api.Empty, error) {
	newName, err := checkRename(req)
	if err != nil {
		return nil, err
	}
	if newName != req.OldName {
		if err := s.store.RenameCategory(ctx, req.TripID, req.OldName, newName); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Category renamed", "trip_id", req.TripID, "old_name", req.OldName, "new_name", newName)
	s.publish(ctx, events.CatalogChanged, req.TripID, newName)
	return &api.Empty{}, nil
}

// DeleteCategory removes a category. Transactions keep their category name.
func (s *CatalogService) DeleteCategory(ctx context.Context, req *api.NamedRequest) (*api.Empty, error) {
	if err := s.store.DeleteCategory(ctx, req.TripID, req.Name); err != nil {
		return nil, err
	}

	s.logger.Info("Category deleted", "trip_id", req.TripID, "name", req.Name)
	s.publish(ctx, events.CatalogChanged, req.TripID, req.Name)
	return &api.Empty{}, nil
}

// SetAutoShared toggles whether new transactions in the category default to shared.
func (s *CatalogService) SetAutoShared(ctx context.Context, req *api.SetAutoSharedRequest) (*api.Empty, error) {
	if err := s.store.SetAutoShared(ctx, req.TripID, req.Name, req.AutoShared); err != nil {
		return nil, err
	}

	s.logger.Info("Category auto-share changed", "trip_id", req.TripID, "name", req.Name, "auto_shared", req.AutoShared)
	s.publish(ctx, events.CatalogChanged, req.TripID, req.Name)
	return &api.Empty{}, nil
}

func (s *CatalogService) ListPaymentMethods(ctx context.Context, req *api.ByTripRequest) (*api.PaymentMethodList, error) {
	methods, err := s.store.ListPaymentMethods(ctx, req.TripID)
	if err != nil {
		return nil, err
	}
	return &api.PaymentMethodList{PaymentMethods: api.PaymentMethodsFromModel(methods)}, nil
}

func (s *CatalogService) CreatePaymentMethod(ctx context.Context, req *api.PaymentMethod) (*api.PaymentMethod, error) {
	method := req.Model()
	method.Name = strings.TrimSpace(method.Name)
	if err := method.Validate(); err != nil {
		return nil, err
	}
	if err := requireTrip(ctx, s.store, method.TripID); err != nil {
		return nil, err
	}

	if err := s.store.CreatePaymentMethod(ctx, &method); err != nil {
		return nil, err
	}

	s.logger.Info("Payment method created", "trip_id", method.TripID, "name", method.Name)
	s.publish(ctx, events.CatalogChanged, method.TripID, method.Name)

	res := api.PaymentMethodFromModel(method)
	return &res, nil
}

func (s *CatalogService) RenamePaymentMethod(ctx context.Context, req *api.RenameRequest) (*api.Empty, error) {
	newName, err := checkRename(req)
	if err != nil {
		return nil, err
	}
	if newName != req.OldName {
		if err := s.store.RenamePaymentMethod(ctx, req.TripID, req.OldName, newName); err != nil {
			return nil, err
		}
	}

	s.logger.Info("Payment method renamed", "trip_id", req.TripID, "old_name", req.OldName, "new_name", newName)
	s.publish(ctx, events.CatalogChanged, req.TripID, newName)
	return &api.Empty{}, nil
}

func (s *CatalogService) DeletePaymentMethod(ctx context.Context, req *api.NamedRequest) (*api.Empty, error) {
	if err := s.store.DeletePaymentMethod(ctx, req.TripID, req.Name); err != nil {
		return nil, err
	}

	s.logger.Info("Payment method deleted", "trip_id", req.TripID, "name", req.Name)
	s.publish(ctx, events.CatalogChanged, req.TripID, req.Name)
	return &api.Empty{}, nil
}

func checkRename(req *api.RenameRequest) (string, error) {
	if req.OldName == "" {
		return "", models.NewValidationError("old_name", "is required")
	}
	newName := strings.TrimSpace(req.NewName)
	if newName == "" {
		return "", models.NewValidationError("new_name", "is required")
	}
	return newName, nil
}
