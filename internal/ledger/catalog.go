package ledger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mmynk/moneytravel/internal/models"
)

// AddCategory adds a category to the active trip.
func (s *Session) AddCategory(ctx context.Context, category models.Category) (models.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	tripID, err := s.view(func(snap *Snapshot) error {
		if _, taken := snap.Category(category.Name); taken {
			return fmt.Errorf("category %q: %w", category.Name, ErrDuplicateName)
		}
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}

	category.TripID = tripID
	if err := category.Validate(); err != nil {
		return models.Category{}, err
	}
	if err := s.backend.CreateCategory(ctx, &category); err != nil {
		return models.Category{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		snap.categories = append(snap.categories, category)
	})
	return category, nil
}

// RenameCategory renames a category. Transactions recorded under the old
// name follow the rename.
func (s *Session) RenameCategory(ctx context.Context, oldName, newName string) (models.Category, error) {
	newName = strings.TrimSpace(newName)
	var category models.Category
	tripID, err := s.view(func(snap *Snapshot) error {
		c, ok := snap.Category(oldName)
		if !ok {
			return notFound("category", oldName)
		}
		if _, taken := snap.Category(newName); taken && newName != oldName {
			return fmt.Errorf("category %q: %w", newName, ErrDuplicateName)
		}
		category = c
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}

	category.Name = newName
	if err := category.Validate(); err != nil {
		return models.Category{}, err
	}
	if err := s.backend.RenameCategory(ctx, tripID, oldName, newName); err != nil {
		return models.Category{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		if i := slices.IndexFunc(snap.categories, func(c models.Category) bool { return c.Name == oldName }); i >= 0 {
			snap.categories[i] = category
		}
		for i := range snap.transactions {
			if snap.transactions[i].Category == oldName {
				snap.transactions[i].Category = newName
			}
		}
	})
	return category, nil
}

// RemoveCategory deletes a category and its auto-share setting. Existing
// transactions keep the name.
func (s *Session) RemoveCategory(ctx context.Context, name string) error {
	tripID, err := s.view(func(snap *Snapshot) error {
		if _, ok := snap.Category(name); !ok {
			return notFound("category", name)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.backend.DeleteCategory(ctx, tripID, name); err != nil {
		return err
	}

	s.apply(tripID, func(snap *Snapshot) {
		snap.categories = slices.DeleteFunc(snap.categories, func(c models.Category) bool { return c.Name == name })
	})
	return nil
}

// ToggleAutoShare flips whether new transactions in a category are shared by default.
func (s *Session) ToggleAutoShare(ctx context.Context, name string) (models.Category, error) {
	var category models.Category
	tripID, err := s.view(func(snap *Snapshot) error {
		c, ok := snap.Category(name)
		if !ok {
			return notFound("category", name)
		}
		category = c
		return nil
	})
	if err != nil {
		return models.Category{}, err
	}

	category.AutoShared = !category.AutoShared
	if err := s.backend.SetAutoShared(ctx, tripID, name, category.AutoShared); err != nil {
		return models.Category{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		if i := slices.IndexFunc(snap.categories, func(c models.Category) bool { return c.Name == name }); i >= 0 {
			snap.categories[i].AutoShared = category.AutoShared
		}
	})
	return category, nil
}

// AddPaymentMethod adds a payment method to the active trip.
func (s *Session) AddPaymentMethod(ctx context.Context, name string) (models.PaymentMethod, error) {
	method := models.PaymentMethod{Name: strings.TrimSpace(name)}
	tripID, err := s.view(func(snap *Snapshot) error {
		if _, taken := snap.PaymentMethod(method.Name); taken {
			return fmt.Errorf("payment method %q: %w", method.Name, ErrDuplicateName)
		}
		return nil
	})
	if err != nil {
		return models.PaymentMethod{}, err
	}

	method.TripID = tripID
	if err := method.Validate(); err != nil {
		return models.PaymentMethod{}, err
	}
	if err := s.backend.CreatePaymentMethod(ctx, &method); err != nil {
		return models.PaymentMethod{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		snap.paymentMethods = append(snap.paymentMethods, method)
	})
	return method, nil
}

// RenamePaymentMethod renames a payment method. Transactions recorded under
// the old name follow the rename.
func (s *Session) RenamePaymentMethod(ctx context.Context, oldName, newName string) (models.PaymentMethod, error) {
	method := models.PaymentMethod{Name: strings.TrimSpace(newName)}
	tripID, err := s.view(func(snap *Snapshot) error {
		if _, ok := snap.PaymentMethod(oldName); !ok {
			return notFound("payment method", oldName)
		}
		if _, taken := snap.PaymentMethod(method.Name); taken && method.Name != oldName {
			return fmt.Errorf("payment method %q: %w", method.Name, ErrDuplicateName)
		}
		return nil
	})
	if err != nil {
		return models.PaymentMethod{}, err
	}

	method.TripID = tripID
	if err := method.Validate(); err != nil {
		return models.PaymentMethod{}, err
	}
	if err := s.backend.RenamePaymentMethod(ctx, tripID, oldName, method.Name); err != nil {
		return models.PaymentMethod{}, err
	}

	s.apply(tripID, func(snap *Snapshot) {
		if i := slices.IndexFunc(snap.paymentMethods, func(p models.PaymentMethod) bool { return p.Name == oldName }); i >= 0 {
			snap.paymentMethods[i] = method
		}
		for i := range snap.transactions {
			if snap.transactions[i].PaymentMethod == oldName {
				snap.transactions[i].PaymentMethod = method.Name
			}
		}
	})
	return method, nil
}

// RemovePaymentMethod deletes a payment method. Existing transactions keep the name.
func (s *Session) RemovePaymentMethod(ctx context.Context, name string) error {
	tripID, err := s.view(func(snap *Snapshot) error {
		if _, ok := snap.PaymentMethod(name); !ok {
			return notFound("payment method", name)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.backend.DeletePaymentMethod(ctx, tripID, name); err != nil {
		return err
	}

	s.apply(tripID, func(snap *Snapshot) {
		snap.paymentMethods = slices.DeleteFunc(snap.paymentMethods, func(p models.PaymentMethod) bool { return p.Name == name })
	})
	return nil
}
