package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
)

// ListCategories returns the trip's categories in creation order, with
// AutoShared resolved from the membership table.
func (s *Store) ListCategories(ctx context.Context, tripID string) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`
		SELECT c.trip_id, c.name, c.icon, a.category_name IS NOT NULL
		FROM categories c
		LEFT JOIN auto_shared_categories a ON a.trip_id = c.trip_id AND a.category_name = c.name
		WHERE c.trip_id = ?
		ORDER BY c.created_at, c.name
	`), tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.TripID, &c.Name, &c.Icon, &c.AutoShared); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// CreateCategory persists a new category and, when requested, its auto-share membership.
func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureFree(ctx, tx, "categories", category.TripID, category.Name); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		"INSERT INTO categories (trip_id, name, icon, created_at) VALUES (?, ?, ?, ?)",
	), category.TripID, category.Name, category.Icon, toMillis(now()))
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}

	if category.AutoShared {
		_, err = tx.ExecContext(ctx, s.rebind(
			"INSERT INTO auto_shared_categories (trip_id, category_name) VALUES (?, ?)",
		), category.TripID, category.Name)
		if err != nil {
			return fmt.Errorf("failed to insert auto-shared category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RenameCategory creates the new category, re-points transactions and the
// auto-share membership to it, then deletes the old one, all in one transaction.
func (s *Store) RenameCategory(ctx context.Context, tripID, oldName, newName string) error {
	return s.rename(ctx, tripID, oldName, newName, renameStatements{
		table:  "categories",
		insert: "INSERT INTO categories (trip_id, name, icon, created_at) SELECT trip_id, ?, icon, created_at FROM categories WHERE trip_id = ? AND name = ?",
		repoint: []string{
			"UPDATE transactions SET category = ? WHERE trip_id = ? AND category = ?",
			"UPDATE auto_shared_categories SET category_name = ? WHERE trip_id = ? AND category_name = ?",
		},
	})
}

// DeleteCategory removes a category and its auto-share membership.
// Transactions keep the category name they were recorded with.
func (s *Store) DeleteCategory(ctx context.Context, tripID, name string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		"DELETE FROM categories WHERE trip_id = ? AND name = ?",
	), tripID, name)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return checkAffected(res, "category", name)
}

// SetAutoShared adds or removes the category's auto-share membership.
func (s *Store) SetAutoShared(ctx context.Context, tripID, name string, autoShared bool) error {
	var exists int
	err := s.db.QueryRowContext(ctx, s.rebind(
		"SELECT COUNT(*) FROM categories WHERE trip_id = ? AND name = ?",
	), tripID, name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("category %s: %w", name, storage.ErrNotFound)
	}

	query := "DELETE FROM auto_shared_categories WHERE trip_id = ? AND category_name = ?"
	if autoShared {
		query = "INSERT INTO auto_shared_categories (trip_id, category_name) VALUES (?, ?) ON CONFLICT (trip_id, category_name) DO NOTHING"
	}
	if _, err := s.db.ExecContext(ctx, s.rebind(query), tripID, name); err != nil {
		return fmt.Errorf("failed to set auto-shared category: %w", err)
	}

	return nil
}

// ListPaymentMethods returns the trip's payment methods in creation order.
func (s *Store) ListPaymentMethods(ctx context.Context, tripID string) ([]models.PaymentMethod, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(
		"SELECT trip_id, name FROM payment_methods WHERE trip_id = ? ORDER BY created_at, name",
	), tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	defer rows.Close()

	var methods []models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.TripID, &m.Name); err != nil {
			return nil, fmt.Errorf("failed to scan payment method: %w", err)
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment methods: %w", err)
	}

	return methods, nil
}

// CreatePaymentMethod persists a new payment method.
func (s *Store) CreatePaymentMethod(ctx context.Context, method *models.PaymentMethod) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureFree(ctx, tx, "payment_methods", method.TripID, method.Name); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		"INSERT INTO payment_methods (trip_id, name, created_at) VALUES (?, ?, ?)",
	), method.TripID, method.Name, toMillis(now()))
	if err != nil {
		return fmt.Errorf("failed to insert payment method: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RenamePaymentMethod renames a payment method and re-points its transactions
// in one transaction.
func (s *Store) RenamePaymentMethod(ctx context.Context, tripID, oldName, newName string) error {
	return s.rename(ctx, tripID, oldName, newName, renameStatements{
		table:   "payment_methods",
		insert:  "INSERT INTO payment_methods (trip_id, name, created_at) SELECT trip_id, ?, created_at FROM payment_methods WHERE trip_id = ? AND name = ?",
		repoint: []string{"UPDATE transactions SET payment_method = ? WHERE trip_id = ? AND payment_method = ?"},
	})
}

// DeletePaymentMethod removes a payment method. Transactions keep the name
// they were recorded with.
func (s *Store) DeletePaymentMethod(ctx context.Context, tripID, name string) error {
	res, err := s.db.ExecContext(ctx, s.rebind(
		"DELETE FROM payment_methods WHERE trip_id = ? AND name = ?",
	), tripID, name)
	if err != nil {
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	return checkAffected(res, "payment method", name)
}

// renameStatements describes how to move a named catalog row. Every statement
// takes (newName, tripID, oldName).
type renameStatements struct {
	table   string
	insert  string
	repoint []string
}

func (s *Store) rename(ctx context.Context, tripID, oldName, newName string, stmts renameStatements) error {
	if oldName == newName {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureFree(ctx, tx, stmts.table, tripID, newName); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, s.rebind(stmts.insert), newName, tripID, oldName)
	if err != nil {
		return fmt.Errorf("failed to copy %s row: %w", stmts.table, err)
	}
	if err := checkAffected(res, stmts.table, oldName); err != nil {
		return err
	}

	for _, q := range stmts.repoint {
		if _, err := tx.ExecContext(ctx, s.rebind(q), newName, tripID, oldName); err != nil {
			return fmt.Errorf("failed to re-point %s references: %w", stmts.table, err)
		}
	}

	_, err = tx.ExecContext(ctx, s.rebind(
		"DELETE FROM "+stmts.table+" WHERE trip_id = ? AND name = ?",
	), tripID, oldName)
	if err != nil {
		return fmt.Errorf("failed to delete old %s row: %w", stmts.table, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ensureFree fails with storage.ErrAlreadyExists when name is taken in table.
func (s *Store) ensureFree(ctx context.Context, tx *sql.Tx, table, tripID, name string) error {
	var n int
	err := tx.QueryRowContext(ctx, s.rebind(
		"SELECT COUNT(*) FROM "+table+" WHERE trip_id = ? AND name = ?",
	), tripID, name).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to check %s name: %w", table, err)
	}
	if n > 0 {
		return fmt.Errorf("%s %q: %w", table, name, storage.ErrAlreadyExists)
	}
	return nil
}
