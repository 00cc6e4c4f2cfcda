package sqlstore

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	store, err := Open(DialectSQLite, dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateTrip(t *testing.T, store *Store, name string, createdAt time.Time) *models.Trip {
	t.Helper()

	trip := &models.Trip{Name: name, OwnerID: "owner-1", CreatedAt: createdAt}
	if err := store.CreateTrip(context.Background(), trip); err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	return trip
}

func TestTrips(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateTrip generates ID and creation time", func(t *testing.T) {
		trip := &models.Trip{Name: "Lisbon", OwnerID: "owner-x"}
		if err := store.CreateTrip(ctx, trip); err != nil {
			t.Fatalf("CreateTrip failed: %v", err)
		}
		if trip.ID == "" {
			t.Error("Expected trip ID to be generated")
		}
		if trip.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if got.Name != "Lisbon" || got.OwnerID != "owner-x" || !got.CreatedAt.Equal(trip.CreatedAt) {
			t.Errorf("GetTrip = %+v, want %+v", got, trip)
		}
	})

	t.Run("ListTrips returns most recent first", func(t *testing.T) {
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		older := mustCreateTrip(t, store, "Older", base)
		newer := mustCreateTrip(t, store, "Newer", base.Add(24*time.Hour))

		trips, err := store.ListTrips(ctx, "owner-1")
		if err != nil {
			t.Fatalf("ListTrips failed: %v", err)
		}
		if len(trips) != 2 {
			t.Fatalf("Expected 2 trips, got %d", len(trips))
		}
		if trips[0].ID != newer.ID || trips[1].ID != older.ID {
			t.Errorf("Unexpected order: %s, %s", trips[0].Name, trips[1].Name)
		}
	})

	t.Run("UpdateTrip renames", func(t *testing.T) {
		trip := mustCreateTrip(t, store, "Before", time.Time{})
		trip.Name = "After"
		if err := store.UpdateTrip(ctx, trip); err != nil {
			t.Fatalf("UpdateTrip failed: %v", err)
		}
		got, err := store.GetTrip(ctx, trip.ID)
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if got.Name != "After" {
			t.Errorf("Name = %s, want After", got.Name)
		}
	})

	t.Run("missing trip returns ErrNotFound", func(t *testing.T) {
		if _, err := store.GetTrip(ctx, "nonexistent"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetTrip error = %v, want ErrNotFound", err)
		}
		if err := store.UpdateTrip(ctx, &models.Trip{ID: "nonexistent", Name: "x"}); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateTrip error = %v, want ErrNotFound", err)
		}
		if err := store.DeleteTrip(ctx, "nonexistent"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("DeleteTrip error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteTrip cascades to scoped rows", func(t *testing.T) {
		trip := mustCreateTrip(t, store, "Doomed", time.Time{})
		wallet := &models.Wallet{TripID: trip.ID, Name: "Ana", IncludedInDivision: true}
		if err := store.CreateWallet(ctx, wallet); err != nil {
			t.Fatalf("CreateWallet failed: %v", err)
		}
		if err := store.CreateCategory(ctx, &models.Category{TripID: trip.ID, Name: "Food", AutoShared: true}); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}

		if err := store.DeleteTrip(ctx, trip.ID); err != nil {
			t.Fatalf("DeleteTrip failed: %v", err)
		}

		if _, err := store.GetWallet(ctx, wallet.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected wallet to be deleted with trip, got %v", err)
		}
		categories, err := store.ListCategories(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListCategories failed: %v", err)
		}
		if len(categories) != 0 {
			t.Errorf("Expected categories to be deleted with trip, got %d", len(categories))
		}
	})
}

func TestWallets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, store, "Rio", time.Time{})

	t.Run("CreateWallet round trips every field", func(t *testing.T) {
		created := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
		wallet := &models.Wallet{
			TripID:             trip.ID,
			Name:               "Ana",
			Budget:             150.5,
			AvatarURL:          "http://localhost/avatars/a.png",
			IncludedInDivision: true,
			CreatedAt:          created,
		}
		if err := store.CreateWallet(ctx, wallet); err != nil {
			t.Fatalf("CreateWallet failed: %v", err)
		}

		got, err := store.GetWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("GetWallet failed: %v", err)
		}
		if got.Name != "Ana" || got.Budget != 150.5 || got.AvatarURL != wallet.AvatarURL || !got.IncludedInDivision {
			t.Errorf("GetWallet = %+v", got)
		}
		if !got.CreatedAt.Equal(created) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
		}
	})

	t.Run("legacy wallet without creation time", func(t *testing.T) {
		_, err := store.db.ExecContext(ctx,
			"INSERT INTO wallets (id, trip_id, name, budget, avatar_url, included_in_division, created_at) VALUES (?, ?, ?, 0, '', 1, NULL)",
			"legacy-wallet", trip.ID, "Legacy",
		)
		if err != nil {
			t.Fatalf("Failed to insert legacy wallet: %v", err)
		}

		wallets, err := store.ListWallets(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListWallets failed: %v", err)
		}
		if len(wallets) != 2 {
			t.Fatalf("Expected 2 wallets, got %d", len(wallets))
		}
		if wallets[0].ID != "legacy-wallet" {
			t.Errorf("Expected legacy wallet first, got %s", wallets[0].Name)
		}
		if !wallets[0].CreatedAt.IsZero() {
			t.Errorf("Expected zero CreatedAt for legacy wallet, got %v", wallets[0].CreatedAt)
		}
	})

	t.Run("UpdateWallet changes mutable fields", func(t *testing.T) {
		wallet := &models.Wallet{TripID: trip.ID, Name: "Bia", IncludedInDivision: true}
		if err := store.CreateWallet(ctx, wallet); err != nil {
			t.Fatalf("CreateWallet failed: %v", err)
		}
		if wallet.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}

		wallet.Name = "Beatriz"
		wallet.Budget = -20
		wallet.IncludedInDivision = false
		if err := store.UpdateWallet(ctx, wallet); err != nil {
			t.Fatalf("UpdateWallet failed: %v", err)
		}

		got, err := store.GetWallet(ctx, wallet.ID)
		if err != nil {
			t.Fatalf("GetWallet failed: %v", err)
		}
		if got.Name != "Beatriz" || got.Budget != -20 || got.IncludedInDivision {
			t.Errorf("GetWallet = %+v", got)
		}
	})

	t.Run("DeleteWallet", func(t *testing.T) {
		wallet := &models.Wallet{TripID: trip.ID, Name: "Temp"}
		if err := store.CreateWallet(ctx, wallet); err != nil {
			t.Fatalf("CreateWallet failed: %v", err)
		}
		if err := store.DeleteWallet(ctx, wallet.ID); err != nil {
			t.Fatalf("DeleteWallet failed: %v", err)
		}
		if err := store.DeleteWallet(ctx, wallet.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Second DeleteWallet error = %v, want ErrNotFound", err)
		}
	})
}

func TestTransactionsAndExchanges(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, store, "Tokyo", time.Time{})
	date := time.Date(2025, 4, 2, 18, 45, 12, 0, time.UTC)

	t.Run("transaction lifecycle", func(t *testing.T) {
		tx := &models.Transaction{
			TripID:        trip.ID,
			Description:   "Ramen",
			Amount:        42,
			Tax:           2,
			Date:          date,
			Category:      "Food",
			Payer:         "wallet-a",
			IsShared:      true,
			PaymentMethod: "Cash",
			Type:          models.TransactionIncome,
		}
		if err := store.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}

		txs, err := store.ListTransactions(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListTransactions failed: %v", err)
		}
		if len(txs) != 1 {
			t.Fatalf("Expected 1 transaction, got %d", len(txs))
		}
		got := txs[0]
		if got.Description != "Ramen" || got.Amount != 42 || got.Tax != 2 || !got.IsShared ||
			got.PaymentMethod != "Cash" || got.Type != models.TransactionIncome || got.Payer != "wallet-a" {
			t.Errorf("ListTransactions = %+v", got)
		}
		if !got.Date.Equal(date) {
			t.Errorf("Date = %v, want %v", got.Date, date)
		}

		tx.Amount = 50
		tx.IsShared = false
		tx.Type = models.TransactionExpense
		if err := store.UpdateTransaction(ctx, tx); err != nil {
			t.Fatalf("UpdateTransaction failed: %v", err)
		}
		txs, _ = store.ListTransactions(ctx, trip.ID)
		if txs[0].Amount != 50 || txs[0].IsShared || txs[0].Type != models.TransactionExpense {
			t.Errorf("Updated transaction = %+v", txs[0])
		}

		if err := store.DeleteTransaction(ctx, tx.ID); err != nil {
			t.Fatalf("DeleteTransaction failed: %v", err)
		}
		if err := store.UpdateTransaction(ctx, tx); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("UpdateTransaction after delete error = %v, want ErrNotFound", err)
		}
	})

	t.Run("exchange keeps the all-eligible target", func(t *testing.T) {
		ex := &models.Exchange{
			TripID:         trip.ID,
			Date:           date,
			OriginCurrency: "BRL",
			OriginAmount:   550,
			TargetAmount:   100,
			Target:         models.AllEligible(),
			Location:       "Wise",
		}
		if err := store.CreateExchange(ctx, ex); err != nil {
			t.Fatalf("CreateExchange failed: %v", err)
		}
		if ex.Rate != 5.5 {
			t.Errorf("Rate = %v, want 5.5", ex.Rate)
		}

		var stored string
		if err := store.db.QueryRowContext(ctx, "SELECT target_wallet FROM exchanges WHERE id = ?", ex.ID).Scan(&stored); err != nil {
			t.Fatalf("Failed to read target: %v", err)
		}
		if stored != "both" {
			t.Errorf("Stored target = %q, want both", stored)
		}

		exchanges, err := store.ListExchanges(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListExchanges failed: %v", err)
		}
		if len(exchanges) != 1 || !exchanges[0].Target.IsAllEligible() {
			t.Fatalf("ListExchanges = %+v", exchanges)
		}

		ex.Target = models.SpecificWallet("wallet-b")
		ex.TargetAmount = 110
		if err := store.UpdateExchange(ctx, ex); err != nil {
			t.Fatalf("UpdateExchange failed: %v", err)
		}
		exchanges, _ = store.ListExchanges(ctx, trip.ID)
		if id, ok := exchanges[0].Target.WalletID(); !ok || id != "wallet-b" {
			t.Errorf("Target = %v, want wallet-b", exchanges[0].Target)
		}
		if exchanges[0].Rate != 5 {
			t.Errorf("Rate = %v, want 5", exchanges[0].Rate)
		}

		if err := store.DeleteExchange(ctx, ex.ID); err != nil {
			t.Fatalf("DeleteExchange failed: %v", err)
		}
	})
}

func TestCatalog(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	trip := mustCreateTrip(t, store, "Paris", time.Time{})

	if err := store.CreateCategory(ctx, &models.Category{TripID: trip.ID, Name: "Food", Icon: "utensils", AutoShared: true}); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if err := store.CreateCategory(ctx, &models.Category{TripID: trip.ID, Name: "Transport"}); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	tx := &models.Transaction{TripID: trip.ID, Description: "Crepe", Amount: 8, Category: "Food", Payer: "w", PaymentMethod: "Cash"}
	if err := store.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	t.Run("duplicate category name is rejected", func(t *testing.T) {
		err := store.CreateCategory(ctx, &models.Category{TripID: trip.ID, Name: "Food"})
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("CreateCategory error = %v, want ErrAlreadyExists", err)
		}
	})

	t.Run("RenameCategory re-points transactions and auto-share", func(t *testing.T) {
		if err := store.RenameCategory(ctx, trip.ID, "Food", "Meals"); err != nil {
			t.Fatalf("RenameCategory failed: %v", err)
		}

		categories, err := store.ListCategories(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListCategories failed: %v", err)
		}
		if len(categories) != 2 {
			t.Fatalf("Expected 2 categories, got %+v", categories)
		}
		if categories[0].Name != "Meals" || !categories[0].AutoShared || categories[0].Icon != "utensils" {
			t.Errorf("Renamed category = %+v", categories[0])
		}

		txs, _ := store.ListTransactions(ctx, trip.ID)
		if txs[0].Category != "Meals" {
			t.Errorf("Transaction category = %s, want Meals", txs[0].Category)
		}
	})

	t.Run("RenameCategory to an existing name fails", func(t *testing.T) {
		err := store.RenameCategory(ctx, trip.ID, "Meals", "Transport")
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("RenameCategory error = %v, want ErrAlreadyExists", err)
		}
		txs, _ := store.ListTransactions(ctx, trip.ID)
		if txs[0].Category != "Meals" {
			t.Errorf("Failed rename must not touch transactions, got %s", txs[0].Category)
		}
	})

	t.Run("RenameCategory of a missing category fails", func(t *testing.T) {
		err := store.RenameCategory(ctx, trip.ID, "Ghost", "Spirit")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("RenameCategory error = %v, want ErrNotFound", err)
		}
	})

	t.Run("SetAutoShared toggles membership", func(t *testing.T) {
		if err := store.SetAutoShared(ctx, trip.ID, "Transport", true); err != nil {
			t.Fatalf("SetAutoShared failed: %v", err)
		}
		if err := store.SetAutoShared(ctx, trip.ID, "Transport", true); err != nil {
			t.Fatalf("SetAutoShared twice failed: %v", err)
		}
		if err := store.SetAutoShared(ctx, trip.ID, "Meals", false); err != nil {
			t.Fatalf("SetAutoShared failed: %v", err)
		}

		categories, _ := store.ListCategories(ctx, trip.ID)
		for _, c := range categories {
			want := c.Name == "Transport"
			if c.AutoShared != want {
				t.Errorf("%s AutoShared = %v, want %v", c.Name, c.AutoShared, want)
			}
		}

		if err := store.SetAutoShared(ctx, trip.ID, "Ghost", true); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("SetAutoShared error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteCategory removes auto-share membership", func(t *testing.T) {
		if err := store.DeleteCategory(ctx, trip.ID, "Transport"); err != nil {
			t.Fatalf("DeleteCategory failed: %v", err)
		}
		var n int
		if err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM auto_shared_categories WHERE trip_id = ?", trip.ID).Scan(&n); err != nil {
			t.Fatalf("Failed to count memberships: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no auto-share memberships, got %d", n)
		}
	})

	t.Run("payment methods", func(t *testing.T) {
		for _, name := range []string{"Cash", "Credit"} {
			if err := store.CreatePaymentMethod(ctx, &models.PaymentMethod{TripID: trip.ID, Name: name}); err != nil {
				t.Fatalf("CreatePaymentMethod failed: %v", err)
			}
		}
		if err := store.CreatePaymentMethod(ctx, &models.PaymentMethod{TripID: trip.ID, Name: "Cash"}); !errors.Is(err, storage.ErrAlreadyExists) {
			t.Errorf("CreatePaymentMethod error = %v, want ErrAlreadyExists", err)
		}

		if err := store.RenamePaymentMethod(ctx, trip.ID, "Cash", "Banknotes"); err != nil {
			t.Fatalf("RenamePaymentMethod failed: %v", err)
		}
		txs, _ := store.ListTransactions(ctx, trip.ID)
		if txs[0].PaymentMethod != "Banknotes" {
			t.Errorf("Transaction payment method = %s, want Banknotes", txs[0].PaymentMethod)
		}

		if err := store.DeletePaymentMethod(ctx, trip.ID, "Credit"); err != nil {
			t.Fatalf("DeletePaymentMethod failed: %v", err)
		}
		methods, err := store.ListPaymentMethods(ctx, trip.ID)
		if err != nil {
			t.Fatalf("ListPaymentMethods failed: %v", err)
		}
		if len(methods) != 1 || methods[0].Name != "Banknotes" {
			t.Errorf("ListPaymentMethods = %+v", methods)
		}
	})
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("ana@example.com", "Ana", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := store.GetUserByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if got.ID != user.ID || got.DisplayName != "Ana" {
		t.Errorf("GetUserByEmail = %+v", got)
	}

	if _, err := store.GetUserByID(ctx, "nobody"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetUserByID error = %v, want ErrNotFound", err)
	}

	users, err := store.GetUsersByIDs(ctx, []string{user.ID, "nobody"})
	if err != nil {
		t.Fatalf("GetUsersByIDs failed: %v", err)
	}
	if len(users) != 1 || users[user.ID] == nil {
		t.Errorf("GetUsersByIDs = %v", users)
	}
}

func TestRebind(t *testing.T) {
	tests := []struct {
		dialect string
		query   string
		want    string
	}{
		{DialectSQLite, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = ? AND b = ?"},
		{DialectPostgres, "SELECT * FROM t WHERE a = ? AND b = ?", "SELECT * FROM t WHERE a = $1 AND b = $2"},
		{DialectPostgres, "SELECT 1", "SELECT 1"},
	}

	for _, tt := range tests {
		s := &Store{dialect: tt.dialect}
		if got := s.rebind(tt.query); got != tt.want {
			t.Errorf("rebind(%s, %q) = %q, want %q", tt.dialect, tt.query, got, tt.want)
		}
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open("oracle", "whatever"); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"file:/tmp/a.db", "file:/tmp/a.db?_pragma=foreign_keys(1)"},
		{"file:/tmp/a.db?_pragma=busy_timeout(100)", "file:/tmp/a.db?_pragma=busy_timeout(100)&_pragma=foreign_keys(1)"},
		{"file:/tmp/a.db?_pragma=foreign_keys(1)", "file:/tmp/a.db?_pragma=foreign_keys(1)"},
		{"a.db", "file:a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"},
	}

	for _, tt := range tests {
		got, err := sqliteDSN(tt.dsn)
		if err != nil {
			t.Fatalf("sqliteDSN(%q) error = %v", tt.dsn, err)
		}
		if got != tt.want {
			t.Errorf("sqliteDSN(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestFileDSNCascadesDeletes(t *testing.T) {
	ctx := context.Background()
	store, err := Open(DialectSQLite, "file:"+filepath.Join(t.TempDir(), "file.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	trip := mustCreateTrip(t, store, "Doomed", time.Time{})
	wallet := &models.Wallet{TripID: trip.ID, Name: "Ana", IncludedInDivision: true}
	if err := store.CreateWallet(ctx, wallet); err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}

	if err := store.DeleteTrip(ctx, trip.ID); err != nil {
		t.Fatalf("DeleteTrip failed: %v", err)
	}
	if _, err := store.GetWallet(ctx, wallet.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected wallet to be deleted with trip, got %v", err)
	}
}
