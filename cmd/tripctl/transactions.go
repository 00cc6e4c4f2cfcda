package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/moneytravel/internal/ledger"
	"github.com/mmynk/moneytravel/internal/models"
	"github.com/mmynk/moneytravel/internal/storage"
)

const tabTransactions = "transactions"

type txFlags struct {
	description string
	amount      float64
	tax         float64
	category    string
	payer       string
	method      string
	date        string
	income      bool
	shared      bool
	notShared   bool
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "desc", "d", "", "description")
	cmd.Flags().Float64VarP(&f.amount, "amount", "a", 0, "total amount, tax included")
	cmd.Flags().Float64Var(&f.tax, "tax", 0, "tax or fee portion of the amount")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category name")
	cmd.Flags().StringVarP(&f.payer, "payer", "p", "", "wallet that paid or received")
	cmd.Flags().StringVarP(&f.method, "method", "m", "", "payment method name")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default: now)")
	cmd.Flags().BoolVar(&f.income, "income", false, "record money received instead of spent")
	cmd.Flags().BoolVar(&f.shared, "shared", false, "split among every eligible wallet")
	cmd.Flags().BoolVar(&f.notShared, "not-shared", false, "charge the payer only")
	cmd.MarkFlagsMutuallyExclusive("shared", "not-shared")
}

func (f *txFlags) sharing() ledger.Sharing {
	switch {
	case f.shared:
		return ledger.SharedYes
	case f.notShared:
		return ledger.SharedNo
	default:
		return ledger.SharedUnset
	}
}

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record expenses and incomes",
		RunE:    listTransactions,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the active trip's transactions, newest first",
		RunE:  listTransactions,
	})

	var addFlags txFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			payer, err := findWallet(s.Snapshot(), addFlags.payer)
			if err != nil {
				return err
			}
			date, err := parseDate(addFlags.date, time.Now())
			if err != nil {
				return err
			}
			tx := models.Transaction{
				Description:   addFlags.description,
				Amount:        addFlags.amount,
				Tax:           addFlags.tax,
				Date:          date,
				Category:      addFlags.category,
				Payer:         payer.ID,
				PaymentMethod: addFlags.method,
				Type:          models.TransactionExpense,
			}
			if addFlags.income {
				tx.Type = models.TransactionIncome
			}
			tx, err = s.AddTransaction(cmd.Context(), tx, addFlags.sharing())
			if err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Recorded %s %s (%s)", tx.Type, money(tx.Amount), tx.Description)
			return nil
		},
	}
	addFlags.register(add)
	_ = add.MarkFlagRequired("amount")
	_ = add.MarkFlagRequired("payer")
	cmd.AddCommand(add)

	var editFlags txFlags
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a transaction; only the given flags are updated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			tx, err := findTransaction(s.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if err := editFlags.apply(cmd, s.Snapshot(), &tx); err != nil {
				return err
			}
			tx, err = s.UpdateTransaction(cmd.Context(), tx)
			if err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Updated %s", tx.Description)
			return nil
		},
	}
	editFlags.register(edit)
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			tx, err := findTransaction(s.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if err := s.RemoveTransaction(cmd.Context(), tx.ID); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Deleted %s", tx.Description)
			return nil
		},
	})

	return cmd
}

// apply copies the flags the user set onto tx.
func (f *txFlags) apply(cmd *cobra.Command, snap *ledger.Snapshot, tx *models.Transaction) error {
	changed := cmd.Flags().Changed
	if changed("desc") {
		tx.Description = f.description
	}
	if changed("amount") {
		tx.Amount = f.amount
	}
	if changed("tax") {
		tx.Tax = f.tax
	}
	if changed("category") {
		tx.Category = f.category
	}
	if changed("method") {
		tx.PaymentMethod = f.method
	}
	if changed("payer") {
		w, err := findWallet(snap, f.payer)
		if err != nil {
			return err
		}
		tx.Payer = w.ID
	}
	if changed("date") {
		date, err := parseDate(f.date, tx.Date)
		if err != nil {
			return err
		}
		tx.Date = date
	}
	if changed("income") {
		tx.Type = models.TransactionExpense
		if f.income {
			tx.Type = models.TransactionIncome
		}
	}
	if changed("shared") || changed("not-shared") {
		tx.IsShared = f.shared
	}
	return nil
}

// findTransaction accepts a full ID or a unique prefix of one.
func findTransaction(snap *ledger.Snapshot, ref string) (models.Transaction, error) {
	if tx, ok := snap.Transaction(ref); ok {
		return tx, nil
	}
	var match []models.Transaction
	for _, tx := range snap.Transactions() {
		if ref != "" && strings.HasPrefix(tx.ID, ref) {
			match = append(match, tx)
		}
	}
	switch len(match) {
	case 0:
		return models.Transaction{}, fmt.Errorf("transaction %q: %w", ref, storage.ErrNotFound)
	case 1:
		return match[0], nil
	default:
		return models.Transaction{}, fmt.Errorf("transaction prefix %q is ambiguous", ref)
	}
}

// parseDate reads a YYYY-MM-DD day in local time and keeps the clock of
// ref, so a transaction dated today stays after wallets created earlier
// today. An empty value returns ref.
func parseDate(s string, ref time.Time) (time.Time, error) {
	if s == "" {
		return ref, nil
	}
	day, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, models.NewValidationError("date", "must be YYYY-MM-DD")
	}
	ref = ref.In(time.Local)
	return time.Date(day.Year(), day.Month(), day.Day(),
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), time.Local), nil
}

func listTransactions(cmd *cobra.Command, _ []string) error {
	s, _, err := requireTrip(cmd.Context())
	if err != nil {
		return err
	}
	remember(tabTransactions)

	snap := s.Snapshot()
	out := cmd.OutOrStdout()
	if len(snap.Transactions()) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No transactions yet."))
		return nil
	}

	tw := newTable(out, "ID", "DATE", "DESCRIPTION", "CATEGORY", "PAYER", "METHOD", "AMOUNT", "SHARED")
	for _, tx := range snap.Transactions() {
		payer := walletName(snap, tx.Payer)
		shared := ""
		if tx.IsShared {
			shared = okStyle.Render("shared")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			dimStyle.Render(shortID(tx.ID)),
			tx.Date.Local().Format(dateLayout),
			tx.Description,
			tx.Category,
			payer,
			tx.PaymentMethod,
			money(tx.Signed()),
			shared,
		)
	}
	return tw.Flush()
}

func walletName(snap *ledger.Snapshot, id string) string {
	if w, ok := snap.Wallet(id); ok {
		return w.Name
	}
	return dimStyle.Render("unknown")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
