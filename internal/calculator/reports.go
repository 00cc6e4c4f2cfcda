package calculator

import (
	"fmt"
	"sort"
	"time"

	"github.com/mmynk/moneytravel/internal/models"
)

// UnknownName labels report rows whose wallet no longer exists.
const UnknownName = "Unknown"

// DateRange selects which transactions a report covers.
type DateRange string

const (
	RangeAll       DateRange = "all"
	RangeThisMonth DateRange = "this_month"
	RangeLastMonth DateRange = "last_month"
)

// ParseDateRange converts a wire value into a DateRange. Empty means RangeAll.
func ParseDateRange(s string) (DateRange, error) {
	switch DateRange(s) {
	case "", RangeAll:
		return RangeAll, nil
	case RangeThisMonth, RangeLastMonth:
		return DateRange(s), nil
	default:
		return "", fmt.Errorf("unknown date range %q", s)
	}
}

// Contains reports whether t falls in the range, evaluated relative to now.
// Months are compared in now's location.
func (r DateRange) Contains(t, now time.Time) bool {
	switch r {
	case RangeThisMonth:
		return sameMonth(t.In(now.Location()), now)
	case RangeLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return sameMonth(t.In(now.Location()), first.AddDate(0, -1, 0))
	default:
		return true
	}
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// Share is one row of a report breakdown.
type Share struct {
	ID         string // Wallet ID, category name or payment method name
	Name       string
	Value      float64
	Percentage float64 // Value / TotalSpent * 100, 0 when nothing was spent
}

// Report aggregates the transactions of a trip within a date range.
type Report struct {
	Range      DateRange
	TotalSpent float64 // Expenses minus incomes
	TotalTax   float64 // Tax portion of expenses
	TaxShare   float64 // TotalTax as a percentage of TotalSpent

	// Categories holds net spend per category, positive sums only.
	Categories []Share
	// Consumption attributes spend to who benefited: shared transactions are
	// split among eligible wallets, the others go to the payer.
	Consumption []Share
	// CashFlow attributes spend to who physically paid, ignoring sharing.
	CashFlow []Share
	// PaymentMethods sums expenses per payment method.
	PaymentMethods []Share
	// Transfers suggests payments that even out cash flow and consumption.
	Transfers []Transfer
}

// Percent returns value as a percentage of total, or 0 when total is 0.
func Percent(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return value / total * 100
}

// FilterTransactions returns the transactions dated within r.
func FilterTransactions(txs []models.Transaction, r DateRange, now time.Time) []models.Transaction {
	if r == RangeAll || r == "" {
		return txs
	}
	var filtered []models.Transaction
	for _, tx := range txs {
		if r.Contains(tx.Date, now) {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}

// BuildReport aggregates the trip's transactions within r. Empty inputs
// produce an empty report.
func BuildReport(e Entities, r DateRange, now time.Time) Report {
	if r == "" {
		r = RangeAll
	}
	txs := FilterTransactions(e.Transactions(), r, now)
	wallets := e.Wallets()

	report := Report{Range: r}
	for _, tx := range txs {
		report.TotalSpent += tx.Spend()
		if tx.Type == models.TransactionExpense {
			report.TotalTax += tx.Tax
		}
	}
	report.TaxShare = Percent(report.TotalTax, report.TotalSpent)

	report.Categories = CategoryTotals(txs, report.TotalSpent)
	report.Consumption = ConsumptionByWallet(wallets, txs, report.TotalSpent)
	report.CashFlow = CashFlowByWallet(wallets, txs, report.TotalSpent)
	report.PaymentMethods = PaymentMethodTotals(txs, report.TotalSpent)
	report.Transfers = SuggestTransfers(report.CashFlow, report.Consumption)
	return report
}

// CategoryTotals sums net spend per category (expenses add, incomes
// subtract) and keeps only categories with a positive sum.
func CategoryTotals(txs []models.Transaction, totalSpent float64) []Share {
	sums := make(map[string]float64)
	var order []string
	for _, tx := range txs {
		if _, seen := sums[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] += tx.Spend()
	}

	var shares []Share
	for _, name := range order {
		if sums[name] <= 0 {
			continue
		}
		shares = append(shares, Share{
			ID:         name,
			Name:       name,
			Value:      sums[name],
			Percentage: Percent(sums[name], totalSpent),
		})
	}
	sortShares(shares)
	return shares
}

// ConsumptionByWallet attributes spend to the wallets that benefited from it.
// Every wallet is listed, including those with zero consumption.
func ConsumptionByWallet(wallets []models.Wallet, txs []models.Transaction, totalSpent float64) []Share {
	sums := newWalletSums(wallets)
	for _, tx := range txs {
		if !tx.IsShared {
			sums.add(tx.Payer, tx.Spend())
			continue
		}
		participants := EligibleParticipants(wallets, tx.Date)
		if len(participants) == 0 {
			continue
		}
		share := tx.Spend() / float64(len(participants))
		for _, p := range participants {
			sums.add(p.ID, share)
		}
	}
	return sums.shares(wallets, totalSpent)
}

// CashFlowByWallet attributes the full spend of every transaction to its payer.
func CashFlowByWallet(wallets []models.Wallet, txs []models.Transaction, totalSpent float64) []Share {
	sums := newWalletSums(nil)
	for _, tx := range txs {
		if tx.Payer == "" {
			continue
		}
		sums.add(tx.Payer, tx.Spend())
	}
	return sums.shares(wallets, totalSpent)
}

// PaymentMethodTotals sums expense amounts per payment method, ignoring incomes.
func PaymentMethodTotals(txs []models.Transaction, totalSpent float64) []Share {
	sums := make(map[string]float64)
	var order []string
	for _, tx := range txs {
		if tx.Type != models.TransactionExpense {
			continue
		}
		if _, seen := sums[tx.PaymentMethod]; !seen {
			order = append(order, tx.PaymentMethod)
		}
		sums[tx.PaymentMethod] += tx.Amount
	}

	shares := make([]Share, 0, len(order))
	for _, name := range order {
		shares = append(shares, Share{
			ID:         name,
			Name:       name,
			Value:      sums[name],
			Percentage: Percent(sums[name], totalSpent),
		})
	}
	sortShares(shares)
	return shares
}

// walletSums accumulates values per wallet ID, remembering first-seen order.
type walletSums struct {
	values map[string]float64
	order  []string
}

func newWalletSums(wallets []models.Wallet) *walletSums {
	s := &walletSums{values: make(map[string]float64)}
	for _, w := range wallets {
		s.add(w.ID, 0)
	}
	return s
}

func (s *walletSums) add(id string, v float64) {
	if _, ok := s.values[id]; !ok {
		s.order = append(s.order, id)
	}
	s.values[id] += v
}

func (s *walletSums) shares(wallets []models.Wallet, totalSpent float64) []Share {
	shares := make([]Share, 0, len(s.order))
	for _, id := range s.order {
		name := UnknownName
		if w, ok := findWallet(wallets, id); ok {
			name = w.Name
		}
		shares = append(shares, Share{
			ID:         id,
			Name:       name,
			Value:      s.values[id],
			Percentage: Percent(s.values[id], totalSpent),
		})
	}
	sortShares(shares)
	return shares
}

// sortShares orders by value descending; ties keep first-seen order.
func sortShares(shares []Share) {
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Value > shares[j].Value
	})
}
