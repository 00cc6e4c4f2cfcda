package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmynk/moneytravel/internal/calculator"
	"github.com/mmynk/moneytravel/internal/rates"
)

const tabReport = "report"

func reportCmd() *cobra.Command {
	var dateRange string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize spending and suggest settling transfers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := calculator.ParseDateRange(dateRange)
			if err != nil {
				return err
			}
			return showReport(cmd, r)
		},
	}
	cmd.Flags().StringVarP(&dateRange, "range", "r", string(calculator.RangeAll), "all, this_month or last_month")
	return cmd
}

func showReport(cmd *cobra.Command, r calculator.DateRange) error {
	s, _, err := requireTrip(cmd.Context())
	if err != nil {
		return err
	}
	remember(tabReport)

	report := s.Report(r)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "%s %s\n", titleStyle.Render("Spent"), money(report.TotalSpent))
	fmt.Fprintf(out, "%s %s %s\n\n", titleStyle.Render("Tax"), money(report.TotalTax), dimStyle.Render(percent(report.TaxShare)))

	sections := []struct {
		title  string
		shares []calculator.Share
	}{
		{"By category", report.Categories},
		{"Consumed by", report.Consumption},
		{"Paid by", report.CashFlow},
		{"By payment method", report.PaymentMethods},
	}
	for _, sec := range sections {
		if err := writeShares(out, sec.title, sec.shares); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, titleStyle.Render("Settle up"))
	if len(report.Transfers) == 0 {
		fmt.Fprintln(out, dimStyle.Render("Everyone is even."))
		return nil
	}
	snap := s.Snapshot()
	for _, t := range report.Transfers {
		fmt.Fprintf(out, "  %s → %s  %s\n", walletName(snap, t.From), walletName(snap, t.To), money(t.Amount))
	}
	return nil
}

func writeShares(out io.Writer, title string, shares []calculator.Share) error {
	if len(shares) == 0 {
		return nil
	}
	fmt.Fprintln(out, titleStyle.Render(title))
	tw := newTable(out, "NAME", "AMOUNT", "SHARE")
	for _, sh := range shares {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", sh.Name, money(sh.Value), percent(sh.Percentage))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}

func rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate [pair]",
		Short: "Show the current exchange rate, e.g. USD-BRL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair := rates.DefaultPair
			if len(args) == 1 {
				pair = args[0]
			}
			q, err := newClient().Rate(cmd.Context(), pair)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %.4f %s\n", titleStyle.Render(q.Pair), q.Rate,
				dimStyle.Render("as of "+q.FetchedAt.Local().Format("2006-01-02 15:04")))
			return nil
		},
	}
}

// runLastView reopens the view the previous command showed.
func runLastView(cmd *cobra.Command) error {
	store, err := defaultConfigStore()
	if err != nil {
		return err
	}
	if store.get(keyToken) == "" {
		return cmd.Help()
	}
	switch store.ActiveTab() {
	case tabTrips:
		return listTrips(cmd, nil)
	case tabTransactions:
		return listTransactions(cmd, nil)
	case tabExchanges:
		return listExchanges(cmd, nil)
	case tabCategories:
		return listCategories(cmd, nil)
	case tabReport:
		return showReport(cmd, calculator.RangeAll)
	default:
		return listWallets(cmd, nil)
	}
}
