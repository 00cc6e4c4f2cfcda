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

const tabExchanges = "exchanges"

func exchangesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "exchange",
		Aliases: []string{"exchanges", "fx"},
		Short:   "Record currency exchanges that fund wallets",
		RunE:    listExchanges,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the active trip's exchanges, newest first",
		RunE:  listExchanges,
	})

	var (
		currency string
		paid     float64
		received float64
		to       string
		location string
		date     string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Record an exchange",
		Long: `Record money exchanged into the trip's currency.

--to names the wallet that received the money, or "all" to split it among
every wallet taking part in the division at the exchange date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			target, err := resolveTarget(s.Snapshot(), to)
			if err != nil {
				return err
			}
			when, err := parseDate(date, time.Now())
			if err != nil {
				return err
			}
			ex, err := s.AddExchange(cmd.Context(), models.Exchange{
				Date:           when,
				OriginCurrency: strings.ToUpper(currency),
				OriginAmount:   paid,
				TargetAmount:   received,
				Target:         target,
				Location:       location,
			})
			if err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Exchanged %.2f %s into %s at %.4f", ex.OriginAmount, ex.OriginCurrency, money(ex.TargetAmount), ex.Rate)
			return nil
		},
	}
	add.Flags().StringVar(&currency, "currency", "", "currency spent, e.g. BRL")
	add.Flags().Float64Var(&paid, "paid", 0, "amount spent in --currency")
	add.Flags().Float64Var(&received, "received", 0, "amount received")
	add.Flags().StringVar(&to, "to", "all", `receiving wallet, or "all"`)
	add.Flags().StringVar(&location, "location", "", "where the exchange happened")
	add.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: now)")
	_ = add.MarkFlagRequired("currency")
	_ = add.MarkFlagRequired("paid")
	_ = add.MarkFlagRequired("received")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an exchange",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			ex, err := findExchange(s.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if err := s.RemoveExchange(cmd.Context(), ex.ID); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Deleted exchange of %.2f %s", ex.OriginAmount, ex.OriginCurrency)
			return nil
		},
	})

	return cmd
}

func resolveTarget(snap *ledger.Snapshot, ref string) (models.Target, error) {
	if ref == "" || strings.EqualFold(ref, "all") || ref == models.AllEligibleWire {
		return models.AllEligible(), nil
	}
	w, err := findWallet(snap, ref)
	if err != nil {
		return models.Target{}, err
	}
	return models.SpecificWallet(w.ID), nil
}

func findExchange(snap *ledger.Snapshot, ref string) (models.Exchange, error) {
	if ex, ok := snap.Exchange(ref); ok {
		return ex, nil
	}
	var match []models.Exchange
	for _, ex := range snap.Exchanges() {
		if ref != "" && strings.HasPrefix(ex.ID, ref) {
			match = append(match, ex)
		}
	}
	switch len(match) {
	case 0:
		return models.Exchange{}, fmt.Errorf("exchange %q: %w", ref, storage.ErrNotFound)
	case 1:
		return match[0], nil
	default:
		return models.Exchange{}, fmt.Errorf("exchange prefix %q is ambiguous", ref)
	}
}

func listExchanges(cmd *cobra.Command, _ []string) error {
	s, _, err := requireTrip(cmd.Context())
	if err != nil {
		return err
	}
	remember(tabExchanges)

	snap := s.Snapshot()
	out := cmd.OutOrStdout()
	if len(snap.Exchanges()) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No exchanges yet."))
		return nil
	}

	tw := newTable(out, "ID", "DATE", "PAID", "RECEIVED", "RATE", "TO", "LOCATION")
	for _, ex := range snap.Exchanges() {
		to := "all"
		if id, ok := ex.Target.WalletID(); ok {
			to = walletName(snap, id)
		}
		fmt.Fprintf(tw, "%s\t%s\t%.2f %s\t%s\t%.4f\t%s\t%s\n",
			dimStyle.Render(shortID(ex.ID)),
			ex.Date.Local().Format(dateLayout),
			ex.OriginAmount, ex.OriginCurrency,
			money(ex.TargetAmount),
			ex.Rate,
			to,
			ex.Location,
		)
	}
	return tw.Flush()
}
