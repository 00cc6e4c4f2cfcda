package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmynk/moneytravel/internal/ledger"
	"github.com/mmynk/moneytravel/internal/models"
)

const tabWallets = "wallets"

func walletsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wallets",
		Aliases: []string{"wallet", "w"},
		Short:   "Manage the active trip's wallets",
		RunE:    listWallets,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show wallets with their balances",
		RunE:  listWallets,
	})

	var budget float64
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			w, err := s.AddWallet(cmd.Context(), args[0], budget)
			if err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Added wallet %s with budget %s", w.Name, money(w.Budget))
			return nil
		},
	}
	add.Flags().Float64Var(&budget, "budget", 0, "starting budget")
	cmd.AddCommand(add)

	cmd.AddCommand(walletUpdateCmd("budget <wallet> <amount>", "Set a wallet's budget", 2,
		func(cmd *cobra.Command, s *ledger.Session, w models.Wallet, args []string) (models.Wallet, error) {
			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return models.Wallet{}, models.NewValidationError("budget", "must be a number")
			}
			return s.UpdateBudget(cmd.Context(), w.ID, amount)
		}))

	cmd.AddCommand(walletUpdateCmd("rename <wallet> <name>", "Rename a wallet", 2,
		func(cmd *cobra.Command, s *ledger.Session, w models.Wallet, args []string) (models.Wallet, error) {
			return s.RenameWallet(cmd.Context(), w.ID, args[1])
		}))

	cmd.AddCommand(walletUpdateCmd("exclude <wallet>", "Stop sharing expenses with a wallet", 1,
		func(cmd *cobra.Command, s *ledger.Session, w models.Wallet, _ []string) (models.Wallet, error) {
			return s.SetWalletDivision(cmd.Context(), w.ID, false)
		}))

	cmd.AddCommand(walletUpdateCmd("include <wallet>", "Share expenses with a wallet again", 1,
		func(cmd *cobra.Command, s *ledger.Session, w models.Wallet, _ []string) (models.Wallet, error) {
			return s.SetWalletDivision(cmd.Context(), w.ID, true)
		}))

	cmd.AddCommand(walletUpdateCmd("avatar <wallet> <image>", "Upload a wallet picture", 2,
		func(cmd *cobra.Command, s *ledger.Session, w models.Wallet, args []string) (models.Wallet, error) {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return models.Wallet{}, fmt.Errorf("failed to read image: %w", err)
			}
			url, err := newClient().UploadAvatar(cmd.Context(), "", http.DetectContentType(data), data)
			if err != nil {
				return models.Wallet{}, err
			}
			return s.SetWalletAvatar(cmd.Context(), w.ID, url)
		}))

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <wallet>",
		Aliases: []string{"rm"},
		Short:   "Remove a wallet with a zero balance",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			w, err := findWallet(s.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if err := s.RemoveWallet(cmd.Context(), w.ID); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Removed wallet %s", w.Name)
			return nil
		},
	})

	return cmd
}

type walletChange func(cmd *cobra.Command, s *ledger.Session, w models.Wallet, args []string) (models.Wallet, error)

func walletUpdateCmd(use, short string, nargs int, change walletChange) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			w, err := findWallet(s.Snapshot(), args[0])
			if err != nil {
				return err
			}
			updated, err := change(cmd, s, w, args)
			if err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Updated wallet %s", updated.Name)
			return nil
		},
	}
}

func listWallets(cmd *cobra.Command, _ []string) error {
	s, _, err := requireTrip(cmd.Context())
	if err != nil {
		return err
	}
	remember(tabWallets)

	out := cmd.OutOrStdout()
	tw := newTable(out, "NAME", "BUDGET", "EXCHANGED", "SPENT", "RECEIVED", "BALANCE", "SHARED")
	var total float64
	for _, b := range s.Balances() {
		w, _ := s.Snapshot().Wallet(b.WalletID)
		shared := okStyle.Render("yes")
		if !w.IncludedInDivision {
			shared = dimStyle.Render("no")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.Name, money(b.Budget), money(b.ExchangedIn), money(b.Spent), money(b.Received), money(b.Balance), shared)
		total += b.Balance
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s %s\n", titleStyle.Render("Total"), money(total))
	return nil
}
