// Command tripctl is a terminal client for a moneytravel server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "tripctl",
		Short: "Track shared travel expenses",
		Long: `tripctl records the wallets, expenses and currency exchanges of a trip
against a moneytravel server and shows who owes what.

Run without a command to reopen the last view.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLastView(cmd)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/tripctl/config.yaml)")
	rootCmd.PersistentFlags().String("server", "http://localhost:8080", "moneytravel server URL")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag(keyServer, rootCmd.PersistentFlags().Lookup("server"))
	_ = viper.BindPFlag(keyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(registerCmd())
	rootCmd.AddCommand(loginCmd())
	rootCmd.AddCommand(logoutCmd())
	rootCmd.AddCommand(whoamiCmd())
	rootCmd.AddCommand(tripsCmd())
	rootCmd.AddCommand(walletsCmd())
	rootCmd.AddCommand(transactionsCmd())
	rootCmd.AddCommand(exchangesCmd())
	rootCmd.AddCommand(categoriesCmd())
	rootCmd.AddCommand(methodsCmd())
	rootCmd.AddCommand(reportCmd())
	rootCmd.AddCommand(rateCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(versionCmd())
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+describe(err))
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "tripctl", version)
		},
	}
}
