package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/moneytravel/internal/models"
)

func registerCmd() *cobra.Command {
	var name, password string
	cmd := &cobra.Command{
		Use:   "register <email>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordOrPrompt(cmd, password)
			if err != nil {
				return err
			}
			c := newClient()
			user, err := c.Register(cmd.Context(), args[0], name, pw)
			if err != nil {
				return err
			}
			return saveLogin(cmd, c.Token(), user)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func loginCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Log in to the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordOrPrompt(cmd, password)
			if err != nil {
				return err
			}
			c := newClient()
			user, err := c.Login(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			return saveLogin(cmd, c.Token(), user)
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when empty)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := newClient().Logout(cmd.Context()); err != nil {
				slog.Warn("Server logout failed", "error", err)
			}
			store, err := defaultConfigStore()
			if err != nil {
				return err
			}
			if err := store.set(map[string]string{keyToken: "", keyUserID: ""}); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := newClient().CurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", user.DisplayName, dimStyle.Render("<"+user.Email+">"))
			return nil
		},
	}
}

func saveLogin(cmd *cobra.Command, token string, user *models.User) error {
	store, err := defaultConfigStore()
	if err != nil {
		return err
	}
	if err := store.set(map[string]string{keyToken: token, keyUserID: user.ID}); err != nil {
		return err
	}
	done(cmd.OutOrStdout(), "Logged in as %s", user.DisplayName)
	return nil
}

func passwordOrPrompt(cmd *cobra.Command, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	return readLine(cmd.InOrStdin())
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
