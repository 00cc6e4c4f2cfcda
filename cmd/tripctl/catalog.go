package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/moneytravel/internal/models"
)

const tabCategories = "categories"

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage the active trip's categories",
		RunE:    listCategories,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE:  listCategories,
	})

	var icon string
	var autoShare bool
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			c, err := s.AddCategory(cmd.Context(), models.Category{Name: args[0], Icon: icon})
			if err != nil {
				return err
			}
			if autoShare {
				if c, err = s.ToggleAutoShare(cmd.Context(), c.Name); err != nil {
					return err
				}
			}
			done(cmd.OutOrStdout(), "Added category %s", c.Name)
			return nil
		},
	}
	add.Flags().StringVar(&icon, "icon", "", "icon reference")
	add.Flags().BoolVar(&autoShare, "auto-share", false, "share new transactions in this category by default")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a category and its transactions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := s.RenameCategory(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Renamed category %s to %s", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "auto-share <name>",
		Short: "Toggle whether new transactions in a category are shared",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			c, err := s.ToggleAutoShare(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			state := "off"
			if c.AutoShared {
				state = "on"
			}
			done(cmd.OutOrStdout(), "Auto-share for %s is %s", c.Name, state)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a category",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.RemoveCategory(cmd.Context(), args[0]); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Removed category %s", args[0])
			return nil
		},
	})

	return cmd
}

func listCategories(cmd *cobra.Command, _ []string) error {
	s, _, err := requireTrip(cmd.Context())
	if err != nil {
		return err
	}
	remember(tabCategories)

	tw := newTable(cmd.OutOrStdout(), "NAME", "ICON", "AUTO-SHARE")
	for _, c := range s.Snapshot().Categories() {
		auto := ""
		if c.AutoShared {
			auto = okStyle.Render("yes")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, dimStyle.Render(c.Icon), auto)
	}
	return tw.Flush()
}

func methodsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "methods",
		Aliases: []string{"method", "payment-methods"},
		Short:   "Manage the active trip's payment methods",
		RunE:    listMethods,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List payment methods",
		RunE:  listMethods,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add a payment method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			m, err := s.AddPaymentMethod(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Added payment method %s", m.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a payment method and its transactions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := s.RenamePaymentMethod(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Renamed payment method %s to %s", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a payment method",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			if err := s.RemovePaymentMethod(cmd.Context(), args[0]); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Removed payment method %s", args[0])
			return nil
		},
	})

	return cmd
}

func listMethods(cmd *cobra.Command, _ []string) error {
	s, _, err := requireTrip(cmd.Context())
	if err != nil {
		return err
	}

	tw := newTable(cmd.OutOrStdout(), "NAME")
	for _, m := range s.Snapshot().PaymentMethods() {
		fmt.Fprintln(tw, m.Name)
	}
	return tw.Flush()
}
