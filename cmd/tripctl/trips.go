package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const tabTrips = "trips"

func tripsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trips",
		Aliases: []string{"trip"},
		Short:   "Manage trips",
		RunE:    listTrips,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your trips",
		RunE:  listTrips,
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a trip and make it active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			trip, err := s.CreateTrip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := s.SwitchTrip(cmd.Context(), trip.ID); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Created trip %s", trip.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "use <trip>",
		Short: "Switch the active trip",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			trip, err := findTrip(s.Trips(), args[0])
			if err != nil {
				return err
			}
			if err := s.SwitchTrip(cmd.Context(), trip.ID); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Now tracking %s", trip.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <trip> <name>",
		Short: "Rename a trip",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			trip, err := findTrip(s.Trips(), args[0])
			if err != nil {
				return err
			}
			renamed, err := s.RenameTrip(cmd.Context(), trip.ID, args[1])
			if err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Renamed %s to %s", trip.Name, renamed.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <trip>",
		Short: "Delete a trip and everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession(cmd.Context())
			if err != nil {
				return err
			}
			trip, err := findTrip(s.Trips(), args[0])
			if err != nil {
				return err
			}
			if err := s.DeleteTrip(cmd.Context(), trip.ID); err != nil {
				return err
			}
			done(cmd.OutOrStdout(), "Deleted trip %s", trip.Name)
			return nil
		},
	})

	return cmd
}

func listTrips(cmd *cobra.Command, _ []string) error {
	s, _, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	remember(tabTrips)

	trips := s.Trips()
	out := cmd.OutOrStdout()
	if len(trips) == 0 {
		fmt.Fprintln(out, dimStyle.Render("No trips yet. Create one with `tripctl trips create <name>`."))
		return nil
	}

	tw := newTable(out, "", "NAME", "CREATED", "ID")
	for _, t := range trips {
		marker := " "
		if t.ID == s.ActiveTripID() {
			marker = okStyle.Render("*")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", marker, t.Name, t.CreatedAt.Local().Format(dateLayout), dimStyle.Render(t.ID))
	}
	return tw.Flush()
}
