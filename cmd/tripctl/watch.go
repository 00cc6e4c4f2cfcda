package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmynk/moneytravel/internal/events"
)

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream changes to the active trip as they happen",
		Long: `Stream changes to the active trip from the server's event broker.

The broker URL comes from --amqp-url or TRIPCTL_AMQP_URL and must match the
AMQP_URL the server publishes to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url := viper.GetString(keyAMQPURL)
			if url == "" {
				return errors.New("no broker configured, set --amqp-url")
			}

			s, _, err := requireTrip(cmd.Context())
			if err != nil {
				return err
			}
			tripID := s.ActiveTripID()

			broker, err := events.DialAMQP(url, viper.GetString(keyAMQPExchange), slog.Default())
			if err != nil {
				return err
			}
			defer broker.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, dimStyle.Render("Watching "+tripID+", press Ctrl+C to stop"))
			err = broker.Subscribe(cmd.Context(), func(e events.Event) error {
				if concernsTrip(e, tripID) {
					printEvent(out, e)
				}
				return nil
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().String("amqp-url", "", "AMQP broker URL")
	cmd.Flags().String("exchange", "moneytravel", "AMQP exchange the server publishes to")
	_ = viper.BindPFlag(keyAMQPURL, cmd.Flags().Lookup("amqp-url"))
	_ = viper.BindPFlag(keyAMQPExchange, cmd.Flags().Lookup("exchange"))
	return cmd
}

// concernsTrip keeps events of tripID. Delete events of trip-scoped entities
// carry no trip ID and are kept too.
func concernsTrip(e events.Event, tripID string) bool {
	return e.TripID == "" || e.TripID == tripID
}

func printEvent(w io.Writer, e events.Event) {
	line := fmt.Sprintf("%s  %s", e.At.Local().Format("15:04:05"), headerStyle.Render(string(e.Type)))
	if e.EntityID != "" {
		line += "  " + dimStyle.Render(shortID(e.EntityID))
	}
	fmt.Fprintln(w, line)
}
