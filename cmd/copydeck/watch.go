package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	lifecycleadapter "github.com/aretw0/copydeck/pkg/adapters/lifecycle"
)

var watchSettle time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print changes made to the deck store by other processes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		events, err := svc.Watch(ctx)
		if err != nil {
			return fail("Error starting watcher", err)
		}
		source := lifecycleadapter.NewSource(events, lifecycleadapter.WithSettle(watchSettle))
		if err := source.Start(ctx); err != nil {
			return fail("Error starting watcher", err)
		}

		slog.Info("watching for changes", "decks", svc.Store().Len(), "active", svc.Active())
		out := cmd.OutOrStdout()
		for e := range source.Events() {
			fmt.Fprintf(out, "%s (%d decks)\n", e, svc.Store().Len())
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchSettle, "settle", 100*time.Millisecond, "Coalesce bursts of changes within this window")
	rootCmd.AddCommand(watchCmd)
}
