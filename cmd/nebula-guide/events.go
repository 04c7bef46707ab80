package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/terra-clan/nebula-guide/internal/models"
	"github.com/terra-clan/nebula-guide/internal/storage"
)

var (
	eventsKind   string
	eventsLimit  int
	eventsOffset int
	eventsJSON   bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect recorded tracking events (requires ANALYTICS_DSN)",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent tracking events, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRepository(cmd.Context(), func(ctx context.Context, repo storage.Repository) error {
			events, err := repo.ListEvents(ctx, storage.EventFilters{
				Kind:   eventsKind,
				Limit:  eventsLimit,
				Offset: eventsOffset,
			})
			if err != nil {
				return err
			}
			if eventsJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(events)
			}
			return printEvents(cmd.OutOrStdout(), events)
		})
	},
}

var eventsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count tracking events per kind",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRepository(cmd.Context(), func(ctx context.Context, repo storage.Repository) error {
			kinds := []string{models.EventReportGenerated, models.EventConsultRequested}
			if eventsKind != "" {
				kinds = []string{eventsKind}
			}
			for _, kind := range kinds {
				n, err := repo.CountEvents(ctx, kind)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %d\n", kind, n)
			}
			return nil
		})
	},
}

func init() {
	eventsCmd.PersistentFlags().StringVar(&eventsKind, "kind", "", "only events of this kind")
	eventsListCmd.Flags().IntVar(&eventsLimit, "limit", 50, "maximum number of events")
	eventsListCmd.Flags().IntVar(&eventsOffset, "offset", 0, "number of events to skip")
	eventsListCmd.Flags().BoolVar(&eventsJSON, "json", false, "print events as JSON")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsCountCmd)
}

func withRepository(parent context.Context, fn func(ctx context.Context, repo storage.Repository) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Analytics.DSN == "" {
		return fmt.Errorf("ANALYTICS_DSN is not set")
	}

	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()

	repo, err := storage.NewPostgresRepository(ctx, storage.PostgresConfig{
		DSN:      cfg.Analytics.DSN,
		MaxConns: 2,
	})
	if err != nil {
		return err
	}
	defer repo.Close()

	return fn(ctx, repo)
}

func printEvents(w io.Writer, events []*models.TrackingEvent) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tKIND\tNICKNAME\tID")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			ev.CreatedAt.Local().Format(time.DateTime), ev.Kind, ev.Nickname, ev.ID)
	}
	return tw.Flush()
}
