package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"gpstrace.dev/internal/reportstore"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently recorded analysis runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	return cmd
}

func runHistory(limit int) error {
	store, err := reportstore.Open(flagHistoryDB)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	records, err := store.Recent(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("listing runs: %w", err)
	}
	if len(records) == 0 {
		fmt.Println("no recorded runs")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RAN AT\tVEHICLE\tROUTE\tDISTANCE\tLOOPS\tSPEEDING\tSTOPS\tLIVENESS")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s km\t%d\t%d\t%d\t%s\n",
			humanize.Time(r.RanAt), r.VehicleName, r.RouteName, r.DistanceKmStr,
			r.Loops, r.SpeedViolations, r.StopViolations,
			humanize.FormatFloat("#,###.##", r.LivenessTotalS)+"s")
	}
	return tw.Flush()
}
