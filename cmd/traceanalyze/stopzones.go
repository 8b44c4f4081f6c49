package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gpstrace.dev/internal/trace"
	"gpstrace.dev/internal/trip"
)

func newStopZonesCmd() *cobra.Command {
	parent := &cobra.Command{
		Use:   "stopzones",
		Short: "Work with legacy stop-zone CSV files",
	}
	parent.AddCommand(newStopZonesConvertCmd())
	return parent
}

func newStopZonesConvertCmd() *cobra.Command {
	var inPath, outPath string

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a legacy stop-zone CSV into a GPX waypoint file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStopZonesConvert(inPath, outPath)
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "path to the legacy stop-zone CSV (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "path to write the GPX waypoint file (required)")
	cmd.MarkFlagRequired("in")
	cmd.MarkFlagRequired("out")
	return cmd
}

func runStopZonesConvert(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", inPath, err)
	}
	defer in.Close()

	points, err := trace.StopZonesFromCSV(in)
	if err != nil {
		return trip.WrapInputError(err)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer out.Close()

	if err := trace.EncodeWaypoints(out, points); err != nil {
		return fmt.Errorf("encoding waypoints: %w", err)
	}
	return nil
}
