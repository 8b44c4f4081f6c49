package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"gpstrace.dev/internal/config"
	"gpstrace.dev/internal/reportstore"
	"gpstrace.dev/internal/trace"
	"gpstrace.dev/internal/trip"
)

func newAnalyzeCmd() *cobra.Command {
	var vehiclePath, routePath, stopsPath, paramsPath string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run loop, speed, stop, and liveness analysis over a vehicle/route GPX pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(vehiclePath, routePath, stopsPath, paramsPath)
		},
	}
	cmd.Flags().StringVar(&vehiclePath, "vehicle", "", "path to the vehicle trace GPX file (required)")
	cmd.Flags().StringVar(&routePath, "route", "", "path to the reference route GPX file (required)")
	cmd.Flags().StringVar(&stopsPath, "stops", "", "path to a stop-zone waypoint GPX file (optional)")
	cmd.Flags().StringVar(&paramsPath, "params", "", "path to a YAML parameter document (optional)")
	cmd.MarkFlagRequired("vehicle")
	cmd.MarkFlagRequired("route")
	return cmd
}

func runAnalyze(vehiclePath, routePath, stopsPath, paramsPath string) error {
	vehicle, err := parseGPXFile(vehiclePath)
	if err != nil {
		return err
	}
	route, err := parseGPXFile(routePath)
	if err != nil {
		return err
	}

	var zones []trace.StopZone
	if stopsPath != "" {
		f, err := os.Open(stopsPath)
		if err != nil {
			return fmt.Errorf("opening stop-zone file: %w", err)
		}
		defer f.Close()
		points, err := trace.ParseWaypoints(f)
		if err != nil {
			return trip.WrapInputError(err)
		}
		zones = trace.ZonesFromPoints(points)
	}

	params, err := loadParams(paramsPath)
	if err != nil {
		return err
	}

	ctx := context.Background()
	start := time.Now()
	report, warnings := trip.Run(ctx, trip.AnalyzeInputs{
		VehicleSamples: vehicle,
		RouteSamples:   route,
		StopZones:      zones,
		Params:         params,
	})
	var degenerate *trip.DegenerateGridError
	for _, w := range warnings {
		slog.Warn("analyzer skipped", "reason", w)
		if derr, ok := w.(*trip.DegenerateGridError); ok {
			degenerate = derr
		}
	}
	slog.Info("analysis complete",
		"vehicle_samples", humanize.Comma(int64(len(vehicle))),
		"route_samples", humanize.Comma(int64(len(route))),
		"elapsed", time.Since(start))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	runID := uuid.NewString()
	store, err := reportstore.Open(flagHistoryDB)
	if err != nil {
		slog.Warn("opening history store", "error", err)
	} else {
		defer store.Close()
		if err := store.Record(ctx, runID, vehiclePath, routePath, start, report); err != nil {
			slog.Warn("recording run history", "run_id", runID, "error", err)
		}
	}

	// A degenerate grid makes the loop field meaningless even though the
	// other analyzers ran fine; surface it as the command's exit code
	// after the report has already been printed.
	if degenerate != nil {
		return degenerate
	}
	return nil
}

func parseGPXFile(path string) (trace.Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	stream, err := trace.ParseGPX(f)
	if err != nil {
		return nil, trip.WrapInputError(err)
	}
	return stream, nil
}

func loadParams(path string) (trip.Parameters, error) {
	if path == "" {
		return trip.Parameters{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return trip.Parameters{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return config.Load(f)
}
