package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/locus-group/facility-cli/internal/centroid"
	"github.com/locus-group/facility-cli/internal/importer"
	"github.com/locus-group/facility-cli/internal/table"
)

var (
	centroidInput     string
	centroidDelimiter string
	centroidEncoding  string
	centroidSheet     string
)

var centroidCmd = &cobra.Command{
	Use:   "centroid",
	Short: "Compute the weighted center of gravity for a point file",
	Long: `Imports a point table (CSV, XLSX, or point shapefile; http(s) URLs fetch
remote CSV), normalizes it to the canonical schema, and prints the weighted
centroid with a per-point breakdown.

Examples:
  facility-cli centroid --input points.csv
  facility-cli centroid --input points.csv --delimiter ';' --encoding cp1250
  facility-cli centroid --input warehouses.xlsx --sheet Candidates`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		frame, status := loadFrame(cmd.Context(), centroidInput, importOptions(centroidDelimiter, centroidEncoding, centroidSheet))
		if status != "" {
			fmt.Println(status)
		}

		points := table.Normalize(frame)
		if len(points) == 0 {
			fmt.Println("No usable points. Add at least one row with numeric coordinates.")
			return nil
		}

		res := centroid.Compute(points)
		zap.L().Debug("centroid computed",
			zap.Int("points", len(points)),
			zap.Bool("fallback_average", res.UsedFallbackAverage),
		)

		fmt.Printf("Points: %d\n", len(points))
		fmt.Printf("X (longitude): %.6f\n", res.X)
		fmt.Printf("Y (latitude):  %.6f\n", res.Y)
		fmt.Printf("Weighted distance sum: %.6f\n", res.WeightedDistanceSum)
		if res.UsedFallbackAverage {
			fmt.Println("Warning: total weight ~0, used unweighted coordinate average.")
		}

		fmt.Printf("\n%-12s %-12s %-8s %-8s %-10s %-12s %-12s\n",
			"longitude", "latitude", "st", "mass", "weight", "distance", "w*distance")
		for _, row := range centroid.Breakdown(points, res.X, res.Y) {
			fmt.Printf("%-12.6f %-12.6f %-8.3f %-8.3f %-10.3f %-12.6f %-12.6f\n",
				row.Point.Lon, row.Point.Lat, row.Point.TransportRate, row.Point.Mass,
				row.Weight, row.Distance, row.WeightedDistance)
		}

		return nil
	},
}

func init() {
	centroidCmd.Flags().StringVar(&centroidInput, "input", "", "point table file or http(s) URL (required)")
	centroidCmd.Flags().StringVar(&centroidDelimiter, "delimiter", "", "CSV delimiter (default from config)")
	centroidCmd.Flags().StringVar(&centroidEncoding, "encoding", "", "CSV encoding: utf-8, cp1250, iso-8859-2 (default from config)")
	centroidCmd.Flags().StringVar(&centroidSheet, "sheet", "", "XLSX sheet name (default first sheet)")
	_ = centroidCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(centroidCmd)
}

// importOptions merges flag values over config defaults.
func importOptions(delimiter, encoding, sheet string) importer.Options {
	opts := importer.Options{SheetName: sheet}

	d := delimiter
	if d == "" {
		d = cfg.Import.Delimiter
	}
	if d != "" {
		opts.Delimiter = []rune(d)[0]
	}

	opts.Encoding = encoding
	if opts.Encoding == "" {
		opts.Encoding = cfg.Import.Encoding
	}

	return opts
}

// loadFrame reads a local file or fetches a remote CSV. Failures degrade to
// an empty frame plus a status message, matching the import boundary.
func loadFrame(ctx context.Context, input string, opts importer.Options) (table.Frame, string) {
	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		fetcher := importer.NewFetcher(
			time.Duration(cfg.Import.HTTPTimeout)*time.Second,
			cfg.Import.HTTPRateLimit,
		)
		return fetcher.FetchPoints(ctx, input, opts)
	}
	return importer.ReadPoints(input, opts)
}
