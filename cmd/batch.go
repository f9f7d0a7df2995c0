package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/locus-group/facility-cli/internal/centroid"
	"github.com/locus-group/facility-cli/internal/table"
)

var batchConcurrency int

type batchResult struct {
	path   string
	points int
	result centroid.Result
	status string
}

var batchCmd = &cobra.Command{
	Use:   "batch [files...]",
	Short: "Compute centroids for many point files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.MaxConcurrentFiles
		}

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(concurrency)

		var mu sync.Mutex
		results := make(map[string]batchResult, len(args))

		for _, path := range args {
			path := path
			g.Go(func() error {
				frame, status := loadFrame(ctx, path, importOptions("", "", ""))
				points := table.Normalize(frame)
				res := centroid.Compute(points)

				mu.Lock()
				results[path] = batchResult{path: path, points: len(points), result: res, status: status}
				mu.Unlock()

				zap.L().Debug("batch file done", zap.String("path", path), zap.Int("points", len(points)))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		fmt.Printf("%-30s %-8s %-12s %-12s %-14s\n", "file", "points", "x", "y", "w_dist_sum")
		for _, path := range args {
			r := results[path]
			if r.points == 0 {
				note := r.status
				if note == "" {
					note = "no usable points"
				}
				fmt.Printf("%-30s %-8d (%s)\n", r.path, 0, note)
				continue
			}
			fmt.Printf("%-30s %-8d %-12.6f %-12.6f %-14.6f\n",
				r.path, r.points, r.result.X, r.result.Y, r.result.WeightedDistanceSum)
		}

		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max files processed in parallel (default from config)")
	rootCmd.AddCommand(batchCmd)
}
