package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Analyze every contract document in a directory",
	Long:  "Runs the analysis pipeline over all .txt documents in a directory, bounded by the configured concurrency and request rate. Individual failures are recorded and do not abort the batch.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		files, err := collectDocuments(args[0])
		if err != nil {
			return err
		}

		return processBatch(ctx, env, files, batchLimit, cfg.Batch.MaxConcurrent, cfg.Batch.RatePerSec)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

// collectDocuments lists the .txt files in dir, sorted for stable ordering.
func collectDocuments(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, eris.Wrapf(err, "glob %s", dir)
	}
	sort.Strings(matches)
	return matches, nil
}

// processBatch analyzes files concurrently. Concurrency bounds parallel
// pipeline runs; the rate limiter spaces out new starts so the analysis
// service is not burst-loaded.
func processBatch(ctx context.Context, env *pipelineEnv, files []string, limit, concurrency int, ratePerSec float64) error {
	if len(files) == 0 {
		zap.L().Info("no documents found")
		return nil
	}
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("documents", len(files)),
		zap.Int("concurrency", concurrency),
		zap.Float64("rate_per_sec", ratePerSec),
	)

	limiter := rate.NewLimiter(rate.Limit(ratePerSec), 1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, path := range files {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err // context canceled, abort the batch
			}

			log := zap.L().With(zap.String("file", path))
			report, err := analyzeFile(gctx, env, path)
			if err != nil {
				failed.Add(1)
				log.Error("analysis failed", zap.Error(err))
				return nil // individual failure does not abort the batch
			}

			succeeded.Add(1)
			printRunSummary(os.Stdout, filepath.Base(path), report)
			log.Info("analysis complete",
				zap.Int("health", report.Score.Health),
				zap.Int("findings", report.Summary.TotalIssues),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch processing")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
