package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/perception-cli/internal/model"
)

var batchWatchlist string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run perception queries for every brand on the watchlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		p, err := initPipeline()
		if err != nil {
			return err
		}

		brands, err := loadWatchlist(ctx, batchWatchlist)
		if err != nil {
			return eris.Wrap(err, "load watchlist")
		}
		if len(brands) == 0 {
			zap.L().Warn("watchlist is empty, nothing to do")
			return nil
		}
		zap.L().Info("watchlist loaded", zap.Int("brands", len(brands)))

		var failed int
		for _, brand := range brands {
			run, err := st.CreateRun(ctx, brand)
			if err != nil {
				return eris.Wrap(err, "create run")
			}
			if err := st.UpdateRunStatus(ctx, run.ID, model.RunRunning); err != nil {
				return eris.Wrap(err, "mark run running")
			}

			result, err := p.Run(ctx, brand)
			if err != nil {
				failed++
				zap.L().Error("batch: brand failed",
					zap.String("brand", brand.Name),
					zap.Error(err),
				)
				if ferr := st.FailRun(ctx, run.ID, err); ferr != nil {
					zap.L().Warn("failed to record run failure", zap.String("run_id", run.ID), zap.Error(ferr))
				}
				continue
			}
			if err := st.UpdateRunResult(ctx, run.ID, result); err != nil {
				return eris.Wrap(err, "save run result")
			}

			zap.L().Info("batch: brand complete",
				zap.String("brand", brand.Name),
				zap.String("run_id", run.ID),
				zap.Int("total_tokens", result.TotalTokens),
			)
		}

		if failed == len(brands) {
			return eris.New("batch: every brand failed")
		}
		zap.L().Info("batch complete",
			zap.Int("brands", len(brands)),
			zap.Int("failed", failed),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchWatchlist, "watchlist", "", "path to watchlist YAML (used when Notion is not configured)")
	rootCmd.AddCommand(batchCmd)
}
