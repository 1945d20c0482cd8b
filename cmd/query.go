package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/perception-cli/internal/model"
)

var (
	queryBrand       string
	queryQuestion    string
	queryProducts    []string
	queryCompetitors []string
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one perception query for a single brand",
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

		brand := model.Brand{
			Name:        queryBrand,
			Question:    queryQuestion,
			Products:    queryProducts,
			Competitors: queryCompetitors,
		}
		brand.Normalize()

		run, err := st.CreateRun(ctx, brand)
		if err != nil {
			return eris.Wrap(err, "create run")
		}
		if err := st.UpdateRunStatus(ctx, run.ID, model.RunRunning); err != nil {
			return eris.Wrap(err, "mark run running")
		}

		result, err := p.Run(ctx, brand)
		if err != nil {
			if ferr := st.FailRun(ctx, run.ID, err); ferr != nil {
				zap.L().Warn("failed to record run failure", zap.String("run_id", run.ID), zap.Error(ferr))
			}
			return eris.Wrap(err, "perception run")
		}

		if err := st.UpdateRunResult(ctx, run.ID, result); err != nil {
			return eris.Wrap(err, "save run result")
		}

		zap.L().Info("perception query complete",
			zap.String("run_id", run.ID),
			zap.String("brand", brand.Name),
			zap.Int("models", len(result.Models)),
			zap.Int("total_tokens", result.TotalTokens),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryBrand, "brand", "", "brand name (required)")
	queryCmd.Flags().StringVar(&queryQuestion, "question", "", "perception question (default built-in)")
	queryCmd.Flags().StringSliceVar(&queryProducts, "product", nil, "product name to tag (repeatable)")
	queryCmd.Flags().StringSliceVar(&queryCompetitors, "competitor", nil, "competitor name to tag (repeatable)")
	_ = queryCmd.MarkFlagRequired("brand")
	rootCmd.AddCommand(queryCmd)
}
