package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/perception-cli/internal/model"
	"github.com/sells-group/perception-cli/internal/store"
)

var (
	exportOut   string
	exportBrand string
	exportLimit int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export completed runs to an XLSX report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunCompleted,
			Brand:  exportBrand,
			Limit:  exportLimit,
		})
		if err != nil {
			return eris.Wrap(err, "export: list runs")
		}
		if len(runs) == 0 {
			return eris.New("export: no completed runs to export")
		}

		f := xlsx.NewFile()
		if err := writeRunsSheet(f, runs); err != nil {
			return err
		}
		if err := writeModelsSheet(f, runs); err != nil {
			return err
		}

		if err := f.Save(exportOut); err != nil {
			return eris.Wrap(err, "export: save xlsx")
		}

		zap.L().Info("export complete",
			zap.String("path", exportOut),
			zap.Int("runs", len(runs)),
		)
		return nil
	},
}

func writeRunsSheet(f *xlsx.File, runs []model.Run) error {
	sheet, err := f.AddSheet("Runs")
	if err != nil {
		return eris.Wrap(err, "export: add runs sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Run ID", "Brand", "Question", "Models", "Tokens", "Created"} {
		header.AddCell().SetString(h)
	}
	for _, dim := range model.Dimensions {
		header.AddCell().SetString(dim)
		header.AddCell().SetString(dim + " trend")
	}
	header.AddCell().SetString("Summary")

	for _, r := range runs {
		if r.Result == nil || r.Result.Aggregate == nil {
			continue
		}
		agg := r.Result.Aggregate

		row := sheet.AddRow()
		row.AddCell().SetString(r.ID)
		row.AddCell().SetString(r.Brand)
		row.AddCell().SetString(r.Question)
		row.AddCell().SetInt(len(r.Result.Models))
		row.AddCell().SetInt(r.Result.TotalTokens)
		row.AddCell().SetString(r.CreatedAt.Format("2006-01-02 15:04"))
		for _, dim := range model.Dimensions {
			row.AddCell().SetInt(agg.Get(dim))
			row.AddCell().SetString(string(agg.Trends[dim]))
		}
		row.AddCell().SetString(agg.Summary)
	}
	return nil
}

func writeModelsSheet(f *xlsx.File, runs []model.Run) error {
	sheet, err := f.AddSheet("Models")
	if err != nil {
		return eris.Wrap(err, "export: add models sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Run ID", "Brand", "Provider", "Attempts", "Elapsed ms", "Error"} {
		header.AddCell().SetString(h)
	}
	for _, dim := range model.Dimensions {
		header.AddCell().SetString(dim)
	}
	header.AddCell().SetString("Citations")

	for _, r := range runs {
		if r.Result == nil {
			continue
		}
		for _, rec := range r.Result.Models {
			row := sheet.AddRow()
			row.AddCell().SetString(r.ID)
			row.AddCell().SetString(r.Brand)
			row.AddCell().SetString(rec.Provider)
			row.AddCell().SetInt(rec.Attempts)
			row.AddCell().SetInt(int(rec.ElapsedMs))
			row.AddCell().SetString(rec.Error)
			for _, dim := range model.Dimensions {
				if rec.Rating != nil {
					row.AddCell().SetInt(rec.Rating.Get(dim))
				} else {
					row.AddCell().SetString("-")
				}
			}
			var cites string
			if rec.Rating != nil {
				for i, c := range rec.Rating.Citations {
					if i > 0 {
						cites += ", "
					}
					cites += c.URL
				}
			}
			row.AddCell().SetString(cites)
		}
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "perception-report.xlsx", "output file path")
	exportCmd.Flags().StringVar(&exportBrand, "brand", "", "filter by brand name")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 100, "maximum runs to export")
	rootCmd.AddCommand(exportCmd)
}
