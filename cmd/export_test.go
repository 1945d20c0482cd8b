package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/perception-cli/internal/model"
)

func exportFixtureRuns() []model.Run {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	agg := &model.AggregatedRating{
		RatingVector: model.RatingVector{
			Quality:         8,
			PriceValue:      6,
			BrandReputation: 7,
			BrandTrust:      7,
			CustomerService: 9,
			Summary:         "Acme leads on support.",
		},
		Trends: map[string]model.Trend{
			model.DimQuality:         model.TrendConsensus,
			model.DimPriceValue:      model.TrendDivergent,
			model.DimBrandReputation: model.TrendModerate,
			model.DimBrandTrust:      model.TrendConsensus,
			model.DimCustomerService: model.TrendConsensus,
		},
		ModelCount: 2,
	}

	return []model.Run{
		{
			ID:        "run-1",
			Brand:     "Acme",
			Question:  "How is Acme perceived?",
			Status:    model.RunCompleted,
			CreatedAt: created,
			Result: &model.RunResult{
				Models: []model.ModelRecord{
					{Provider: "anthropic", Rating: &model.RatingVector{Quality: 8, Citations: []model.Citation{{URL: "https://g2.com/acme", Domain: "g2.com"}}}, Attempts: 1},
					{Provider: "openai", Attempts: 3, Error: "all attempts failed"},
				},
				TotalTokens: 512,
				Aggregate:   agg,
			},
		},
		// Completed but aggregate missing: models still exported, no runs row.
		{
			ID:        "run-2",
			Brand:     "Globex",
			Status:    model.RunCompleted,
			CreatedAt: created,
			Result: &model.RunResult{
				Models: []model.ModelRecord{{Provider: "perplexity", Attempts: 2}},
			},
		},
		// No result at all: skipped everywhere.
		{ID: "run-3", Brand: "Initech", Status: model.RunFailed, CreatedAt: created},
	}
}

func cellStrings(row *xlsx.Row) []string {
	out := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		out[i] = c.String()
	}
	return out
}

func TestWriteRunsSheet_OneRowPerAggregatedRun(t *testing.T) {
	f := xlsx.NewFile()
	require.NoError(t, writeRunsSheet(f, exportFixtureRuns()))

	sheet := f.Sheet["Runs"]
	require.NotNil(t, sheet)
	// Header plus exactly one row: run-2 has no aggregate, run-3 no result.
	require.Len(t, sheet.Rows, 2)

	header := cellStrings(sheet.Rows[0])
	assert.Equal(t, "Run ID", header[0])
	for _, dim := range model.Dimensions {
		assert.Contains(t, header, dim)
		assert.Contains(t, header, dim+" trend")
	}

	row := cellStrings(sheet.Rows[1])
	require.Len(t, row, len(header))
	assert.Equal(t, "run-1", row[0])
	assert.Equal(t, "Acme", row[1])
	assert.Equal(t, "2", row[3])   // models
	assert.Equal(t, "512", row[4]) // tokens

	// Dimension/trend pairs start after the six identity columns.
	assert.Equal(t, "8", row[6])
	assert.Equal(t, "consensus", row[7])
	assert.Equal(t, "6", row[8])
	assert.Equal(t, "divergent", row[9])
	assert.Equal(t, "Acme leads on support.", row[len(row)-1])
}

func TestWriteModelsSheet_OneRowPerModelRecord(t *testing.T) {
	f := xlsx.NewFile()
	require.NoError(t, writeModelsSheet(f, exportFixtureRuns()))

	sheet := f.Sheet["Models"]
	require.NotNil(t, sheet)
	// Header plus three records: two for run-1, one for run-2.
	require.Len(t, sheet.Rows, 4)

	first := cellStrings(sheet.Rows[1])
	assert.Equal(t, "run-1", first[0])
	assert.Equal(t, "anthropic", first[2])
	assert.Equal(t, "1", first[3])
	assert.Equal(t, "8", first[6]) // quality
	assert.Equal(t, "https://g2.com/acme", first[len(first)-1])

	// Failed record keeps its row with the error and dash ratings.
	second := cellStrings(sheet.Rows[2])
	assert.Equal(t, "openai", second[2])
	assert.Equal(t, "all attempts failed", second[5])
	assert.Equal(t, "-", second[6])

	third := cellStrings(sheet.Rows[3])
	assert.Equal(t, "run-2", third[0])
	assert.Equal(t, "perplexity", third[2])
}
