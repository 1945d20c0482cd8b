package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	// Replace global logger with no-op for tests (suppress warning output).
	zap.ReplaceGlobals(zap.NewNop())
}

// mockNotionClient implements notion.Client for testing.
type mockNotionClient struct {
	mock.Mock
}

func (m *mockNotionClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func makeBrandPage(id, name string, products, competitors []string, question string) notionapi.Page {
	props := notionapi.Properties{
		"Name": &notionapi.TitleProperty{
			Title: []notionapi.RichText{{PlainText: name}},
		},
	}
	if len(products) > 0 {
		var opts []notionapi.Option
		for _, p := range products {
			opts = append(opts, notionapi.Option{Name: p})
		}
		props["Products"] = &notionapi.MultiSelectProperty{MultiSelect: opts}
	}
	if len(competitors) > 0 {
		var opts []notionapi.Option
		for _, c := range competitors {
			opts = append(opts, notionapi.Option{Name: c})
		}
		props["Competitors"] = &notionapi.MultiSelectProperty{MultiSelect: opts}
	}
	if question != "" {
		props["Question"] = &notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{PlainText: question}},
		}
	}
	return notionapi.Page{
		ID:         notionapi.ObjectID(id),
		Properties: props,
	}
}

func TestLoadWatchlist_Success(t *testing.T) {
	mc := new(mockNotionClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "wl-db", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{
				makeBrandPage("b1", "Acme", []string{"Acme Cloud"}, []string{"Globex"}, "How is Acme perceived?"),
				makeBrandPage("b2", "Initech", nil, nil, ""),
			},
			HasMore: false,
		}, nil).Once()

	brands, err := LoadWatchlist(ctx, mc, "wl-db")
	assert.NoError(t, err)
	assert.Len(t, brands, 2)

	assert.Equal(t, "Acme", brands[0].Name)
	assert.Equal(t, []string{"Acme Cloud"}, brands[0].Products)
	assert.Equal(t, []string{"Globex"}, brands[0].Competitors)
	assert.Equal(t, "How is Acme perceived?", brands[0].Question)

	assert.Equal(t, "Initech", brands[1].Name)
	assert.Empty(t, brands[1].Products)
	mc.AssertExpectations(t)
}

func TestLoadWatchlist_Pagination(t *testing.T) {
	mc := new(mockNotionClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "wl-db", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		return req.StartCursor == ""
	})).Return(&notionapi.DatabaseQueryResponse{
		Results:    []notionapi.Page{makeBrandPage("b1", "Acme", nil, nil, "")},
		HasMore:    true,
		NextCursor: "cursor-2",
	}, nil).Once()

	mc.On("QueryDatabase", ctx, "wl-db", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		return req.StartCursor == "cursor-2"
	})).Return(&notionapi.DatabaseQueryResponse{
		Results: []notionapi.Page{makeBrandPage("b2", "Globex", nil, nil, "")},
		HasMore: false,
	}, nil).Once()

	brands, err := LoadWatchlist(ctx, mc, "wl-db")
	assert.NoError(t, err)
	assert.Len(t, brands, 2)
	assert.Equal(t, "Acme", brands[0].Name)
	assert.Equal(t, "Globex", brands[1].Name)
	mc.AssertExpectations(t)
}

func TestLoadWatchlist_SkipsMalformedPages(t *testing.T) {
	mc := new(mockNotionClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "wl-db", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{
				makeBrandPage("b1", "", nil, nil, ""), // missing Name
				makeBrandPage("b2", "Acme", nil, nil, ""),
			},
			HasMore: false,
		}, nil).Once()

	brands, err := LoadWatchlist(ctx, mc, "wl-db")
	assert.NoError(t, err)
	assert.Len(t, brands, 1)
	assert.Equal(t, "Acme", brands[0].Name)
}

func TestLoadWatchlist_QueryError(t *testing.T) {
	mc := new(mockNotionClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "wl-db", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(nil, assert.AnError).Once()

	_, err := LoadWatchlist(ctx, mc, "wl-db")
	assert.Error(t, err)
}

func TestLoadWatchlistFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	data := `brands:
  - name: "  Acme  "
    products: ["Acme Cloud", "  "]
    competitors: ["Globex"]
  - name: Initech
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	brands, err := LoadWatchlistFromFile(path)
	require.NoError(t, err)
	require.Len(t, brands, 2)

	assert.Equal(t, "Acme", brands[0].Name)
	assert.Equal(t, []string{"Acme Cloud"}, brands[0].Products)
	assert.Equal(t, "Initech", brands[1].Name)
}

func TestLoadWatchlistFromFile_Missing(t *testing.T) {
	_, err := LoadWatchlistFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
