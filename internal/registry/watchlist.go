// Package registry loads the brand watchlist from Notion or a local fixture.
package registry

import (
	"context"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/perception-cli/internal/model"
	"github.com/sells-group/perception-cli/pkg/notion"
)

// LoadWatchlist queries the Notion watchlist database for all active brands
// and returns them as model.Brand values.
func LoadWatchlist(ctx context.Context, client notion.Client, dbID string) ([]model.Brand, error) {
	filter := &notionapi.DatabaseQueryRequest{
		Filter: notionapi.PropertyFilter{
			Property: "Status",
			Status: &notionapi.StatusFilterCondition{
				Equals: "Active",
			},
		},
	}

	pages, err := notion.QueryAll(ctx, client, dbID, filter)
	if err != nil {
		return nil, eris.Wrap(err, "registry: load watchlist")
	}

	var brands []model.Brand
	for _, p := range pages {
		b, err := parseBrandPage(p)
		if err != nil {
			zap.L().Warn("registry: skipping malformed watchlist page",
				zap.String("page_id", string(p.ID)),
				zap.Error(err),
			)
			continue
		}
		b.Normalize()
		brands = append(brands, b)
	}

	return brands, nil
}

func parseBrandPage(p notionapi.Page) (model.Brand, error) {
	var b model.Brand

	// Name (title)
	if prop, ok := p.Properties["Name"]; ok {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			b.Name = plainText(tp.Title)
		}
	}

	// Products (multi_select)
	if prop, ok := p.Properties["Products"]; ok {
		if msp, ok := prop.(*notionapi.MultiSelectProperty); ok {
			for _, opt := range msp.MultiSelect {
				b.Products = append(b.Products, opt.Name)
			}
		}
	}

	// Competitors (multi_select)
	if prop, ok := p.Properties["Competitors"]; ok {
		if msp, ok := prop.(*notionapi.MultiSelectProperty); ok {
			for _, opt := range msp.MultiSelect {
				b.Competitors = append(b.Competitors, opt.Name)
			}
		}
	}

	// Question (rich_text)
	if prop, ok := p.Properties["Question"]; ok {
		if rtp, ok := prop.(*notionapi.RichTextProperty); ok {
			b.Question = plainText(rtp.RichText)
		}
	}

	if b.Name == "" {
		return b, eris.New("missing Name property")
	}

	return b, nil
}

// plainText concatenates the plain_text values from a slice of RichText.
func plainText(rts []notionapi.RichText) string {
	var s string
	for _, rt := range rts {
		s += rt.PlainText
	}
	return s
}
