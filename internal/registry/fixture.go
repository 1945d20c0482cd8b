package registry

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/perception-cli/internal/model"
)

// LoadWatchlistFromFile reads a YAML list of model.Brand from the given path.
// Used in place of Notion when no integration token is configured.
func LoadWatchlistFromFile(path string) ([]model.Brand, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "registry: read watchlist fixture")
	}

	var doc struct {
		Brands []model.Brand `yaml:"brands"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "registry: unmarshal watchlist fixture")
	}

	for i := range doc.Brands {
		doc.Brands[i].Normalize()
	}

	return doc.Brands, nil
}
