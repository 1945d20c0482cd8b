package model

// Rating dimension keys, in canonical order. Every RatingVector carries
// exactly these five dimensions.
const (
	DimQuality         = "quality"
	DimPriceValue      = "price_value"
	DimBrandReputation = "brand_reputation"
	DimBrandTrust      = "brand_trust"
	DimCustomerService = "customer_service"
)

// Dimensions lists the rating dimension keys in canonical order.
var Dimensions = []string{
	DimQuality,
	DimPriceValue,
	DimBrandReputation,
	DimBrandTrust,
	DimCustomerService,
}

// RatingVector holds one model's sentiment judgment about a brand:
// five integer dimensions, each clamped to [1,10], plus a bounded
// free-text summary and the citations backing it.
type RatingVector struct {
	Quality         int        `json:"quality"`
	PriceValue      int        `json:"price_value"`
	BrandReputation int        `json:"brand_reputation"`
	BrandTrust      int        `json:"brand_trust"`
	CustomerService int        `json:"customer_service"`
	Summary         string     `json:"summary"`
	Citations       []Citation `json:"citations,omitempty"`
}

// Get returns the value of the named dimension, or 0 for an unknown key.
func (r RatingVector) Get(dim string) int {
	switch dim {
	case DimQuality:
		return r.Quality
	case DimPriceValue:
		return r.PriceValue
	case DimBrandReputation:
		return r.BrandReputation
	case DimBrandTrust:
		return r.BrandTrust
	case DimCustomerService:
		return r.CustomerService
	}
	return 0
}

// Set assigns the named dimension, clamping the value to [1,10].
func (r *RatingVector) Set(dim string, v int) {
	v = ClampRating(v)
	switch dim {
	case DimQuality:
		r.Quality = v
	case DimPriceValue:
		r.PriceValue = v
	case DimBrandReputation:
		r.BrandReputation = v
	case DimBrandTrust:
		r.BrandTrust = v
	case DimCustomerService:
		r.CustomerService = v
	}
}

// ClampRating bounds a rating value to the [1,10] scale.
func ClampRating(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// Trend classifies cross-model agreement on one rating dimension,
// derived from the population standard deviation across input vectors.
type Trend string

const (
	TrendConsensus Trend = "consensus" // sigma < 0.5
	TrendModerate  Trend = "moderate"  // 0.5 <= sigma <= 1.5
	TrendDivergent Trend = "divergent" // sigma > 1.5
)

// AggregatedRating is one RatingVector synthesized from N independent
// model ratings, with per-dimension agreement classification. It holds
// value copies only and is never mutated after construction.
type AggregatedRating struct {
	RatingVector

	Trends     map[string]Trend   `json:"trends"`
	StdDev     map[string]float64 `json:"std_dev"`
	ModelCount int                `json:"model_count"`
}
