package dto

import (
	"shelfmate/internal/catalog"
	"shelfmate/internal/recommend"
)

// CatalogSearchResponse: catalog results for a query. Applied reports
// whether these results came from the latest issued request.
type CatalogSearchResponse struct {
	Results []catalog.Result `json:"results"`
	Applied bool             `json:"applied"`
}

// RecommendationsResponse: AI reading suggestions
type RecommendationsResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
}
