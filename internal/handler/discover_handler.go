package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shelfmate/internal/catalog"
	"shelfmate/internal/dto"
	"shelfmate/internal/recommend"
	"shelfmate/internal/service"
)

// DiscoverHandler serves catalog search and AI recommendations. The
// recommender may be nil when no API key is configured; the route then
// degrades to 503 instead of taking the whole server down.
type DiscoverHandler struct {
	searcher    *catalog.Searcher
	recommender *recommend.Service
	library     service.LibraryService
}

func NewDiscoverHandler(searcher *catalog.Searcher, recommender *recommend.Service, library service.LibraryService) *DiscoverHandler {
	return &DiscoverHandler{
		searcher:    searcher,
		recommender: recommender,
		library:     library,
	}
}

func (h *DiscoverHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/recommendations", h.Recommendations)
}

// Search queries the external catalog. Responses from superseded
// requests are discarded, so a slow early query can never overwrite the
// results of a later one.
func (h *DiscoverHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	results, applied, err := h.searcher.Search(ctx, query, 20)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog search failed"})
		return
	}

	c.JSON(http.StatusOK, dto.CatalogSearchResponse{Results: results, Applied: applied})
}

// Recommendations asks the model for suggestions based on the caller's
// shelf titles.
func (h *DiscoverHandler) Recommendations(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	if h.recommender == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "recommendations are not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	snap, err := h.library.Shelf(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	titles := make([]string, 0, len(snap.Books))
	for _, ub := range snap.Books {
		if ub.Book != nil {
			titles = append(titles, ub.Book.Title+" by "+ub.Book.Author)
		}
	}

	recs, err := h.recommender.Suggest(ctx, titles)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "recommendation provider failed"})
		return
	}

	c.JSON(http.StatusOK, dto.RecommendationsResponse{Recommendations: recs})
}
