package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shelfmate/internal/dto"
	"shelfmate/internal/service"
)

type FeedHandler struct {
	svc service.FeedService
}

func NewFeedHandler(svc service.FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

func (h *FeedHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Feed)
	rg.GET("/live", h.Live)
}

// Feed returns the merged activity feed, newest first. When the seed
// query fails the last merged view is still returned alongside a 200;
// the feed degrades to stale rather than empty.
func (h *FeedHandler) Feed(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	events, err := h.svc.Feed(ctx, userID.(string))
	if err != nil && len(events) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FeedResponse{Events: events, Total: len(events)})
}

// Live streams pushed activities to the client as server-sent events.
// Every received event is also merged into the user's feed, so a later
// Feed call and the stream agree on what was seen.
func (h *FeedHandler) Live(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	sub, err := h.svc.Subscribe(c.Request.Context(), userID.(string))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "live feed unavailable"})
		return
	}
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			h.svc.Merge(userID.(string), event)
			c.SSEvent("activity", event)
			return true
		}
	})
}
