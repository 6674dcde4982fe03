package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"shelfmate/internal/dto"
	"shelfmate/internal/service"
)

type ChallengeHandler struct {
	svc service.ChallengeService
}

func NewChallengeHandler(svc service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{svc: svc}
}

func (h *ChallengeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/", h.SetTarget)
	rg.GET("/", h.Progress)
}

func (h *ChallengeHandler) SetTarget(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.SetChallengeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	challenge, err := h.svc.SetTarget(ctx, userID.(string), req.Year, req.TargetBooks)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTarget) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target must be at least 1"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// Progress returns the challenge plus pacing derived from the shelf.
// The year defaults to the current one.
func (h *ChallengeHandler) Progress(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	now := time.Now()
	year := now.Year()
	if yearStr := c.Query("year"); yearStr != "" {
		parsed, err := strconv.Atoi(yearStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = parsed
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	progress, err := h.svc.Progress(ctx, userID.(string), year, now)
	if err != nil {
		if errors.Is(err, service.ErrNoChallenge) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no challenge set for this year"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, progress)
}
