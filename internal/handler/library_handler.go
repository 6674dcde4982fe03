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

type LibraryHandler struct {
	svc service.LibraryService
}

func NewLibraryHandler(svc service.LibraryService) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

func (h *LibraryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Shelf)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/books", h.AddBook)
	rg.POST("/books/:book_id/start", h.StartReading)
	rg.PATCH("/books/:book_id/progress", h.UpdateProgress)
	rg.POST("/books/:book_id/review", h.SubmitReview)
	rg.PATCH("/books/:book_id/favorite", h.SetFavorite)
	rg.DELETE("/books/:book_id", h.Remove)
}

func bookIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book_id"})
		return 0, false
	}
	return id, true
}

// Shelf returns the user's full snapshot with derived counts and stats.
func (h *LibraryHandler) Shelf(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	snap, err := h.svc.Shelf(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.NewShelfResponse(snap))
}

// Refresh forces a snapshot reload from the database.
func (h *LibraryHandler) Refresh(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Refresh(ctx, userID.(string)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "shelf refreshed"})
}

func (h *LibraryHandler) AddBook(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := h.svc.AddBook(ctx, userID.(string), req.Title, req.Author, req.CoverURL, req.TotalPages)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.NewUserBookResponse(*record))
}

func (h *LibraryHandler) StartReading(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := h.svc.StartReading(ctx, userID.(string), bookID)
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
	case errors.Is(err, service.ErrAlreadyFinished):
		c.JSON(http.StatusConflict, gin.H{"error": "book is already finished"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, dto.NewUserBookResponse(*record))
	}
}

func (h *LibraryHandler) UpdateProgress(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := h.svc.UpdateProgress(ctx, userID.(string), bookID, req.CurrentPage)
	switch {
	case errors.Is(err, service.ErrNotTracked):
		c.JSON(http.StatusNotFound, gin.H{"error": "book is not being tracked"})
	case errors.Is(err, service.ErrAlreadyFinished):
		c.JSON(http.StatusConflict, gin.H{"error": "book is already finished"})
	case errors.Is(err, service.ErrPageOutOfRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": "current page exceeds total pages"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, dto.NewUserBookResponse(*record))
	}
}

func (h *LibraryHandler) SubmitReview(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	record, err := h.svc.SubmitReview(ctx, userID.(string), bookID, req.Rating, req.ReviewText, req.IsSpoiler)
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "book not found"})
	case errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, dto.NewUserBookResponse(*record))
	}
}

func (h *LibraryHandler) SetFavorite(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	var req dto.SetFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.SetFavorite(ctx, userID.(string), bookID, req.IsFavorite); err != nil {
		if errors.Is(err, service.ErrNotTracked) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book is not being tracked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "favorite updated"})
}

// Remove drops the tracking row; the global book row stays.
func (h *LibraryHandler) Remove(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	bookID, ok := bookIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Replace(ctx, userID.(string), bookID); err != nil {
		if errors.Is(err, service.ErrNotTracked) {
			c.JSON(http.StatusNotFound, gin.H{"error": "book is not being tracked"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book removed from shelf"})
}
