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

type ListHandler struct {
	svc service.ListService
}

func NewListHandler(svc service.ListService) *ListHandler {
	return &ListHandler{svc: svc}
}

func (h *ListHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/", h.Create)
	rg.GET("/", h.Mine)
	rg.DELETE("/:list_id", h.Delete)
	rg.POST("/:list_id/items", h.AddItem)
	rg.DELETE("/:list_id/items/:book_id", h.RemoveItem)
	rg.GET("/search", h.SearchPublic)
}

func listIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("list_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list_id"})
		return 0, false
	}
	return id, true
}

func (h *ListHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	list, err := h.svc.Create(ctx, userID.(string), req.Title, req.Tag, req.IsPublic)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.NewListResponse(*list))
}

func (h *ListHandler) Mine(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	lists, err := h.svc.GetByUser(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]dto.ListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, dto.NewListResponse(l))
	}
	c.JSON(http.StatusOK, gin.H{"lists": out, "total": len(out)})
}

func (h *ListHandler) Delete(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	listID, ok := listIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, userID.(string), listID); err != nil {
		if errors.Is(err, service.ErrListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "list deleted"})
}

func (h *ListHandler) AddItem(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	listID, ok := listIDParam(c)
	if !ok {
		return
	}

	var req dto.AddListItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	err := h.svc.AddBook(ctx, userID.(string), listID, req.Title, req.Author, req.CoverURL, req.TotalPages)
	switch {
	case errors.Is(err, service.ErrListNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
	case errors.Is(err, service.ErrNotListOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "not the list owner"})
	case errors.Is(err, service.ErrAlreadyInList):
		c.JSON(http.StatusConflict, gin.H{"error": "book already in list"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "book added to list"})
	}
}

func (h *ListHandler) RemoveItem(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	listID, ok := listIDParam(c)
	if !ok {
		return
	}
	bookID, err := strconv.ParseInt(c.Param("book_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid book_id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.RemoveBook(ctx, userID.(string), listID, bookID); err != nil {
		switch {
		case errors.Is(err, service.ErrListNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "list not found"})
		case errors.Is(err, service.ErrNotListOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "not the list owner"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "book removed from list"})
}

// SearchPublic finds public lists by title or tag.
func (h *ListHandler) SearchPublic(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	lists, err := h.svc.SearchPublic(ctx, query, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]dto.ListResponse, 0, len(lists))
	for _, l := range lists {
		out = append(out, dto.NewListResponse(l))
	}
	c.JSON(http.StatusOK, gin.H{"lists": out, "total": len(out)})
}
