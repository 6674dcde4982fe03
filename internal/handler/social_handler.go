package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shelfmate/internal/dto"
	"shelfmate/internal/models"
	"shelfmate/internal/service"
)

// SocialHandler groups follow edges and profiles; the two are always
// read together on people pages.
type SocialHandler struct {
	follows  service.FollowService
	profiles service.ProfileService
}

func NewSocialHandler(follows service.FollowService, profiles service.ProfileService) *SocialHandler {
	return &SocialHandler{follows: follows, profiles: profiles}
}

func (h *SocialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/follow/:user_id", h.ToggleFollow)
	rg.GET("/followers", h.Followers)
	rg.GET("/following", h.Following)
	rg.GET("/profile", h.MyProfile)
	rg.PUT("/profile", h.UpdateProfile)
	rg.GET("/profiles/:user_id", h.GetProfile)
	rg.GET("/profiles", h.SearchProfiles)
}

// ToggleFollow flips the edge to the target; the same call follows and
// unfollows depending on the current state.
func (h *SocialHandler) ToggleFollow(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	targetID := c.Param("user_id")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	following, err := h.follows.Toggle(ctx, userID.(string), targetID)
	if err != nil {
		if errors.Is(err, service.ErrSelfFollow) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot follow yourself"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.FollowToggleResponse{Following: following})
}

func (h *SocialHandler) Followers(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	edges, err := h.follows.Followers(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"followers": edges, "total": len(edges)})
}

func (h *SocialHandler) Following(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	edges, err := h.follows.Following(ctx, userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": edges, "total": len(edges)})
}

func (h *SocialHandler) MyProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	h.profileByID(c, userID.(string))
}

func (h *SocialHandler) GetProfile(c *gin.Context) {
	h.profileByID(c, c.Param("user_id"))
}

func (h *SocialHandler) profileByID(c *gin.Context, userID string) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *SocialHandler) UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profile := &models.Profile{
		ID:        userID.(string),
		Username:  req.Username,
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	}
	if err := h.profiles.Upsert(ctx, profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *SocialHandler) SearchProfiles(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	profiles, err := h.profiles.Search(ctx, query, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]dto.ProfileSummary, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, dto.NewProfileSummary(p))
	}
	c.JSON(http.StatusOK, gin.H{"profiles": out, "total": len(out)})
}
