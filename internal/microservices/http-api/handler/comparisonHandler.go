package handler

import (
	"errors"
	"net/http"
	"strconv"

	"apero/internal/microservices/http-api/dto"
	"apero/internal/microservices/http-api/service"
	"apero/internal/ranking"

	"github.com/gin-gonic/gin"
)

type ComparisonHandler struct {
	rankingService service.RankingService
}

func NewComparisonHandler(rankingService service.RankingService) *ComparisonHandler {
	return &ComparisonHandler{
		rankingService: rankingService,
	}
}

// RegisterRoutes registers comparison routes; all of them need a user.
func (h *ComparisonHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.GET("/comparisons/next", h.Next)
	authed.POST("/comparisons", h.Record)
	authed.POST("/dishes/:dish_id/reviews", h.SubmitReview)
}

// SubmitReview records a first impression and returns the follow-up pair
// POST /api/dishes/:dish_id/reviews
func (h *ComparisonHandler) SubmitReview(c *gin.Context) {
	dishID, err := strconv.ParseInt(c.Param("dish_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dish ID"})
		return
	}

	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	username, _ := c.Get("username")

	var req dto.CreateReviewDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.rankingService.SubmitReview(c.Request.Context(), userID.(string), username.(string), dishID, req)
	if err != nil {
		switch {
		case errors.Is(err, ranking.ErrInvalidSentiment):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrDishNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Next returns the user's next comparison pair. A skipped pair is simply
// requested again later; nothing is recorded for skips.
// GET /api/comparisons/next?include=<dish_id>
func (h *ComparisonHandler) Next(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	include, _ := strconv.ParseInt(c.Query("include"), 10, 64)

	pair, err := h.rankingService.NextPair(c.Request.Context(), userID.(string), include)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Record applies a preference judgment
// POST /api/comparisons
func (h *ComparisonHandler) Record(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.RecordPreferenceDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.rankingService.RecordPreference(c.Request.Context(), userID.(string), req.WinnerID, req.LoserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfComparison):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrDishNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPairAlreadyJudged):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrConcurrentUpdate):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
