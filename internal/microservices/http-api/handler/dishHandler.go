package handler

import (
	"errors"
	"net/http"
	"strconv"

	"apero/internal/microservices/http-api/dto"
	"apero/internal/microservices/http-api/repository"
	"apero/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type DishHandler struct {
	dishService service.DishService
}

func NewDishHandler(dishService service.DishService) *DishHandler {
	return &DishHandler{
		dishService: dishService,
	}
}

// RegisterRoutes registers catalog browsing routes. Write routes get the
// auth middleware applied by the caller.
func (h *DishHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/dishes", h.List)
	public.GET("/dishes/:dish_id", h.Get)
	public.GET("/dishes/:dish_id/reviews", h.ListReviews)
	public.GET("/rankings", h.Rankings)
	public.GET("/dining-halls", h.ListDiningHalls)
	public.GET("/dining-halls/:slug", h.GetDiningHall)

	authed.POST("/dishes", h.Create)
}

// List retrieves dishes with optional search and filters
// GET /api/dishes?q=&category=&hall_id=&page=1&page_size=20
func (h *DishHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	hallID, _ := strconv.ParseInt(c.Query("hall_id"), 10, 64)
	filter := repository.DishFilter{
		Query:        c.Query("q"),
		Category:     c.Query("category"),
		DiningHallID: hallID,
		Page:         page,
		PageSize:     pageSize,
	}

	dishes, err := h.dishService.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dishes)
}

// Get retrieves one dish with its fixed-range display score
// GET /api/dishes/:dish_id
func (h *DishHandler) Get(c *gin.Context) {
	dishID, err := strconv.ParseInt(c.Param("dish_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dish ID"})
		return
	}

	dish, err := h.dishService.Get(c.Request.Context(), dishID)
	if err != nil {
		if errors.Is(err, service.ErrDishNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dish)
}

// Create manually adds a dish to the catalog
// POST /api/dishes
func (h *DishHandler) Create(c *gin.Context) {
	var req dto.CreateDishDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dish, err := h.dishService.Create(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrDiningHallNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dish)
}

// ListReviews retrieves reviews for a dish with pagination
// GET /api/dishes/:dish_id/reviews?page=1&page_size=20
func (h *DishHandler) ListReviews(c *gin.Context) {
	dishID, err := strconv.ParseInt(c.Param("dish_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dish ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, err := h.dishService.ListReviews(c.Request.Context(), dishID, page, pageSize)
	if err != nil {
		if errors.Is(err, service.ErrDishNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Rankings retrieves the campus-wide leaderboard
// GET /api/rankings?limit=50
func (h *DishHandler) Rankings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	rows, err := h.dishService.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rankings": rows})
}

// ListDiningHalls retrieves all dining locations
// GET /api/dining-halls
func (h *DishHandler) ListDiningHalls(c *gin.Context) {
	halls, err := h.dishService.ListDiningHalls(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dining_halls": halls})
}

// GetDiningHall retrieves one dining location by slug
// GET /api/dining-halls/:slug
func (h *DishHandler) GetDiningHall(c *gin.Context) {
	hall, err := h.dishService.GetDiningHall(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrDiningHallNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, hall)
}
