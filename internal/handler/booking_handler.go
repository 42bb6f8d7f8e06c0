package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JeremyNakano12/nakanostay-backend/internal/application"
	"github.com/JeremyNakano12/nakanostay-backend/internal/response"
)

// BookingHandler handles the guest-facing booking endpoints. Guests have no
// accounts; a booking code plus the guest's identity number is the only
// credential.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers the public booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/bookings")
	{
		bookings.POST("", h.CreateBooking)
		bookings.GET("/code/:code", h.GetByCode)
		bookings.PUT("/code/:code/cancel", h.CancelByCode)
	}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetByCode handles GET /api/bookings/code/:code?dni=.
func (h *BookingHandler) GetByCode(c *gin.Context) {
	dni := c.Query("dni")
	if dni == "" {
		response.BadRequest(c, "dni query parameter is required")
		return
	}

	result, err := h.service.GetByCodeAndDNI(c.Request.Context(), c.Param("code"), dni)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelByCode handles PUT /api/bookings/code/:code/cancel?dni=.
func (h *BookingHandler) CancelByCode(c *gin.Context) {
	dni := c.Query("dni")
	if dni == "" {
		response.BadRequest(c, "dni query parameter is required")
		return
	}

	result, err := h.service.CancelByCodeAndDNI(c.Request.Context(), c.Param("code"), dni)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
