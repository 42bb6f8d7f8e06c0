package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JeremyNakano12/nakanostay-backend/internal/application"
	"github.com/JeremyNakano12/nakanostay-backend/internal/auth"
	bookingDomain "github.com/JeremyNakano12/nakanostay-backend/internal/domain/booking"
	"github.com/JeremyNakano12/nakanostay-backend/internal/middleware"
	"github.com/JeremyNakano12/nakanostay-backend/internal/response"
)

// AdminBookingHandler handles the admin booking management endpoints.
type AdminBookingHandler struct {
	service *application.BookingService
}

// NewAdminBookingHandler creates a new AdminBookingHandler.
func NewAdminBookingHandler(service *application.BookingService) *AdminBookingHandler {
	return &AdminBookingHandler{service: service}
}

// RegisterRoutes registers admin booking routes.
func (h *AdminBookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.Auth(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.PUT("/bookings/code/:code/confirm", h.ConfirmBooking)
		admin.PUT("/bookings/code/:code/complete", h.CompleteBooking)
		admin.DELETE("/bookings/:id", h.DeleteBooking)
		admin.GET("/stats/bookings", h.BookingStats)
	}
}

// ListBookings handles GET /api/admin/bookings?status=&q=. The status filter
// matches exactly; q is a free-text term matched against booking code, guest
// identity number and guest name.
func (h *AdminBookingHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	var filter bookingDomain.Filter
	if raw := c.Query("status"); raw != "" {
		status, err := bookingDomain.ParseStatus(raw)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		filter.Status = &status
	}
	filter.FreeText = c.Query("q")

	result, err := h.service.ListAllBookings(c.Request.Context(), page, limit, filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result)
}

// ConfirmBooking handles PUT /api/admin/bookings/code/:code/confirm.
func (h *AdminBookingHandler) ConfirmBooking(c *gin.Context) {
	result, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CompleteBooking handles PUT /api/admin/bookings/code/:code/complete.
func (h *AdminBookingHandler) CompleteBooking(c *gin.Context) {
	result, err := h.service.CompleteBooking(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBooking handles DELETE /api/admin/bookings/:id.
func (h *AdminBookingHandler) DeleteBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	if err := h.service.DeleteBooking(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// BookingStats handles GET /api/admin/stats/bookings.
func (h *AdminBookingHandler) BookingStats(c *gin.Context) {
	stats, err := h.service.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}
