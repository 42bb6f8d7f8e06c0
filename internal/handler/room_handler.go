package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JeremyNakano12/nakanostay-backend/internal/application"
	"github.com/JeremyNakano12/nakanostay-backend/internal/auth"
	"github.com/JeremyNakano12/nakanostay-backend/internal/middleware"
	"github.com/JeremyNakano12/nakanostay-backend/internal/response"
)

// RoomHandler handles room endpoints. Reads and availability are public;
// mutations are admin only.
type RoomHandler struct {
	service *application.RoomService
}

// NewRoomHandler creates a new RoomHandler.
func NewRoomHandler(service *application.RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

// RegisterRoutes registers room routes on the given router group.
func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	public := r.Group("/api/rooms")
	{
		public.GET("", h.ListRooms)
		public.GET("/:id", h.GetRoom)
		public.GET("/:id/availability", h.GetAvailability)
	}

	admin := r.Group("/api/admin/rooms")
	admin.Use(middleware.Auth(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("", h.CreateRoom)
		admin.PUT("/:id", h.UpdateRoom)
		admin.PUT("/:id/available", h.MakeAvailable)
		admin.PUT("/:id/unavailable", h.MakeUnavailable)
		admin.DELETE("/:id", h.DeleteRoom)
	}
}

// ListRooms handles GET /api/rooms.
func (h *RoomHandler) ListRooms(c *gin.Context) {
	result, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetRoom handles GET /api/rooms/:id.
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	result, err := h.service.GetRoom(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetAvailability handles GET /api/rooms/:id/availability?from=&to=. Dates
// are YYYY-MM-DD; the window is half-open, so the to date itself is excluded.
func (h *RoomHandler) GetAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		response.BadRequest(c, "from and to query parameters are required")
		return
	}

	result, err := h.service.GetAvailability(c.Request.Context(), id, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateRoom handles POST /api/admin/rooms.
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req application.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateRoom handles PUT /api/admin/rooms/:id.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	var req application.RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateRoom(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// MakeAvailable handles PUT /api/admin/rooms/:id/available.
func (h *RoomHandler) MakeAvailable(c *gin.Context) {
	h.setAvailability(c, true)
}

// MakeUnavailable handles PUT /api/admin/rooms/:id/unavailable. Bookings
// already admitted for the room are not touched.
func (h *RoomHandler) MakeUnavailable(c *gin.Context) {
	h.setAvailability(c, false)
}

func (h *RoomHandler) setAvailability(c *gin.Context, available bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	result, err := h.service.SetRoomAvailability(c.Request.Context(), id, available)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteRoom handles DELETE /api/admin/rooms/:id.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	if err := h.service.DeleteRoom(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
