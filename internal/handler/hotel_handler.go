package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JeremyNakano12/nakanostay-backend/internal/application"
	"github.com/JeremyNakano12/nakanostay-backend/internal/auth"
	"github.com/JeremyNakano12/nakanostay-backend/internal/middleware"
	"github.com/JeremyNakano12/nakanostay-backend/internal/response"
)

// HotelHandler handles hotel endpoints. Reads are public; mutations are
// admin only.
type HotelHandler struct {
	hotels *application.HotelService
	rooms  *application.RoomService
}

// NewHotelHandler creates a new HotelHandler.
func NewHotelHandler(hotels *application.HotelService, rooms *application.RoomService) *HotelHandler {
	return &HotelHandler{hotels: hotels, rooms: rooms}
}

// RegisterRoutes registers hotel routes on the given router group.
func (h *HotelHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	public := r.Group("/api/hotels")
	{
		public.GET("", h.ListHotels)
		public.GET("/:id", h.GetHotel)
		public.GET("/:id/rooms", h.ListHotelRooms)
	}

	admin := r.Group("/api/admin/hotels")
	admin.Use(middleware.Auth(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("", h.CreateHotel)
		admin.PUT("/:id", h.UpdateHotel)
		admin.DELETE("/:id", h.DeleteHotel)
	}
}

// ListHotels handles GET /api/hotels.
func (h *HotelHandler) ListHotels(c *gin.Context) {
	result, err := h.hotels.ListHotels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetHotel handles GET /api/hotels/:id.
func (h *HotelHandler) GetHotel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
		return
	}

	result, err := h.hotels.GetHotel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListHotelRooms handles GET /api/hotels/:id/rooms.
func (h *HotelHandler) ListHotelRooms(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
		return
	}

	result, err := h.rooms.ListRoomsByHotel(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateHotel handles POST /api/admin/hotels.
func (h *HotelHandler) CreateHotel(c *gin.Context) {
	var req application.HotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.CreateHotel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateHotel handles PUT /api/admin/hotels/:id.
func (h *HotelHandler) UpdateHotel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
		return
	}

	var req application.HotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.hotels.UpdateHotel(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteHotel handles DELETE /api/admin/hotels/:id.
func (h *HotelHandler) DeleteHotel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
		return
	}

	if err := h.hotels.DeleteHotel(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
