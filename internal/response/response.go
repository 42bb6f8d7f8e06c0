package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JeremyNakano12/nakanostay-backend/internal/domain"
)

// Envelope is the body shape shared by every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type ErrorBody struct {
	Code       string                  `json:"code"`
	Message    string                  `json:"message"`
	Violations []domain.FieldViolation `json:"violations,omitempty"`
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Paginated wraps a page of results with its pagination metadata.
func Paginated[T any](c *gin.Context, result domain.PaginatedResult[T]) {
	totalPages := 0
	if result.Limit > 0 {
		totalPages = int((result.Total + int64(result.Limit) - 1) / int64(result.Limit))
	}
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    result.Items,
		Meta: &Meta{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: totalPages,
		},
	})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: "BAD_REQUEST", Message: message},
	})
}

func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: "UNAUTHORIZED", Message: message},
	})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: "FORBIDDEN", Message: message},
	})
}

func InternalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, Envelope{
		Success: false,
		Error:   &ErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
	})
}

// Error maps domain errors onto HTTP status codes.
func Error(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, Envelope{
			Success: false,
			Error: &ErrorBody{
				Code:       "VALIDATION_ERROR",
				Message:    "request validation failed",
				Violations: validationErr.Violations,
			},
		})
		return
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, Envelope{
			Success: false,
			Error:   &ErrorBody{Code: "NOT_FOUND", Message: notFoundErr.Error()},
		})
		return
	}

	var invalidStateErr *domain.InvalidStateError
	if errors.As(err, &invalidStateErr) {
		c.JSON(http.StatusConflict, Envelope{
			Success: false,
			Error:   &ErrorBody{Code: "INVALID_STATE", Message: invalidStateErr.Error()},
		})
		return
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, Envelope{
			Success: false,
			Error:   &ErrorBody{Code: "CONFLICT", Message: conflictErr.Error()},
		})
		return
	}

	var unauthorizedErr *domain.UnauthorizedError
	if errors.As(err, &unauthorizedErr) {
		c.JSON(http.StatusUnauthorized, Envelope{
			Success: false,
			Error:   &ErrorBody{Code: "UNAUTHORIZED", Message: unauthorizedErr.Error()},
		})
		return
	}

	var forbiddenErr *domain.ForbiddenError
	if errors.As(err, &forbiddenErr) {
		c.JSON(http.StatusForbidden, Envelope{
			Success: false,
			Error:   &ErrorBody{Code: "FORBIDDEN", Message: forbiddenErr.Error()},
		})
		return
	}

	InternalError(c)
}
