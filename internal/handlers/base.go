package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/identity-service/internal/services"
	"github.com/SAP-F-2025/identity-service/internal/utils"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

// ErrorResponse is the uniform error body. Details carries diagnostic
// context and is populated only outside production.
type ErrorResponse struct {
	Message string `json:"error"`
	Details string `json:"detail,omitempty"`
}

// BaseHandler provides shared logging and error mapping for handlers.
type BaseHandler struct {
	logger        utils.Logger
	exposeDetails bool
}

func NewBaseHandler(logger utils.Logger, exposeDetails bool) BaseHandler {
	return BaseHandler{logger: logger, exposeDetails: exposeDetails}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.LoggerFromContext(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err)
	utils.LoggerFromContext(c, h.logger).Error(msg, args...)
}

// handleServiceError maps service errors to HTTP status codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verr *validator.ValidationError
	var perr *services.PermissionError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: verr.Message})
	case errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrAccountDeactivated):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
	case errors.As(err, &perr):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Insufficient permissions"})
	case errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	default:
		h.LogError(c, err, "Unexpected service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
			Details: h.errorDetails(err),
		})
	}
}

func (h *BaseHandler) errorDetails(err error) string {
	if !h.exposeDetails {
		return ""
	}
	return err.Error()
}
