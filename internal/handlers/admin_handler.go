package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/identity-service/internal/services"
	"github.com/SAP-F-2025/identity-service/internal/utils"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

type AdminHandler struct {
	BaseHandler
	service   services.UserService
	validator *validator.Validator
}

func NewAdminHandler(service services.UserService, validator *validator.Validator, logger utils.Logger, exposeDetails bool) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger, exposeDetails),
		service:     service,
		validator:   validator,
	}
}

// SetAdminLevel changes an admin's level
// @Summary Change admin level
// @Description Set a new admin level and re-derive the permission set
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body services.UpdateAdminLevelRequest true "New admin level"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Invalid admin level or target is not an admin"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/users/{id}/admin-level [put]
func (h *AdminHandler) SetAdminLevel(c *gin.Context) {
	userID := c.Param("id")

	var req services.UpdateAdminLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: h.errorDetails(err),
		})
		return
	}
	if verr := h.validator.ValidateStruct(&req); verr != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: verr.Message})
		return
	}

	h.LogRequest(c, "Setting admin level", "user_id", userID, "admin_level", req.AdminLevel)

	user, err := h.service.SetAdminLevel(c.Request.Context(), userID, req.AdminLevel)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// SetActive activates or deactivates an account
// @Summary Set account active status
// @Description Flip the active flag; deactivation blocks future logins only
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body services.UpdateActiveRequest true "Active flag"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/users/{id}/active [put]
func (h *AdminHandler) SetActive(c *gin.Context) {
	userID := c.Param("id")

	var req services.UpdateActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: h.errorDetails(err),
		})
		return
	}
	if verr := h.validator.ValidateStruct(&req); verr != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: verr.Message})
		return
	}

	h.LogRequest(c, "Setting account status", "user_id", userID, "is_active", *req.IsActive)

	user, err := h.service.SetActive(c.Request.Context(), userID, *req.IsActive)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// AssignStudents replaces a proctor's assigned students
// @Summary Assign students to a proctor
// @Description Replace the proctor's assigned student id list
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Proctor user ID"
// @Param request body services.AssignStudentsRequest true "Student IDs"
// @Success 200 {object} models.User
// @Failure 400 {object} ErrorResponse "Unknown or non-student id in list"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /admin/proctors/{id}/students [put]
func (h *AdminHandler) AssignStudents(c *gin.Context) {
	proctorID := c.Param("id")

	var req services.AssignStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: h.errorDetails(err),
		})
		return
	}
	if verr := h.validator.ValidateStruct(&req); verr != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: verr.Message})
		return
	}

	h.LogRequest(c, "Assigning students", "proctor_id", proctorID, "count", len(req.StudentIDs))

	user, err := h.service.AssignStudents(c.Request.Context(), proctorID, req.StudentIDs)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ExportUsers streams the full account roster as an xlsx workbook
// @Summary Export user roster
// @Description Build and download an xlsx workbook of all accounts
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /admin/users/export [get]
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	h.LogRequest(c, "Exporting user roster")

	f, err := h.service.ExportRoster(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("users-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := f.Write(c.Writer); err != nil {
		h.LogError(c, err, "Failed to stream roster export")
	}
}
