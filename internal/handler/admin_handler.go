package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/response"
	"github.com/alumnet/alumni-backend/internal/service"
	"github.com/alumnet/alumni-backend/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler handles account administration endpoints.
type AdminHandler struct {
	adminService *service.AdminService
	log          zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		log:          log.With().Str("component", "admin_handler").Logger(),
	}
}

// ListAccounts godoc
// GET /api/v1/admin/accounts
// Returns a paginated account list, optionally filtered by ?role=.
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	accounts, pagination, err := h.adminService.ListAccounts(c.Request.Context(), model.AccountFilter{
		Role:    model.Role(c.Query("role")),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.Paged(c, http.StatusOK, accounts, pagination)
}

// ExportAccounts godoc
// GET /api/v1/admin/accounts/export
// Downloads every account, optionally filtered by ?role=, as an xlsx workbook.
func (h *AdminHandler) ExportAccounts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.adminService.ExportAccounts(c.Request.Context(), &buf, model.Role(c.Query("role"))); err != nil {
		respondError(c, h.log, err)
		return
	}

	filename := fmt.Sprintf("accounts_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// UpdateRole godoc
// PATCH /api/v1/admin/accounts/:id/role
// Changes an account's role and admin category. Super admin only.
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	caller := identity(c)
	if caller == nil {
		return
	}

	target, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	account, err := h.adminService.ChangeRole(c.Request.Context(), *caller, target, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"user": account})
}
