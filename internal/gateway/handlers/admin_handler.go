package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory-system/internal/services/admin"
	"inventory-system/internal/services/support"
)

type AdminHTTPHandler struct {
	admin   *admin.Service
	support *support.Service
}

func NewAdminHTTPHandler(adminService *admin.Service, supportService *support.Service) *AdminHTTPHandler {
	return &AdminHTTPHandler{
		admin:   adminService,
		support: supportService,
	}
}

type UserTypeRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *AdminHTTPHandler) Dashboard(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.admin.Dashboard(ctx)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Dashboard retrieved successfully", resp))
}

func (h *AdminHTTPHandler) SupportStatistics(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.support.Statistics(ctx)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Support statistics retrieved successfully", resp))
}

// --- Users ---

func (h *AdminHTTPHandler) ListUsers(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.admin.GetAllUsers(ctx)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Users retrieved successfully", resp, countMeta(len(resp))))
}

func (h *AdminHTTPHandler) GetUser(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.admin.GetUserByID(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("User retrieved successfully", resp))
}

func (h *AdminHTTPHandler) DeleteUser(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := h.admin.DeleteUser(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, errorResponse("User not found"))
		return
	}

	c.JSON(http.StatusOK, successResponse("User deleted successfully", nil))
}

// --- User types ---

func (h *AdminHTTPHandler) ListUserTypes(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.admin.GetAllUserTypes(ctx)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("User types retrieved successfully", resp, countMeta(len(resp))))
}

func (h *AdminHTTPHandler) GetUserType(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.admin.GetUserTypeByID(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("User type retrieved successfully", resp))
}

func (h *AdminHTTPHandler) CreateUserType(c *gin.Context) {
	var req UserTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.admin.CreateUserType(ctx, req.Name)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("User type created successfully", resp))
}

func (h *AdminHTTPHandler) UpdateUserType(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req UserTypeRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.admin.UpdateUserType(ctx, id, req.Name)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("User type updated successfully", resp))
}

func (h *AdminHTTPHandler) DeleteUserType(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := h.admin.DeleteUserType(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, errorResponse("User type not found"))
		return
	}

	c.JSON(http.StatusOK, successResponse("User type deleted successfully", nil))
}
