package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inventory-system/internal/gateway/middleware"
	"inventory-system/internal/services/account"
	"inventory-system/internal/services/party"
)

type AuthHTTPHandler struct {
	accounts *account.Service
}

func NewAuthHTTPHandler(accounts *account.Service) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		accounts: accounts,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	FullName        string    `json:"fullName" binding:"required"`
	Username        string    `json:"username" binding:"required"`
	Password        string    `json:"password" binding:"required"`
	ConfirmPassword string    `json:"confirmPassword" binding:"required"`
	UserTypeID      uuid.UUID `json:"userTypeId"`
}

type PartyRegisterRequest struct {
	FullName        string `json:"fullName" binding:"required"`
	Username        string `json:"username" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Name            string `json:"name" binding:"required"`
	Address         string `json:"address" binding:"required"`
	Contact         string `json:"contact" binding:"required"`
}

func (r PartyRegisterRequest) input() account.PartyRegisterInput {
	return account.PartyRegisterInput{
		FullName:        r.FullName,
		Username:        r.Username,
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		Profile: party.Input{
			Name:    r.Name,
			Address: r.Address,
			Contact: r.Contact,
		},
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// --- Authentication ---

func (h *AuthHTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.accounts.Login(ctx, account.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Login successful", resp))
}

// Register creates a user of any type. It is mounted behind the admin policy.
func (h *AuthHTTPHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.accounts.Register(ctx, account.RegisterInput{
		FullName:        req.FullName,
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		UserTypeID:      req.UserTypeID,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("User registered successfully", resp))
}

func (h *AuthHTTPHandler) RegisterCustomer(c *gin.Context) {
	var req PartyRegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.accounts.RegisterCustomer(ctx, req.input())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Customer registered successfully", resp))
}

func (h *AuthHTTPHandler) RegisterSupplier(c *gin.Context) {
	var req PartyRegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.accounts.RegisterSupplier(ctx, req.input())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Supplier registered successfully", resp))
}

// --- Current user ---

func (h *AuthHTTPHandler) Profile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid token"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.accounts.GetUserProfile(ctx, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Profile retrieved successfully", resp))
}

func (h *AuthHTTPHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid token"))
		return
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	err := h.accounts.ChangePassword(ctx, userID, account.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Password changed successfully", nil))
}
