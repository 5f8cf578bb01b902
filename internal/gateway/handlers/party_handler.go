package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/gateway/middleware"
	"inventory-system/internal/services/party"
	"inventory-system/internal/services/views"
)

// partyService is the surface shared by the customer and supplier services.
type partyService interface {
	GetAll(ctx context.Context) ([]views.PartyView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*views.PartyDetail, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*views.PartyView, error)
	Update(ctx context.Context, id uuid.UUID, in party.Input) (*views.PartyView, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	GetItems(ctx context.Context, partyID uuid.UUID) ([]views.LineView, error)
	AddItem(ctx context.Context, partyID uuid.UUID, in party.LineInput) (*views.LineView, error)
	LineOwner(ctx context.Context, lineID uuid.UUID) (uuid.UUID, error)
	RemoveItem(ctx context.Context, lineID uuid.UUID) (bool, error)
	Search(ctx context.Context, term string) ([]views.PartyView, error)
}

// PartyHTTPHandler serves either customers or suppliers.
type PartyHTTPHandler struct {
	parties partyService
	label   string
}

func NewCustomerHTTPHandler(customers *party.CustomerService) *PartyHTTPHandler {
	return &PartyHTTPHandler{parties: customers, label: "Customer"}
}

func NewSupplierHTTPHandler(suppliers *party.SupplierService) *PartyHTTPHandler {
	return &PartyHTTPHandler{parties: suppliers, label: "Supplier"}
}

type PartyUpdateRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Contact string `json:"contact" binding:"required"`
}

type PartyLineRequest struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}

// authorizeOwner lets admins through and restricts everyone else to the
// profile they own.
func (h *PartyHTTPHandler) authorizeOwner(ctx context.Context, c *gin.Context, partyID uuid.UUID) bool {
	if middleware.CurrentRole(c) == models.RoleAdmin {
		return true
	}
	userID, ok := middleware.CurrentUserID(c)
	if ok {
		own, err := h.parties.GetByUserID(ctx, userID)
		if err == nil && own.ID == partyID {
			return true
		}
		if err != nil && !apperr.Is(err, apperr.KindNotFound) {
			handleError(c, err)
			return false
		}
	}
	handleError(c, apperr.Authorization("You can only manage your own "+h.label+" profile"))
	return false
}

func (h *PartyHTTPHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.parties.GetAll(ctx)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse(h.label+"s retrieved successfully", resp, countMeta(len(resp))))
}

func (h *PartyHTTPHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.parties.GetByID(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(h.label+" retrieved successfully", resp))
}

// Me returns the profile owned by the caller.
func (h *PartyHTTPHandler) Me(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid token"))
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.parties.GetByUserID(ctx, userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(h.label+" retrieved successfully", resp))
}

func (h *PartyHTTPHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req PartyUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if !h.authorizeOwner(ctx, c, id) {
		return
	}

	resp, err := h.parties.Update(ctx, id, party.Input{
		Name:    req.Name,
		Address: req.Address,
		Contact: req.Contact,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(h.label+" updated successfully", resp))
}

func (h *PartyHTTPHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := h.parties.Delete(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, errorResponse(h.label+" not found"))
		return
	}

	c.JSON(http.StatusOK, successResponse(h.label+" deleted successfully", nil))
}

func (h *PartyHTTPHandler) Items(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.parties.GetItems(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse(h.label+" items retrieved successfully", resp, countMeta(len(resp))))
}

func (h *PartyHTTPHandler) AddItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req PartyLineRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if !h.authorizeOwner(ctx, c, id) {
		return
	}

	resp, err := h.parties.AddItem(ctx, id, party.LineInput{
		ItemID:   req.ItemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(h.label+" item added successfully", resp))
}

func (h *PartyHTTPHandler) RemoveItem(c *gin.Context) {
	lineID, ok := parseUUIDParam(c, "lineId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	owner, err := h.parties.LineOwner(ctx, lineID)
	if apperr.Is(err, apperr.KindNotFound) {
		c.JSON(http.StatusNotFound, errorResponse(h.label+" item not found"))
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}
	if !h.authorizeOwner(ctx, c, owner) {
		return
	}

	removed, err := h.parties.RemoveItem(ctx, lineID)
	if err != nil {
		handleError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, errorResponse(h.label+" item not found"))
		return
	}

	c.JSON(http.StatusOK, successResponse(h.label+" item removed successfully", nil))
}

func (h *PartyHTTPHandler) Search(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.parties.Search(ctx, c.Query("searchTerm"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse(h.label+"s retrieved successfully", resp, countMeta(len(resp))))
}
