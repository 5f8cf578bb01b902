package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/gateway/middleware"
	"inventory-system/internal/services/orders"
	"inventory-system/internal/services/party"
	"inventory-system/internal/services/views"
)

type orderService interface {
	Create(ctx context.Context, req orders.Request) (*views.OrderDetail, error)
	GetAll(ctx context.Context) ([]views.OrderListView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*views.OrderDetail, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Search(ctx context.Context, term string) ([]views.OrderListView, error)
}

// OrderHTTPHandler serves purchase or sales orders. Admins see every order;
// a supplier or customer only sees the orders of its own profile.
type OrderHTTPHandler struct {
	orders   orderService
	byParty  func(ctx context.Context, partyID uuid.UUID) ([]views.OrderListView, error)
	ownParty func(ctx context.Context, userID uuid.UUID) (*views.PartyView, error)
	label    string
	partyIn  string
}

func NewPurchaseOrderHTTPHandler(svc *orders.PurchaseOrderService, suppliers *party.SupplierService) *OrderHTTPHandler {
	return &OrderHTTPHandler{
		orders:   svc,
		byParty:  svc.GetBySupplier,
		ownParty: suppliers.GetByUserID,
		label:    "Purchase order",
		partyIn:  "supplierId",
	}
}

func NewSalesOrderHTTPHandler(svc *orders.SalesOrderService, customers *party.CustomerService) *OrderHTTPHandler {
	return &OrderHTTPHandler{
		orders:   svc,
		byParty:  svc.GetByCustomer,
		ownParty: customers.GetByUserID,
		label:    "Sales order",
		partyIn:  "customerId",
	}
}

// callerParty resolves the profile a non-admin caller trades as. Admins get
// uuid.Nil, which disables scoping.
func (h *OrderHTTPHandler) callerParty(ctx context.Context, c *gin.Context) (uuid.UUID, bool) {
	if middleware.CurrentRole(c) == models.RoleAdmin {
		return uuid.Nil, true
	}
	userID, ok := middleware.CurrentUserID(c)
	if ok {
		own, err := h.ownParty(ctx, userID)
		if err == nil {
			return own.ID, true
		}
		if !apperr.Is(err, apperr.KindNotFound) {
			handleError(c, err)
			return uuid.Nil, false
		}
	}
	handleError(c, apperr.Authorization("You need a trading profile to manage "+strings.ToLower(h.label)+"s"))
	return uuid.Nil, false
}

func (h *OrderHTTPHandler) authorizeParty(c *gin.Context, own, partyID uuid.UUID) bool {
	if own == uuid.Nil || own == partyID {
		return true
	}
	handleError(c, apperr.Authorization("You can only manage your own "+strings.ToLower(h.label)+"s"))
	return false
}

type OrderLineRequest struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}

// OrderRequest accepts the party under either supplierId or customerId.
type OrderRequest struct {
	SupplierID uuid.UUID          `json:"supplierId"`
	CustomerID uuid.UUID          `json:"customerId"`
	OrderDate  *time.Time         `json:"orderDate,omitempty"`
	Items      []OrderLineRequest `json:"items" binding:"required,min=1"`
}

func (r OrderRequest) toRequest(partyIn string) orders.Request {
	req := orders.Request{PartyID: r.CustomerID}
	if partyIn == "supplierId" {
		req.PartyID = r.SupplierID
	}
	if r.OrderDate != nil {
		req.OrderDate = *r.OrderDate
	}
	req.Items = make([]orders.LineRequest, 0, len(r.Items))
	for _, line := range r.Items {
		req.Items = append(req.Items, orders.LineRequest{ItemID: line.ItemID, Quantity: line.Quantity})
	}
	return req
}

func (h *OrderHTTPHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	own, ok := h.callerParty(ctx, c)
	if !ok {
		return
	}

	var (
		resp []views.OrderListView
		err  error
	)
	if own == uuid.Nil {
		resp, err = h.orders.GetAll(ctx)
	} else {
		resp, err = h.byParty(ctx, own)
	}
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse(h.label+"s retrieved successfully", resp, countMeta(len(resp))))
}

func (h *OrderHTTPHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	own, ok := h.callerParty(ctx, c)
	if !ok {
		return
	}

	resp, err := h.orders.GetByID(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}
	if !h.authorizeParty(c, own, resp.PartyID) {
		return
	}

	c.JSON(http.StatusOK, successResponse(h.label+" retrieved successfully", resp))
}

func (h *OrderHTTPHandler) Create(c *gin.Context) {
	var req OrderRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	own, ok := h.callerParty(ctx, c)
	if !ok {
		return
	}
	orderReq := req.toRequest(h.partyIn)
	if !h.authorizeParty(c, own, orderReq.PartyID) {
		return
	}

	resp, err := h.orders.Create(ctx, orderReq)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(h.label+" created successfully", resp))
}

func (h *OrderHTTPHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	own, ok := h.callerParty(ctx, c)
	if !ok {
		return
	}
	if own != uuid.Nil {
		existing, err := h.orders.GetByID(ctx, id)
		if apperr.Is(err, apperr.KindNotFound) {
			c.JSON(http.StatusNotFound, errorResponse(h.label+" not found"))
			return
		}
		if err != nil {
			handleError(c, err)
			return
		}
		if !h.authorizeParty(c, own, existing.PartyID) {
			return
		}
	}

	deleted, err := h.orders.Delete(ctx, id)
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

func (h *OrderHTTPHandler) ByParty(c *gin.Context) {
	partyID, ok := parseUUIDParam(c, h.partyIn)
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	own, ok := h.callerParty(ctx, c)
	if !ok {
		return
	}
	if !h.authorizeParty(c, own, partyID) {
		return
	}

	resp, err := h.byParty(ctx, partyID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse(h.label+"s retrieved successfully", resp, countMeta(len(resp))))
}

func (h *OrderHTTPHandler) Search(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	own, ok := h.callerParty(ctx, c)
	if !ok {
		return
	}

	resp, err := h.orders.Search(ctx, c.Query("searchTerm"))
	if err != nil {
		handleError(c, err)
		return
	}
	if own != uuid.Nil {
		mine := make([]views.OrderListView, 0, len(resp))
		for _, o := range resp {
			if o.PartyID == own {
				mine = append(mine, o)
			}
		}
		resp = mine
	}

	c.JSON(http.StatusOK, successWithMetaResponse(h.label+"s retrieved successfully", resp, countMeta(len(resp))))
}
