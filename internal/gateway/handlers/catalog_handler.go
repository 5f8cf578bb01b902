package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inventory-system/internal/services/catalog"
)

type CatalogHTTPHandler struct {
	categories *catalog.CategoryService
	items      *catalog.ItemService
}

func NewCatalogHTTPHandler(categories *catalog.CategoryService, items *catalog.ItemService) *CatalogHTTPHandler {
	return &CatalogHTTPHandler{
		categories: categories,
		items:      items,
	}
}

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ItemRequest struct {
	Name          string          `json:"name" binding:"required"`
	CategoryID    uuid.UUID       `json:"categoryId"`
	GSTPercent    decimal.Decimal `json:"gstPercent"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
}

func (r ItemRequest) input() catalog.ItemInput {
	return catalog.ItemInput{
		Name:          r.Name,
		CategoryID:    r.CategoryID,
		GSTPercent:    r.GSTPercent,
		PurchasePrice: r.PurchasePrice,
		SellingPrice:  r.SellingPrice,
	}
}

// --- Categories ---

func (h *CatalogHTTPHandler) ListCategories(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.categories.GetAll(ctx)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Categories retrieved successfully", resp, countMeta(len(resp))))
}

func (h *CatalogHTTPHandler) GetCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.categories.GetByID(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Category retrieved successfully", resp))
}

func (h *CatalogHTTPHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.categories.Create(ctx, catalog.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Category created successfully", resp))
}

func (h *CatalogHTTPHandler) UpdateCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.categories.Update(ctx, id, catalog.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Category updated successfully", resp))
}

func (h *CatalogHTTPHandler) DeleteCategory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := h.categories.Delete(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, errorResponse("Category not found"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Category deleted successfully", nil))
}

func (h *CatalogHTTPHandler) SearchCategories(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.categories.Search(ctx, c.Query("searchTerm"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Categories retrieved successfully", resp, countMeta(len(resp))))
}

// --- Items ---

func (h *CatalogHTTPHandler) ListItems(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.items.GetAll(ctx)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Items retrieved successfully", resp, countMeta(len(resp))))
}

func (h *CatalogHTTPHandler) GetItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.items.GetByID(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Item retrieved successfully", resp))
}

func (h *CatalogHTTPHandler) CreateItem(c *gin.Context) {
	var req ItemRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.items.Create(ctx, req.input())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse("Item created successfully", resp))
}

func (h *CatalogHTTPHandler) UpdateItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ItemRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.items.Update(ctx, id, req.input())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse("Item updated successfully", resp))
}

func (h *CatalogHTTPHandler) DeleteItem(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	deleted, err := h.items.Delete(ctx, id)
	if err != nil {
		handleError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, errorResponse("Item not found"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Item deleted successfully", nil))
}

func (h *CatalogHTTPHandler) ItemsByCategory(c *gin.Context) {
	categoryID, ok := parseUUIDParam(c, "categoryId")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.items.GetByCategory(ctx, categoryID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Items retrieved successfully", resp, countMeta(len(resp))))
}

func (h *CatalogHTTPHandler) SearchItems(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.items.Search(ctx, c.Query("searchTerm"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Items retrieved successfully", resp, countMeta(len(resp))))
}
