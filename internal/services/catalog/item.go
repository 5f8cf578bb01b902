package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/repository"
	"inventory-system/internal/services/lookup"
	"inventory-system/internal/services/views"
)

var (
	maxPrice      = decimal.RequireFromString("9999999.99")
	hundredPct    = decimal.NewFromInt(100)
	minimumAmount = decimal.RequireFromString("0.01")
)

type ItemInput struct {
	Name          string
	CategoryID    uuid.UUID
	GSTPercent    decimal.Decimal
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
}

func (in *ItemInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	if l := len(in.Name); l < 2 || l > 100 {
		return apperr.ValidationField("name", "Name must be between 2 and 100 characters")
	}
	if in.CategoryID == uuid.Nil {
		return apperr.ValidationField("categoryId", "Category is required")
	}
	if in.GSTPercent.IsNegative() || in.GSTPercent.GreaterThan(hundredPct) {
		return apperr.ValidationField("gstPercent", "GST percent must be between 0 and 100")
	}
	if in.PurchasePrice.LessThan(minimumAmount) || in.PurchasePrice.GreaterThan(maxPrice) {
		return apperr.ValidationField("purchasePrice", "Purchase price must be greater than 0")
	}
	if in.SellingPrice.LessThan(minimumAmount) || in.SellingPrice.GreaterThan(maxPrice) {
		return apperr.ValidationField("sellingPrice", "Selling price must be greater than 0")
	}
	in.GSTPercent = in.GSTPercent.Round(2)
	in.PurchasePrice = in.PurchasePrice.Round(2)
	in.SellingPrice = in.SellingPrice.Round(2)
	return nil
}

type ItemService struct {
	store *repository.Store
	opts  options
}

func NewItemService(store *repository.Store, opts ...Option) *ItemService {
	return &ItemService{store: store, opts: newOptions(opts)}
}

func (s *ItemService) GetAll(ctx context.Context) ([]views.ItemView, error) {
	var cached []views.ItemView
	if s.opts.cache.Get(ctx, ItemsCacheKey, &cached) {
		return cached, nil
	}

	items, err := s.store.Items.FindAll(ctx, repository.OrderBy("name ASC"))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list items")
	}
	out, err := s.toViews(ctx, items)
	if err != nil {
		return nil, err
	}
	s.opts.cache.Set(ctx, ItemsCacheKey, out, listTTL)
	return out, nil
}

func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*views.ItemDetail, error) {
	item, err := s.store.Items.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Item", id)
	}

	category, err := s.store.Categories.GetByID(ctx, item.CategoryID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, repository.Unexpected(err, "failed to load item category")
	}

	return &views.ItemDetail{
		ItemView:     views.Item(*item, category),
		CreatedDate:  item.CreatedAt,
		ModifiedDate: item.UpdatedAt,
	}, nil
}

func (s *ItemService) Create(ctx context.Context, in ItemInput) (*views.ItemView, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	category, err := s.requireCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	item := models.Item{
		Name:          in.Name,
		CategoryID:    in.CategoryID,
		GSTPercent:    in.GSTPercent,
		PurchasePrice: in.PurchasePrice,
		SellingPrice:  in.SellingPrice,
	}
	if err := s.store.Items.Add(ctx, &item); err != nil {
		return nil, repository.Unexpected(err, "failed to create item")
	}
	s.opts.cache.Delete(ctx, ItemsCacheKey)

	v := views.Item(item, category)
	return &v, nil
}

func (s *ItemService) Update(ctx context.Context, id uuid.UUID, in ItemInput) (*views.ItemView, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	item, err := s.store.Items.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Item", id)
	}

	category, err := s.requireCategory(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	item.Name = in.Name
	item.CategoryID = in.CategoryID
	item.GSTPercent = in.GSTPercent
	item.PurchasePrice = in.PurchasePrice
	item.SellingPrice = in.SellingPrice
	if err := s.store.Items.Update(ctx, item); err != nil {
		return nil, repository.Unexpected(err, "failed to update item")
	}
	s.opts.cache.Delete(ctx, ItemsCacheKey)

	v := views.Item(*item, category)
	return &v, nil
}

// Delete removes an item. It returns false when the item does not exist and a
// conflict while order or party lines still reference it.
func (s *ItemService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	item, err := s.store.Items.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, repository.Unexpected(err, "failed to load item")
	}

	byItem := repository.Where("item_id = ?", id)
	supplierLines, err := s.store.SupplierItems.Exists(ctx, byItem)
	if err != nil {
		return false, repository.Unexpected(err, "failed to check item usage")
	}
	customerLines, err := s.store.CustomerItems.Exists(ctx, byItem)
	if err != nil {
		return false, repository.Unexpected(err, "failed to check item usage")
	}
	if supplierLines || customerLines {
		return false, apperr.Conflict("Item %q is used by order lines and cannot be deleted", item.Name)
	}

	if err := s.store.Items.Delete(ctx, item); err != nil {
		return false, repository.Unexpected(err, "failed to delete item")
	}
	s.opts.cache.Delete(ctx, ItemsCacheKey)
	return true, nil
}

func (s *ItemService) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]views.ItemView, error) {
	if _, err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}

	items, err := s.store.Items.FindAll(ctx,
		repository.Where("category_id = ?", categoryID),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list items")
	}
	return s.toViews(ctx, items)
}

func (s *ItemService) Search(ctx context.Context, term string) ([]views.ItemView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []views.ItemView{}, nil
	}

	items, err := s.store.Items.FindAll(ctx,
		repository.ContainsFold(term, "name"),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to search items")
	}
	return s.toViews(ctx, items)
}

// requireCategory re-validates the category at write time.
func (s *ItemService) requireCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.store.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Category", id)
	}
	return category, nil
}

func (s *ItemService) toViews(ctx context.Context, items []models.Item) ([]views.ItemView, error) {
	resolved, err := lookup.ItemViewsFor(ctx, s.store, items)
	if err != nil {
		return nil, err
	}
	out := make([]views.ItemView, 0, len(items))
	for _, it := range items {
		out = append(out, resolved[it.ID])
	}
	return out, nil
}
