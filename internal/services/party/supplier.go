package party

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/repository"
	"inventory-system/internal/services/lookup"
	"inventory-system/internal/services/pricing"
	"inventory-system/internal/services/views"
)

type SupplierService struct {
	store *repository.Store
}

func NewSupplierService(store *repository.Store) *SupplierService {
	return &SupplierService{store: store}
}

func (s *SupplierService) GetAll(ctx context.Context) ([]views.PartyView, error) {
	rows, err := s.store.Suppliers.FindAll(ctx, repository.OrderBy("name ASC"))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list suppliers")
	}
	return s.toViews(ctx, rows)
}

func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*views.PartyDetail, error) {
	supplier, err := s.store.Suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Supplier", id)
	}

	list, err := s.toViews(ctx, []models.Supplier{*supplier})
	if err != nil {
		return nil, err
	}

	lines, err := s.lines(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.store.PurchaseOrders.FindAll(ctx,
		repository.Where("supplier_id = ?", id),
		repository.OrderBy("order_date DESC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load supplier orders")
	}

	detail := &views.PartyDetail{
		PartyView:    list[0],
		Lines:        lines,
		Orders:       make([]views.OrderListView, 0, len(orders)),
		CreatedDate:  supplier.CreatedAt,
		ModifiedDate: supplier.UpdatedAt,
	}
	for _, o := range orders {
		detail.Orders = append(detail.Orders, views.OrderListView{
			ID:          o.ID,
			OrderNo:     o.OrderNo,
			OrderDate:   o.OrderDate,
			TotalAmount: o.TotalAmount,
			PartyID:     supplier.ID,
			PartyName:   supplier.Name,
		})
	}
	return detail, nil
}

// GetByUserID returns the supplier profile owned by a user.
func (s *SupplierService) GetByUserID(ctx context.Context, userID uuid.UUID) (*views.PartyView, error) {
	supplier, err := s.store.Suppliers.FindSingle(ctx, repository.Where("user_id = ?", userID))
	if err != nil {
		return nil, repository.AsAppError(err, "Supplier for user", userID)
	}
	list, err := s.toViews(ctx, []models.Supplier{*supplier})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, in Input) (*views.PartyView, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	supplier, err := s.store.Suppliers.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Supplier", id)
	}

	supplier.Name = in.Name
	supplier.Address = in.Address
	supplier.Contact = in.Contact
	if err := s.store.Suppliers.Update(ctx, supplier); err != nil {
		return nil, repository.Unexpected(err, "failed to update supplier")
	}

	list, err := s.toViews(ctx, []models.Supplier{*supplier})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Delete removes the supplier's lines and then the supplier. It returns false
// when the supplier does not exist and a conflict while purchase orders still
// reference it.
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	supplier, err := s.store.Suppliers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, repository.Unexpected(err, "failed to load supplier")
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		return DeleteSupplier(ctx, tx, supplier)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteSupplier removes a supplier and its lines using the given store, which
// is expected to be transactional.
func DeleteSupplier(ctx context.Context, tx *repository.Store, supplier *models.Supplier) error {
	hasOrders, err := tx.PurchaseOrders.Exists(ctx, repository.Where("supplier_id = ?", supplier.ID))
	if err != nil {
		return repository.Unexpected(err, "failed to check supplier orders")
	}
	if hasOrders {
		return apperr.Conflict("Supplier %q has purchase orders and cannot be deleted", supplier.Name)
	}

	lines, err := tx.SupplierItems.FindAll(ctx, repository.Where("supplier_id = ?", supplier.ID))
	if err != nil {
		return repository.Unexpected(err, "failed to load supplier items")
	}
	for i := range lines {
		if err := tx.SupplierItems.Delete(ctx, &lines[i]); err != nil {
			return repository.Unexpected(err, "failed to delete supplier item")
		}
	}

	if err := tx.Suppliers.Delete(ctx, supplier); err != nil {
		return repository.Unexpected(err, "failed to delete supplier")
	}
	return nil
}

func (s *SupplierService) GetItems(ctx context.Context, supplierID uuid.UUID) ([]views.LineView, error) {
	exists, err := s.store.Suppliers.Exists(ctx, repository.Where("id = ?", supplierID))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load supplier")
	}
	if !exists {
		return nil, apperr.NotFound("Supplier", supplierID)
	}
	return s.lines(ctx, supplierID)
}

// AddItem attaches an item to the supplier, pricing it at the purchase price.
func (s *SupplierService) AddItem(ctx context.Context, supplierID uuid.UUID, in LineInput) (*views.LineView, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	if _, err := s.store.Suppliers.GetByID(ctx, supplierID); err != nil {
		return nil, repository.AsAppError(err, "Supplier", supplierID)
	}
	item, err := s.store.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, repository.AsAppError(err, "Item", in.ItemID)
	}

	gst, total := pricing.Line(item.PurchasePrice, item.GSTPercent)
	line := models.SupplierItem{
		ItemID:      item.ID,
		SupplierID:  supplierID,
		Quantity:    in.Quantity,
		GSTAmount:   gst,
		TotalAmount: total,
	}
	if err := s.store.SupplierItems.Add(ctx, &line); err != nil {
		return nil, repository.Unexpected(err, "failed to add supplier item")
	}

	resolved, err := lookup.ItemViewsFor(ctx, s.store, []models.Item{*item})
	if err != nil {
		return nil, err
	}
	v := supplierLineView(line, resolved)
	return &v, nil
}

// LineOwner returns the supplier a profile line belongs to.
func (s *SupplierService) LineOwner(ctx context.Context, lineID uuid.UUID) (uuid.UUID, error) {
	line, err := s.store.SupplierItems.GetByID(ctx, lineID)
	if err != nil {
		return uuid.Nil, repository.AsAppError(err, "Supplier item", lineID)
	}
	return line.SupplierID, nil
}

// RemoveItem deletes a profile line. Lines that belong to an order can only go
// away with the order, so the order total always matches its lines.
func (s *SupplierService) RemoveItem(ctx context.Context, lineID uuid.UUID) (bool, error) {
	line, err := s.store.SupplierItems.GetByID(ctx, lineID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, repository.Unexpected(err, "failed to load supplier item")
	}
	if line.PurchaseOrderID != nil {
		return false, apperr.Conflict("Supplier item %s belongs to purchase order %s; delete the order instead", lineID, *line.PurchaseOrderID)
	}
	if err := s.store.SupplierItems.Delete(ctx, line); err != nil {
		return false, repository.Unexpected(err, "failed to remove supplier item")
	}
	return true, nil
}

func (s *SupplierService) Search(ctx context.Context, term string) ([]views.PartyView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []views.PartyView{}, nil
	}

	rows, err := s.store.Suppliers.FindAll(ctx,
		repository.ContainsFold(term, "name", "address", "contact"),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to search suppliers")
	}
	return s.toViews(ctx, rows)
}

func (s *SupplierService) lines(ctx context.Context, supplierID uuid.UUID) ([]views.LineView, error) {
	rows, err := s.store.SupplierItems.FindAll(ctx,
		repository.Where("supplier_id = ?", supplierID),
		repository.OrderBy("created_at ASC, id ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load supplier items")
	}

	itemIDs := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		itemIDs = append(itemIDs, r.ItemID)
	}
	items, err := lookup.ItemViews(ctx, s.store, itemIDs)
	if err != nil {
		return nil, err
	}

	out := make([]views.LineView, 0, len(rows))
	for _, r := range rows {
		out = append(out, supplierLineView(r, items))
	}
	return out, nil
}

func (s *SupplierService) toViews(ctx context.Context, rows []models.Supplier) ([]views.PartyView, error) {
	userIDs := make([]uuid.UUID, 0, len(rows))
	for _, c := range rows {
		userIDs = append(userIDs, c.UserID)
	}
	profiles, err := lookup.Profiles(ctx, s.store, userIDs)
	if err != nil {
		return nil, err
	}

	out := make([]views.PartyView, 0, len(rows))
	for _, c := range rows {
		out = append(out, views.PartyView{
			ID:      c.ID,
			Name:    c.Name,
			Address: c.Address,
			Contact: c.Contact,
			User:    profiles[c.UserID],
		})
	}
	return out, nil
}

func supplierLineView(line models.SupplierItem, items map[uuid.UUID]views.ItemView) views.LineView {
	v := views.LineView{
		ID:          line.ID,
		Quantity:    line.Quantity,
		GSTAmount:   line.GSTAmount,
		TotalAmount: line.TotalAmount,
		OrderID:     line.PurchaseOrderID,
	}
	if item, ok := items[line.ItemID]; ok {
		v.Item = &item
	}
	return v
}
