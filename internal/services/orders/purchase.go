package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/notify"
	"inventory-system/internal/repository"
	"inventory-system/internal/services/lookup"
	"inventory-system/internal/services/pricing"
	"inventory-system/internal/services/views"
)

type PurchaseOrderService struct {
	store *repository.Store
	opts  options
}

func NewPurchaseOrderService(store *repository.Store, opts ...Option) *PurchaseOrderService {
	return &PurchaseOrderService{store: store, opts: newOptions(opts)}
}

// Create persists a purchase order priced at each item's purchase price.
func (s *PurchaseOrderService) Create(ctx context.Context, req Request) (*views.OrderDetail, error) {
	if err := req.normalize(s.opts.now()); err != nil {
		return nil, err
	}

	supplier, err := s.store.Suppliers.GetByID(ctx, req.PartyID)
	if err != nil {
		return nil, repository.AsAppError(err, "Supplier", req.PartyID)
	}

	var (
		order models.PurchaseOrder
		lines []models.SupplierItem
	)
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		order = models.PurchaseOrder{
			OrderNo:     GenerateOrderNumber(PurchasePrefix, s.opts.now()),
			OrderDate:   req.OrderDate,
			TotalAmount: decimal.Zero,
			SupplierID:  supplier.ID,
		}
		if err := tx.PurchaseOrders.Add(ctx, &order); err != nil {
			return repository.Unexpected(err, "failed to create purchase order")
		}

		totals := make([]decimal.Decimal, 0, len(req.Items))
		for i, l := range req.Items {
			item, err := tx.Items.GetByID(ctx, l.ItemID)
			if err != nil {
				return repository.AsAppError(err, "Item", l.ItemID)
			}

			gst, total := pricing.Line(item.PurchasePrice, item.GSTPercent)
			line := models.SupplierItem{
				ItemID:          item.ID,
				SupplierID:      supplier.ID,
				PurchaseOrderID: &order.ID,
				Position:        i,
				Quantity:        l.Quantity,
				GSTAmount:       gst,
				TotalAmount:     total,
			}
			if err := tx.SupplierItems.Add(ctx, &line); err != nil {
				return repository.Unexpected(err, "failed to add purchase order line")
			}
			lines = append(lines, line)
			totals = append(totals, total)
		}

		order.TotalAmount = pricing.Sum(totals)
		if err := tx.PurchaseOrders.Update(ctx, &order); err != nil {
			return repository.Unexpected(err, "failed to save purchase order total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.publish(ctx, notify.OrderEvent{
		EventType:   notify.EventOrderCreated,
		OrderKind:   KindPurchase,
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		PartyID:     supplier.ID,
		TotalAmount: order.TotalAmount,
		LineCount:   len(lines),
	})

	return s.detail(ctx, order, supplier, lines)
}

func (s *PurchaseOrderService) GetAll(ctx context.Context) ([]views.OrderListView, error) {
	rows, err := s.store.PurchaseOrders.FindAll(ctx, repository.OrderBy("order_date DESC"))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list purchase orders")
	}
	return s.toListViews(ctx, rows)
}

func (s *PurchaseOrderService) GetByID(ctx context.Context, id uuid.UUID) (*views.OrderDetail, error) {
	order, err := s.store.PurchaseOrders.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Purchase order", id)
	}

	supplier, err := s.store.Suppliers.GetByID(ctx, order.SupplierID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, repository.Unexpected(err, "failed to load supplier")
	}

	lines, err := s.store.SupplierItems.FindAll(ctx,
		repository.Where("purchase_order_id = ?", id),
		repository.OrderBy("position ASC, created_at ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load purchase order lines")
	}
	return s.detail(ctx, *order, supplier, lines)
}

func (s *PurchaseOrderService) GetBySupplier(ctx context.Context, supplierID uuid.UUID) ([]views.OrderListView, error) {
	exists, err := s.store.Suppliers.Exists(ctx, repository.Where("id = ?", supplierID))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load supplier")
	}
	if !exists {
		return nil, apperr.NotFound("Supplier", supplierID)
	}

	rows, err := s.store.PurchaseOrders.FindAll(ctx,
		repository.Where("supplier_id = ?", supplierID),
		repository.OrderBy("order_date DESC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list purchase orders")
	}
	return s.toListViews(ctx, rows)
}

// Delete removes the order lines and then the order in one transaction.
func (s *PurchaseOrderService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	order, err := s.store.PurchaseOrders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, repository.Unexpected(err, "failed to load purchase order")
	}

	var removed int
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		lines, err := tx.SupplierItems.FindAll(ctx, repository.Where("purchase_order_id = ?", id))
		if err != nil {
			return repository.Unexpected(err, "failed to load purchase order lines")
		}
		for i := range lines {
			if err := tx.SupplierItems.Delete(ctx, &lines[i]); err != nil {
				return repository.Unexpected(err, "failed to delete purchase order line")
			}
		}
		removed = len(lines)

		if err := tx.PurchaseOrders.Delete(ctx, order); err != nil {
			return repository.Unexpected(err, "failed to delete purchase order")
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.opts.publish(ctx, notify.OrderEvent{
		EventType:   notify.EventOrderDeleted,
		OrderKind:   KindPurchase,
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		PartyID:     order.SupplierID,
		TotalAmount: order.TotalAmount,
		LineCount:   removed,
	})
	return true, nil
}

func (s *PurchaseOrderService) Search(ctx context.Context, term string) ([]views.OrderListView, error) {
	term = normalizeTerm(term)
	if term == "" {
		return []views.OrderListView{}, nil
	}

	rows, err := s.store.PurchaseOrders.FindAll(ctx,
		repository.ContainsFold(term, "order_no"),
		repository.OrderBy("order_date DESC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to search purchase orders")
	}
	return s.toListViews(ctx, rows)
}

func (s *PurchaseOrderService) toListViews(ctx context.Context, rows []models.PurchaseOrder) ([]views.OrderListView, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, o := range rows {
		ids = append(ids, o.SupplierID)
	}
	names, err := supplierNames(ctx, s.store, ids)
	if err != nil {
		return nil, err
	}

	out := make([]views.OrderListView, 0, len(rows))
	for _, o := range rows {
		out = append(out, views.OrderListView{
			ID:          o.ID,
			OrderNo:     o.OrderNo,
			OrderDate:   o.OrderDate,
			TotalAmount: o.TotalAmount,
			PartyID:     o.SupplierID,
			PartyName:   names[o.SupplierID],
		})
	}
	return out, nil
}

func (s *PurchaseOrderService) detail(ctx context.Context, order models.PurchaseOrder, supplier *models.Supplier, lines []models.SupplierItem) (*views.OrderDetail, error) {
	itemIDs := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		itemIDs = append(itemIDs, l.ItemID)
	}
	items, err := lookup.ItemViews(ctx, s.store, itemIDs)
	if err != nil {
		return nil, err
	}

	detail := &views.OrderDetail{
		OrderView: views.OrderView{
			ID:          order.ID,
			OrderNo:     order.OrderNo,
			OrderDate:   order.OrderDate,
			TotalAmount: order.TotalAmount,
			PartyID:     order.SupplierID,
		},
		Lines: make([]views.LineView, 0, len(lines)),
	}
	if supplier != nil {
		profiles, err := lookup.Profiles(ctx, s.store, []uuid.UUID{supplier.UserID})
		if err != nil {
			return nil, err
		}
		detail.Party = &views.PartyView{
			ID:      supplier.ID,
			Name:    supplier.Name,
			Address: supplier.Address,
			Contact: supplier.Contact,
			User:    profiles[supplier.UserID],
		}
	}

	for _, l := range lines {
		v := views.LineView{
			ID:          l.ID,
			Quantity:    l.Quantity,
			GSTAmount:   l.GSTAmount,
			TotalAmount: l.TotalAmount,
			OrderID:     l.PurchaseOrderID,
		}
		if item, ok := items[l.ItemID]; ok {
			v.Item = &item
		}
		detail.Lines = append(detail.Lines, v)
	}
	return detail, nil
}

func supplierNames(ctx context.Context, store *repository.Store, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := store.Suppliers.FindAll(ctx, repository.Where("id IN ?", ids))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load suppliers")
	}
	for _, p := range rows {
		out[p.ID] = p.Name
	}
	return out, nil
}
