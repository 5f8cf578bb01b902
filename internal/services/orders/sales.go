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

type SalesOrderService struct {
	store *repository.Store
	opts  options
}

func NewSalesOrderService(store *repository.Store, opts ...Option) *SalesOrderService {
	return &SalesOrderService{store: store, opts: newOptions(opts)}
}

// Create persists a sales order priced at each item's selling price.
func (s *SalesOrderService) Create(ctx context.Context, req Request) (*views.OrderDetail, error) {
	if err := req.normalize(s.opts.now()); err != nil {
		return nil, err
	}

	customer, err := s.store.Customers.GetByID(ctx, req.PartyID)
	if err != nil {
		return nil, repository.AsAppError(err, "Customer", req.PartyID)
	}

	var (
		order models.SalesOrder
		lines []models.CustomerItem
	)
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		order = models.SalesOrder{
			OrderNo:     GenerateOrderNumber(SalesPrefix, s.opts.now()),
			OrderDate:   req.OrderDate,
			TotalAmount: decimal.Zero,
			CustomerID:  customer.ID,
		}
		if err := tx.SalesOrders.Add(ctx, &order); err != nil {
			return repository.Unexpected(err, "failed to create sales order")
		}

		totals := make([]decimal.Decimal, 0, len(req.Items))
		for i, l := range req.Items {
			item, err := tx.Items.GetByID(ctx, l.ItemID)
			if err != nil {
				return repository.AsAppError(err, "Item", l.ItemID)
			}

			gst, total := pricing.Line(item.SellingPrice, item.GSTPercent)
			line := models.CustomerItem{
				ItemID:       item.ID,
				CustomerID:   customer.ID,
				SalesOrderID: &order.ID,
				Position:     i,
				Quantity:     l.Quantity,
				GSTAmount:    gst,
				TotalAmount:  total,
			}
			if err := tx.CustomerItems.Add(ctx, &line); err != nil {
				return repository.Unexpected(err, "failed to add sales order line")
			}
			lines = append(lines, line)
			totals = append(totals, total)
		}

		order.TotalAmount = pricing.Sum(totals)
		if err := tx.SalesOrders.Update(ctx, &order); err != nil {
			return repository.Unexpected(err, "failed to save sales order total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.opts.publish(ctx, notify.OrderEvent{
		EventType:   notify.EventOrderCreated,
		OrderKind:   KindSales,
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		PartyID:     customer.ID,
		TotalAmount: order.TotalAmount,
		LineCount:   len(lines),
	})

	return s.detail(ctx, order, customer, lines)
}

func (s *SalesOrderService) GetAll(ctx context.Context) ([]views.OrderListView, error) {
	rows, err := s.store.SalesOrders.FindAll(ctx, repository.OrderBy("order_date DESC"))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list sales orders")
	}
	return s.toListViews(ctx, rows)
}

func (s *SalesOrderService) GetByID(ctx context.Context, id uuid.UUID) (*views.OrderDetail, error) {
	order, err := s.store.SalesOrders.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Sales order", id)
	}

	customer, err := s.store.Customers.GetByID(ctx, order.CustomerID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, repository.Unexpected(err, "failed to load customer")
	}

	lines, err := s.store.CustomerItems.FindAll(ctx,
		repository.Where("sales_order_id = ?", id),
		repository.OrderBy("position ASC, created_at ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load sales order lines")
	}
	return s.detail(ctx, *order, customer, lines)
}

func (s *SalesOrderService) GetByCustomer(ctx context.Context, customerID uuid.UUID) ([]views.OrderListView, error) {
	exists, err := s.store.Customers.Exists(ctx, repository.Where("id = ?", customerID))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load customer")
	}
	if !exists {
		return nil, apperr.NotFound("Customer", customerID)
	}

	rows, err := s.store.SalesOrders.FindAll(ctx,
		repository.Where("customer_id = ?", customerID),
		repository.OrderBy("order_date DESC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list sales orders")
	}
	return s.toListViews(ctx, rows)
}

// Delete removes the order lines and then the order in one transaction.
func (s *SalesOrderService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	order, err := s.store.SalesOrders.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, repository.Unexpected(err, "failed to load sales order")
	}

	var removed int
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		lines, err := tx.CustomerItems.FindAll(ctx, repository.Where("sales_order_id = ?", id))
		if err != nil {
			return repository.Unexpected(err, "failed to load sales order lines")
		}
		for i := range lines {
			if err := tx.CustomerItems.Delete(ctx, &lines[i]); err != nil {
				return repository.Unexpected(err, "failed to delete sales order line")
			}
		}
		removed = len(lines)

		if err := tx.SalesOrders.Delete(ctx, order); err != nil {
			return repository.Unexpected(err, "failed to delete sales order")
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	s.opts.publish(ctx, notify.OrderEvent{
		EventType:   notify.EventOrderDeleted,
		OrderKind:   KindSales,
		OrderID:     order.ID,
		OrderNo:     order.OrderNo,
		PartyID:     order.CustomerID,
		TotalAmount: order.TotalAmount,
		LineCount:   removed,
	})
	return true, nil
}

func (s *SalesOrderService) Search(ctx context.Context, term string) ([]views.OrderListView, error) {
	term = normalizeTerm(term)
	if term == "" {
		return []views.OrderListView{}, nil
	}

	rows, err := s.store.SalesOrders.FindAll(ctx,
		repository.ContainsFold(term, "order_no"),
		repository.OrderBy("order_date DESC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to search sales orders")
	}
	return s.toListViews(ctx, rows)
}

func (s *SalesOrderService) toListViews(ctx context.Context, rows []models.SalesOrder) ([]views.OrderListView, error) {
	ids := make([]uuid.UUID, 0, len(rows))
	for _, o := range rows {
		ids = append(ids, o.CustomerID)
	}
	names, err := customerNames(ctx, s.store, ids)
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
			PartyID:     o.CustomerID,
			PartyName:   names[o.CustomerID],
		})
	}
	return out, nil
}

func (s *SalesOrderService) detail(ctx context.Context, order models.SalesOrder, customer *models.Customer, lines []models.CustomerItem) (*views.OrderDetail, error) {
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
			PartyID:     order.CustomerID,
		},
		Lines: make([]views.LineView, 0, len(lines)),
	}
	if customer != nil {
		profiles, err := lookup.Profiles(ctx, s.store, []uuid.UUID{customer.UserID})
		if err != nil {
			return nil, err
		}
		detail.Party = &views.PartyView{
			ID:      customer.ID,
			Name:    customer.Name,
			Address: customer.Address,
			Contact: customer.Contact,
			User:    profiles[customer.UserID],
		}
	}

	for _, l := range lines {
		v := views.LineView{
			ID:          l.ID,
			Quantity:    l.Quantity,
			GSTAmount:   l.GSTAmount,
			TotalAmount: l.TotalAmount,
			OrderID:     l.SalesOrderID,
		}
		if item, ok := items[l.ItemID]; ok {
			v.Item = &item
		}
		detail.Lines = append(detail.Lines, v)
	}
	return detail, nil
}

func customerNames(ctx context.Context, store *repository.Store, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := store.Customers.FindAll(ctx, repository.Where("id IN ?", ids))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load customers")
	}
	for _, p := range rows {
		out[p.ID] = p.Name
	}
	return out, nil
}
