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

type CustomerService struct {
	store *repository.Store
}

func NewCustomerService(store *repository.Store) *CustomerService {
	return &CustomerService{store: store}
}

func (s *CustomerService) GetAll(ctx context.Context) ([]views.PartyView, error) {
	rows, err := s.store.Customers.FindAll(ctx, repository.OrderBy("name ASC"))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to list customers")
	}
	return s.toViews(ctx, rows)
}

func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*views.PartyDetail, error) {
	customer, err := s.store.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Customer", id)
	}

	list, err := s.toViews(ctx, []models.Customer{*customer})
	if err != nil {
		return nil, err
	}

	lines, err := s.lines(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.store.SalesOrders.FindAll(ctx,
		repository.Where("customer_id = ?", id),
		repository.OrderBy("order_date DESC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load customer orders")
	}

	detail := &views.PartyDetail{
		PartyView:    list[0],
		Lines:        lines,
		Orders:       make([]views.OrderListView, 0, len(orders)),
		CreatedDate:  customer.CreatedAt,
		ModifiedDate: customer.UpdatedAt,
	}
	for _, o := range orders {
		detail.Orders = append(detail.Orders, views.OrderListView{
			ID:          o.ID,
			OrderNo:     o.OrderNo,
			OrderDate:   o.OrderDate,
			TotalAmount: o.TotalAmount,
			PartyID:     customer.ID,
			PartyName:   customer.Name,
		})
	}
	return detail, nil
}

// GetByUserID returns the customer profile owned by a user.
func (s *CustomerService) GetByUserID(ctx context.Context, userID uuid.UUID) (*views.PartyView, error) {
	customer, err := s.store.Customers.FindSingle(ctx, repository.Where("user_id = ?", userID))
	if err != nil {
		return nil, repository.AsAppError(err, "Customer for user", userID)
	}
	list, err := s.toViews(ctx, []models.Customer{*customer})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, in Input) (*views.PartyView, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}

	customer, err := s.store.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, repository.AsAppError(err, "Customer", id)
	}

	customer.Name = in.Name
	customer.Address = in.Address
	customer.Contact = in.Contact
	if err := s.store.Customers.Update(ctx, customer); err != nil {
		return nil, repository.Unexpected(err, "failed to update customer")
	}

	list, err := s.toViews(ctx, []models.Customer{*customer})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// Delete removes the customer's lines and then the customer. It returns false
// when the customer does not exist and a conflict while sales orders still
// reference it.
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	customer, err := s.store.Customers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, repository.Unexpected(err, "failed to load customer")
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		return DeleteCustomer(ctx, tx, customer)
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteCustomer removes a customer and its lines using the given store, which
// is expected to be transactional.
func DeleteCustomer(ctx context.Context, tx *repository.Store, customer *models.Customer) error {
	hasOrders, err := tx.SalesOrders.Exists(ctx, repository.Where("customer_id = ?", customer.ID))
	if err != nil {
		return repository.Unexpected(err, "failed to check customer orders")
	}
	if hasOrders {
		return apperr.Conflict("Customer %q has sales orders and cannot be deleted", customer.Name)
	}

	lines, err := tx.CustomerItems.FindAll(ctx, repository.Where("customer_id = ?", customer.ID))
	if err != nil {
		return repository.Unexpected(err, "failed to load customer items")
	}
	for i := range lines {
		if err := tx.CustomerItems.Delete(ctx, &lines[i]); err != nil {
			return repository.Unexpected(err, "failed to delete customer item")
		}
	}

	if err := tx.Customers.Delete(ctx, customer); err != nil {
		return repository.Unexpected(err, "failed to delete customer")
	}
	return nil
}

func (s *CustomerService) GetItems(ctx context.Context, customerID uuid.UUID) ([]views.LineView, error) {
	exists, err := s.store.Customers.Exists(ctx, repository.Where("id = ?", customerID))
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load customer")
	}
	if !exists {
		return nil, apperr.NotFound("Customer", customerID)
	}
	return s.lines(ctx, customerID)
}

// AddItem attaches an item to the customer, pricing it at the selling price.
func (s *CustomerService) AddItem(ctx context.Context, customerID uuid.UUID, in LineInput) (*views.LineView, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	if _, err := s.store.Customers.GetByID(ctx, customerID); err != nil {
		return nil, repository.AsAppError(err, "Customer", customerID)
	}
	item, err := s.store.Items.GetByID(ctx, in.ItemID)
	if err != nil {
		return nil, repository.AsAppError(err, "Item", in.ItemID)
	}

	gst, total := pricing.Line(item.SellingPrice, item.GSTPercent)
	line := models.CustomerItem{
		ItemID:      item.ID,
		CustomerID:  customerID,
		Quantity:    in.Quantity,
		GSTAmount:   gst,
		TotalAmount: total,
	}
	if err := s.store.CustomerItems.Add(ctx, &line); err != nil {
		return nil, repository.Unexpected(err, "failed to add customer item")
	}

	resolved, err := lookup.ItemViewsFor(ctx, s.store, []models.Item{*item})
	if err != nil {
		return nil, err
	}
	v := customerLineView(line, resolved)
	return &v, nil
}

// LineOwner returns the customer a profile line belongs to.
func (s *CustomerService) LineOwner(ctx context.Context, lineID uuid.UUID) (uuid.UUID, error) {
	line, err := s.store.CustomerItems.GetByID(ctx, lineID)
	if err != nil {
		return uuid.Nil, repository.AsAppError(err, "Customer item", lineID)
	}
	return line.CustomerID, nil
}

// RemoveItem deletes a profile line. Lines that belong to an order can only go
// away with the order, so the order total always matches its lines.
func (s *CustomerService) RemoveItem(ctx context.Context, lineID uuid.UUID) (bool, error) {
	line, err := s.store.CustomerItems.GetByID(ctx, lineID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, repository.Unexpected(err, "failed to load customer item")
	}
	if line.SalesOrderID != nil {
		return false, apperr.Conflict("Customer item %s belongs to sales order %s; delete the order instead", lineID, *line.SalesOrderID)
	}
	if err := s.store.CustomerItems.Delete(ctx, line); err != nil {
		return false, repository.Unexpected(err, "failed to remove customer item")
	}
	return true, nil
}

func (s *CustomerService) Search(ctx context.Context, term string) ([]views.PartyView, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []views.PartyView{}, nil
	}

	rows, err := s.store.Customers.FindAll(ctx,
		repository.ContainsFold(term, "name", "address", "contact"),
		repository.OrderBy("name ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to search customers")
	}
	return s.toViews(ctx, rows)
}

func (s *CustomerService) lines(ctx context.Context, customerID uuid.UUID) ([]views.LineView, error) {
	rows, err := s.store.CustomerItems.FindAll(ctx,
		repository.Where("customer_id = ?", customerID),
		repository.OrderBy("created_at ASC, id ASC"),
	)
	if err != nil {
		return nil, repository.Unexpected(err, "failed to load customer items")
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
		out = append(out, customerLineView(r, items))
	}
	return out, nil
}

func (s *CustomerService) toViews(ctx context.Context, rows []models.Customer) ([]views.PartyView, error) {
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

func customerLineView(line models.CustomerItem, items map[uuid.UUID]views.ItemView) views.LineView {
	v := views.LineView{
		ID:          line.ID,
		Quantity:    line.Quantity,
		GSTAmount:   line.GSTAmount,
		TotalAmount: line.TotalAmount,
		OrderID:     line.SalesOrderID,
	}
	if item, ok := items[line.ItemID]; ok {
		v.Item = &item
	}
	return v
}
