package party

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/repository"
	"inventory-system/internal/testutil"
)

type fixture struct {
	store    *repository.Store
	customer models.Customer
	supplier models.Supplier
	item     models.Item
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := testutil.NewStore(t)
	types := testutil.SeedUserTypes(t, store)

	buyer := testutil.CreateUser(t, store, types[models.RoleCustomer], "buyer")
	vendor := testutil.CreateUser(t, store, types[models.RoleSupplier], "vendor")

	customer := models.Customer{Name: "Acme Retail", Address: "1 Main St", Contact: "555-123-4567", UserID: buyer.ID}
	require.NoError(t, store.Customers.Add(ctx, &customer))
	supplier := models.Supplier{Name: "Globex Wholesale", Address: "9 Dock Rd", Contact: "555-987-6543", UserID: vendor.ID}
	require.NoError(t, store.Suppliers.Add(ctx, &supplier))

	category := models.Category{Name: "Electronics"}
	require.NoError(t, store.Categories.Add(ctx, &category))
	item := models.Item{
		Name:          "Cable",
		CategoryID:    category.ID,
		GSTPercent:    decimal.NewFromInt(18),
		PurchasePrice: decimal.NewFromInt(100),
		SellingPrice:  decimal.NewFromInt(150),
	}
	require.NoError(t, store.Items.Add(ctx, &item))

	return fixture{store: store, customer: customer, supplier: supplier, item: item}
}

func TestInputNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		field string
	}{
		{"valid", Input{Name: " Acme ", Address: "1 Main St", Contact: "+1 555-123-4567"}, ""},
		{"short name", Input{Name: "A", Address: "x", Contact: "5551234567"}, "name"},
		{"missing address", Input{Name: "Acme", Address: " ", Contact: "5551234567"}, "address"},
		{"bad contact", Input{Name: "Acme", Address: "x", Contact: "call me"}, "contact"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			err := in.Normalize()
			if tt.field == "" {
				require.NoError(t, err)
				require.Equal(t, "Acme", in.Name)
				return
			}
			require.True(t, apperr.Is(err, apperr.KindValidation))
			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			require.Contains(t, appErr.Fields, tt.field)
		})
	}
}

func TestCustomerAddItemPricesAtSellingPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCustomerService(f.store)

	line, err := svc.AddItem(ctx, f.customer.ID, LineInput{ItemID: f.item.ID})
	require.NoError(t, err)
	require.Equal(t, 1, line.Quantity)
	require.True(t, decimal.RequireFromString("27.00").Equal(line.GSTAmount), line.GSTAmount.String())
	require.True(t, decimal.RequireFromString("177.00").Equal(line.TotalAmount), line.TotalAmount.String())
	require.Equal(t, "Electronics", line.Item.Category.Name)

	_, err = svc.AddItem(ctx, uuid.New(), LineInput{ItemID: f.item.ID})
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.AddItem(ctx, f.customer.ID, LineInput{ItemID: uuid.New()})
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.AddItem(ctx, f.customer.ID, LineInput{ItemID: f.item.ID, Quantity: -2})
	require.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSupplierAddItemPricesAtPurchasePrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewSupplierService(f.store)

	line, err := svc.AddItem(ctx, f.supplier.ID, LineInput{ItemID: f.item.ID, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, 3, line.Quantity)
	require.True(t, decimal.RequireFromString("118.00").Equal(line.TotalAmount), line.TotalAmount.String())

	items, err := svc.GetItems(ctx, f.supplier.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = svc.GetItems(ctx, uuid.New())
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCustomerDeleteCascadesLines(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCustomerService(f.store)

	for i := 0; i < 2; i++ {
		_, err := svc.AddItem(ctx, f.customer.ID, LineInput{ItemID: f.item.ID})
		require.NoError(t, err)
	}

	ok, err := svc.Delete(ctx, f.customer.ID)
	require.NoError(t, err)
	require.True(t, ok)

	remaining, err := f.store.CustomerItems.Count(ctx, repository.Where("customer_id = ?", f.customer.ID))
	require.NoError(t, err)
	require.Zero(t, remaining)

	ok, err = svc.Delete(ctx, f.customer.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSupplierDeleteBlockedByOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewSupplierService(f.store)

	order := models.PurchaseOrder{
		OrderNo:     "PO-20240101120000",
		OrderDate:   time.Now().UTC(),
		TotalAmount: decimal.Zero,
		SupplierID:  f.supplier.ID,
	}
	require.NoError(t, f.store.PurchaseOrders.Add(ctx, &order))

	ok, err := svc.Delete(ctx, f.supplier.ID)
	require.False(t, ok)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	detail, err := svc.GetByID(ctx, f.supplier.ID)
	require.NoError(t, err)
	require.Len(t, detail.Orders, 1)
	require.Equal(t, "Globex Wholesale", detail.Orders[0].PartyName)
	require.Equal(t, "vendor", detail.User.Username)
}

func TestCustomerUpdateSearchAndRemoveItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCustomerService(f.store)

	updated, err := svc.Update(ctx, f.customer.ID, Input{Name: "Acme Stores", Address: "2 High St", Contact: "555.123.4567"})
	require.NoError(t, err)
	require.Equal(t, "Acme Stores", updated.Name)
	require.Equal(t, models.RoleCustomer, updated.User.UserTypeName)

	found, err := svc.Search(ctx, "high")
	require.NoError(t, err)
	require.Len(t, found, 1)

	none, err := svc.Search(ctx, "")
	require.NoError(t, err)
	require.Empty(t, none)

	line, err := svc.AddItem(ctx, f.customer.ID, LineInput{ItemID: f.item.ID})
	require.NoError(t, err)
	ok, err := svc.RemoveItem(ctx, line.ID)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = svc.RemoveItem(ctx, line.ID)
	require.NoError(t, err)
	require.False(t, ok)

	profile, err := svc.GetByUserID(ctx, f.customer.UserID)
	require.NoError(t, err)
	require.Equal(t, f.customer.ID, profile.ID)
}

func TestOrderLinesStayWithTheirOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewSupplierService(f.store)

	order := models.PurchaseOrder{
		OrderNo:     "PO-20240101120000",
		OrderDate:   time.Now().UTC(),
		TotalAmount: decimal.NewFromInt(118),
		SupplierID:  f.supplier.ID,
	}
	require.NoError(t, f.store.PurchaseOrders.Add(ctx, &order))
	orderLine := models.SupplierItem{
		ItemID:          f.item.ID,
		SupplierID:      f.supplier.ID,
		PurchaseOrderID: &order.ID,
		Quantity:        1,
		GSTAmount:       decimal.NewFromInt(18),
		TotalAmount:     decimal.NewFromInt(118),
	}
	require.NoError(t, f.store.SupplierItems.Add(ctx, &orderLine))

	supplierType, err := f.store.UserTypes.FindSingle(ctx, repository.Where("name = ?", models.RoleSupplier))
	require.NoError(t, err)
	rival := testutil.CreateUser(t, f.store, *supplierType, "rival")
	other := models.Supplier{Name: "Initech Supply", Address: "4 Mill Ln", Contact: "555-222-3333", UserID: rival.ID}
	require.NoError(t, f.store.Suppliers.Add(ctx, &other))

	added, err := svc.AddItem(ctx, other.ID, LineInput{ItemID: f.item.ID})
	require.NoError(t, err)
	require.Nil(t, added.OrderID)

	ok, err := svc.RemoveItem(ctx, orderLine.ID)
	require.False(t, ok)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	lines, err := f.store.SupplierItems.FindAll(ctx, repository.Where("purchase_order_id = ?", order.ID))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	stored, err := f.store.PurchaseOrders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.True(t, stored.TotalAmount.Equal(lines[0].TotalAmount))

	owner, err := svc.LineOwner(ctx, added.ID)
	require.NoError(t, err)
	require.Equal(t, other.ID, owner)
	_, err = svc.LineOwner(ctx, uuid.New())
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}
