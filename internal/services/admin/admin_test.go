package admin

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

func TestIsProtectedAdmin(t *testing.T) {
	admin := models.User{Username: models.AdminUsername}
	require.True(t, IsProtectedAdmin(admin, models.RoleAdmin))
	require.False(t, IsProtectedAdmin(admin, models.RoleCustomer))
	require.False(t, IsProtectedAdmin(models.User{Username: "root"}, models.RoleAdmin))
}

func TestDeleteProtectedAdminFails(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	types := testutil.SeedUserTypes(t, store)
	admin := testutil.CreateUser(t, store, types[models.RoleAdmin], models.AdminUsername)
	svc := NewService(store)

	ok, err := svc.DeleteUser(ctx, admin.ID)
	require.False(t, ok)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	still, err := store.Users.Exists(ctx, repository.Where("id = ?", admin.ID))
	require.NoError(t, err)
	require.True(t, still)

	// the same username under another role is an ordinary account
	other := testutil.CreateUser(t, store, types[models.RoleCustomer], "second-admin")
	ok, err = svc.DeleteUser(ctx, other.ID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestDeleteUserRemovesProfileAndMessages(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	types := testutil.SeedUserTypes(t, store)
	user := testutil.CreateUser(t, store, types[models.RoleCustomer], "buyer")
	svc := NewService(store)

	customer := models.Customer{Name: "Acme", Address: "1 Main St", Contact: "5551234567", UserID: user.ID}
	require.NoError(t, store.Customers.Add(ctx, &customer))
	category := models.Category{Name: "Electronics"}
	require.NoError(t, store.Categories.Add(ctx, &category))
	item := models.Item{Name: "Cable", CategoryID: category.ID, GSTPercent: decimal.NewFromInt(18),
		PurchasePrice: decimal.NewFromInt(100), SellingPrice: decimal.NewFromInt(150)}
	require.NoError(t, store.Items.Add(ctx, &item))
	line := models.CustomerItem{ItemID: item.ID, CustomerID: customer.ID, Quantity: 1}
	require.NoError(t, store.CustomerItems.Add(ctx, &line))
	msg := models.SupportMessage{UserID: user.ID, Message: "help"}
	require.NoError(t, store.SupportMessages.Add(ctx, &msg))

	summary, err := svc.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, summary.HasCustomerProfile)
	require.False(t, summary.HasSupplierProfile)

	ok, err := svc.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	require.True(t, ok)

	for name, count := range map[string]func() (int64, error){
		"customers": func() (int64, error) { return store.Customers.Count(ctx) },
		"lines":     func() (int64, error) { return store.CustomerItems.Count(ctx) },
		"messages":  func() (int64, error) { return store.SupportMessages.Count(ctx) },
	} {
		n, err := count()
		require.NoError(t, err, name)
		require.Zero(t, n, name)
	}

	ok, err = svc.DeleteUser(ctx, user.ID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestDeleteUserBlockedByOrders(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	types := testutil.SeedUserTypes(t, store)
	user := testutil.CreateUser(t, store, types[models.RoleSupplier], "vendor")
	svc := NewService(store)

	supplier := models.Supplier{Name: "Globex", UserID: user.ID}
	require.NoError(t, store.Suppliers.Add(ctx, &supplier))
	order := models.PurchaseOrder{OrderNo: "PO-20240101000000", OrderDate: time.Now().UTC(), TotalAmount: decimal.Zero, SupplierID: supplier.ID}
	require.NoError(t, store.PurchaseOrders.Add(ctx, &order))

	ok, err := svc.DeleteUser(ctx, user.ID)
	require.False(t, ok)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	exists, err := store.Users.Exists(ctx, repository.Where("id = ?", user.ID))
	require.NoError(t, err)
	require.True(t, exists)
}

func TestUserTypeLifecycle(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	types := testutil.SeedUserTypes(t, store)
	svc := NewService(store)

	created, err := svc.CreateUserType(ctx, " Auditor ")
	require.NoError(t, err)
	require.Equal(t, "Auditor", created.Name)

	_, err = svc.CreateUserType(ctx, "auditor")
	require.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.UpdateUserType(ctx, created.ID, "Customer")
	require.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = svc.UpdateUserType(ctx, types[models.RoleAdmin].ID, "Root")
	require.True(t, apperr.Is(err, apperr.KindConflict))

	updated, err := svc.UpdateUserType(ctx, created.ID, "Inspector")
	require.NoError(t, err)
	require.Equal(t, "Inspector", updated.Name)

	testutil.CreateUser(t, store, models.UserType{Base: models.Base{ID: created.ID}}, "inspector")
	ok, err := svc.DeleteUserType(ctx, created.ID)
	require.False(t, ok)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	view, err := svc.GetUserTypeByID(ctx, created.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, view.UserCount)

	spare, err := svc.CreateUserType(ctx, "Spare")
	require.NoError(t, err)
	ok, err = svc.DeleteUserType(ctx, spare.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.DeleteUserType(ctx, uuid.New())
	require.NoError(t, err)
	require.False(t, ok)

	all, err := svc.GetAllUserTypes(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	types := testutil.SeedUserTypes(t, store)
	buyer := testutil.CreateUser(t, store, types[models.RoleCustomer], "buyer")
	vendor := testutil.CreateUser(t, store, types[models.RoleSupplier], "vendor")

	customer := models.Customer{Name: "Acme", UserID: buyer.ID}
	require.NoError(t, store.Customers.Add(ctx, &customer))
	supplier := models.Supplier{Name: "Globex", UserID: vendor.ID}
	require.NoError(t, store.Suppliers.Add(ctx, &supplier))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		so := models.SalesOrder{
			OrderNo:     "SO-" + base.AddDate(0, 0, i).Format("20060102150405"),
			OrderDate:   base.AddDate(0, 0, i),
			TotalAmount: decimal.RequireFromString("10.50"),
			CustomerID:  customer.ID,
		}
		require.NoError(t, store.SalesOrders.Add(ctx, &so))
	}
	po := models.PurchaseOrder{OrderNo: "PO-20240101000000", OrderDate: base, TotalAmount: decimal.RequireFromString("118.00"), SupplierID: supplier.ID}
	require.NoError(t, store.PurchaseOrders.Add(ctx, &po))

	d, err := NewService(store).Dashboard(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, d.CustomersCount)
	require.EqualValues(t, 1, d.SuppliersCount)
	require.Equal(t, 7, d.SalesCount)
	require.True(t, decimal.RequireFromString("73.50").Equal(d.SalesTotal), d.SalesTotal.String())
	require.Len(t, d.RecentSales, 5)
	require.Equal(t, "SO-20240107000000", d.RecentSales[0].OrderNo)
	require.Equal(t, 1, d.PurchaseCount)
	require.True(t, decimal.RequireFromString("118").Equal(d.PurchaseTotal))
	require.Len(t, d.RecentPurchases, 1)
}
