package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"inventory-system/internal/apperr"
	"inventory-system/internal/database/models"
	"inventory-system/internal/testutil"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCategoryCRUD(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewCategoryService(store)

	created, err := svc.Create(ctx, CategoryInput{Name: "  Electronics ", Description: "Gadgets"})
	require.NoError(t, err)
	require.Equal(t, "Electronics", created.Name)

	updated, err := svc.Update(ctx, created.ID, CategoryInput{Name: "Electronics & Cables", Description: "Wires"})
	require.NoError(t, err)
	require.Equal(t, "Electronics & Cables", updated.Name)

	all, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = svc.Update(ctx, uuid.New(), CategoryInput{Name: "Ghost"})
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = svc.Create(ctx, CategoryInput{Name: "x"})
	require.True(t, apperr.Is(err, apperr.KindValidation))

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	deleted, err = svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, deleted)
}

func TestCategoryDeleteBlockedWhileItemsExist(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	categories := NewCategoryService(store)
	items := NewItemService(store)

	cat, err := categories.Create(ctx, CategoryInput{Name: "Electronics"})
	require.NoError(t, err)
	_, err = items.Create(ctx, ItemInput{
		Name:          "Cable",
		CategoryID:    cat.ID,
		GSTPercent:    dec("18"),
		PurchasePrice: dec("100.00"),
		SellingPrice:  dec("150.00"),
	})
	require.NoError(t, err)

	ok, err := categories.Delete(ctx, cat.ID)
	require.False(t, ok)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	detail, err := categories.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
}

func TestItemRequiresExistingCategory(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	items := NewItemService(store)

	missing := uuid.New()
	_, err := items.Create(ctx, ItemInput{
		Name:          "Cable",
		CategoryID:    missing,
		GSTPercent:    dec("18"),
		PurchasePrice: dec("100"),
		SellingPrice:  dec("150"),
	})
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	require.Contains(t, err.Error(), missing.String())

	cat, err := NewCategoryService(store).Create(ctx, CategoryInput{Name: "Electronics"})
	require.NoError(t, err)
	created, err := items.Create(ctx, ItemInput{
		Name:          "Cable",
		CategoryID:    cat.ID,
		GSTPercent:    dec("18"),
		PurchasePrice: dec("100"),
		SellingPrice:  dec("150"),
	})
	require.NoError(t, err)
	require.Equal(t, "Electronics", created.Category.Name)

	_, err = items.Update(ctx, created.ID, ItemInput{
		Name:          "Cable",
		CategoryID:    missing,
		GSTPercent:    dec("18"),
		PurchasePrice: dec("100"),
		SellingPrice:  dec("150"),
	})
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestItemValidation(t *testing.T) {
	ctx := context.Background()
	items := NewItemService(testutil.NewStore(t))

	base := ItemInput{
		Name:          "Cable",
		CategoryID:    uuid.New(),
		GSTPercent:    dec("18"),
		PurchasePrice: dec("100"),
		SellingPrice:  dec("150"),
	}

	bad := []func(*ItemInput){
		func(in *ItemInput) { in.Name = "" },
		func(in *ItemInput) { in.CategoryID = uuid.Nil },
		func(in *ItemInput) { in.GSTPercent = dec("-1") },
		func(in *ItemInput) { in.GSTPercent = dec("100.01") },
		func(in *ItemInput) { in.PurchasePrice = decimal.Zero },
		func(in *ItemInput) { in.SellingPrice = dec("10000000") },
	}
	for _, mutate := range bad {
		in := base
		mutate(&in)
		_, err := items.Create(ctx, in)
		require.True(t, apperr.Is(err, apperr.KindValidation), "input %+v", in)
	}
}

func TestItemSearchAndByCategory(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	items := NewItemService(store)
	cat, err := NewCategoryService(store).Create(ctx, CategoryInput{Name: "Electronics"})
	require.NoError(t, err)

	for _, name := range []string{"USB Cable", "HDMI cable", "Mouse"} {
		_, err := items.Create(ctx, ItemInput{
			Name:          name,
			CategoryID:    cat.ID,
			GSTPercent:    dec("5"),
			PurchasePrice: dec("10"),
			SellingPrice:  dec("12"),
		})
		require.NoError(t, err)
	}

	found, err := items.Search(ctx, "CABLE")
	require.NoError(t, err)
	require.Len(t, found, 2)

	empty, err := items.Search(ctx, "   ")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)

	byCat, err := items.GetByCategory(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, byCat, 3)

	_, err = items.GetByCategory(ctx, uuid.New())
	require.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestItemDeleteBlockedByLines(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	items := NewItemService(store)
	cat, err := NewCategoryService(store).Create(ctx, CategoryInput{Name: "Electronics"})
	require.NoError(t, err)
	item, err := items.Create(ctx, ItemInput{
		Name:          "Cable",
		CategoryID:    cat.ID,
		GSTPercent:    dec("18"),
		PurchasePrice: dec("100"),
		SellingPrice:  dec("150"),
	})
	require.NoError(t, err)

	types := testutil.SeedUserTypes(t, store)
	user := testutil.CreateUser(t, store, types[models.RoleCustomer], "buyer")
	customer := models.Customer{Name: "Buyer", UserID: user.ID}
	require.NoError(t, store.Customers.Add(ctx, &customer))
	line := models.CustomerItem{ItemID: item.ID, CustomerID: customer.ID, Quantity: 1}
	require.NoError(t, store.CustomerItems.Add(ctx, &line))

	ok, err := items.Delete(ctx, item.ID)
	require.False(t, ok)
	require.True(t, apperr.Is(err, apperr.KindConflict))

	ok, err = items.Delete(ctx, uuid.New())
	require.NoError(t, err)
	require.False(t, ok)
}
