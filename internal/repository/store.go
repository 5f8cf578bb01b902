package repository

import (
	"context"

	"gorm.io/gorm"

	"inventory-system/internal/database"
	"inventory-system/internal/database/models"
)

// Store groups one repository per entity over a shared connection or
// transaction.
type Store struct {
	db   *gorm.DB
	inTx bool

	UserTypes       Repository[models.UserType]
	Users           Repository[models.User]
	Categories      Repository[models.Category]
	Items           Repository[models.Item]
	Customers       Repository[models.Customer]
	Suppliers       Repository[models.Supplier]
	PurchaseOrders  Repository[models.PurchaseOrder]
	SupplierItems   Repository[models.SupplierItem]
	SalesOrders     Repository[models.SalesOrder]
	CustomerItems   Repository[models.CustomerItem]
	SupportMessages Repository[models.SupportMessage]
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:              db,
		UserTypes:       NewGormRepository[models.UserType](db, "user type"),
		Users:           NewGormRepository[models.User](db, "user"),
		Categories:      NewGormRepository[models.Category](db, "category"),
		Items:           NewGormRepository[models.Item](db, "item"),
		Customers:       NewGormRepository[models.Customer](db, "customer"),
		Suppliers:       NewGormRepository[models.Supplier](db, "supplier"),
		PurchaseOrders:  NewGormRepository[models.PurchaseOrder](db, "purchase order"),
		SupplierItems:   NewGormRepository[models.SupplierItem](db, "supplier item"),
		SalesOrders:     NewGormRepository[models.SalesOrder](db, "sales order"),
		CustomerItems:   NewGormRepository[models.CustomerItem](db, "customer item"),
		SupportMessages: NewGormRepository[models.SupportMessage](db, "support message"),
	}
}

// Transaction runs fn with a Store bound to one transaction. Calls made on a
// Store that is already transactional reuse the open transaction.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		txStore := NewStore(tx)
		txStore.inTx = true
		return fn(txStore)
	})
}

func (s *Store) DB() *gorm.DB {
	return s.db
}
