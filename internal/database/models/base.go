package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Base struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&UserType{},
		&User{},
		&Category{},
		&Item{},
		&Customer{},
		&Supplier{},
		&PurchaseOrder{},
		&SupplierItem{},
		&SalesOrder{},
		&CustomerItem{},
		&SupportMessage{},
	}
}
