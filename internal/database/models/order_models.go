package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PurchaseOrder struct {
	Base
	OrderNo     string          `gorm:"size:32;index;not null"`
	OrderDate   time.Time       `gorm:"index;not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	SupplierID  uuid.UUID       `gorm:"type:uuid;index;not null"`

	Supplier *Supplier `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT"`
}

// SupplierItem is one purchase line. PurchaseOrderID is nil for lines attached
// directly to a supplier profile. Position keeps the request order of order lines.
type SupplierItem struct {
	Base
	ItemID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	SupplierID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	PurchaseOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	Position        int             `gorm:"not null;default:0"`
	Quantity        int             `gorm:"not null;default:1"`
	GSTAmount       decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(18,2);not null"`

	Item          *Item          `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT"`
	Supplier      *Supplier      `gorm:"foreignKey:SupplierID;constraint:OnDelete:RESTRICT"`
	PurchaseOrder *PurchaseOrder `gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:RESTRICT"`
}

type SalesOrder struct {
	Base
	OrderNo     string          `gorm:"size:32;index;not null"`
	OrderDate   time.Time       `gorm:"index;not null"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CustomerID  uuid.UUID       `gorm:"type:uuid;index;not null"`

	Customer *Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
}

// CustomerItem is one sales line. SalesOrderID is nil for lines attached
// directly to a customer profile.
type CustomerItem struct {
	Base
	ItemID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	SalesOrderID *uuid.UUID      `gorm:"type:uuid;index"`
	Position     int             `gorm:"not null;default:0"`
	Quantity     int             `gorm:"not null;default:1"`
	GSTAmount    decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(18,2);not null"`

	Item       *Item       `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT"`
	Customer   *Customer   `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT"`
	SalesOrder *SalesOrder `gorm:"foreignKey:SalesOrderID;constraint:OnDelete:RESTRICT"`
}
