package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	Base
	Name        string `gorm:"size:100;not null"`
	Description string `gorm:"size:500"`
}

type Item struct {
	Base
	Name          string          `gorm:"size:100;not null"`
	GSTPercent    decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	SellingPrice  decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;index;not null"`

	Category *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}
