package models

import "github.com/google/uuid"

type Customer struct {
	Base
	Name    string    `gorm:"size:100;not null"`
	Address string    `gorm:"size:200"`
	Contact string    `gorm:"size:50"`
	UserID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}

type Supplier struct {
	Base
	Name    string    `gorm:"size:100;not null"`
	Address string    `gorm:"size:200"`
	Contact string    `gorm:"size:50"`
	UserID  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:RESTRICT"`
}
