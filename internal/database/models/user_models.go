package models

import "github.com/google/uuid"

const (
	RoleAdmin    = "Admin"
	RoleCustomer = "Customer"
	RoleSupplier = "Supplier"
)

type UserType struct {
	Base
	Name string `gorm:"size:50;uniqueIndex;not null"`
}

type User struct {
	Base
	FullName     string    `gorm:"size:100;not null"`
	Username     string    `gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	UserTypeID   uuid.UUID `gorm:"type:uuid;index;not null"`

	UserType *UserType `gorm:"foreignKey:UserTypeID;constraint:OnDelete:RESTRICT"`
}

// AdminUsername is the seeded administrator account.
const AdminUsername = "admin"
