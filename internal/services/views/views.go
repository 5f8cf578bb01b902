// Package views holds the response shapes shared by the services. Richer
// views embed the smaller ones instead of repeating their fields.
package views

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"inventory-system/internal/database/models"
)

type CategoryView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

type CategoryDetail struct {
	CategoryView
	CreatedDate  time.Time  `json:"createdDate"`
	ModifiedDate time.Time  `json:"modifiedDate"`
	Items        []ItemView `json:"items"`
}

type ItemView struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	GSTPercent    decimal.Decimal `json:"gstPercent"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	Category      *CategoryView   `json:"category,omitempty"`
}

type ItemDetail struct {
	ItemView
	CreatedDate  time.Time `json:"createdDate"`
	ModifiedDate time.Time `json:"modifiedDate"`
}

type UserProfile struct {
	ID           uuid.UUID `json:"id"`
	FullName     string    `json:"fullName"`
	Username     string    `json:"username"`
	UserTypeID   uuid.UUID `json:"userTypeId"`
	UserTypeName string    `json:"userTypeName"`
}

type PartyView struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	Address string       `json:"address"`
	Contact string       `json:"contact"`
	User    *UserProfile `json:"user,omitempty"`
}

type LineView struct {
	ID          uuid.UUID       `json:"id"`
	Item        *ItemView       `json:"item,omitempty"`
	Quantity    int             `json:"quantity"`
	GSTAmount   decimal.Decimal `json:"gstAmount"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	OrderID     *uuid.UUID      `json:"orderId,omitempty"`
}

type OrderListView struct {
	ID          uuid.UUID       `json:"id"`
	OrderNo     string          `json:"orderNo"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PartyID     uuid.UUID       `json:"partyId"`
	PartyName   string          `json:"partyName"`
}

type OrderView struct {
	ID          uuid.UUID       `json:"id"`
	OrderNo     string          `json:"orderNo"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PartyID     uuid.UUID       `json:"partyId"`
	Party       *PartyView      `json:"party,omitempty"`
}

type OrderDetail struct {
	OrderView
	Lines []LineView `json:"lines"`
}

type PartyDetail struct {
	PartyView
	Lines        []LineView      `json:"lines"`
	Orders       []OrderListView `json:"orders"`
	CreatedDate  time.Time       `json:"createdDate"`
	ModifiedDate time.Time       `json:"modifiedDate"`
}

func Category(c models.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name, Description: c.Description}
}

func Item(i models.Item, c *models.Category) ItemView {
	v := ItemView{
		ID:            i.ID,
		Name:          i.Name,
		GSTPercent:    i.GSTPercent,
		PurchasePrice: i.PurchasePrice,
		SellingPrice:  i.SellingPrice,
	}
	if c != nil {
		cv := Category(*c)
		v.Category = &cv
	}
	return v
}

func Profile(u models.User, ut *models.UserType) *UserProfile {
	p := &UserProfile{
		ID:         u.ID,
		FullName:   u.FullName,
		Username:   u.Username,
		UserTypeID: u.UserTypeID,
	}
	if ut != nil {
		p.UserTypeName = ut.Name
	}
	return p
}
