// Package party manages customer and supplier profiles and the line items
// attached to them.
package party

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"inventory-system/internal/apperr"
)

var contactPattern = regexp.MustCompile(`^(\+\d{1,3})?[\s.-]?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}$`)

type Input struct {
	Name    string
	Address string
	Contact string
}

// Normalize trims and validates a profile payload.
func (in *Input) Normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.Contact = strings.TrimSpace(in.Contact)

	if l := len(in.Name); l < 2 || l > 100 {
		return apperr.ValidationField("name", "Name must be between 2 and 100 characters")
	}
	if in.Address == "" || len(in.Address) > 200 {
		return apperr.ValidationField("address", "Address is required and cannot exceed 200 characters")
	}
	if !contactPattern.MatchString(in.Contact) {
		return apperr.ValidationField("contact", "Please enter a valid contact number")
	}
	return nil
}

// LineInput adds a line to a profile. Profile lines never join an order;
// order lines are only written by order creation.
type LineInput struct {
	ItemID   uuid.UUID
	Quantity int
}

func (in *LineInput) normalize() error {
	if in.ItemID == uuid.Nil {
		return apperr.ValidationField("itemId", "Item is required")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return apperr.ValidationField("quantity", "Quantity must be at least 1")
	}
	return nil
}
