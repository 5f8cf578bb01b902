package models

import (
	"time"

	"github.com/google/uuid"
)

type SupportMessage struct {
	Base
	UserID        uuid.UUID `gorm:"type:uuid;index;not null"`
	Message       string    `gorm:"type:text;not null"`
	IsResolved    bool      `gorm:"index;not null;default:false"`
	AdminResponse string    `gorm:"type:text"`
	ResponseDate  *time.Time
	RespondedBy   *uuid.UUID `gorm:"type:uuid"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
