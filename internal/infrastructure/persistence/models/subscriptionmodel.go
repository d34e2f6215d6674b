package models

import (
	"time"

	"gorm.io/gorm"

	"tably/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for
// subscription records. This is the anti-corruption layer between domain
// and database.
type SubscriptionModel struct {
	ID     uint `gorm:"primarykey"`
	UserID uint `gorm:"uniqueIndex;not null"`
	// GatewaySubscriptionID backs the webhook lookup path; unique because at
	// most one outstanding gateway subscription exists per user.
	GatewaySubscriptionID *string `gorm:"uniqueIndex;size:64"`
	PlanID                *string `gorm:"size:64"`
	Status                string  `gorm:"not null;size:20;index:idx_status"`
	ValidUntil            *time.Time
	Version               int `gorm:"not null;default:1"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
