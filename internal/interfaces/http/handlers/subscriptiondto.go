package handlers

import (
	"time"

	"tably/internal/domain/billing"
	"tably/internal/shared/biztime"
)

// SubscriptionDTO is the outward shape of a subscription record. The gateway
// subscription id is returned only by create, where the caller needs it for
// checkout and abort cleanup.
type SubscriptionDTO struct {
	UserID     uint       `json:"user_id"`
	PlanID     *string    `json:"plan_id,omitempty"`
	Status     string     `json:"status"`
	ValidUntil *time.Time `json:"valid_until,omitempty"`
	Entitled   bool       `json:"entitled"`
}

func toSubscriptionDTO(sub *billing.Subscription) *SubscriptionDTO {
	if sub == nil {
		return nil
	}
	return &SubscriptionDTO{
		UserID:     sub.UserID(),
		PlanID:     sub.PlanID(),
		Status:     string(sub.Status()),
		ValidUntil: sub.ValidUntil(),
		Entitled:   sub.IsEntitled(biztime.NowUTC()),
	}
}
