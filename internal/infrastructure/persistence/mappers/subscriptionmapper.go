package mappers

import (
	"fmt"

	"tably/internal/domain/billing"
	vo "tably/internal/domain/billing/valueobjects"
	"tably/internal/infrastructure/persistence/models"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*billing.Subscription, error)
	ToModel(entity *billing.Subscription) (*models.SubscriptionModel, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*billing.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status := vo.SubscriptionStatus(model.Status)
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", model.Status)
	}

	entity, err := billing.ReconstructSubscription(
		model.ID,
		model.UserID,
		model.GatewaySubscriptionID,
		model.PlanID,
		status,
		model.ValidUntil,
		model.Version,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *billing.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, fmt.Errorf("subscription entity cannot be nil")
	}

	return &models.SubscriptionModel{
		ID:                    entity.ID(),
		UserID:                entity.UserID(),
		GatewaySubscriptionID: entity.GatewaySubscriptionID(),
		PlanID:                entity.PlanID(),
		Status:                entity.Status().String(),
		ValidUntil:            entity.ValidUntil(),
		Version:               entity.Version(),
		CreatedAt:             entity.CreatedAt(),
		UpdatedAt:             entity.UpdatedAt(),
	}, nil
}
