package events

import (
	"time"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

const (
	InventoryUpdatedEvent = "inventory.updated"

	RecommendationsRecomputedEvent = "recommendations.recomputed"
	RecommendationsFailedEvent     = "recommendations.failed"

	ProductExcludedEvent = "product.excluded"
)

type InventoryUpdated struct {
	OrganizationID string `json:"organization_id"`
	ProductCount   int    `json:"product_count"`
	OrderCount     int    `json:"order_count"`
}

type RecommendationsRecomputed struct {
	OrganizationID string            `json:"organization_id"`
	RunID          string            `json:"run_id"`
	Today          time.Time         `json:"today"`
	ContainerCount int               `json:"container_count"`
	TotalCartons   entities.Quantity `json:"total_cartons"`
	ExclusionCount int               `json:"exclusion_count"`
	Duration       time.Duration     `json:"duration"`
}

type RecommendationsFailed struct {
	OrganizationID string    `json:"organization_id"`
	Today          time.Time `json:"today"`
	Error          string    `json:"error"`
}

type ProductExcluded struct {
	OrganizationID string             `json:"organization_id"`
	RunID          string             `json:"run_id"`
	Exclusion      entities.Exclusion `json:"exclusion"`
}
