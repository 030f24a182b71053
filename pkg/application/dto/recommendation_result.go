package dto

import (
	"time"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

// RecommendationInput is the immutable snapshot one engine run works on
type RecommendationInput struct {
	Products []*entities.Product
	Orders   []*entities.ExistingOrder
	Today    time.Time
}

// RecommendationResult contains the complete output of a recommendation run
type RecommendationResult struct {
	Today        time.Time
	Containers   []entities.ContainerRecommendation
	Exclusions   []entities.Exclusion
	EventCount   int
	ClusterCount int
}

// TotalCartons returns the cartons recommended across all containers
func (r *RecommendationResult) TotalCartons() entities.Quantity {
	var total entities.Quantity
	for _, container := range r.Containers {
		total += container.TotalCartons
	}
	return total
}

// QuantityFor returns the cartons of one product recommended across all containers
func (r *RecommendationResult) QuantityFor(id entities.ProductID) entities.Quantity {
	var total entities.Quantity
	for i := range r.Containers {
		total += r.Containers[i].QuantityFor(id)
	}
	return total
}

// ProductForecast is the simulated outlook of a single product
type ProductForecast struct {
	Product         *entities.Product
	Today           time.Time
	ExclusionReason string
	Depletion       entities.DepletionResult
	Replenishment   *entities.ReplenishmentEvent
	Urgency         entities.Urgency
	// Orders are the orders carrying the product's SKU, delivered ones included
	Orders []*entities.ExistingOrder
}
