package repositories

import "github.com/vsinha/replenish/pkg/domain/entities"

// OrderRepository provides access to orders already placed with the supplier
type OrderRepository interface {
	GetAllOrders(organizationID string) ([]*entities.ExistingOrder, error)
	// GetOpenOrders returns only orders that have not been delivered yet.
	GetOpenOrders(organizationID string) ([]*entities.ExistingOrder, error)
	ReplaceOrders(organizationID string, orders []*entities.ExistingOrder) error
}
