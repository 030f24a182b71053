package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/repositories"
)

// OrderRepository provides in-memory storage of existing orders per organization
type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string][]entities.ExistingOrder
}

// NewOrderRepository creates a new in-memory order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[string][]entities.ExistingOrder),
	}
}

// Verify interface compliance
var _ repositories.OrderRepository = (*OrderRepository)(nil)

// ReplaceOrders swaps the organization's existing orders
func (r *OrderRepository) ReplaceOrders(organizationID string, orders []*entities.ExistingOrder) error {
	if organizationID == "" {
		return fmt.Errorf("organization id cannot be empty")
	}

	stored := make([]entities.ExistingOrder, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			return fmt.Errorf("cannot store nil order for organization %s", organizationID)
		}
		stored = append(stored, copyOrder(order))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[organizationID] = stored
	return nil
}

// GetAllOrders returns copies of every order of the organization
func (r *OrderRepository) GetAllOrders(organizationID string) ([]*entities.ExistingOrder, error) {
	return r.filter(organizationID, func(*entities.ExistingOrder) bool { return true }), nil
}

// GetOpenOrders returns copies of the orders still pending or in transit
func (r *OrderRepository) GetOpenOrders(organizationID string) ([]*entities.ExistingOrder, error) {
	return r.filter(organizationID, func(o *entities.ExistingOrder) bool { return o.Status.IsOpen() }), nil
}

func (r *OrderRepository) filter(organizationID string, keep func(*entities.ExistingOrder) bool) []*entities.ExistingOrder {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.orders[organizationID]
	orders := make([]*entities.ExistingOrder, 0, len(stored))
	for i := range stored {
		if !keep(&stored[i]) {
			continue
		}
		order := copyOrder(&stored[i])
		orders = append(orders, &order)
	}
	return orders
}

func copyOrder(order *entities.ExistingOrder) entities.ExistingOrder {
	copied := *order
	copied.Lines = make([]entities.OrderLine, len(order.Lines))
	copy(copied.Lines, order.Lines)
	return copied
}
