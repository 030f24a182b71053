package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/repositories"
)

// ProductRepository provides in-memory product storage, one catalog per organization
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string][]entities.Product
	index    map[string]map[entities.ProductID]int
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string][]entities.Product),
		index:    make(map[string]map[entities.ProductID]int),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// ReplaceProducts swaps the organization's catalog for the given products
func (r *ProductRepository) ReplaceProducts(organizationID string, products []*entities.Product) error {
	if organizationID == "" {
		return fmt.Errorf("organization id cannot be empty")
	}

	stored := make([]entities.Product, 0, len(products))
	index := make(map[entities.ProductID]int, len(products))
	for _, product := range products {
		if product == nil {
			return fmt.Errorf("cannot store nil product for organization %s", organizationID)
		}
		if _, exists := index[product.ID]; exists {
			return fmt.Errorf("duplicate product %s for organization %s", product.ID, organizationID)
		}
		index[product.ID] = len(stored)
		stored = append(stored, *product)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[organizationID] = stored
	r.index[organizationID] = index
	return nil
}

// GetProducts returns copies of the organization's products in load order
func (r *ProductRepository) GetProducts(organizationID string) ([]*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.products[organizationID]
	products := make([]*entities.Product, 0, len(stored))
	for i := range stored {
		product := stored[i]
		products = append(products, &product)
	}
	return products, nil
}

// GetProduct returns a copy of a single product
func (r *ProductRepository) GetProduct(organizationID string, id entities.ProductID) (*entities.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, exists := r.index[organizationID][id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrProductNotFound, id)
	}
	product := r.products[organizationID][i]
	return &product, nil
}
