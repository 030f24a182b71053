package repositories

import (
	"errors"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

// ErrProductNotFound is returned when an organization's catalog has no such product
var ErrProductNotFound = errors.New("product not found")

// ProductRepository provides access to an organization's product catalog snapshot
type ProductRepository interface {
	GetProducts(organizationID string) ([]*entities.Product, error)
	GetProduct(organizationID string, id entities.ProductID) (*entities.Product, error)
	ReplaceProducts(organizationID string, products []*entities.Product) error
}
