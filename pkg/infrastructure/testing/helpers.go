package testing

import (
	"fmt"
	"time"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/infrastructure/repositories/memory"
)

// Date returns midnight UTC of the given day
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewProduct builds a product whose SKU is derived from its id
func NewProduct(
	id string,
	currentStock, weeklyConsumption int64,
	targetWeeks, piecesPerPallet int,
	volumePerPallet float64,
) *entities.Product {
	return &entities.Product{
		ID:                     entities.ProductID(id),
		SKU:                    entities.SKU("SKU-" + id),
		Description:            fmt.Sprintf("Test product %s", id),
		CurrentStock:           entities.Quantity(currentStock),
		WeeklyConsumption:      entities.Quantity(weeklyConsumption),
		TargetStockOnHandWeeks: targetWeeks,
		PiecesPerPallet:        piecesPerPallet,
		VolumePerPallet:        volumePerPallet,
	}
}

// NewOrder builds a single-line existing order
func NewOrder(id string, sku entities.SKU, quantity int64, deliveryDate time.Time, status entities.OrderStatus) *entities.ExistingOrder {
	return &entities.ExistingOrder{
		ID:           id,
		OrderedDate:  deliveryDate.AddDate(0, 0, -56),
		DeliveryDate: deliveryDate,
		Status:       status,
		Lines:        []entities.OrderLine{{SKU: sku, Quantity: entities.Quantity(quantity)}},
	}
}

// BuildEndToEndProduct is the single-product reference case: empty stock,
// 1000 cartons a week, six weeks of cover, 0.038 m3 per carton
func BuildEndToEndProduct() *entities.Product {
	return NewProduct("TOWEL", 0, 1000, 6, 1000, 38)
}

// BuildMixedCatalog returns a catalog exercising most engine paths:
// products due in the same week, one much later, one never depleting and
// one with unusable pallet data.
func BuildMixedCatalog() ([]*entities.Product, []*entities.ExistingOrder) {
	products := []*entities.Product{
		NewProduct("A", 2000, 500, 8, 100, 4),    // 0.04 m3 per carton
		NewProduct("B", 1800, 450, 6, 200, 5),    // 0.025 m3 per carton
		NewProduct("C", 30000, 300, 10, 50, 3.5), // beyond the horizon without orders
		NewProduct("D", 4000, 250, 12, 80, 6),    // depletes later, own cluster
		NewProduct("IDLE", 500, 0, 6, 100, 2),    // never depletes
		NewProduct("BROKEN", 100, 10, 6, 100, 0), // no pallet volume
	}

	today := Date(2025, 1, 1)
	orders := []*entities.ExistingOrder{
		NewOrder("PO-100", "SKU-D", 1500, today.AddDate(0, 0, 20), entities.InTransit),
		NewOrder("PO-101", "SKU-A", 10000, today.AddDate(0, 0, 10), entities.Delivered),
	}

	return products, orders
}

// BuildOrganizationData loads the mixed catalog into in-memory repositories
func BuildOrganizationData(organizationID string) (*memory.ProductRepository, *memory.OrderRepository) {
	productRepo := memory.NewProductRepository()
	orderRepo := memory.NewOrderRepository()

	products, orders := BuildMixedCatalog()
	if err := productRepo.ReplaceProducts(organizationID, products); err != nil {
		panic(err)
	}
	if err := orderRepo.ReplaceOrders(organizationID, orders); err != nil {
		panic(err)
	}

	return productRepo, orderRepo
}
