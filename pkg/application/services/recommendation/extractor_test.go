package recommendation

import (
	"testing"

	"github.com/vsinha/replenish/pkg/domain/entities"
	testhelpers "github.com/vsinha/replenish/pkg/infrastructure/testing"
)

func TestEventExtractor_Extract(t *testing.T) {
	extractor := NewEventExtractor(56)
	depletionDate := testhelpers.Date(2025, 3, 1)

	t.Run("schedules order one lead time before depletion", func(t *testing.T) {
		product := testhelpers.NewProduct("P", 100, 250, 8, 10, 1)
		event, ok := extractor.Extract(product, entities.DepletionResult{
			ProductID:     product.ID,
			Depletes:      true,
			DepletionDate: depletionDate,
		})
		if !ok {
			t.Fatal("Expected an event")
		}
		if !event.DeliveryDate.Equal(depletionDate) {
			t.Errorf("Expected delivery date %s, got %s", depletionDate, event.DeliveryDate)
		}
		expectedOrderBy := testhelpers.Date(2025, 1, 4)
		if !event.OrderByDate.Equal(expectedOrderBy) {
			t.Errorf("Expected order-by date %s, got %s", expectedOrderBy, event.OrderByDate)
		}
		if event.Quantity != 2000 {
			t.Errorf("Expected quantity 2000, got %d", event.Quantity)
		}
		if event.Product != product {
			t.Error("Expected event to reference the product")
		}
	})

	t.Run("order-by date in the past is kept", func(t *testing.T) {
		product := testhelpers.NewProduct("P", 0, 10, 4, 10, 1)
		today := testhelpers.Date(2025, 1, 1)
		event, ok := extractor.Extract(product, entities.DepletionResult{Depletes: true, DepletionDate: today})
		if !ok {
			t.Fatal("Expected an event")
		}
		if !event.OrderByDate.Before(today) {
			t.Errorf("Expected order-by date before today, got %s", event.OrderByDate)
		}
	})

	t.Run("no depletion yields no event", func(t *testing.T) {
		product := testhelpers.NewProduct("P", 100, 10, 4, 10, 1)
		if _, ok := extractor.Extract(product, entities.DepletionResult{}); ok {
			t.Error("Expected no event")
		}
	})

	t.Run("zero target quantity yields no event", func(t *testing.T) {
		product := testhelpers.NewProduct("P", 0, 10, 0, 10, 1)
		if _, ok := extractor.Extract(product, entities.DepletionResult{Depletes: true, DepletionDate: depletionDate}); ok {
			t.Error("Expected no event")
		}
	})
}
