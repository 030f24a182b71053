package recommendation

import "github.com/vsinha/replenish/pkg/domain/entities"

// EventExtractor turns a depletion into a replenishment event
type EventExtractor struct {
	leadTimeDays int
}

// NewEventExtractor creates an extractor for the given shipping lead time
func NewEventExtractor(leadTimeDays int) *EventExtractor {
	return &EventExtractor{leadTimeDays: leadTimeDays}
}

// Extract schedules delivery for the depletion day itself, never earlier, and the
// order one lead time before that. The quantity refills the target coverage from zero.
// Order-by dates in the past are kept; they surface as overdue containers.
func (x *EventExtractor) Extract(
	product *entities.Product,
	depletion entities.DepletionResult,
) (entities.ReplenishmentEvent, bool) {
	if !depletion.Depletes {
		return entities.ReplenishmentEvent{}, false
	}

	quantity := product.TargetQuantity()
	if quantity <= 0 {
		return entities.ReplenishmentEvent{}, false
	}

	deliveryDate := entities.Day(depletion.DepletionDate)
	return entities.ReplenishmentEvent{
		Product:      product,
		OrderByDate:  deliveryDate.AddDate(0, 0, -x.leadTimeDays),
		DeliveryDate: deliveryDate,
		Quantity:     quantity,
	}, true
}
