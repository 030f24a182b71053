package entities

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus represents the lifecycle state of an order placed with the supplier
type OrderStatus int

const (
	PendingApproval OrderStatus = iota
	InTransit
	Delivered
)

// String method for OrderStatus enum
func (s OrderStatus) String() string {
	switch s {
	case PendingApproval:
		return "PendingApproval"
	case InTransit:
		return "InTransit"
	case Delivered:
		return "Delivered"
	default:
		return "Unknown"
	}
}

// IsOpen reports whether the order still has stock on its way
func (s OrderStatus) IsOpen() bool {
	return s == PendingApproval || s == InTransit
}

// ParseOrderStatus parses the status names used by the ERP exports
func ParseOrderStatus(s string) (OrderStatus, error) {
	normalized := strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(s))
	switch normalized {
	case "pendingapproval", "pending":
		return PendingApproval, nil
	case "intransit":
		return InTransit, nil
	case "delivered":
		return Delivered, nil
	default:
		return PendingApproval, fmt.Errorf("invalid order status: %s (expected: PendingApproval, InTransit or Delivered)", s)
	}
}

// MarshalText encodes the status by name
func (s OrderStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name
func (s *OrderStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseOrderStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// OrderLine is a single product line on an existing order
type OrderLine struct {
	SKU      SKU      `json:"sku"`
	Quantity Quantity `json:"quantity"`
}

// ExistingOrder represents an order already placed with the supplier
type ExistingOrder struct {
	ID           string      `json:"orderId"`
	OrderedDate  time.Time   `json:"orderedDate"`
	DeliveryDate time.Time   `json:"deliveryDate"`
	Status       OrderStatus `json:"status"`
	Lines        []OrderLine `json:"lines"`
}

// NewExistingOrder creates a validated ExistingOrder
func NewExistingOrder(
	id string,
	orderedDate, deliveryDate time.Time,
	status OrderStatus,
	lines []OrderLine,
) (*ExistingOrder, error) {
	if id == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if deliveryDate.IsZero() {
		return nil, fmt.Errorf("delivery date cannot be empty for order %s", id)
	}
	if !orderedDate.IsZero() && deliveryDate.Before(orderedDate) {
		return nil, fmt.Errorf(
			"delivery date %s cannot be before ordered date %s for order %s",
			deliveryDate.Format("2006-01-02"),
			orderedDate.Format("2006-01-02"),
			id,
		)
	}
	for _, line := range lines {
		if string(line.SKU) == "" {
			return nil, fmt.Errorf("order %s has a line without sku", id)
		}
		if line.Quantity < 0 {
			return nil, fmt.Errorf("order %s line %s: quantity cannot be negative, got %d", id, line.SKU, line.Quantity)
		}
	}

	copied := make([]OrderLine, len(lines))
	copy(copied, lines)

	return &ExistingOrder{
		ID:           id,
		OrderedDate:  orderedDate,
		DeliveryDate: deliveryDate,
		Status:       status,
		Lines:        copied,
	}, nil
}

// QuantityFor returns the total quantity of a SKU on this order
func (o *ExistingOrder) QuantityFor(sku SKU) Quantity {
	var total Quantity
	for _, line := range o.Lines {
		if line.SKU == sku {
			total += line.Quantity
		}
	}
	return total
}

// Delivery is an expected arrival of cartons for one SKU
type Delivery struct {
	SKU      SKU
	Quantity Quantity
	Date     time.Time
}

// OpenDeliveries flattens the not-yet-delivered orders into per-SKU deliveries
func OpenDeliveries(orders []*ExistingOrder) map[SKU][]Delivery {
	deliveries := make(map[SKU][]Delivery)
	for _, order := range orders {
		if order == nil || !order.Status.IsOpen() {
			continue
		}
		for _, line := range order.Lines {
			if line.Quantity <= 0 {
				continue
			}
			deliveries[line.SKU] = append(deliveries[line.SKU], Delivery{
				SKU:      line.SKU,
				Quantity: line.Quantity,
				Date:     Day(order.DeliveryDate),
			})
		}
	}
	return deliveries
}
