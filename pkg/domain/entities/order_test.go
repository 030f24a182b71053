package entities

import (
	"testing"
	"time"
)

func TestExistingOrder_Validation(t *testing.T) {
	orderedDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	deliveryDate := time.Date(2025, 2, 26, 0, 0, 0, 0, time.UTC)
	lines := []OrderLine{{SKU: "SKU-1", Quantity: 500}}

	validOrder, err := NewExistingOrder("PO-1", orderedDate, deliveryDate, InTransit, lines)
	if err != nil {
		t.Fatalf("Expected valid order creation to succeed: %v", err)
	}
	if validOrder.QuantityFor("SKU-1") != 500 {
		t.Errorf("Expected quantity 500, got %d", validOrder.QuantityFor("SKU-1"))
	}

	lines[0].Quantity = 1
	if validOrder.Lines[0].Quantity != 500 {
		t.Error("Expected order lines to be copied on construction")
	}

	testCases := []struct {
		name         string
		id           string
		orderedDate  time.Time
		deliveryDate time.Time
		lines        []OrderLine
		expectError  string
	}{
		{"empty id", "", orderedDate, deliveryDate, nil, "order id cannot be empty"},
		{"missing delivery", "PO-2", orderedDate, time.Time{}, nil, "delivery date cannot be empty for order PO-2"},
		{
			"delivery before ordered",
			"PO-3",
			deliveryDate,
			orderedDate,
			nil,
			"delivery date 2025-01-01 cannot be before ordered date 2025-02-26 for order PO-3",
		},
		{
			"line without sku",
			"PO-4",
			orderedDate,
			deliveryDate,
			[]OrderLine{{Quantity: 3}},
			"order PO-4 has a line without sku",
		},
		{
			"negative line quantity",
			"PO-5",
			orderedDate,
			deliveryDate,
			[]OrderLine{{SKU: "SKU-1", Quantity: -3}},
			"order PO-5 line SKU-1: quantity cannot be negative, got -3",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewExistingOrder(tc.id, tc.orderedDate, tc.deliveryDate, PendingApproval, tc.lines)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected OrderStatus
		open     bool
	}{
		{"PendingApproval", PendingApproval, true},
		{"pending_approval", PendingApproval, true},
		{"in-transit", InTransit, true},
		{"IN_TRANSIT", InTransit, true},
		{"Delivered", Delivered, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := ParseOrderStatus(tt.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if status != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, status)
			}
			if status.IsOpen() != tt.open {
				t.Errorf("Expected IsOpen=%v for %v", tt.open, status)
			}
		})
	}

	if _, err := ParseOrderStatus("shipped"); err == nil {
		t.Error("Expected error for unknown status")
	}
}

func TestOpenDeliveries(t *testing.T) {
	delivery := time.Date(2025, 2, 26, 15, 0, 0, 0, time.UTC)
	orders := []*ExistingOrder{
		{
			ID:           "PO-1",
			DeliveryDate: delivery,
			Status:       InTransit,
			Lines:        []OrderLine{{SKU: "A", Quantity: 100}, {SKU: "B", Quantity: 0}},
		},
		{
			ID:           "PO-2",
			DeliveryDate: delivery,
			Status:       Delivered,
			Lines:        []OrderLine{{SKU: "A", Quantity: 999}},
		},
		{
			ID:           "PO-3",
			DeliveryDate: delivery.AddDate(0, 0, 7),
			Status:       PendingApproval,
			Lines:        []OrderLine{{SKU: "A", Quantity: 50}},
		},
	}

	deliveries := OpenDeliveries(orders)

	if len(deliveries["A"]) != 2 {
		t.Fatalf("Expected 2 open deliveries for A, got %d", len(deliveries["A"]))
	}
	if deliveries["A"][0].Quantity != 100 || deliveries["A"][1].Quantity != 50 {
		t.Errorf("Unexpected delivery quantities: %+v", deliveries["A"])
	}
	if !deliveries["A"][0].Date.Equal(Day(delivery)) {
		t.Errorf("Expected delivery date normalized to day, got %v", deliveries["A"][0].Date)
	}
	if len(deliveries["B"]) != 0 {
		t.Errorf("Expected zero-quantity lines to be skipped, got %d", len(deliveries["B"]))
	}
}
