package entities

import (
	"fmt"
	"time"
)

// ProductID represents a unique product identifier
type ProductID string

// SKU represents a stock keeping unit code, the key ERP order lines are matched on
type SKU string

// Quantity represents an integer number of cartons
type Quantity int64

// Product represents a catalog product with its inventory and logistics properties
type Product struct {
	ID                     ProductID `json:"productId"`
	SKU                    SKU       `json:"sku"`
	Description            string    `json:"description,omitempty"`
	CurrentStock           Quantity  `json:"currentStock"`
	WeeklyConsumption      Quantity  `json:"weeklyConsumption"`
	TargetStockOnHandWeeks int       `json:"targetStockOnHandWeeks"`
	PiecesPerPallet        int       `json:"piecesPerPallet"`
	VolumePerPallet        float64   `json:"volumePerPallet"`
}

// NewProduct creates a Product, rejecting structurally invalid shapes.
// Numeric plausibility is checked later by screening so that one bad record
// excludes only itself.
func NewProduct(
	id ProductID,
	sku SKU,
	description string,
	currentStock, weeklyConsumption Quantity,
	targetStockOnHandWeeks, piecesPerPallet int,
	volumePerPallet float64,
) (*Product, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if string(sku) == "" {
		return nil, fmt.Errorf("sku cannot be empty for product %s", id)
	}

	return &Product{
		ID:                     id,
		SKU:                    sku,
		Description:            description,
		CurrentStock:           currentStock,
		WeeklyConsumption:      weeklyConsumption,
		TargetStockOnHandWeeks: targetStockOnHandWeeks,
		PiecesPerPallet:        piecesPerPallet,
		VolumePerPallet:        volumePerPallet,
	}, nil
}

// VolumePerCarton returns the volume of one carton in cubic meters
func (p *Product) VolumePerCarton() float64 {
	if p.PiecesPerPallet <= 0 {
		return 0
	}
	return p.VolumePerPallet / float64(p.PiecesPerPallet)
}

// StartingStock returns the stock the simulation starts from. Negative stock
// is treated as empty.
func (p *Product) StartingStock() Quantity {
	if p.CurrentStock < 0 {
		return 0
	}
	return p.CurrentStock
}

// TargetQuantity returns the cartons needed to cover the target stock-on-hand
// weeks from zero stock.
func (p *Product) TargetQuantity() Quantity {
	if p.TargetStockOnHandWeeks <= 0 {
		return 0
	}
	return p.WeeklyConsumption * Quantity(p.TargetStockOnHandWeeks)
}

// Day normalizes a timestamp to midnight UTC of its calendar day
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
