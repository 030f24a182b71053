package entities

import "time"

// SimulatedWeekPoint is the projected stock of a product at the end of one simulated week
type SimulatedWeekPoint struct {
	ProductID  ProductID
	Week       int
	StockLevel Quantity // clamped at zero
	Shortfall  Quantity // cartons missing when the projection goes below zero
	Credited   Quantity // open-order cartons arriving this week
}

// DepletionResult is the outcome of simulating one product over the planning horizon
type DepletionResult struct {
	ProductID     ProductID
	Depletes      bool
	DepletionDate time.Time
	DepletionWeek int
	Trajectory    []SimulatedWeekPoint
}

// ReplenishmentEvent says a product needs a shipment ordered by a given day
type ReplenishmentEvent struct {
	Product      *Product
	OrderByDate  time.Time
	DeliveryDate time.Time
	Quantity     Quantity
}

// Volume returns the total volume of the event's recommended quantity
func (e ReplenishmentEvent) Volume() float64 {
	return float64(e.Quantity) * e.Product.VolumePerCarton()
}

// Cluster groups replenishment events whose order-by dates fall in one coalescing window
type Cluster struct {
	Anchor time.Time
	Events []ReplenishmentEvent
}

// TotalQuantity returns the cartons requested by all events of the cluster
func (c *Cluster) TotalQuantity() Quantity {
	var total Quantity
	for _, event := range c.Events {
		total += event.Quantity
	}
	return total
}
