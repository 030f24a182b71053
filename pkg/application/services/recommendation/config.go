package recommendation

import "fmt"

// EngineConfig holds the constants the recommendation engine runs with.
// They are fixed per engine instance, never per call.
type EngineConfig struct {
	// ContainerCapacityM3 is the usable volume of one shipping container
	ContainerCapacityM3 float64
	// CapacityToleranceM3 absorbs floating point drift in capacity comparisons
	CapacityToleranceM3 float64
	// ShippingLeadTimeDays is the time between ordering and delivery
	ShippingLeadTimeDays int
	// CoalescingWindowDays groups order-by dates this close to a cluster anchor
	CoalescingWindowDays int
	// PlanningHorizonWeeks bounds the depletion simulation
	PlanningHorizonWeeks int
	// UrgencyWindowDays marks containers due within this many days as urgent
	UrgencyWindowDays int
	// IncrementCartons is how many cartons a product receives per packing round
	IncrementCartons int64
}

// DefaultEngineConfig returns the production constants
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ContainerCapacityM3:  76,
		CapacityToleranceM3:  0.01,
		ShippingLeadTimeDays: 8 * 7,
		CoalescingWindowDays: 7,
		PlanningHorizonWeeks: 52,
		UrgencyWindowDays:    14,
		IncrementCartons:     1,
	}
}

// Validate checks the configuration is usable
func (c EngineConfig) Validate() error {
	if c.ContainerCapacityM3 <= 0 {
		return fmt.Errorf("container capacity must be positive, got %v", c.ContainerCapacityM3)
	}
	if c.CapacityToleranceM3 < 0 {
		return fmt.Errorf("capacity tolerance cannot be negative, got %v", c.CapacityToleranceM3)
	}
	if c.ShippingLeadTimeDays < 0 {
		return fmt.Errorf("shipping lead time cannot be negative, got %d", c.ShippingLeadTimeDays)
	}
	if c.CoalescingWindowDays < 0 {
		return fmt.Errorf("coalescing window cannot be negative, got %d", c.CoalescingWindowDays)
	}
	if c.PlanningHorizonWeeks <= 0 {
		return fmt.Errorf("planning horizon must be positive, got %d", c.PlanningHorizonWeeks)
	}
	if c.UrgencyWindowDays < 0 {
		return fmt.Errorf("urgency window cannot be negative, got %d", c.UrgencyWindowDays)
	}
	if c.IncrementCartons <= 0 {
		return fmt.Errorf("packing increment must be positive, got %d", c.IncrementCartons)
	}
	return nil
}
