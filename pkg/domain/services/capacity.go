package services

// CapacityChecker is the single place container volume is compared against capacity.
// Volumes are accumulated as float64 cubic meters, so every comparison allows a
// small tolerance to absorb floating point drift.
type CapacityChecker struct {
	CapacityM3  float64
	ToleranceM3 float64
}

// NewCapacityChecker creates a checker for the given capacity and tolerance
func NewCapacityChecker(capacityM3, toleranceM3 float64) CapacityChecker {
	return CapacityChecker{CapacityM3: capacityM3, ToleranceM3: toleranceM3}
}

// Fits reports whether a container holding volume is at or below capacity
func (c CapacityChecker) Fits(volume float64) bool {
	return volume <= c.CapacityM3+c.ToleranceM3
}

// CanAdd reports whether additional volume can be loaded on top of current
func (c CapacityChecker) CanAdd(current, additional float64) bool {
	return c.Fits(current + additional)
}

// Remaining returns the free volume left in a container, never negative
func (c CapacityChecker) Remaining(volume float64) float64 {
	remaining := c.CapacityM3 - volume
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Utilization returns the used share of the container in percent, capped at 100
func (c CapacityChecker) Utilization(volume float64) float64 {
	if c.CapacityM3 <= 0 {
		return 0
	}
	pct := volume / c.CapacityM3 * 100
	if pct > 100 && c.Fits(volume) {
		return 100
	}
	return pct
}
