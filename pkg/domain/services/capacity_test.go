package services

import "testing"

func TestCapacityChecker_Fits(t *testing.T) {
	checker := NewCapacityChecker(76, 0.01)

	tests := []struct {
		name   string
		volume float64
		fits   bool
	}{
		{"empty", 0, true},
		{"exactly full", 76, true},
		{"float drift above capacity", 76.00000004, true},
		{"inside tolerance", 76.0099, true},
		{"over tolerance", 76.02, false},
		{"one more carton", 76.038, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.Fits(tt.volume); got != tt.fits {
				t.Errorf("Fits(%v) = %v, expected %v", tt.volume, got, tt.fits)
			}
		})
	}
}

func TestCapacityChecker_CanAddAccumulatedCartons(t *testing.T) {
	checker := NewCapacityChecker(76, 0.01)
	perCarton := 38.0 / 1000.0

	volume := 0.0
	loaded := 0
	for checker.CanAdd(volume, perCarton) {
		volume += perCarton
		loaded++
	}

	if loaded != 2000 {
		t.Errorf("Expected 2000 cartons to fit, got %d (volume %.8f)", loaded, volume)
	}
}

func TestCapacityChecker_RemainingAndUtilization(t *testing.T) {
	checker := NewCapacityChecker(76, 0.01)

	if got := checker.Remaining(50); got != 26 {
		t.Errorf("Expected 26 remaining, got %f", got)
	}
	if got := checker.Remaining(76.005); got != 0 {
		t.Errorf("Expected 0 remaining, got %f", got)
	}
	if got := checker.Utilization(38); got != 50 {
		t.Errorf("Expected 50%% utilization, got %f", got)
	}
	if got := checker.Utilization(76.005); got != 100 {
		t.Errorf("Expected utilization capped at 100, got %f", got)
	}
	if got := NewCapacityChecker(0, 0).Utilization(10); got != 0 {
		t.Errorf("Expected 0 utilization without capacity, got %f", got)
	}
}
