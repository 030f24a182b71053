package entities

import (
	"encoding/json"
	"testing"
)

func TestUrgency_JSON(t *testing.T) {
	tests := []struct {
		urgency  Urgency
		expected string
	}{
		{UrgencyNormal, "null"},
		{UrgencyUrgent, `"URGENT"`},
		{UrgencyOverdue, `"OVERDUE"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.urgency)
		if err != nil {
			t.Fatalf("Marshal failed: %v", err)
		}
		if string(data) != tt.expected {
			t.Errorf("Expected %s, got %s", tt.expected, data)
		}

		var decoded Urgency
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("Unmarshal failed: %v", err)
		}
		if decoded != tt.urgency {
			t.Errorf("Expected %v after round trip, got %v", tt.urgency, decoded)
		}
	}

	var u Urgency
	if err := json.Unmarshal([]byte(`"LATE"`), &u); err == nil {
		t.Error("Expected error for unknown urgency")
	}
}

func TestContainerRecommendation_QuantityFor(t *testing.T) {
	container := ContainerRecommendation{
		Lines: []ContainerLine{
			{ProductID: "A", Quantity: 10},
			{ProductID: "B", Quantity: 4},
		},
	}

	if got := container.QuantityFor("A"); got != 10 {
		t.Errorf("Expected 10, got %d", got)
	}
	if got := container.QuantityFor("C"); got != 0 {
		t.Errorf("Expected 0, got %d", got)
	}
}
