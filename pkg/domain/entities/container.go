package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// Urgency classifies how soon a container has to be ordered
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyUrgent
	UrgencyOverdue
)

// String method for Urgency enum
func (u Urgency) String() string {
	switch u {
	case UrgencyNormal:
		return ""
	case UrgencyUrgent:
		return "URGENT"
	case UrgencyOverdue:
		return "OVERDUE"
	default:
		return "Unknown"
	}
}

// MarshalJSON encodes normal urgency as null
func (u Urgency) MarshalJSON() ([]byte, error) {
	if u == UrgencyNormal {
		return []byte("null"), nil
	}
	return json.Marshal(u.String())
}

// UnmarshalJSON accepts null, "URGENT" and "OVERDUE"
func (u *Urgency) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*u = UrgencyNormal
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "":
		*u = UrgencyNormal
	case "URGENT":
		*u = UrgencyUrgent
	case "OVERDUE":
		*u = UrgencyOverdue
	default:
		return fmt.Errorf("invalid urgency: %s", s)
	}
	return nil
}

// ContainerLine is the quantity of one product loaded into a container
type ContainerLine struct {
	ProductID       ProductID
	SKU             SKU
	Quantity        Quantity
	PiecesPerPallet int
	Volume          float64
}

// ContainerRecommendation is one shipping container the business should order
type ContainerRecommendation struct {
	ContainerNumber int
	OrderByDate     time.Time
	DeliveryDate    time.Time
	Lines           []ContainerLine
	TotalCartons    Quantity
	TotalVolume     float64
	ProductCount    int
	Urgency         Urgency
}

// QuantityFor returns the cartons of a product loaded into this container
func (c *ContainerRecommendation) QuantityFor(id ProductID) Quantity {
	var total Quantity
	for _, line := range c.Lines {
		if line.ProductID == id {
			total += line.Quantity
		}
	}
	return total
}
