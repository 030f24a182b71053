package entities

import "time"

// Exclusion records a product left out of a recommendation run and why
type Exclusion struct {
	ProductID ProductID `json:"productId"`
	SKU       SKU       `json:"sku"`
	Reason    string    `json:"reason"`
}

// RecommendationSnapshot is the stored, denormalized result of one recommendation run.
// It is replaced wholesale on every recompute and never patched.
type RecommendationSnapshot struct {
	RunID          string
	OrganizationID string
	Today          time.Time
	ComputedAt     time.Time
	Containers     []ContainerRecommendation
	Exclusions     []Exclusion
}

// Clone returns a deep copy so stored snapshots cannot be mutated through callers
func (s *RecommendationSnapshot) Clone() *RecommendationSnapshot {
	clone := *s
	clone.Containers = make([]ContainerRecommendation, len(s.Containers))
	for i, container := range s.Containers {
		clone.Containers[i] = container
		clone.Containers[i].Lines = make([]ContainerLine, len(container.Lines))
		copy(clone.Containers[i].Lines, container.Lines)
	}
	clone.Exclusions = make([]Exclusion, len(s.Exclusions))
	copy(clone.Exclusions, s.Exclusions)
	return &clone
}
