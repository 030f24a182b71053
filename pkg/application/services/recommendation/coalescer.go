package recommendation

import (
	"sort"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

// Coalescer groups replenishment events into clusters that can share containers
type Coalescer struct {
	windowDays int
}

// NewCoalescer creates a coalescer with the given window in days
func NewCoalescer(windowDays int) *Coalescer {
	return &Coalescer{windowDays: windowDays}
}

// SortEvents orders events by order-by date, then product id
func SortEvents(events []entities.ReplenishmentEvent) []entities.ReplenishmentEvent {
	sorted := make([]entities.ReplenishmentEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].OrderByDate.Equal(sorted[j].OrderByDate) {
			return sorted[i].OrderByDate.Before(sorted[j].OrderByDate)
		}
		return sorted[i].Product.ID < sorted[j].Product.ID
	})
	return sorted
}

// Coalesce sweeps the sorted events once. An event joins the open cluster while its
// order-by date is at most windowDays after the anchor, otherwise it anchors a new one.
func (c *Coalescer) Coalesce(events []entities.ReplenishmentEvent) []entities.Cluster {
	sorted := SortEvents(events)

	var clusters []entities.Cluster
	for _, event := range sorted {
		if n := len(clusters); n > 0 {
			current := &clusters[n-1]
			if entities.DaysBetween(current.Anchor, event.OrderByDate) <= c.windowDays {
				current.Events = append(current.Events, event)
				continue
			}
		}
		clusters = append(clusters, entities.Cluster{
			Anchor: entities.Day(event.OrderByDate),
			Events: []entities.ReplenishmentEvent{event},
		})
	}
	return clusters
}
