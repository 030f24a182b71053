package recommendation

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/services"
)

// ErrCapacityInvariant is returned if a materialized container exceeds capacity
var ErrCapacityInvariant = errors.New("container exceeds capacity")

// volumePlaces is the precision reported volumes are rounded to
const volumePlaces = 6

// PackedCluster is a cluster together with the containers packed from it
type PackedCluster struct {
	Cluster    entities.Cluster
	Containers []PackedContainer
}

// Materializer numbers packed containers and derives their totals and urgency
type Materializer struct {
	capacity          services.CapacityChecker
	leadTimeDays      int
	urgencyWindowDays int
}

// NewMaterializer creates a materializer
func NewMaterializer(capacity services.CapacityChecker, leadTimeDays, urgencyWindowDays int) *Materializer {
	return &Materializer{
		capacity:          capacity,
		leadTimeDays:      leadTimeDays,
		urgencyWindowDays: urgencyWindowDays,
	}
}

// Materialize numbers containers 1..N in production order; clusters must already be
// in ascending anchor order. Every container inherits its cluster anchor as order-by date.
func (m *Materializer) Materialize(
	packed []PackedCluster,
	today time.Time,
) ([]entities.ContainerRecommendation, error) {
	today = entities.Day(today)

	var recommendations []entities.ContainerRecommendation
	number := 0
	for _, pc := range packed {
		orderBy := entities.Day(pc.Cluster.Anchor)
		urgency := m.Classify(orderBy, today)

		for _, container := range pc.Containers {
			number++
			recommendation := entities.ContainerRecommendation{
				ContainerNumber: number,
				OrderByDate:     orderBy,
				DeliveryDate:    orderBy.AddDate(0, 0, m.leadTimeDays),
				Lines:           make([]entities.ContainerLine, 0, len(container.Lines)),
				Urgency:         urgency,
			}

			total := decimal.Zero
			for _, line := range container.Lines {
				lineVolume := decimal.NewFromInt(int64(line.Quantity)).
					Mul(decimal.NewFromFloat(line.Product.VolumePerCarton())).
					Round(volumePlaces)
				total = total.Add(lineVolume)

				recommendation.Lines = append(recommendation.Lines, entities.ContainerLine{
					ProductID:       line.Product.ID,
					SKU:             line.Product.SKU,
					Quantity:        line.Quantity,
					PiecesPerPallet: line.Product.PiecesPerPallet,
					Volume:          lineVolume.InexactFloat64(),
				})
				recommendation.TotalCartons += line.Quantity
			}
			recommendation.TotalVolume = total.Round(volumePlaces).InexactFloat64()
			recommendation.ProductCount = len(recommendation.Lines)

			if !m.capacity.Fits(recommendation.TotalVolume) {
				return nil, fmt.Errorf(
					"%w: container %d holds %.6f m3 of %.2f m3",
					ErrCapacityInvariant,
					number,
					recommendation.TotalVolume,
					m.capacity.CapacityM3,
				)
			}

			recommendations = append(recommendations, recommendation)
		}
	}

	return recommendations, nil
}

// Classify derives urgency from how far the order-by date is from today.
// Every missed date is simply overdue, however long ago it was.
func (m *Materializer) Classify(orderBy, today time.Time) entities.Urgency {
	days := entities.DaysBetween(today, orderBy)
	switch {
	case days < 0:
		return entities.UrgencyOverdue
	case days <= m.urgencyWindowDays:
		return entities.UrgencyUrgent
	default:
		return entities.UrgencyNormal
	}
}
