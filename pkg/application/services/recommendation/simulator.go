package recommendation

import (
	"time"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

// Simulator projects weekly stock levels forward and finds the day a product runs out
type Simulator struct {
	horizonWeeks int
}

// NewSimulator creates a simulator for the given planning horizon
func NewSimulator(horizonWeeks int) *Simulator {
	return &Simulator{horizonWeeks: horizonWeeks}
}

// Simulate steps the product's stock one week at a time: consumption is subtracted,
// then open-order deliveries landing in that week are credited. The simulation stops
// at the first week the running stock reaches zero.
func (s *Simulator) Simulate(
	product *entities.Product,
	deliveries []entities.Delivery,
	today time.Time,
) entities.DepletionResult {
	today = entities.Day(today)
	result := entities.DepletionResult{ProductID: product.ID}

	if product.WeeklyConsumption <= 0 {
		return result
	}

	stock := product.StartingStock()
	credits := s.creditsByWeek(deliveries, today)
	result.Trajectory = make([]entities.SimulatedWeekPoint, 0, s.horizonWeeks)

	for week := 1; week <= s.horizonWeeks; week++ {
		credited := credits[week]
		available := stock + credited
		stock = available - product.WeeklyConsumption

		point := entities.SimulatedWeekPoint{
			ProductID:  product.ID,
			Week:       week,
			StockLevel: stock,
			Credited:   credited,
		}
		if stock < 0 {
			point.StockLevel = 0
			point.Shortfall = -stock
		}
		result.Trajectory = append(result.Trajectory, point)

		if stock <= 0 {
			// Interpolate the day inside the week from the constant consumption rate.
			days := int(float64(available) / float64(product.WeeklyConsumption) * 7)
			if days < 0 {
				days = 0
			}
			result.Depletes = true
			result.DepletionWeek = week
			result.DepletionDate = today.AddDate(0, 0, (week-1)*7+days)
			return result
		}
	}

	return result
}

// creditsByWeek buckets deliveries into simulation weeks. Week w covers
// [today+7(w-1), today+7w); late deliveries dated before today land in week 1.
func (s *Simulator) creditsByWeek(deliveries []entities.Delivery, today time.Time) map[int]entities.Quantity {
	credits := make(map[int]entities.Quantity)
	for _, delivery := range deliveries {
		offset := entities.DaysBetween(today, delivery.Date)
		week := 1
		if offset > 0 {
			week = offset/7 + 1
		}
		if week > s.horizonWeeks {
			continue
		}
		credits[week] += delivery.Quantity
	}
	return credits
}
