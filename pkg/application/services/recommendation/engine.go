package recommendation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vsinha/replenish/pkg/application/dto"
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/services"
)

var (
	// ErrDuplicateProduct is returned when two products share an id or SKU
	ErrDuplicateProduct = errors.New("duplicate product")
	// ErrInvalidInput is returned for structurally invalid engine input
	ErrInvalidInput = errors.New("invalid recommendation input")
)

// Engine turns a product and order snapshot into container recommendations.
// It is a pure function of its input: no I/O, no shared state between calls.
type Engine struct {
	config       EngineConfig
	capacity     services.CapacityChecker
	screener     *services.ProductScreener
	simulator    *Simulator
	extractor    *EventExtractor
	coalescer    *Coalescer
	packer       *Packer
	materializer *Materializer
}

// NewEngine creates an engine with the default constants
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig())
}

// NewEngineWithConfig creates an engine with custom constants
func NewEngineWithConfig(config EngineConfig) *Engine {
	capacity := services.NewCapacityChecker(config.ContainerCapacityM3, config.CapacityToleranceM3)
	return &Engine{
		config:       config,
		capacity:     capacity,
		screener:     services.NewProductScreener(capacity),
		simulator:    NewSimulator(config.PlanningHorizonWeeks),
		extractor:    NewEventExtractor(config.ShippingLeadTimeDays),
		coalescer:    NewCoalescer(config.CoalescingWindowDays),
		packer:       NewPacker(capacity, config.IncrementCartons),
		materializer: NewMaterializer(capacity, config.ShippingLeadTimeDays, config.UrgencyWindowDays),
	}
}

// Config returns the constants this engine runs with
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Capacity returns the capacity checker shared by packing and reporting
func (e *Engine) Capacity() services.CapacityChecker {
	return e.capacity
}

// Recommend runs the full pipeline. Individually implausible products are excluded
// and reported; structurally invalid input fails the whole run.
func (e *Engine) Recommend(ctx context.Context, input dto.RecommendationInput) (*dto.RecommendationResult, error) {
	if err := e.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	today := entities.Day(input.Today)
	result := &dto.RecommendationResult{
		Today:      today,
		Containers: []entities.ContainerRecommendation{},
		Exclusions: []entities.Exclusion{},
	}

	// Pass 1: screen, simulate depletion and extract replenishment events
	deliveries := entities.OpenDeliveries(input.Orders)
	events := make([]entities.ReplenishmentEvent, 0, len(input.Products))

	for _, product := range input.Products {
		if reason := e.screener.Screen(product); reason != "" {
			result.Exclusions = append(result.Exclusions, entities.Exclusion{
				ProductID: product.ID,
				SKU:       product.SKU,
				Reason:    reason,
			})
			continue
		}

		depletion := e.simulator.Simulate(product, deliveries[product.SKU], today)
		if event, ok := e.extractor.Extract(product, depletion); ok {
			events = append(events, event)
		}
	}
	result.EventCount = len(events)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pass 2: coalesce events into clusters
	clusters := e.coalescer.Coalesce(events)
	result.ClusterCount = len(clusters)

	// Pass 3: pack each cluster into containers
	packed := make([]PackedCluster, 0, len(clusters))
	for _, cluster := range clusters {
		containers, err := e.packer.Pack(cluster)
		if err != nil {
			return nil, fmt.Errorf("failed to pack cluster: %w", err)
		}
		packed = append(packed, PackedCluster{Cluster: cluster, Containers: containers})
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Pass 4: number containers, compute totals and urgency
	containers, err := e.materializer.Materialize(packed, today)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize recommendations: %w", err)
	}
	if containers != nil {
		result.Containers = containers
	}

	return result, nil
}

// Depletions simulates every eligible product without packing, for reporting
func (e *Engine) Depletions(input dto.RecommendationInput) []entities.DepletionResult {
	today := entities.Day(input.Today)
	deliveries := entities.OpenDeliveries(input.Orders)

	var results []entities.DepletionResult
	for _, product := range input.Products {
		if product == nil || e.screener.Screen(product) != "" {
			continue
		}
		results = append(results, e.simulator.Simulate(product, deliveries[product.SKU], today))
	}
	return results
}

// Forecast simulates a single product against the given orders and reports the
// replenishment it would trigger. Excluded products carry only the exclusion reason.
func (e *Engine) Forecast(product *entities.Product, orders []*entities.ExistingOrder, today time.Time) dto.ProductForecast {
	today = entities.Day(today)
	forecast := dto.ProductForecast{
		Product: product,
		Today:   today,
		Orders:  ordersForSKU(orders, product.SKU),
	}

	if reason := e.screener.Screen(product); reason != "" {
		forecast.ExclusionReason = reason
		return forecast
	}

	deliveries := entities.OpenDeliveries(orders)
	forecast.Depletion = e.simulator.Simulate(product, deliveries[product.SKU], today)

	if event, ok := e.extractor.Extract(product, forecast.Depletion); ok {
		forecast.Replenishment = &event
		forecast.Urgency = e.materializer.Classify(event.OrderByDate, today)
	}
	return forecast
}

func ordersForSKU(orders []*entities.ExistingOrder, sku entities.SKU) []*entities.ExistingOrder {
	var matching []*entities.ExistingOrder
	for _, order := range orders {
		if order != nil && order.QuantityFor(sku) > 0 {
			matching = append(matching, order)
		}
	}
	return matching
}

func validateInput(input dto.RecommendationInput) error {
	if input.Today.IsZero() {
		return fmt.Errorf("%w: reference date is required", ErrInvalidInput)
	}

	ids := make(map[entities.ProductID]bool, len(input.Products))
	skus := make(map[entities.SKU]bool, len(input.Products))
	for i, product := range input.Products {
		if product == nil {
			return fmt.Errorf("%w: product %d is nil", ErrInvalidInput, i+1)
		}
		if product.ID == "" || product.SKU == "" {
			return fmt.Errorf("%w: product %d is missing id or sku", ErrInvalidInput, i+1)
		}
		if ids[product.ID] {
			return fmt.Errorf("%w: id %s", ErrDuplicateProduct, product.ID)
		}
		if skus[product.SKU] {
			return fmt.Errorf("%w: sku %s", ErrDuplicateProduct, product.SKU)
		}
		ids[product.ID] = true
		skus[product.SKU] = true
	}

	for i, order := range input.Orders {
		if order == nil {
			return fmt.Errorf("%w: order %d is nil", ErrInvalidInput, i+1)
		}
	}
	return nil
}
