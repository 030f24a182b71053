package orchestration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vsinha/replenish/pkg/application/dto"
	"github.com/vsinha/replenish/pkg/application/services/recommendation"
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/repositories"
	"github.com/vsinha/replenish/pkg/infrastructure/events"
	"github.com/vsinha/replenish/pkg/infrastructure/logging"
)

const moduleName = "orchestration"

// RecommendationOrchestrator runs the engine against an organization's stored
// inventory snapshot and keeps its recommendation snapshot current
type RecommendationOrchestrator struct {
	engine             *recommendation.Engine
	productRepo        repositories.ProductRepository
	orderRepo          repositories.OrderRepository
	recommendationRepo repositories.RecommendationRepository
	eventStore         events.EventStore
	logger             logrus.FieldLogger
	now                func() time.Time

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewRecommendationOrchestrator creates a new orchestrator. eventStore may be nil.
func NewRecommendationOrchestrator(
	engine *recommendation.Engine,
	productRepo repositories.ProductRepository,
	orderRepo repositories.OrderRepository,
	recommendationRepo repositories.RecommendationRepository,
	eventStore events.EventStore,
	logger logrus.FieldLogger,
) *RecommendationOrchestrator {
	return &RecommendationOrchestrator{
		engine:             engine,
		productRepo:        productRepo,
		orderRepo:          orderRepo,
		recommendationRepo: recommendationRepo,
		eventStore:         eventStore,
		logger:             logger,
		now:                time.Now,
		locks:              make(map[string]*sync.Mutex),
	}
}

// Evaluate runs the engine on an ad-hoc snapshot without storing anything
func (o *RecommendationOrchestrator) Evaluate(ctx context.Context, input dto.RecommendationInput) (*dto.RecommendationResult, error) {
	result, err := o.engine.Recommend(ctx, input)
	if err != nil {
		return nil, err
	}
	o.logExclusions("", result.Exclusions)
	return result, nil
}

// Recompute rebuilds the organization's recommendations from its stored inputs.
// The stored snapshot is only replaced when the run succeeds.
func (o *RecommendationOrchestrator) Recompute(
	ctx context.Context,
	organizationID string,
	today time.Time,
) (*entities.RecommendationSnapshot, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization id cannot be empty")
	}

	lock := o.lockFor(organizationID)
	lock.Lock()
	defer lock.Unlock()

	products, err := o.productRepo.GetProducts(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	orders, err := o.orderRepo.GetOpenOrders(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	return o.run(ctx, organizationID, dto.RecommendationInput{
		Products: products,
		Orders:   orders,
		Today:    today,
	})
}

// UpdateInventory replaces the organization's products and orders and recomputes.
// Inputs the engine rejects leave both the stored inputs and the snapshot unchanged.
func (o *RecommendationOrchestrator) UpdateInventory(
	ctx context.Context,
	organizationID string,
	products []*entities.Product,
	orders []*entities.ExistingOrder,
	today time.Time,
) (*entities.RecommendationSnapshot, error) {
	if organizationID == "" {
		return nil, fmt.Errorf("organization id cannot be empty")
	}

	lock := o.lockFor(organizationID)
	lock.Lock()
	defer lock.Unlock()

	snapshot, err := o.run(ctx, organizationID, dto.RecommendationInput{
		Products: products,
		Orders:   orders,
		Today:    today,
	})
	if err != nil {
		return nil, err
	}

	if err := o.productRepo.ReplaceProducts(organizationID, products); err != nil {
		return nil, fmt.Errorf("failed to store products: %w", err)
	}
	if err := o.orderRepo.ReplaceOrders(organizationID, orders); err != nil {
		return nil, fmt.Errorf("failed to store orders: %w", err)
	}

	o.publish(events.NewEvent(events.InventoryUpdatedEvent, organizationID, events.InventoryUpdated{
		OrganizationID: organizationID,
		ProductCount:   len(products),
		OrderCount:     len(orders),
	}))

	return snapshot, nil
}

// Snapshot returns the organization's latest stored recommendations
func (o *RecommendationOrchestrator) Snapshot(organizationID string) (*entities.RecommendationSnapshot, error) {
	return o.recommendationRepo.GetSnapshot(organizationID)
}

// Forecast simulates one stored product against every stored order for its SKU
func (o *RecommendationOrchestrator) Forecast(
	organizationID string,
	productID entities.ProductID,
	today time.Time,
) (*dto.ProductForecast, error) {
	lock := o.lockFor(organizationID)
	lock.Lock()
	defer lock.Unlock()

	product, err := o.productRepo.GetProduct(organizationID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	orders, err := o.orderRepo.GetAllOrders(organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	forecast := o.engine.Forecast(product, orders, today)
	return &forecast, nil
}

// run must be called with the organization lock held
func (o *RecommendationOrchestrator) run(
	ctx context.Context,
	organizationID string,
	input dto.RecommendationInput,
) (*entities.RecommendationSnapshot, error) {
	started := o.now()

	result, err := o.engine.Recommend(ctx, input)
	if err != nil {
		logging.LogError(o.logger, moduleName, "run", organizationID, nil, err)
		o.publish(events.NewEvent(events.RecommendationsFailedEvent, organizationID, events.RecommendationsFailed{
			OrganizationID: organizationID,
			Today:          entities.Day(input.Today),
			Error:          err.Error(),
		}))
		return nil, fmt.Errorf("failed to compute recommendations for organization %s: %w", organizationID, err)
	}

	snapshot := &entities.RecommendationSnapshot{
		RunID:          uuid.NewString(),
		OrganizationID: organizationID,
		Today:          result.Today,
		ComputedAt:     o.now().UTC(),
		Containers:     result.Containers,
		Exclusions:     result.Exclusions,
	}
	if err := o.recommendationRepo.ReplaceSnapshot(organizationID, snapshot); err != nil {
		return nil, fmt.Errorf("failed to store recommendations: %w", err)
	}

	o.logExclusions(organizationID, result.Exclusions)
	for _, exclusion := range result.Exclusions {
		o.publish(events.NewEvent(events.ProductExcludedEvent, organizationID, events.ProductExcluded{
			OrganizationID: organizationID,
			RunID:          snapshot.RunID,
			Exclusion:      exclusion,
		}))
	}

	duration := o.now().Sub(started)
	o.publish(events.NewEvent(events.RecommendationsRecomputedEvent, organizationID, events.RecommendationsRecomputed{
		OrganizationID: organizationID,
		RunID:          snapshot.RunID,
		Today:          snapshot.Today,
		ContainerCount: len(snapshot.Containers),
		TotalCartons:   result.TotalCartons(),
		ExclusionCount: len(snapshot.Exclusions),
		Duration:       duration,
	}))

	o.logger.WithFields(logrus.Fields{
		"organization": organizationID,
		"runId":        snapshot.RunID,
		"containers":   len(snapshot.Containers),
		"exclusions":   len(snapshot.Exclusions),
		"duration":     duration.String(),
	}).Info("recommendations recomputed")

	return snapshot, nil
}

func (o *RecommendationOrchestrator) logExclusions(organizationID string, exclusions []entities.Exclusion) {
	for _, exclusion := range exclusions {
		o.logger.WithFields(logrus.Fields{
			"organization": organizationID,
			"productId":    exclusion.ProductID,
			"sku":          exclusion.SKU,
		}).Warn("product excluded: " + exclusion.Reason)
	}
}

func (o *RecommendationOrchestrator) publish(event events.Event) {
	if o.eventStore == nil {
		return
	}
	if err := o.eventStore.AppendEvent(event.StreamID(), event); err != nil {
		o.logger.WithError(err).WithField("eventType", event.Type()).Warn("failed to publish event")
	}
}

func (o *RecommendationOrchestrator) lockFor(organizationID string) *sync.Mutex {
	o.locksMu.Lock()
	defer o.locksMu.Unlock()

	lock, ok := o.locks[organizationID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[organizationID] = lock
	}
	return lock
}
