package dto

import (
	"fmt"
	"time"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

// DateLayout is the calendar date format used on the wire
const DateLayout = "2006-01-02"

// ContainerProductView is one product line of a container on the wire
type ContainerProductView struct {
	SKU             entities.SKU       `json:"sku"`
	Quantity        entities.Quantity  `json:"quantity"`
	ProductID       entities.ProductID `json:"productId"`
	PiecesPerPallet int                `json:"piecesPerPallet"`
}

// ContainerView is a container recommendation on the wire
type ContainerView struct {
	ContainerNumber int                    `json:"containerNumber"`
	OrderByDate     string                 `json:"orderByDate"`
	DeliveryDate    string                 `json:"deliveryDate"`
	Products        []ContainerProductView `json:"products"`
	TotalCartons    entities.Quantity      `json:"totalCartons"`
	TotalVolume     float64                `json:"totalVolume"`
	Urgency         entities.Urgency       `json:"urgency"`
}

// ContainersResponse is the engine output contract handed to display and persistence
type ContainersResponse struct {
	Containers []ContainerView `json:"containers"`
}

// NewContainersResponse converts container recommendations to their wire form
func NewContainersResponse(containers []entities.ContainerRecommendation) ContainersResponse {
	views := make([]ContainerView, 0, len(containers))
	for _, container := range containers {
		products := make([]ContainerProductView, 0, len(container.Lines))
		for _, line := range container.Lines {
			products = append(products, ContainerProductView{
				SKU:             line.SKU,
				Quantity:        line.Quantity,
				ProductID:       line.ProductID,
				PiecesPerPallet: line.PiecesPerPallet,
			})
		}
		views = append(views, ContainerView{
			ContainerNumber: container.ContainerNumber,
			OrderByDate:     container.OrderByDate.Format(DateLayout),
			DeliveryDate:    container.DeliveryDate.Format(DateLayout),
			Products:        products,
			TotalCartons:    container.TotalCartons,
			TotalVolume:     container.TotalVolume,
			Urgency:         container.Urgency,
		})
	}
	return ContainersResponse{Containers: views}
}

// ProductPayload is a product in the engine input contract
type ProductPayload struct {
	ProductID              entities.ProductID `json:"productId"`
	SKU                    entities.SKU       `json:"sku"`
	Description            string             `json:"description,omitempty"`
	CurrentStock           entities.Quantity  `json:"currentStock"`
	WeeklyConsumption      entities.Quantity  `json:"weeklyConsumption"`
	TargetStockOnHandWeeks int                `json:"targetStockOnHandWeeks"`
	PiecesPerPallet        int                `json:"piecesPerPallet"`
	VolumePerPallet        float64            `json:"volumePerPallet"`
}

// OrderLinePayload is one existing-order line in the engine input contract.
// Lines sharing an OrderID belong to the same order.
type OrderLinePayload struct {
	OrderID      string            `json:"orderId,omitempty"`
	SKU          entities.SKU      `json:"sku"`
	Quantity     entities.Quantity `json:"quantity"`
	OrderedDate  string            `json:"orderedDate,omitempty"`
	DeliveryDate string            `json:"deliveryDate"`
	Status       string            `json:"status"`
}

// RecommendationRequest is the engine input contract on the wire
type RecommendationRequest struct {
	Today    string             `json:"today"`
	Products []ProductPayload   `json:"products"`
	Orders   []OrderLinePayload `json:"orders"`
}

// ToInput converts the request into typed entities, failing on structurally invalid shapes.
// A missing today defaults to now.
func (r RecommendationRequest) ToInput(now time.Time) (RecommendationInput, error) {
	input := RecommendationInput{Today: entities.Day(now)}

	if r.Today != "" {
		today, err := time.Parse(DateLayout, r.Today)
		if err != nil {
			return RecommendationInput{}, fmt.Errorf("invalid today %q (expected YYYY-MM-DD)", r.Today)
		}
		input.Today = today
	}

	products, err := ProductsFromPayload(r.Products)
	if err != nil {
		return RecommendationInput{}, err
	}
	input.Products = products

	orders, err := OrdersFromPayload(r.Orders)
	if err != nil {
		return RecommendationInput{}, err
	}
	input.Orders = orders

	return input, nil
}

// ProductsFromPayload builds products; a missing product id falls back to the SKU
func ProductsFromPayload(payload []ProductPayload) ([]*entities.Product, error) {
	products := make([]*entities.Product, 0, len(payload))
	for i, p := range payload {
		id := p.ProductID
		if id == "" {
			id = entities.ProductID(p.SKU)
		}
		product, err := entities.NewProduct(
			id,
			p.SKU,
			p.Description,
			p.CurrentStock,
			p.WeeklyConsumption,
			p.TargetStockOnHandWeeks,
			p.PiecesPerPallet,
			p.VolumePerPallet,
		)
		if err != nil {
			return nil, fmt.Errorf("product %d: %w", i+1, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// OrdersFromPayload groups order lines into orders in first-seen order.
// Lines without an order id become single-line orders.
func OrdersFromPayload(payload []OrderLinePayload) ([]*entities.ExistingOrder, error) {
	type pending struct {
		id           string
		orderedDate  time.Time
		deliveryDate time.Time
		status       entities.OrderStatus
		lines        []entities.OrderLine
	}

	var order []string
	grouped := make(map[string]*pending)

	for i, line := range payload {
		id := line.OrderID
		if id == "" {
			id = fmt.Sprintf("line-%d", i+1)
		}

		deliveryDate, err := time.Parse(DateLayout, line.DeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("order line %d: invalid deliveryDate %q (expected YYYY-MM-DD)", i+1, line.DeliveryDate)
		}
		var orderedDate time.Time
		if line.OrderedDate != "" {
			orderedDate, err = time.Parse(DateLayout, line.OrderedDate)
			if err != nil {
				return nil, fmt.Errorf("order line %d: invalid orderedDate %q (expected YYYY-MM-DD)", i+1, line.OrderedDate)
			}
		}
		status, err := entities.ParseOrderStatus(line.Status)
		if err != nil {
			return nil, fmt.Errorf("order line %d: %w", i+1, err)
		}

		p, exists := grouped[id]
		if !exists {
			p = &pending{id: id, orderedDate: orderedDate, deliveryDate: deliveryDate, status: status}
			grouped[id] = p
			order = append(order, id)
		} else if !p.deliveryDate.Equal(deliveryDate) || p.status != status {
			return nil, fmt.Errorf("order line %d: order %s has conflicting delivery date or status", i+1, id)
		}
		p.lines = append(p.lines, entities.OrderLine{SKU: line.SKU, Quantity: line.Quantity})
	}

	orders := make([]*entities.ExistingOrder, 0, len(order))
	for _, id := range order {
		p := grouped[id]
		existing, err := entities.NewExistingOrder(p.id, p.orderedDate, p.deliveryDate, p.status, p.lines)
		if err != nil {
			return nil, err
		}
		orders = append(orders, existing)
	}
	return orders, nil
}

// SnapshotResponse is a stored recommendation run on the wire
type SnapshotResponse struct {
	RunID          string               `json:"runId"`
	OrganizationID string               `json:"organizationId"`
	Today          string               `json:"today"`
	ComputedAt     time.Time            `json:"computedAt"`
	Containers     []ContainerView      `json:"containers"`
	Exclusions     []entities.Exclusion `json:"exclusions"`
}

// NewSnapshotResponse converts a stored snapshot to its wire form
func NewSnapshotResponse(snapshot *entities.RecommendationSnapshot) SnapshotResponse {
	exclusions := snapshot.Exclusions
	if exclusions == nil {
		exclusions = []entities.Exclusion{}
	}
	return SnapshotResponse{
		RunID:          snapshot.RunID,
		OrganizationID: snapshot.OrganizationID,
		Today:          snapshot.Today.Format(DateLayout),
		ComputedAt:     snapshot.ComputedAt,
		Containers:     NewContainersResponse(snapshot.Containers).Containers,
		Exclusions:     exclusions,
	}
}

// WeekPointView is one simulated week on the wire
type WeekPointView struct {
	Week       int               `json:"week"`
	StockLevel entities.Quantity `json:"stockLevel"`
	Shortfall  entities.Quantity `json:"shortfall"`
	Credited   entities.Quantity `json:"credited"`
}

// ForecastOrderView is an order line of the forecast product on the wire
type ForecastOrderView struct {
	OrderID      string            `json:"orderId"`
	Status       string            `json:"status"`
	DeliveryDate string            `json:"deliveryDate"`
	Quantity     entities.Quantity `json:"quantity"`
}

// ProductForecastResponse is a single product's forecast on the wire
type ProductForecastResponse struct {
	ProductID       entities.ProductID  `json:"productId"`
	SKU             entities.SKU        `json:"sku"`
	Today           string              `json:"today"`
	ExclusionReason string              `json:"exclusionReason,omitempty"`
	Depletes        bool                `json:"depletes"`
	DepletionDate   *string             `json:"depletionDate"`
	OrderByDate     *string             `json:"orderByDate"`
	Quantity        entities.Quantity   `json:"quantity"`
	Urgency         entities.Urgency    `json:"urgency"`
	Trajectory      []WeekPointView     `json:"trajectory"`
	Orders          []ForecastOrderView `json:"orders"`
}

// NewProductForecastResponse converts a forecast to its wire form
func NewProductForecastResponse(forecast ProductForecast) ProductForecastResponse {
	response := ProductForecastResponse{
		ProductID:       forecast.Product.ID,
		SKU:             forecast.Product.SKU,
		Today:           forecast.Today.Format(DateLayout),
		ExclusionReason: forecast.ExclusionReason,
		Depletes:        forecast.Depletion.Depletes,
		Urgency:         forecast.Urgency,
		Trajectory:      make([]WeekPointView, 0, len(forecast.Depletion.Trajectory)),
		Orders:          make([]ForecastOrderView, 0, len(forecast.Orders)),
	}

	if forecast.Depletion.Depletes {
		date := forecast.Depletion.DepletionDate.Format(DateLayout)
		response.DepletionDate = &date
	}
	if forecast.Replenishment != nil {
		orderBy := forecast.Replenishment.OrderByDate.Format(DateLayout)
		response.OrderByDate = &orderBy
		response.Quantity = forecast.Replenishment.Quantity
	}
	for _, point := range forecast.Depletion.Trajectory {
		response.Trajectory = append(response.Trajectory, WeekPointView{
			Week:       point.Week,
			StockLevel: point.StockLevel,
			Shortfall:  point.Shortfall,
			Credited:   point.Credited,
		})
	}
	for _, order := range forecast.Orders {
		response.Orders = append(response.Orders, ForecastOrderView{
			OrderID:      order.ID,
			Status:       order.Status.String(),
			DeliveryDate: order.DeliveryDate.Format(DateLayout),
			Quantity:     order.QuantityFor(forecast.Product.SKU),
		})
	}
	return response
}
