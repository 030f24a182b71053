package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

var (
	productsHeader = []string{
		"product_id", "sku", "description", "current_stock", "weekly_consumption",
		"target_soh_weeks", "pieces_per_pallet", "volume_per_pallet",
	}
	ordersHeader = []string{"order_id", "ordered_date", "delivery_date", "status", "sku", "quantity"}
)

// Loader handles loading product and order snapshots from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario loads products.csv and, if present, orders.csv from a directory
func (l *Loader) LoadScenario(dir string) ([]*entities.Product, []*entities.ExistingOrder, error) {
	products, err := l.LoadProducts(filepath.Join(dir, "products.csv"))
	if err != nil {
		return nil, nil, err
	}

	ordersFile := filepath.Join(dir, "orders.csv")
	if _, err := os.Stat(ordersFile); errors.Is(err, os.ErrNotExist) {
		return products, []*entities.ExistingOrder{}, nil
	}

	orders, err := l.LoadOrders(ordersFile)
	if err != nil {
		return nil, nil, err
	}
	return products, orders, nil
}

// LoadProducts loads the product catalog from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open products file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadProducts(file)
}

// ReadProducts parses a products CSV stream
func (l *Loader) ReadProducts(r io.Reader) ([]*entities.Product, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read products CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("products CSV must have header and at least one data row")
	}

	// Validate header
	header := records[0]
	if !validateHeader(header, productsHeader) {
		return nil, fmt.Errorf("products CSV header mismatch. Expected: %v, Got: %v", productsHeader, header)
	}

	var products []*entities.Product
	for i, record := range records[1:] {
		if len(record) != len(productsHeader) {
			return nil, fmt.Errorf("products CSV row %d: expected %d columns, got %d", i+2, len(productsHeader), len(record))
		}

		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}

		products = append(products, product)
	}

	return products, nil
}

// LoadOrders loads existing orders from a CSV file with one row per order line
func (l *Loader) LoadOrders(filename string) ([]*entities.ExistingOrder, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open orders file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadOrders(file)
}

// ReadOrders parses an orders CSV stream. Rows sharing an order id are grouped
// into one order, in the order the ids first appear.
func (l *Loader) ReadOrders(r io.Reader) ([]*entities.ExistingOrder, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read orders CSV: %w", err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("orders CSV must have a header")
	}

	// Validate header
	header := records[0]
	if !validateHeader(header, ordersHeader) {
		return nil, fmt.Errorf("orders CSV header mismatch. Expected: %v, Got: %v", ordersHeader, header)
	}

	orders := []*entities.ExistingOrder{}
	byID := make(map[string]*entities.ExistingOrder)

	for i, record := range records[1:] {
		if len(record) != len(ordersHeader) {
			return nil, fmt.Errorf("orders CSV row %d: expected %d columns, got %d", i+2, len(ordersHeader), len(record))
		}

		row, err := parseOrderRow(record)
		if err != nil {
			return nil, fmt.Errorf("orders CSV row %d: %w", i+2, err)
		}

		if existing, ok := byID[row.ID]; ok {
			if !existing.DeliveryDate.Equal(row.DeliveryDate) || existing.Status != row.Status {
				return nil, fmt.Errorf("orders CSV row %d: order %s has conflicting delivery date or status", i+2, row.ID)
			}
			existing.Lines = append(existing.Lines, row.Lines...)
			continue
		}

		byID[row.ID] = row
		orders = append(orders, row)
	}

	return orders, nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseProduct(record []string) (*entities.Product, error) {
	currentStock := int64(0)
	if s := strings.TrimSpace(record[3]); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid current_stock: %s", record[3])
		}
		currentStock = v
	}

	weeklyConsumption, err := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid weekly_consumption: %s", record[4])
	}

	targetWeeks, err := strconv.Atoi(strings.TrimSpace(record[5]))
	if err != nil {
		return nil, fmt.Errorf("invalid target_soh_weeks: %s", record[5])
	}

	piecesPerPallet, err := strconv.Atoi(strings.TrimSpace(record[6]))
	if err != nil {
		return nil, fmt.Errorf("invalid pieces_per_pallet: %s", record[6])
	}

	volumePerPallet, err := strconv.ParseFloat(strings.TrimSpace(record[7]), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid volume_per_pallet: %s", record[7])
	}

	return entities.NewProduct(
		entities.ProductID(strings.TrimSpace(record[0])),
		entities.SKU(strings.TrimSpace(record[1])),
		record[2],
		entities.Quantity(currentStock),
		entities.Quantity(weeklyConsumption),
		targetWeeks,
		piecesPerPallet,
		volumePerPallet,
	)
}

func parseOrderRow(record []string) (*entities.ExistingOrder, error) {
	var orderedDate time.Time
	if s := strings.TrimSpace(record[1]); s != "" {
		parsed, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, fmt.Errorf("invalid ordered_date format: %s (expected YYYY-MM-DD)", record[1])
		}
		orderedDate = parsed
	}

	deliveryDate, err := time.Parse(dateLayout, strings.TrimSpace(record[2]))
	if err != nil {
		return nil, fmt.Errorf("invalid delivery_date format: %s (expected YYYY-MM-DD)", record[2])
	}

	status, err := entities.ParseOrderStatus(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, err
	}

	quantity, err := strconv.ParseInt(strings.TrimSpace(record[5]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %s", record[5])
	}

	return entities.NewExistingOrder(
		strings.TrimSpace(record[0]),
		orderedDate,
		deliveryDate,
		status,
		[]entities.OrderLine{{SKU: entities.SKU(strings.TrimSpace(record[4])), Quantity: entities.Quantity(quantity)}},
	)
}
