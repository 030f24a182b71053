package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vsinha/replenish/pkg/application/dto"
	"github.com/vsinha/replenish/pkg/application/services/orchestration"
	"github.com/vsinha/replenish/pkg/application/services/recommendation"
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/infrastructure/events"
	"github.com/vsinha/replenish/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/replenish/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/replenish/pkg/interfaces/cli/output"
)

// localOrganization is the organization a CLI run is stored under
const localOrganization = "local"

// Config holds configuration for the recommend command
type Config struct {
	ScenarioDir  string
	ProductsFile string
	OrdersFile   string
	Today        string
	OutputDir    string
	Format       string
	Verbose      bool
	Help         bool
	Engine       recommendation.EngineConfig
	Logger       *logrus.Logger
	// Stdout receives the report; os.Stdout when nil
	Stdout io.Writer
}

// RecommendCommand loads a scenario and prints container recommendations
type RecommendCommand struct {
	config Config
	out    io.Writer
}

// NewRecommendCommand creates a new recommend command with the given configuration
func NewRecommendCommand(config Config) *RecommendCommand {
	out := config.Stdout
	if out == nil {
		out = os.Stdout
	}
	return &RecommendCommand{
		config: config,
		out:    out,
	}
}

// Execute runs the recommend command
func (c *RecommendCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	// Validate inputs
	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	today, err := c.referenceDate()
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	// Determine input files
	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files, today)
		c.printf("📂 Loading data from CSV files...\n")
	}

	csvLoader := csv.NewLoader()

	products, err := csvLoader.LoadProducts(files["Products"])
	if err != nil {
		return fmt.Errorf("error loading products: %w", err)
	}

	orders := []*entities.ExistingOrder{}
	if files["Orders"] != "" {
		orders, err = csvLoader.LoadOrders(files["Orders"])
		if err != nil {
			return fmt.Errorf("error loading orders: %w", err)
		}
	}

	if c.config.Verbose {
		c.printf("✅ Data loaded successfully:\n")
		c.printf("  Products: %d\n", len(products))
		c.printf("  Existing Orders: %d\n", len(orders))
		c.printf("\n")
	}

	logger := c.config.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	// Create services
	engine := recommendation.NewEngineWithConfig(c.config.Engine)
	orchestrator := orchestration.NewRecommendationOrchestrator(
		engine,
		memory.NewProductRepository(),
		memory.NewOrderRepository(),
		memory.NewRecommendationRepository(),
		events.NewInMemoryEventStore(logger),
		logger,
	)

	if c.config.Verbose {
		c.printf("🔄 Computing container recommendations...\n")
	}

	startTime := time.Now()
	snapshot, err := orchestrator.UpdateInventory(ctx, localOrganization, products, orders, today)
	runTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error computing recommendations: %w", err)
	}

	if c.config.Verbose {
		c.printf("✅ Recommendations computed in %v (run %s)\n\n", runTime, snapshot.RunID)
	}

	result := &dto.RecommendationResult{
		Today:      snapshot.Today,
		Containers: snapshot.Containers,
		Exclusions: snapshot.Exclusions,
	}
	if c.config.Verbose || c.config.Format == "text" {
		depletions := engine.Depletions(dto.RecommendationInput{Products: products, Orders: orders, Today: today})
		for _, depletion := range depletions {
			if depletion.Depletes {
				result.EventCount++
			}
		}
		result.ClusterCount = countClusters(snapshot.Containers)
	}

	// Generate output
	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
		RunTime:   runTime,
		Capacity:  engine.Capacity(),
		Stdout:    c.out,
	}

	if err := output.Generate(result, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		c.printf("🏁 Recommendation run complete!\n")
	}

	return nil
}

// validateInputs validates the command configuration
func (c *RecommendCommand) validateInputs() error {
	if c.config.ScenarioDir == "" && c.config.ProductsFile == "" {
		return fmt.Errorf("must specify either -scenario directory or -products file")
	}
	switch c.config.Format {
	case "text", "json", "csv", "xlsx":
	default:
		return fmt.Errorf("unsupported output format: %s (expected: text, json, csv or xlsx)", c.config.Format)
	}
	if (c.config.Format == "csv" || c.config.Format == "xlsx") && c.config.OutputDir == "" {
		return fmt.Errorf("-output directory required for %s format", c.config.Format)
	}
	return nil
}

// referenceDate parses -today, defaulting to the current day
func (c *RecommendCommand) referenceDate() (time.Time, error) {
	if c.config.Today == "" {
		return time.Now().UTC(), nil
	}
	today, err := time.Parse(dto.DateLayout, c.config.Today)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -today %q (expected YYYY-MM-DD)", c.config.Today)
	}
	return today, nil
}

// resolveInputFiles determines the actual file paths to use
func (c *RecommendCommand) resolveInputFiles() (map[string]string, error) {
	productsPath := c.config.ProductsFile
	ordersPath := c.config.OrdersFile

	if c.config.ScenarioDir != "" {
		productsPath = filepath.Join(c.config.ScenarioDir, "products.csv")
		ordersPath = filepath.Join(c.config.ScenarioDir, "orders.csv")
	}

	files := map[string]string{
		"Products": productsPath,
		"Orders":   ordersPath,
	}

	if _, err := os.Stat(productsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("Products file not found: %s", productsPath)
	}
	if ordersPath != "" {
		if _, err := os.Stat(ordersPath); os.IsNotExist(err) {
			if c.config.ScenarioDir == "" {
				return nil, fmt.Errorf("Orders file not found: %s", ordersPath)
			}
			files["Orders"] = ""
		}
	}

	return files, nil
}

// printHeader prints the command header information
func (c *RecommendCommand) printHeader(files map[string]string, today time.Time) {
	c.printf("🚀 Container Replenishment CLI\n")
	c.printf("Input files:\n")
	c.printf("  Products: %s\n", files["Products"])
	if files["Orders"] != "" {
		c.printf("  Orders: %s\n", files["Orders"])
	} else {
		c.printf("  Orders: (none)\n")
	}
	c.printf("Reference date: %s\n", today.Format(dto.DateLayout))
	c.printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		c.printf("Output directory: %s\n", c.config.OutputDir)
	}
	c.printf("\n")
}

func (c *RecommendCommand) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// showHelp displays the help message
func (c *RecommendCommand) showHelp() {
	c.printf(`Container Replenishment CLI - container recommendations for vendor-managed inventory

USAGE:
    replenish -scenario <directory>                 # Use scenario directory with CSV files
    replenish -products <file> [-orders <file>]     # Use individual CSV files

OPTIONS:
    -scenario <dir>     Path to scenario directory containing CSV files
    -products <file>    Path to products CSV file
    -orders <file>      Path to existing orders CSV file (optional)
    -today <date>       Reference date YYYY-MM-DD (default: today)
    -output <dir>       Output directory for results (required for csv and xlsx)
    -format <fmt>       Output format: text, json, csv, xlsx (default: text)
    -verbose            Enable verbose output
    -help               Show this help message

Engine constants are read from the environment or a .env file:
    CONTAINER_CAPACITY_M3, CAPACITY_TOLERANCE_M3, SHIPPING_LEAD_TIME_WEEKS,
    COALESCING_WINDOW_DAYS, PLANNING_HORIZON_WEEKS, URGENCY_WINDOW_DAYS,
    PACK_INCREMENT_CARTONS

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── products.csv    # Product catalog with stock and consumption
    └── orders.csv      # Orders already placed with the supplier (optional)

CSV FILE FORMATS:

products.csv:
    product_id,sku,description,current_stock,weekly_consumption,target_soh_weeks,pieces_per_pallet,volume_per_pallet
    P-1001,TWL-WHT-70,Bath towel white 70x140,0,1000,6,1000,38

orders.csv:
    order_id,ordered_date,delivery_date,status,sku,quantity
    PO-2024-118,2024-11-20,2025-01-21,InTransit,PLW-STD,1500

EXAMPLES:
    # Run the basic scenario
    replenish -scenario testdata/scenarios/basic -today 2025-01-01 -verbose

    # Generate JSON output
    replenish -scenario testdata/scenarios/basic -format json

    # Export a workbook
    replenish -scenario testdata/scenarios/basic -format xlsx -output results/
`)
}

// countClusters counts distinct order-by dates; every cluster shares one
func countClusters(containers []entities.ContainerRecommendation) int {
	seen := make(map[time.Time]bool)
	for _, container := range containers {
		seen[container.OrderByDate] = true
	}
	return len(seen)
}
