package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vsinha/replenish/pkg/application/dto"
	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/services"
	"github.com/xuri/excelize/v2"
)

const (
	jsonFileName = "container_recommendations.json"
	csvFileName  = "containers.csv"
	xlsxFileName = "container_recommendations.xlsx"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	RunTime   time.Duration
	Capacity  services.CapacityChecker
	// Stdout receives console output; os.Stdout when nil
	Stdout io.Writer
}

func (c Config) stdout() io.Writer {
	if c.Stdout == nil {
		return os.Stdout
	}
	return c.Stdout
}

// Generate creates output in the specified format
func Generate(result *dto.RecommendationResult, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	case "xlsx":
		return generateXLSXOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result *dto.RecommendationResult, config Config) error {
	out := config.stdout()

	fmt.Fprintf(out, "📊 Container Recommendations\n")
	fmt.Fprintf(out, "============================\n\n")

	fmt.Fprintf(out, "Reference Date: %s\n", result.Today.Format(dto.DateLayout))
	fmt.Fprintf(out, "Containers: %d\n", len(result.Containers))
	fmt.Fprintf(out, "Total Cartons: %d\n", result.TotalCartons())
	fmt.Fprintf(out, "Replenishment Events: %d in %d clusters\n", result.EventCount, result.ClusterCount)
	fmt.Fprintf(out, "Excluded Products: %d\n", len(result.Exclusions))
	if config.RunTime > 0 {
		fmt.Fprintf(out, "Run Time: %v\n", config.RunTime)
	}
	fmt.Fprintln(out)

	if len(result.Containers) > 0 {
		fmt.Fprintf(out, "🚢 Containers:\n")
		fmt.Fprintf(out, "%-4s %-12s %-12s %-9s %-8s %-10s %-6s\n",
			"#", "Order By", "Delivery", "Urgency", "Cartons", "Volume m3", "Fill")
		fmt.Fprintf(out, "%-4s %-12s %-12s %-9s %-8s %-10s %-6s\n",
			"----", "------------", "------------", "---------", "--------", "----------", "------")

		for _, container := range result.Containers {
			fmt.Fprintf(out, "%-4d %-12s %-12s %-9s %-8d %-10.3f %5.1f%%\n",
				container.ContainerNumber,
				container.OrderByDate.Format(dto.DateLayout),
				container.DeliveryDate.Format(dto.DateLayout),
				urgencyLabel(container.Urgency),
				container.TotalCartons,
				container.TotalVolume,
				config.Capacity.Utilization(container.TotalVolume))

			if config.Verbose {
				for _, line := range container.Lines {
					fmt.Fprintf(out, "       %-16s %-16s %8d cartons %10.3f m3\n",
						line.ProductID, line.SKU, line.Quantity, line.Volume)
				}
			}
		}
		fmt.Fprintln(out)
	}

	if len(result.Exclusions) > 0 {
		fmt.Fprintf(out, "⚠️  Excluded Products:\n")
		fmt.Fprintf(out, "%-16s %-16s %s\n", "Product", "SKU", "Reason")
		fmt.Fprintf(out, "%-16s %-16s %s\n", "----------------", "----------------", "------")

		for _, exclusion := range result.Exclusions {
			fmt.Fprintf(out, "%-16s %-16s %s\n", exclusion.ProductID, exclusion.SKU, exclusion.Reason)
		}
		fmt.Fprintln(out)
	}

	return nil
}

// generateJSONOutput creates JSON output in the container wire format
func generateJSONOutput(result *dto.RecommendationResult, config Config) error {
	if config.OutputDir == "" {
		return WriteJSON(config.stdout(), result.Containers)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, jsonFileName)
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	if err := WriteJSON(file, result.Containers); err != nil {
		return err
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes one row per container line
func generateCSVOutput(result *dto.RecommendationResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, csvFileName)
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, result.Containers); err != nil {
		return fmt.Errorf("failed to write containers CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 CSV results saved to: %s\n", filename)
	}
	return nil
}

// generateXLSXOutput writes the workbook into the output directory
func generateXLSXOutput(result *dto.RecommendationResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for xlsx format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := BuildWorkbook(result.Containers, result.Exclusions, config.Capacity)
	if err != nil {
		return err
	}
	defer f.Close()

	filename := filepath.Join(config.OutputDir, xlsxFileName)
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.stdout(), "💾 Workbook saved to: %s\n", filename)
	}
	return nil
}

// WriteJSON encodes containers in the wire format. Identical input gives identical bytes.
func WriteJSON(w io.Writer, containers []entities.ContainerRecommendation) error {
	jsonData, err := json.MarshalIndent(dto.NewContainersResponse(containers), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonData = append(jsonData, '\n')
	if _, err := w.Write(jsonData); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

var csvHeader = []string{
	"container_number", "order_by_date", "delivery_date", "urgency",
	"product_id", "sku", "quantity", "pieces_per_pallet", "volume_m3",
}

// WriteCSV writes one row per container line
func WriteCSV(w io.Writer, containers []entities.ContainerRecommendation) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, container := range containers {
		for _, line := range container.Lines {
			record := []string{
				strconv.Itoa(container.ContainerNumber),
				container.OrderByDate.Format(dto.DateLayout),
				container.DeliveryDate.Format(dto.DateLayout),
				container.Urgency.String(),
				string(line.ProductID),
				string(line.SKU),
				strconv.FormatInt(int64(line.Quantity), 10),
				strconv.Itoa(line.PiecesPerPallet),
				strconv.FormatFloat(line.Volume, 'f', -1, 64),
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// BuildWorkbook lays out containers on a "Containers" summary sheet, their
// lines on a "Lines" sheet and exclusions, when there are any, on "Exclusions"
func BuildWorkbook(
	containers []entities.ContainerRecommendation,
	exclusions []entities.Exclusion,
	capacity services.CapacityChecker,
) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", "Containers"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create containers sheet: %w", err)
	}
	if _, err := f.NewSheet("Lines"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create lines sheet: %w", err)
	}

	summary := [][]interface{}{{
		"ContainerNumber", "OrderByDate", "DeliveryDate", "Urgency",
		"Products", "TotalCartons", "TotalVolume", "FillPercent",
	}}
	lines := [][]interface{}{{
		"ContainerNumber", "ProductID", "SKU", "Quantity", "PiecesPerPallet", "Volume",
	}}

	for _, container := range containers {
		summary = append(summary, []interface{}{
			container.ContainerNumber,
			container.OrderByDate.Format(dto.DateLayout),
			container.DeliveryDate.Format(dto.DateLayout),
			container.Urgency.String(),
			container.ProductCount,
			int64(container.TotalCartons),
			container.TotalVolume,
			capacity.Utilization(container.TotalVolume),
		})
		for _, line := range container.Lines {
			lines = append(lines, []interface{}{
				container.ContainerNumber,
				string(line.ProductID),
				string(line.SKU),
				int64(line.Quantity),
				line.PiecesPerPallet,
				line.Volume,
			})
		}
	}

	if err := writeRows(f, "Containers", summary); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeRows(f, "Lines", lines); err != nil {
		f.Close()
		return nil, err
	}

	if len(exclusions) > 0 {
		if _, err := f.NewSheet("Exclusions"); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create exclusions sheet: %w", err)
		}
		rows := [][]interface{}{{"ProductID", "SKU", "Reason"}}
		for _, exclusion := range exclusions {
			rows = append(rows, []interface{}{string(exclusion.ProductID), string(exclusion.SKU), exclusion.Reason})
		}
		if err := writeRows(f, "Exclusions", rows); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func urgencyLabel(u entities.Urgency) string {
	if u == entities.UrgencyNormal {
		return "-"
	}
	return u.String()
}
