package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vsinha/replenish/pkg/infrastructure/config"
	"github.com/vsinha/replenish/pkg/infrastructure/logging"
	"github.com/vsinha/replenish/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing products.csv and orders.csv",
		)
		productsFile = flag.String("products", "", "Path to products CSV file")
		ordersFile   = flag.String("orders", "", "Path to existing orders CSV file (optional)")
		today        = flag.String("today", "", "Reference date YYYY-MM-DD (default: today)")
		outputDir    = flag.String("output", "", "Output directory for results (optional)")
		format       = flag.String("format", "text", "Output format: text, json, csv, xlsx")
		envFile      = flag.String("env", "", "Path to .env file (default: ./.env when present)")
		verbose      = flag.Bool("verbose", false, "Enable verbose output")
		help         = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cmd := commands.NewRecommendCommand(commands.Config{
		ScenarioDir:  *scenarioDir,
		ProductsFile: *productsFile,
		OrdersFile:   *ordersFile,
		Today:        *today,
		OutputDir:    *outputDir,
		Format:       *format,
		Verbose:      *verbose,
		Help:         *help,
		Engine:       cfg.Engine,
		Logger:       logger,
	})

	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
