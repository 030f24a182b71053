package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vsinha/replenish/pkg/application/services/recommendation"
)

// Config holds process-level settings shared by the CLI and the API server
type Config struct {
	LogLevel  string
	LogFormat string
	HTTPAddr  string

	// EventRetention caps the API server's in-memory event log; 0 keeps everything
	EventRetention int
	Engine         recommendation.EngineConfig
}

// Load reads .env files when present, then the environment.
// Unset variables fall back to defaults.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		// A missing .env is normal outside local development.
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return nil, fmt.Errorf("failed to load env files: %w", err)
	}

	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a variable lookup function
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{
		LogLevel:  "info",
		LogFormat: "text",
		HTTPAddr:       ":8080",
		EventRetention: 10000,
		Engine:         recommendation.DefaultEngineConfig(),
	}

	if v, ok := nonEmpty(lookup, "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := nonEmpty(lookup, "LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}
	if v, ok := nonEmpty(lookup, "HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}

	var err error
	if cfg.EventRetention, err = intVar(lookup, "EVENT_RETENTION", cfg.EventRetention); err != nil {
		return nil, err
	}
	if cfg.EventRetention < 0 {
		return nil, fmt.Errorf("invalid EVENT_RETENTION: must not be negative, got %d", cfg.EventRetention)
	}

	engine := &cfg.Engine
	if engine.ContainerCapacityM3, err = floatVar(lookup, "CONTAINER_CAPACITY_M3", engine.ContainerCapacityM3); err != nil {
		return nil, err
	}
	if engine.CapacityToleranceM3, err = floatVar(lookup, "CAPACITY_TOLERANCE_M3", engine.CapacityToleranceM3); err != nil {
		return nil, err
	}

	leadWeeks, err := intVar(lookup, "SHIPPING_LEAD_TIME_WEEKS", engine.ShippingLeadTimeDays/7)
	if err != nil {
		return nil, err
	}
	engine.ShippingLeadTimeDays = leadWeeks * 7

	if engine.CoalescingWindowDays, err = intVar(lookup, "COALESCING_WINDOW_DAYS", engine.CoalescingWindowDays); err != nil {
		return nil, err
	}
	if engine.PlanningHorizonWeeks, err = intVar(lookup, "PLANNING_HORIZON_WEEKS", engine.PlanningHorizonWeeks); err != nil {
		return nil, err
	}
	if engine.UrgencyWindowDays, err = intVar(lookup, "URGENCY_WINDOW_DAYS", engine.UrgencyWindowDays); err != nil {
		return nil, err
	}
	increment, err := intVar(lookup, "PACK_INCREMENT_CARTONS", int(engine.IncrementCartons))
	if err != nil {
		return nil, err
	}
	engine.IncrementCartons = int64(increment)

	if err := engine.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}

	return cfg, nil
}

func nonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func floatVar(lookup func(string) (string, bool), key string, fallback float64) (float64, error) {
	v, ok := nonEmpty(lookup, key)
	if !ok {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}
	return parsed, nil
}

func intVar(lookup func(string) (string, bool), key string, fallback int) (int, error) {
	v, ok := nonEmpty(lookup, key)
	if !ok {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", key, v)
	}
	return parsed, nil
}
