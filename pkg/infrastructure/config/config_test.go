package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsinha/replenish/pkg/application/services/recommendation"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Engine != recommendation.DefaultEngineConfig() {
		t.Errorf("Expected default engine config, got %+v", cfg.Engine)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("Expected :8080, got %s", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("Expected info/text logging, got %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.EventRetention != 10000 {
		t.Errorf("Expected event retention 10000, got %d", cfg.EventRetention)
	}
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"LOG_LEVEL":                "debug",
		"LOG_FORMAT":               "json",
		"HTTP_ADDR":                ":9000",
		"EVENT_RETENTION":          "50",
		"CONTAINER_CAPACITY_M3":    "67.5",
		"CAPACITY_TOLERANCE_M3":    "0.001",
		"SHIPPING_LEAD_TIME_WEEKS": "10",
		"COALESCING_WINDOW_DAYS":   "14",
		"PLANNING_HORIZON_WEEKS":   "26",
		"URGENCY_WINDOW_DAYS":      "7",
		"PACK_INCREMENT_CARTONS":   "5",
	}))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	expected := recommendation.EngineConfig{
		ContainerCapacityM3:  67.5,
		CapacityToleranceM3:  0.001,
		ShippingLeadTimeDays: 70,
		CoalescingWindowDays: 14,
		PlanningHorizonWeeks: 26,
		UrgencyWindowDays:    7,
		IncrementCartons:     5,
	}
	if cfg.Engine != expected {
		t.Errorf("Expected %+v, got %+v", expected, cfg.Engine)
	}
	if cfg.HTTPAddr != ":9000" || cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("Expected process overrides applied, got %+v", cfg)
	}
	if cfg.EventRetention != 50 {
		t.Errorf("Expected event retention 50, got %d", cfg.EventRetention)
	}
}

func TestFromLookup_Errors(t *testing.T) {
	tests := []struct {
		name          string
		env           map[string]string
		expectedError string
	}{
		{"not a number", map[string]string{"CONTAINER_CAPACITY_M3": "big"}, "invalid CONTAINER_CAPACITY_M3"},
		{"not an integer", map[string]string{"PLANNING_HORIZON_WEEKS": "1.5"}, "invalid PLANNING_HORIZON_WEEKS"},
		{"negative retention", map[string]string{"EVENT_RETENTION": "-1"}, "invalid EVENT_RETENTION"},
		{"fails validation", map[string]string{"PACK_INCREMENT_CARTONS": "0"}, "invalid engine configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.expectedError) {
				t.Errorf("Expected error containing %q, got %q", tt.expectedError, err.Error())
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("COALESCING_WINDOW_DAYS=10\n"), 0o644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	t.Setenv("COALESCING_WINDOW_DAYS", "")
	os.Unsetenv("COALESCING_WINDOW_DAYS")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Engine.CoalescingWindowDays != 10 {
		t.Errorf("Expected window 10 from env file, got %d", cfg.Engine.CoalescingWindowDays)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Expected error for missing env file")
	}
}
