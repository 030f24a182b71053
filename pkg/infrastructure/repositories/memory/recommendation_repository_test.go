package memory

import (
	"errors"
	"testing"
	"time"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/repositories"
)

func testSnapshot(runID string) *entities.RecommendationSnapshot {
	return &entities.RecommendationSnapshot{
		RunID:          runID,
		OrganizationID: "org-1",
		Today:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Containers: []entities.ContainerRecommendation{
			{
				ContainerNumber: 1,
				Lines:           []entities.ContainerLine{{ProductID: "A", SKU: "SKU-A", Quantity: 10}},
				TotalCartons:    10,
			},
		},
		Exclusions: []entities.Exclusion{},
	}
}

func TestRecommendationRepository_NotFound(t *testing.T) {
	repo := NewRecommendationRepository()

	_, err := repo.GetSnapshot("org-1")
	if !errors.Is(err, repositories.ErrSnapshotNotFound) {
		t.Errorf("Expected ErrSnapshotNotFound, got %v", err)
	}
}

func TestRecommendationRepository_ReplaceSnapshot(t *testing.T) {
	repo := NewRecommendationRepository()

	if err := repo.ReplaceSnapshot("org-1", testSnapshot("run-1")); err != nil {
		t.Fatalf("Failed to store snapshot: %v", err)
	}
	if err := repo.ReplaceSnapshot("org-1", testSnapshot("run-2")); err != nil {
		t.Fatalf("Failed to store snapshot: %v", err)
	}

	snapshot, err := repo.GetSnapshot("org-1")
	if err != nil {
		t.Fatalf("Failed to get snapshot: %v", err)
	}
	if snapshot.RunID != "run-2" {
		t.Errorf("Expected run-2, got %s", snapshot.RunID)
	}
	if snapshot.Exclusions == nil {
		t.Error("Expected empty exclusions to stay non-nil")
	}
}

func TestRecommendationRepository_ReturnsCopies(t *testing.T) {
	repo := NewRecommendationRepository()
	original := testSnapshot("run-1")
	_ = repo.ReplaceSnapshot("org-1", original)

	original.Containers[0].Lines[0].Quantity = 0

	snapshot, _ := repo.GetSnapshot("org-1")
	if snapshot.Containers[0].Lines[0].Quantity != 10 {
		t.Errorf("Expected stored quantity 10, got %d", snapshot.Containers[0].Lines[0].Quantity)
	}

	snapshot.Containers[0].TotalCartons = 99
	again, _ := repo.GetSnapshot("org-1")
	if again.Containers[0].TotalCartons != 10 {
		t.Errorf("Expected stored total 10, got %d", again.Containers[0].TotalCartons)
	}
}

func TestRecommendationRepository_ReplaceErrors(t *testing.T) {
	repo := NewRecommendationRepository()

	if err := repo.ReplaceSnapshot("", testSnapshot("run-1")); err == nil {
		t.Error("Expected error for empty organization id")
	}
	if err := repo.ReplaceSnapshot("org-1", nil); err == nil {
		t.Error("Expected error for nil snapshot")
	}
}
