package memory

import (
	"fmt"
	"sync"

	"github.com/vsinha/replenish/pkg/domain/entities"
	"github.com/vsinha/replenish/pkg/domain/repositories"
)

// RecommendationRepository keeps the latest recommendation snapshot per organization
type RecommendationRepository struct {
	mu        sync.RWMutex
	snapshots map[string]*entities.RecommendationSnapshot
}

// NewRecommendationRepository creates a new in-memory recommendation repository
func NewRecommendationRepository() *RecommendationRepository {
	return &RecommendationRepository{
		snapshots: make(map[string]*entities.RecommendationSnapshot),
	}
}

// Verify interface compliance
var _ repositories.RecommendationRepository = (*RecommendationRepository)(nil)

// GetSnapshot returns a copy of the organization's current snapshot
func (r *RecommendationRepository) GetSnapshot(organizationID string) (*entities.RecommendationSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, exists := r.snapshots[organizationID]
	if !exists {
		return nil, fmt.Errorf("%w: organization %s", repositories.ErrSnapshotNotFound, organizationID)
	}
	return snapshot.Clone(), nil
}

// ReplaceSnapshot stores a copy of the snapshot, replacing the previous one
func (r *RecommendationRepository) ReplaceSnapshot(organizationID string, snapshot *entities.RecommendationSnapshot) error {
	if organizationID == "" {
		return fmt.Errorf("organization id cannot be empty")
	}
	if snapshot == nil {
		return fmt.Errorf("cannot store nil snapshot for organization %s", organizationID)
	}

	stored := snapshot.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[organizationID] = stored
	return nil
}
