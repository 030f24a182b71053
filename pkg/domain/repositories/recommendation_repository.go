package repositories

import (
	"errors"

	"github.com/vsinha/replenish/pkg/domain/entities"
)

// ErrSnapshotNotFound is returned when an organization has no stored recommendations yet
var ErrSnapshotNotFound = errors.New("recommendation snapshot not found")

// RecommendationRepository stores the latest recommendation snapshot per organization
type RecommendationRepository interface {
	GetSnapshot(organizationID string) (*entities.RecommendationSnapshot, error)
	// ReplaceSnapshot swaps the stored snapshot in one step; readers never see a partial write.
	ReplaceSnapshot(organizationID string, snapshot *entities.RecommendationSnapshot) error
}
