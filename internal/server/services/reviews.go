package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/schema"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/repomanager"
)

type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	coordinator *Coordinator
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager, c *Coordinator) *ReviewService {
	return &ReviewService{db: db, repomanager: m, coordinator: c}
}

// Create fails with common.ErrReferenceNotFound when song_id does not exist.
func (s *ReviewService) Create(ctx context.Context, payload map[string]any) (int64, error) {
	return s.coordinator.CreateOwnedRecord(ctx, models.KindReview, payload, models.ReviewCreateSchema,
		func(ctx context.Context, v schema.Values) (int64, error) {
			return s.repomanager.Reviews(s.db).Create(ctx, models.ReviewFromValues(v))
		})
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*models.Review, error) {
	r, err := s.repomanager.Reviews(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting review: %w", err)
	}
	if r == nil {
		return nil, common.ErrorNotFound
	}
	return r, nil
}

func (s *ReviewService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Review, error) {
	return s.repomanager.Reviews(s.db).ListByOwner(ctx, ownerID)
}

func (s *ReviewService) Update(ctx context.Context, id int64, payload map[string]any) error {
	v, err := models.ReviewUpdateSchema.Validate(payload)
	if err != nil {
		return err
	}
	return notFoundIfNone(s.repomanager.Reviews(s.db).Update(ctx, id, models.ReviewPatchFromValues(v)))
}

func (s *ReviewService) Delete(ctx context.Context, id int64) error {
	return notFoundIfNone(s.repomanager.Reviews(s.db).Delete(ctx, id))
}
