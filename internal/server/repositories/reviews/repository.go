// Package reviews stores song reviews in the relational store.
package reviews

import (
	"context"

	"github.com/dmitrijs2005/songkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, review *models.Review) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Review, error)
	ListBySong(ctx context.Context, songID int64) ([]*models.Review, error)
	Update(ctx context.Context, id int64, patch models.ReviewPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteBySong(ctx context.Context, songID int64) (int64, error)
}
