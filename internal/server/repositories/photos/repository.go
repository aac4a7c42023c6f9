// Package photos stores cover art metadata in the relational store.
package photos

import (
	"context"

	"github.com/dmitrijs2005/songkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, photo *models.Photo) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Photo, error)
	ListBySong(ctx context.Context, songID int64) ([]*models.Photo, error)
	UpdateCaption(ctx context.Context, id int64, caption string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	DeleteBySong(ctx context.Context, songID int64) (int64, error)
}
