// Package songs stores songs in the relational store.
package songs

import (
	"context"

	"github.com/dmitrijs2005/songkeeper/internal/server/models"
)

// Repository is the typed CRUD surface over the songs table. Reads return
// (nil, nil) when the song does not exist; Update and Delete return the
// number of affected rows.
type Repository interface {
	Create(ctx context.Context, song *models.Song) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Song, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Song, error)
	Count(ctx context.Context) (int, error)
	ListPage(ctx context.Context, offset, limit int) ([]*models.Song, error)
	Update(ctx context.Context, id int64, patch models.SongPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
