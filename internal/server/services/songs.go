package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/dbx"
	"github.com/dmitrijs2005/songkeeper/internal/pagination"
	"github.com/dmitrijs2005/songkeeper/internal/schema"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/repomanager"
)

// SongPage is one page of the song listing.
type SongPage struct {
	Window  pagination.Window
	Records []*models.Song
}

type SongService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	coordinator *Coordinator
	pageSize    int
}

func NewSongService(db *sql.DB, m repomanager.RepositoryManager, c *Coordinator, pageSize int) *SongService {
	return &SongService{db: db, repomanager: m, coordinator: c, pageSize: pageSize}
}

func (s *SongService) Create(ctx context.Context, payload map[string]any) (int64, error) {
	return s.coordinator.CreateOwnedRecord(ctx, models.KindSong, payload, models.SongCreateSchema,
		func(ctx context.Context, v schema.Values) (int64, error) {
			return s.repomanager.Songs(s.db).Create(ctx, models.SongFromValues(v))
		})
}

// Get returns the song with its reviews and photos.
func (s *SongService) Get(ctx context.Context, id int64) (*models.SongDetail, error) {
	song, err := s.repomanager.Songs(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting song: %w", err)
	}
	if song == nil {
		return nil, common.ErrorNotFound
	}

	reviews, err := s.repomanager.Reviews(s.db).ListBySong(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting reviews: %w", err)
	}
	photos, err := s.repomanager.Photos(s.db).ListBySong(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting photos: %w", err)
	}

	return &models.SongDetail{Song: song, Reviews: reviews, Photos: photos}, nil
}

// List counts the songs, clamps page into range and fetches that window.
func (s *SongService) List(ctx context.Context, page int) (*SongPage, error) {
	repo := s.repomanager.Songs(s.db)

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting songs: %w", err)
	}

	w := pagination.Compute(page, total, s.pageSize)
	records, err := repo.ListPage(ctx, w.Offset, w.PageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing songs: %w", err)
	}

	return &SongPage{Window: w, Records: records}, nil
}

func (s *SongService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Song, error) {
	return s.repomanager.Songs(s.db).ListByOwner(ctx, ownerID)
}

// Update applies the recognised fields of payload. owner_id is ignored.
func (s *SongService) Update(ctx context.Context, id int64, payload map[string]any) error {
	v, err := models.SongUpdateSchema.Validate(payload)
	if err != nil {
		return err
	}
	return notFoundIfNone(s.repomanager.Songs(s.db).Update(ctx, id, models.SongPatchFromValues(v)))
}

// Delete removes the song together with its reviews and photos in one
// transaction. A missing song rolls everything back and yields
// common.ErrorNotFound.
//
// TODO: delete the photos' objects from the bucket once they are gone here.
func (s *SongService) Delete(ctx context.Context, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Reviews(tx).DeleteBySong(ctx, id); err != nil {
			return fmt.Errorf("error deleting reviews: %w", err)
		}
		if _, err := s.repomanager.Photos(tx).DeleteBySong(ctx, id); err != nil {
			return fmt.Errorf("error deleting photos: %w", err)
		}
		return notFoundIfNone(s.repomanager.Songs(tx).Delete(ctx, id))
	})
}
