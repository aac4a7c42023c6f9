package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/schema"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/dmitrijs2005/songkeeper/internal/server/objectstore"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/repomanager"
)

type PhotoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	coordinator *Coordinator
	store       objectstore.Presigner
}

func NewPhotoService(db *sql.DB, m repomanager.RepositoryManager, c *Coordinator, store objectstore.Presigner) *PhotoService {
	return &PhotoService{db: db, repomanager: m, coordinator: c, store: store}
}

// Create assigns a storage key, presigns an upload URL for it and stores the
// photo. The URL is signed before the insert, so a signing failure leaves
// nothing behind.
func (s *PhotoService) Create(ctx context.Context, payload map[string]any) (int64, string, error) {
	var uploadURL string

	id, err := s.coordinator.CreateOwnedRecord(ctx, models.KindPhoto, payload, models.PhotoCreateSchema,
		func(ctx context.Context, v schema.Values) (int64, error) {
			photo := models.PhotoFromValues(v)
			photo.StorageKey = s.store.NewKey()

			u, err := s.store.PresignPut(ctx, photo.StorageKey)
			if err != nil {
				return 0, err
			}
			uploadURL = u

			return s.repomanager.Photos(s.db).Create(ctx, photo)
		})
	if err != nil {
		return 0, "", err
	}
	return id, uploadURL, nil
}

// Get returns the photo with a presigned download URL.
func (s *PhotoService) Get(ctx context.Context, id int64) (*models.PhotoWithURL, error) {
	p, err := s.repomanager.Photos(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting photo: %w", err)
	}
	if p == nil {
		return nil, common.ErrorNotFound
	}

	u, err := s.store.PresignGet(ctx, p.StorageKey)
	if err != nil {
		return nil, err
	}
	return &models.PhotoWithURL{Photo: p, URL: u}, nil
}

func (s *PhotoService) ListByOwner(ctx context.Context, ownerID string) ([]*models.Photo, error) {
	return s.repomanager.Photos(s.db).ListByOwner(ctx, ownerID)
}

func (s *PhotoService) Update(ctx context.Context, id int64, payload map[string]any) error {
	v, err := models.PhotoUpdateSchema.Validate(payload)
	if err != nil {
		return err
	}
	return notFoundIfNone(s.repomanager.Photos(s.db).UpdateCaption(ctx, id, v.String("caption")))
}

func (s *PhotoService) Delete(ctx context.Context, id int64) error {
	return notFoundIfNone(s.repomanager.Photos(s.db).Delete(ctx, id))
}
