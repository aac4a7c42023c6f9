package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/songkeeper/internal/dbx"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const photoColumns = `id, owner_id, song_id, caption, storage_key`

func (r *PostgresRepository) Create(ctx context.Context, photo *models.Photo) (int64, error) {
	query := `INSERT INTO photos (owner_id, song_id, caption, storage_key)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, photo.OwnerID, photo.SongID, photo.Caption, photo.StorageKey).Scan(&id)
	if err != nil {
		return 0, dbx.WrapError(err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	p := &models.Photo{}
	err := r.db.QueryRowContext(ctx, `SELECT `+photoColumns+` FROM photos WHERE id = $1`, id).
		Scan(&p.ID, &p.OwnerID, &p.SongID, &p.Caption, &p.StorageKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return p, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Photo, error) {
	return r.list(ctx, `SELECT `+photoColumns+` FROM photos WHERE owner_id = $1 ORDER BY id`, ownerID)
}

func (r *PostgresRepository) ListBySong(ctx context.Context, songID int64) ([]*models.Photo, error) {
	return r.list(ctx, `SELECT `+photoColumns+` FROM photos WHERE song_id = $1 ORDER BY id`, songID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.Photo, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Photo, 0)
	for rows.Next() {
		p := &models.Photo{}
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.SongID, &p.Caption, &p.StorageKey); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) UpdateCaption(ctx context.Context, id int64, caption string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE photos SET caption = $2 WHERE id = $1`, id, caption)
	return dbx.RowsAffected(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id)
	return dbx.RowsAffected(res, err)
}

func (r *PostgresRepository) DeleteBySong(ctx context.Context, songID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE song_id = $1`, songID)
	return dbx.RowsAffected(res, err)
}
