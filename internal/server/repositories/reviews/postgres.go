package reviews

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

const reviewColumns = `id, owner_id, song_id, rating, text`

// Create fails with common.ErrReferenceNotFound when the song is missing.
func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (int64, error) {
	query := `INSERT INTO reviews (owner_id, song_id, rating, text)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, review.OwnerID, review.SongID, review.Rating, review.Text).Scan(&id)
	if err != nil {
		return 0, dbx.WrapError(err)
	}
	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	rv := &models.Review{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&rv.ID, &rv.OwnerID, &rv.SongID, &rv.Rating, &rv.Text)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return rv, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE owner_id = $1 ORDER BY id`, ownerID)
}

func (r *PostgresRepository) ListBySong(ctx context.Context, songID int64) ([]*models.Review, error) {
	return r.list(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE song_id = $1 ORDER BY id`, songID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to select reviews: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Review, 0)
	for rows.Next() {
		rv := &models.Review{}
		if err := rows.Scan(&rv.ID, &rv.OwnerID, &rv.SongID, &rv.Rating, &rv.Text); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, patch models.ReviewPatch) (int64, error) {
	query := `UPDATE reviews SET
		rating = COALESCE($2, rating),
		text   = COALESCE($3, text)
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, patch.Rating, patch.Text)
	return dbx.RowsAffected(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	return dbx.RowsAffected(res, err)
}

func (r *PostgresRepository) DeleteBySong(ctx context.Context, songID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE song_id = $1`, songID)
	return dbx.RowsAffected(res, err)
}
