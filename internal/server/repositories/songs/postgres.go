package songs

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

const songColumns = `id, owner_id, name, artist, length, album, genre`

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(row scanner) (*models.Song, error) {
	s := &models.Song{}
	if err := row.Scan(&s.ID, &s.OwnerID, &s.Name, &s.Artist, &s.Length, &s.Album, &s.Genre); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *PostgresRepository) Create(ctx context.Context, song *models.Song) (int64, error) {
	query := `INSERT INTO songs (owner_id, name, artist, length, album, genre)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		song.OwnerID, song.Name, song.Artist, song.Length, song.Album, song.Genre,
	).Scan(&id)
	if err != nil {
		return 0, dbx.WrapError(err)
	}

	return id, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = $1`

	s, err := scanSong(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbx.WrapError(err)
	}
	return s, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE owner_id = $1 ORDER BY id`
	return r.list(ctx, query, ownerID)
}

func (r *PostgresRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&n); err != nil {
		return 0, dbx.WrapError(err)
	}
	return n, nil
}

// ListPage returns songs ordered by id, skipping offset rows.
func (r *PostgresRepository) ListPage(ctx context.Context, offset, limit int) ([]*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs ORDER BY id LIMIT $1 OFFSET $2`
	return r.list(ctx, query, limit, offset)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Song, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select songs: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Song, 0)
	for rows.Next() {
		s, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return result, nil
}

// Update leaves columns whose patch field is nil untouched.
func (r *PostgresRepository) Update(ctx context.Context, id int64, patch models.SongPatch) (int64, error) {
	query := `UPDATE songs SET
		name   = COALESCE($2, name),
		artist = COALESCE($3, artist),
		length = COALESCE($4, length),
		album  = COALESCE($5, album),
		genre  = COALESCE($6, genre)
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, patch.Name, patch.Artist, patch.Length, patch.Album, patch.Genre)
	return dbx.RowsAffected(res, err)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	return dbx.RowsAffected(res, err)
}
