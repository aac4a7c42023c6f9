package dbx

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// WrapError turns driver errors into domain sentinels where one applies and
// wraps everything else as "db error". A nil err stays nil.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", common.ErrReferenceNotFound, pgErr.ConstraintName)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", common.ErrAlreadyExists, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("db error: %w", err)
}

// RowsAffected is the usual tail of an ExecContext call: it wraps err and
// reads the affected row count.
func RowsAffected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, WrapError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
