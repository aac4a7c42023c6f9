package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/songkeeper/internal/dbx"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/photos"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/songs"
)

// RepositoryManager vends relational repositories bound to a DBTX, so a
// service can get the same repositories over a *sql.DB or inside a
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Songs(db dbx.DBTX) songs.Repository
	Reviews(db dbx.DBTX) reviews.Repository
	Photos(db dbx.DBTX) photos.Repository
}
