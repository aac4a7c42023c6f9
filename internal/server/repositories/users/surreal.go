package users

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	sdbmodels "github.com/surrealdb/surrealdb.go/pkg/models"
	"github.com/surrealdb/surrealdb.go/surrealcbor"
)

const surrealTable = "users"

type surrealUser struct {
	ID           *sdbmodels.RecordID `json:"id,omitempty"`
	UserID       string              `json:"user_id"`
	Name         string              `json:"name"`
	Email        string              `json:"email"`
	PasswordHash string              `json:"password_hash,omitempty"`
	Songs        []int64             `json:"songs"`
	Reviews      []int64             `json:"reviews"`
	Photos       []int64             `json:"photos"`
}

func (d *surrealUser) toModel() *models.User {
	u := &models.User{
		UserID:       d.UserID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Songs:        nonNil(d.Songs),
		Reviews:      nonNil(d.Reviews),
		Photos:       nonNil(d.Photos),
	}
	if d.ID != nil {
		u.ID = d.ID.String()
	}
	return u
}

// surrealClient is the query surface SurrealRepository needs. It keeps the
// generic surrealdb.Query calls in one place so tests can substitute it.
type surrealClient interface {
	selectUsers(ctx context.Context, sql string, vars map[string]any) ([]surrealUser, error)
	exec(ctx context.Context, sql string, vars map[string]any) error
}

type surrealDBClient struct {
	db *surrealdb.DB
}

func (c surrealDBClient) selectUsers(ctx context.Context, sql string, vars map[string]any) ([]surrealUser, error) {
	res, err := surrealdb.Query[[]surrealUser](ctx, c.db, sql, vars)
	if err != nil {
		return nil, err
	}
	if res == nil || len(*res) == 0 {
		return nil, nil
	}
	return (*res)[len(*res)-1].Result, nil
}

func (c surrealDBClient) exec(ctx context.Context, sql string, vars map[string]any) error {
	_, err := surrealdb.Query[any](ctx, c.db, sql, vars)
	return err
}

type SurrealRepository struct {
	client surrealClient
	db     *surrealdb.DB
}

func NewSurrealRepository(db *surrealdb.DB) *SurrealRepository {
	return &SurrealRepository{client: surrealDBClient{db: db}, db: db}
}

// ConnectSurreal opens a websocket connection using the surrealcbor codec,
// signs in when credentials are set and selects namespace and database.
func ConnectSurreal(ctx context.Context, wsURL, namespace, database, user, password string) (*surrealdb.DB, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("parse surreal url: %w", err)
	}

	conf := connection.NewConfig(u)
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	db, err := surrealdb.FromConnection(ctx, gorillaws.New(conf))
	if err != nil {
		return nil, fmt.Errorf("surreal connect: %w", err)
	}

	if user != "" && password != "" {
		if _, err := db.SignIn(ctx, map[string]any{"user": user, "pass": password}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("surreal signin: %w", err)
		}
	}
	if err := db.Use(ctx, namespace, database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("surreal use: %w", err)
	}
	return db, nil
}

func (r *SurrealRepository) Create(ctx context.Context, user *models.User) (string, error) {
	created, err := r.client.selectUsers(ctx, `CREATE type::table($tb) CONTENT $content`, map[string]any{
		"tb": surrealTable,
		"content": map[string]any{
			"user_id":       user.UserID,
			"name":          user.Name,
			"email":         user.Email,
			"password_hash": user.PasswordHash,
			"songs":         nonNil(user.Songs),
			"reviews":       nonNil(user.Reviews),
			"photos":        nonNil(user.Photos),
		},
	})
	if err != nil {
		if isSurrealDuplicate(err) {
			return "", fmt.Errorf("user %q: %w", user.UserID, common.ErrAlreadyExists)
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	if len(created) == 0 || created[0].ID == nil {
		return "", fmt.Errorf("db error: create returned no record")
	}
	return created[0].ID.String(), nil
}

func (r *SurrealRepository) GetByUserID(ctx context.Context, userID string, opts ...FetchOption) (*models.User, error) {
	query := `SELECT * OMIT password_hash FROM type::table($tb) WHERE user_id = $user_id LIMIT 1`
	if applyFetchOptions(opts).withPassword {
		query = `SELECT * FROM type::table($tb) WHERE user_id = $user_id LIMIT 1`
	}

	found, err := r.client.selectUsers(ctx, query, map[string]any{"tb": surrealTable, "user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if len(found) == 0 {
		return nil, nil
	}
	return found[0].toModel(), nil
}

// AppendOwnedRecord builds the SET clause from kind.OwnershipField, a fixed
// set of names, never from request data.
func (r *SurrealRepository) AppendOwnedRecord(ctx context.Context, userID string, kind models.RecordKind, id int64) error {
	field := kind.OwnershipField()
	if field == "" {
		return fmt.Errorf("unknown record kind %q", kind)
	}

	query := fmt.Sprintf(`UPDATE type::table($tb) SET %s += $id WHERE user_id = $user_id RETURN AFTER`, field)
	updated, err := r.client.selectUsers(ctx, query, map[string]any{
		"tb":      surrealTable,
		"id":      id,
		"user_id": userID,
	})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if len(updated) == 0 {
		return fmt.Errorf("user %q: %w", userID, common.ErrorNotFound)
	}
	return nil
}

func (r *SurrealRepository) EnsureIndexes(ctx context.Context) error {
	err := r.client.exec(ctx,
		`DEFINE INDEX IF NOT EXISTS user_id_unique ON TABLE users FIELDS user_id UNIQUE`, nil)
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	return nil
}

func (r *SurrealRepository) Ping(ctx context.Context) error {
	return r.client.exec(ctx, `RETURN true`, nil)
}

// Close releases the underlying connection.
func (r *SurrealRepository) Close(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.Close(ctx)
}

func isSurrealDuplicate(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "already contains") || strings.Contains(msg, "user_id_unique")
}
