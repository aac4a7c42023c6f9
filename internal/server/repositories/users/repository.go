// Package users keeps user profile documents in a document store.
// MongoRepository is the default backend, SurrealRepository the alternative.
package users

import (
	"context"

	"github.com/dmitrijs2005/songkeeper/internal/server/models"
)

// Repository is the document-store surface the rest of the server uses.
//
// GetByUserID returns (nil, nil) for an unknown key and leaves
// PasswordHash empty unless WithPassword is passed.
// AppendOwnedRecord returns common.ErrorNotFound when no user matched.
type Repository interface {
	Create(ctx context.Context, user *models.User) (string, error)
	GetByUserID(ctx context.Context, userID string, opts ...FetchOption) (*models.User, error)
	AppendOwnedRecord(ctx context.Context, userID string, kind models.RecordKind, id int64) error
	EnsureIndexes(ctx context.Context) error
	Ping(ctx context.Context) error
}

type fetchOptions struct {
	withPassword bool
}

type FetchOption func(*fetchOptions)

// WithPassword includes the password hash. Only login should use it.
func WithPassword() FetchOption {
	return func(o *fetchOptions) { o.withPassword = true }
}

// WithoutPassword is the default; it exists so call sites can say so.
func WithoutPassword() FetchOption {
	return func(o *fetchOptions) { o.withPassword = false }
}

func applyFetchOptions(opts []FetchOption) fetchOptions {
	var o fetchOptions
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
