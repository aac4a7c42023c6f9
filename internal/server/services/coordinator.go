// Package services contains the server's business logic. Coordinator
// implements the cross-store protocol for creating an owned record; the
// record services build on it.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/songkeeper/internal/common"
	"github.com/dmitrijs2005/songkeeper/internal/logging"
	"github.com/dmitrijs2005/songkeeper/internal/schema"
	"github.com/dmitrijs2005/songkeeper/internal/server/models"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/users"
)

// PartialFailureError reports a record that was inserted into the relational
// store but could not be linked to its owner's document. The record is left
// in place; operators reconcile it from the logged context.
type PartialFailureError struct {
	Kind     models.RecordKind
	RecordID int64
	OwnerID  string
	Err      error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure: %s %d created but not linked to owner %q: %v", e.Kind, e.RecordID, e.OwnerID, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

func (e *PartialFailureError) Is(target error) bool {
	return target == common.ErrPartialFailure
}

// InsertFunc writes a validated record and returns its id.
type InsertFunc func(ctx context.Context, values schema.Values) (int64, error)

type Coordinator struct {
	users users.Repository
	log   logging.Logger
}

func NewCoordinator(u users.Repository, log logging.Logger) *Coordinator {
	return &Coordinator{users: u, log: log.With("module", "coordinator")}
}

// CreateOwnedRecord runs, in order and stopping at the first failure:
//
//  1. validate payload against s
//  2. look up the owner named by owner_id (absent: common.ErrOwnerNotFound)
//  3. insert the record
//  4. append the new id to the owner's ownership list
//
// A failure in step 4 yields *PartialFailureError. Nothing is retried or
// rolled back, so calling again after a partial failure inserts a second row.
func (c *Coordinator) CreateOwnedRecord(ctx context.Context, kind models.RecordKind, payload map[string]any, s schema.Schema, insert InsertFunc) (int64, error) {
	if !kind.Valid() {
		return 0, fmt.Errorf("unknown record kind %q", kind)
	}

	values, err := s.Validate(payload)
	if err != nil {
		return 0, err
	}

	ownerID := values.String("owner_id")
	owner, err := c.users.GetByUserID(ctx, ownerID, users.WithoutPassword())
	if err != nil {
		return 0, fmt.Errorf("owner lookup: %w", err)
	}
	if owner == nil {
		return 0, fmt.Errorf("%w: %q", common.ErrOwnerNotFound, ownerID)
	}

	id, err := insert(ctx, values)
	if err != nil {
		return 0, fmt.Errorf("insert %s: %w", kind, err)
	}

	if err := c.users.AppendOwnedRecord(ctx, ownerID, kind, id); err != nil {
		c.log.Error(ctx, "partial failure: record created but not linked to owner",
			"kind", string(kind),
			"record_id", id,
			"owner_id", ownerID,
			"error", err,
		)
		return 0, &PartialFailureError{Kind: kind, RecordID: id, OwnerID: ownerID, Err: err}
	}

	return id, nil
}

// notFoundIfNone maps a zero affected-row count to common.ErrorNotFound.
func notFoundIfNone(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
