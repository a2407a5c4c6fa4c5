// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

/*
Package photo provides the PostgreSQL implementation for photo persistence.

It leans on Postgres features to keep the association model cheap:
  - ACID Transactions: The bulk upload writes N photos and N×M associations
    atomically; a failure anywhere rolls back everything.
  - Batch Pipeline: Uses the native pgx.Batch pipeline for junction inserts
    to bound network round-trips.
  - JSON Aggregation: Hydrates each association's tag list in the listing
    query itself, avoiding N+1 lookups.
*/
package photo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tagmi/tagmi/internal/platform/database/schema"
	"github.com/tagmi/tagmi/internal/platform/dberr"
	"github.com/tagmi/tagmi/pkg/uuid"
)

// # PostgreSQL Repository

// postgresRepository implements the [Repository] interface using pgx.
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed photo store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

/*
CreateBatch persists new photos and fans them out into groups atomically.

Description: Inserts every photo row, then queues one association insert per
(photo, group) pair through the pgx.Batch pipeline. Everything runs inside a
single transaction: a constraint violation or connection failure leaves no
partial rows behind.

Parameters:
  - context: context.Context
  - photos: []*Photo (IDs and storage keys already assigned)
  - groupIDs: []string (pre-filtered to groups the uploader may access)

Returns:
  - int: Number of associations created
  - error: Wrapped database errors after rollback
*/
func (repository *postgresRepository) CreateBatch(context context.Context, photos []*Photo, groupIDs []string) (int, error) {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return 0, fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(context)

	insertPhoto := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		RETURNING %s
	`,
		schema.Photo.Table,
		schema.Photo.ID, schema.Photo.StorageKey, schema.Photo.ContentType, schema.Photo.UploadedBy,
		schema.Photo.UploadedAt,
	)

	for _, photo := range photos {
		err := transaction.QueryRow(context, insertPhoto,
			photo.ID,
			photo.StorageKey,
			photo.ContentType,
			photo.UploadedBy,
		).Scan(&photo.UploadedAt)
		if err != nil {
			return 0, dberr.Wrap(err, "create photo")
		}
	}

	// Association fan-out through the batch pipeline. Each photo is new, so
	// every (photo, group) pair is guaranteed fresh and counted as created.
	insertAssociation := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)",
		schema.PhotoAssociation.Table,
		schema.PhotoAssociation.ID, schema.PhotoAssociation.PhotoID, schema.PhotoAssociation.GroupID,
	)

	batch := &pgx.Batch{}
	for _, photo := range photos {
		for _, groupID := range groupIDs {
			batch.Queue(insertAssociation, uuid.New(), photo.ID, groupID)
		}
	}

	response := transaction.SendBatch(context, batch)
	if err := response.Close(); err != nil {
		return 0, dberr.Wrap(err, "create photo associations")
	}

	if err := transaction.Commit(context); err != nil {
		return 0, fmt.Errorf("postgres: failed to commit upload transaction: %w", err)
	}

	return len(photos) * len(groupIDs), nil
}

/*
GetOrCreateAssociation finds or creates the (group, photo) association row.

Description: Tries the SELECT first; on a miss it INSERTs. A foreign-key
violation on the insert surfaces as apperr.NotFound, which is the correct
answer when the photo ID is bogus. A unique violation means a concurrent
caller won the race, so the row is re-read and returned as pre-existing.
*/
func (repository *postgresRepository) GetOrCreateAssociation(context context.Context, groupID, photoID string) (*Association, bool, error) {
	existing, err := repository.FindAssociation(context, groupID, photoID)
	if err == nil {
		return existing, false, nil
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s
	`,
		schema.PhotoAssociation.Table,
		schema.PhotoAssociation.ID, schema.PhotoAssociation.PhotoID, schema.PhotoAssociation.GroupID,
		schema.PhotoAssociation.CreatedAt,
	)

	created := &Association{
		ID:      uuid.New(),
		PhotoID: photoID,
		GroupID: groupID,
	}

	if err := repository.pool.QueryRow(context, insert, created.ID, photoID, groupID).Scan(&created.CreatedAt); err != nil {
		wrapped := dberr.Wrap(err, "create photo association")
		if dberr.IsConflict(wrapped) {
			if existing, findErr := repository.FindAssociation(context, groupID, photoID); findErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, wrapped
	}

	return created, true, nil
}

// FindAssociation returns the association row for (groupID, photoID).
func (repository *postgresRepository) FindAssociation(context context.Context, groupID, photoID string) (*Association, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
	`,
		schema.PhotoAssociation.ID, schema.PhotoAssociation.PhotoID, schema.PhotoAssociation.GroupID, schema.PhotoAssociation.CreatedAt,
		schema.PhotoAssociation.Table,
		schema.PhotoAssociation.GroupID, schema.PhotoAssociation.PhotoID,
	)

	association := &Association{}
	err := repository.pool.QueryRow(context, query, groupID, photoID).Scan(
		&association.ID,
		&association.PhotoID,
		&association.GroupID,
		&association.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find photo association")
	}
	return association, nil
}

/*
DeleteAssociation removes the (groupID, photoID) association row.

Description: The tag links die with it via ON DELETE CASCADE. The photo row
and its blob are untouched, as are the photo's associations in other groups.
Returns false rather than an error when no row existed, so callers can stay
idempotent.
*/
func (repository *postgresRepository) DeleteAssociation(context context.Context, groupID, photoID string) (bool, error) {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.PhotoAssociation.Table,
		schema.PhotoAssociation.GroupID, schema.PhotoAssociation.PhotoID,
	)

	result, err := repository.pool.Exec(context, query, groupID, photoID)
	if err != nil {
		return false, dberr.Wrap(err, "delete photo association")
	}
	return result.RowsAffected() > 0, nil
}
