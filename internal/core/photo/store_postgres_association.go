// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package photo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tagmi/tagmi/internal/platform/database/schema"
	"github.com/tagmi/tagmi/internal/platform/dberr"
)

// # Association Queries

/*
ListAssociations returns a group's photo associations, newest upload first.

Description: A single round-trip hydrates everything the group page needs:
  - JSON Aggregation: Each association's group-scoped tags arrive as a JSON
    array built by a correlated sub-query, ordered by tag name.
  - Superset Filter: When filter tags are given, a correlated COUNT checks
    that the association links every one of them. Associations carrying
    extra tags beyond the filter still match; missing even one excludes it.

Parameters:
  - context: context.Context
  - groupID: string
  - filterTagIDs: []string (empty means no filtering)

Returns:
  - []*Association: Hydrated associations with photo and tags
  - error: Wrapped database errors
*/
func (repository *postgresRepository) ListAssociations(context context.Context, groupID string, filterTagIDs []string) ([]*Association, error) {
	query := fmt.Sprintf(`
		SELECT
			pt.%s, pt.%s, pt.%s, pt.%s,
			p.%s, p.%s, p.%s, p.%s, p.%s,
			COALESCE((
				SELECT json_agg(json_build_object('id', t.%s, 'name', t.%s, 'group_id', t.%s) ORDER BY t.%s ASC)
				FROM %s t
				JOIN %s x ON t.%s = x.%s
				WHERE x.%s = pt.%s
			), '[]') AS tags
		FROM %s pt
		JOIN %s p ON p.%s = pt.%s
		WHERE pt.%s = $1
	`,
		schema.PhotoAssociation.ID, schema.PhotoAssociation.PhotoID, schema.PhotoAssociation.GroupID, schema.PhotoAssociation.CreatedAt,
		schema.Photo.ID, schema.Photo.StorageKey, schema.Photo.ContentType, schema.Photo.UploadedBy, schema.Photo.UploadedAt,
		schema.Tag.ID, schema.Tag.Name, schema.Tag.GroupID, schema.Tag.Name,
		schema.Tag.Table,
		schema.PhotoAssociationTag.Table, schema.Tag.ID, schema.PhotoAssociationTag.TagID,
		schema.PhotoAssociationTag.AssociationID, schema.PhotoAssociation.ID,
		schema.PhotoAssociation.Table,
		schema.Photo.Table, schema.Photo.ID, schema.PhotoAssociation.PhotoID,
		schema.PhotoAssociation.GroupID,
	)

	args := []any{groupID}

	// AND-semantics filter: the association must link all requested tags.
	if len(filterTagIDs) > 0 {
		query += fmt.Sprintf(`
		AND (
			SELECT COUNT(*) FROM %s x
			WHERE x.%s = pt.%s AND x.%s = ANY($2)
		) = $3
	`,
			schema.PhotoAssociationTag.Table,
			schema.PhotoAssociationTag.AssociationID, schema.PhotoAssociation.ID,
			schema.PhotoAssociationTag.TagID,
		)
		args = append(args, filterTagIDs, len(filterTagIDs))
	}

	query += fmt.Sprintf(" ORDER BY p.%s DESC", schema.Photo.UploadedAt)

	rows, err := repository.pool.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "list photo associations")
	}
	defer rows.Close()

	associations := []*Association{}
	for rows.Next() {
		association := &Association{Photo: &Photo{}}
		var tagsJSON []byte

		err := rows.Scan(
			&association.ID,
			&association.PhotoID,
			&association.GroupID,
			&association.CreatedAt,
			&association.Photo.ID,
			&association.Photo.StorageKey,
			&association.Photo.ContentType,
			&association.Photo.UploadedBy,
			&association.Photo.UploadedAt,
			&tagsJSON,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan photo association")
		}

		if err := json.Unmarshal(tagsJSON, &association.Tags); err != nil {
			return nil, fmt.Errorf("postgres: failed to decode association tags: %w", err)
		}

		associations = append(associations, association)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list photo associations")
	}
	return associations, nil
}

/*
ReplaceTags swaps an association's tag links for exactly tagIDs.

Description: Implements a "Clear and Insert" strategy inside one transaction:
flush the junction rows for the association, then queue one insert per tag
through the pgx.Batch pipeline. An empty tagIDs slice therefore clears the
association's tags.
*/
func (repository *postgresRepository) ReplaceTags(context context.Context, associationID string, tagIDs []string) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin transaction: %w", err)
	}
	defer transaction.Rollback(context)

	flush := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1",
		schema.PhotoAssociationTag.Table, schema.PhotoAssociationTag.AssociationID,
	)
	if _, err := transaction.Exec(context, flush, associationID); err != nil {
		return dberr.Wrap(err, "clear association tags")
	}

	if len(tagIDs) > 0 {
		insert := fmt.Sprintf(
			"INSERT INTO %s (%s, %s) VALUES ($1, $2)",
			schema.PhotoAssociationTag.Table,
			schema.PhotoAssociationTag.AssociationID, schema.PhotoAssociationTag.TagID,
		)

		batch := &pgx.Batch{}
		for _, tagID := range tagIDs {
			batch.Queue(insert, associationID, tagID)
		}

		response := transaction.SendBatch(context, batch)
		if err := response.Close(); err != nil {
			return dberr.Wrap(err, "replace association tags")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit tag replacement: %w", err)
	}
	return nil
}

// RemoveTagFromAssociation deletes one tag link, reporting whether it existed.
func (repository *postgresRepository) RemoveTagFromAssociation(context context.Context, associationID, tagID string) (bool, error) {
	query := fmt.Sprintf(
		"DELETE FROM %s WHERE %s = $1 AND %s = $2",
		schema.PhotoAssociationTag.Table,
		schema.PhotoAssociationTag.AssociationID, schema.PhotoAssociationTag.TagID,
	)

	result, err := repository.pool.Exec(context, query, associationID, tagID)
	if err != nil {
		return false, dberr.Wrap(err, "remove association tag")
	}
	return result.RowsAffected() > 0, nil
}
