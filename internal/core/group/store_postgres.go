// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package group

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tagmi/tagmi/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed group store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Group Mutation

/*
Create inserts a new group record and its initial roster atomically.

Description: Executes within an ACID transaction:
1. Inserts the core.photogroup row.
2. Inserts one core.photogroupmember row per member ID.
Rolls back completely if any stage fails, so a group can never exist
without members.

Parameters:
  - context: context.Context
  - group: *Group
  - memberIDs: []string (Deduplicated, creator included)

Returns:
  - error: Transactional or database failures
*/
func (repository *PostgresRepository) Create(context context.Context, group *Group, memberIDs []string) error {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_create_group_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Persist the group itself
	const groupQuery = `
		INSERT INTO core.photogroup (id, name, createdby, createdat)
		VALUES ($1, $2, $3, NOW())
		RETURNING createdat
	`
	err = transaction.QueryRow(context, groupQuery, group.ID, group.Name, group.CreatedBy).Scan(&group.CreatedAt)
	if err != nil {
		return dberr.Wrap(err, "insert_group")
	}

	// Step 2: Persist the roster. ON CONFLICT guards against duplicate IDs
	// slipping past service-level deduplication.
	const memberQuery = `
		INSERT INTO core.photogroupmember (groupid, userid, joinedat)
		VALUES ($1, $2, NOW())
		ON CONFLICT DO NOTHING
	`
	for _, userID := range memberIDs {
		if _, err := transaction.Exec(context, memberQuery, group.ID, userID); err != nil {
			return dberr.Wrap(err, "insert_group_member")
		}
	}

	group.MemberCount = len(memberIDs)

	// Persist Atomic Changeset
	return transaction.Commit(context)
}

/*
Delete permanently removes a group row.

Description: Hard delete. ON DELETE CASCADE rules sweep memberships, the
group's tag vocabulary, and every photo association scoped to it.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = `DELETE FROM core.photogroup WHERE id = $1`
	_, err := repository.db.Exec(context, query, id)
	return dberr.Wrap(err, "delete_group")
}

// # Group Retrieval

/*
ListByMember returns the groups a user belongs to, newest first.

Description: Joins through the membership table and uses COUNT(*) OVER()
for total metadata in a single round trip.

Parameters:
  - context: context.Context
  - userID: string
  - limit: int
  - offset: int

Returns:
  - []*Group: Slice of accessible groups
  - int: Total record count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListByMember(context context.Context, userID string, limit, offset int) ([]*Group, int, error) {
	const query = `
		SELECT
			g.id, g.name, g.createdby, g.createdat,
			(SELECT COUNT(*) FROM core.photogroupmember c WHERE c.groupid = g.id) AS membercount,
			COUNT(*) OVER() AS total
		FROM core.photogroup g
		JOIN core.photogroupmember m ON m.groupid = g.id
		WHERE m.userid = $1
		ORDER BY g.createdat DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := repository.db.Query(context, query, userID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_groups_by_member")
	}
	defer rows.Close()

	var groups []*Group
	var total int
	for rows.Next() {
		group := &Group{}
		err := rows.Scan(&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt, &group.MemberCount, &total)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_group")
		}
		groups = append(groups, group)
	}

	return groups, total, nil
}

/*
FindForMember retrieves a group gated by the caller's membership.

Description: The membership join IS the authorization check. Zero rows means
either "no such group" or "not your group" and both collapse into NotFound.

Parameters:
  - context: context.Context
  - groupID: string
  - userID: string

Returns:
  - *Group: Hydrated entity
  - error: apperr.NotFound or database failures
*/
func (repository *PostgresRepository) FindForMember(context context.Context, groupID, userID string) (*Group, error) {
	const query = `
		SELECT
			g.id, g.name, g.createdby, g.createdat,
			(SELECT COUNT(*) FROM core.photogroupmember c WHERE c.groupid = g.id) AS membercount
		FROM core.photogroup g
		JOIN core.photogroupmember m ON m.groupid = g.id
		WHERE g.id = $1 AND m.userid = $2
	`
	group := &Group{}
	err := repository.db.QueryRow(context, query, groupID, userID).Scan(
		&group.ID, &group.Name, &group.CreatedBy, &group.CreatedAt, &group.MemberCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find_group_for_member")
	}
	return group, nil
}

/*
FilterAccessible narrows candidate group IDs to the user's memberships.

Parameters:
  - context: context.Context
  - userID: string
  - groupIDs: []string

Returns:
  - []string: Accessible subset (unknown and foreign IDs dropped)
  - error: Retrieval failures
*/
func (repository *PostgresRepository) FilterAccessible(context context.Context, userID string, groupIDs []string) ([]string, error) {
	const query = `
		SELECT m.groupid
		FROM core.photogroupmember m
		WHERE m.userid = $1 AND m.groupid = ANY($2)
	`

	rows, err := repository.db.Query(context, query, userID, groupIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "filter_accessible_groups")
	}
	defer rows.Close()

	var accessible []string
	for rows.Next() {
		var groupID string
		if err := rows.Scan(&groupID); err != nil {
			return nil, dberr.Wrap(err, "scan_accessible_group")
		}
		accessible = append(accessible, groupID)
	}

	return accessible, nil
}

// # Membership Implementation

/*
ListMembers retrieves all affiliated users, oldest first.

Parameters:
  - context: context.Context
  - groupID: string

Returns:
  - []*Member: List of affiliated users
  - error: Retrieval failures
*/
func (repository *PostgresRepository) ListMembers(context context.Context, groupID string) ([]*Member, error) {
	const query = `
		SELECT m.groupid, m.userid, u.username, u.displayname, m.joinedat
		FROM core.photogroupmember m
		JOIN users.account u ON m.userid = u.id
		WHERE m.groupid = $1
		ORDER BY m.joinedat ASC
	`
	rows, err := repository.db.Query(context, query, groupID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_group_members")
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		member := &Member{}
		if err := rows.Scan(&member.GroupID, &member.UserID, &member.Username, &member.DisplayName, &member.JoinedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_member")
		}
		members = append(members, member)
	}

	return members, nil
}
