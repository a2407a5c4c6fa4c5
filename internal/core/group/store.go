// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package group

import "context"

// # Group Data Access

// Repository defines the data access contract for groups and memberships.
type Repository interface {

	/*
		Create persists a new group together with its initial member set.

		Description: Runs in a single transaction so a group can never exist
		without its creator on the roster.

		Parameters:
		  - context: context.Context
		  - group: *Group
		  - memberIDs: []string (Deduplicated user UUIDs, creator included)

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, group *Group, memberIDs []string) error

	/*
		ListByMember returns a paginated slice of the groups a user belongs to,
		newest first, and the total count.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - limit: int
		  - offset: int

		Returns:
		  - []*Group: Slice of groups the user is a member of
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	ListByMember(context context.Context, userID string, limit, offset int) ([]*Group, int, error)

	/*
		FindForMember retrieves a group only if the user is on its roster.

		Description: This is the authorization query. A missing group and a
		group the user is not a member of are indistinguishable: both return
		NotFound.

		Parameters:
		  - context: context.Context
		  - groupID: string (UUIDv7)
		  - userID: string

		Returns:
		  - *Group: Hydrated entity
		  - error: apperr.NotFound if missing or inaccessible
	*/
	FindForMember(context context.Context, groupID, userID string) (*Group, error)

	/*
		FilterAccessible narrows candidate group IDs to those the user belongs to.

		Description: Invalid, unknown, and inaccessible IDs are silently dropped
		from the result, preserving input order is not required.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - groupIDs: []string (Candidate UUIDs)

		Returns:
		  - []string: The accessible subset
		  - error: Retrieval failures
	*/
	FilterAccessible(context context.Context, userID string, groupIDs []string) ([]string, error)

	/*
		ListMembers returns all users affiliated with a group.

		Parameters:
		  - context: context.Context
		  - groupID: string

		Returns:
		  - []*Member: List of affiliated users, oldest first
		  - error: Retrieval failures
	*/
	ListMembers(context context.Context, groupID string) ([]*Member, error)

	/*
		Delete permanently removes a group.

		Description: Hard delete. Cascades remove memberships, the group's tag
		vocabulary, and every photo association scoped to the group. Photo rows
		and blobs survive, since they may live on in other groups.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error
}
