// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package photo

import (
	"context"
	"io"
	"time"

	"github.com/tagmi/tagmi/internal/core/group"
	"github.com/tagmi/tagmi/internal/core/tag"
)

// # Repository Contracts

/*
Repository abstracts persistence for photos and their group associations.

Description: The interface covers the full association lifecycle: the bulk
upload fan-out, the tag-filtered listing that powers the group page, and the
per-association tag mutations. Implementations must enforce the one-row-per
(photo, group) uniqueness rule and cascade tag links when an association
dies.
*/
type Repository interface {
	/*
		CreateBatch persists a set of new photos and associates each of them
		with each of the given groups, all within a single transaction.

		Parameters:
		  - context: context.Context
		  - photos: []*Photo (fully populated, including storage keys)
		  - groupIDs: []string (already filtered to accessible groups)

		Returns:
		  - int: number of associations created
		  - error: Wrapped database errors; the transaction is rolled back on any failure
	*/
	CreateBatch(context context.Context, photos []*Photo, groupIDs []string) (int, error)

	/*
		ListAssociations returns a group's associations, newest photo first,
		each hydrated with its photo record and group-scoped tags.

		Description: When filterTagIDs is non-empty, only associations
		carrying ALL of the given tags are returned (superset match). An
		association with extra tags beyond the filter still matches.

		Parameters:
		  - context: context.Context
		  - groupID: string
		  - filterTagIDs: []string (empty slice means no filtering)

		Returns:
		  - []*Association: Hydrated associations
		  - error: Wrapped database errors
	*/
	ListAssociations(context context.Context, groupID string, filterTagIDs []string) ([]*Association, error)

	/*
		GetOrCreateAssociation finds the association row for (groupID,
		photoID), creating it when absent.

		Returns:
		  - *Association: The existing or newly created row (tags not hydrated)
		  - bool: true when the row was created by this call
		  - error: apperr.NotFound when the photo does not exist
	*/
	GetOrCreateAssociation(context context.Context, groupID, photoID string) (*Association, bool, error)

	/*
		ReplaceTags swaps an association's tag set for exactly tagIDs, inside
		one transaction. Passing an empty slice clears all tags.
	*/
	ReplaceTags(context context.Context, associationID string, tagIDs []string) error

	/*
		RemoveTagFromAssociation deletes a single tag link.

		Returns:
		  - bool: true when the link existed and was removed, false when the
		    tag was not assigned to this association
		  - error: Wrapped database errors
	*/
	RemoveTagFromAssociation(context context.Context, associationID, tagID string) (bool, error)

	/*
		FindAssociation returns the association row for (groupID, photoID),
		or apperr.NotFound.
	*/
	FindAssociation(context context.Context, groupID, photoID string) (*Association, error)

	/*
		DeleteAssociation removes the (groupID, photoID) association and its
		tag links.

		Returns:
		  - bool: true when a row was deleted, false when none existed
		  - error: Wrapped database errors
	*/
	DeleteAssociation(context context.Context, groupID, photoID string) (bool, error)
}

// # Collaborator Contracts

// BlobStore is the object storage the photo originals live in. Satisfied by
// the platform S3 store.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// GroupDirectory is the slice of the group service the photo domain needs:
// the membership check and the roster for the composite group page.
type GroupDirectory interface {
	Authorize(context context.Context, groupID, userID string) (*group.Group, error)
	AccessibleGroups(context context.Context, userID string, groupIDs []string) ([]string, error)
	ListMembers(context context.Context, groupID, userID string) ([]*group.Member, error)
}

// Vocabulary resolves tag IDs against a group's vocabulary and lists it for
// the composite group page. Satisfied by the tag service.
type Vocabulary interface {
	ListVocabulary(context context.Context, groupID, userID string) ([]*tag.Tag, error)
	Resolve(context context.Context, groupID string, tagIDs []string) ([]*tag.Tag, error)
}
