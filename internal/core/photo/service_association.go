// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package photo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tagmi/tagmi/internal/platform/apperr"
	"github.com/tagmi/tagmi/internal/platform/constants"
)

// # Group Page & Tag Assignment

/*
GroupDetail assembles the composite group page in one authorized pass.

Description: A single membership check covers everything; the roster and
vocabulary reads run under the caller's identity. Filter tag IDs that do not
belong to the group's vocabulary are dropped rather than rejected, matching
the permissive handling of stale links. Each surviving association gets a
presigned download URL.

Parameters:
  - context: context.Context
  - groupID: string
  - userID: string
  - filterTagIDs: []string (raw ?tags= selection, may reference foreign tags)

Returns:
  - *GroupDetail: Group, members, vocabulary, and filtered photos
  - error: apperr.NotFound for non-members, or wrapped downstream errors
*/
func (service *Service) GroupDetail(context context.Context, groupID, userID string, filterTagIDs []string) (*GroupDetail, error) {
	accessibleGroup, err := service.groups.Authorize(context, groupID, userID)
	if err != nil {
		return nil, err
	}

	members, err := service.groups.ListMembers(context, groupID, userID)
	if err != nil {
		return nil, err
	}

	vocabulary, err := service.tags.ListVocabulary(context, groupID, userID)
	if err != nil {
		return nil, err
	}

	// Drop filter IDs outside this group's vocabulary.
	resolvedFilter := []string{}
	if len(filterTagIDs) > 0 {
		resolved, err := service.tags.Resolve(context, groupID, filterTagIDs)
		if err != nil {
			return nil, err
		}
		for _, entry := range resolved {
			resolvedFilter = append(resolvedFilter, entry.ID)
		}
	}

	associations, err := service.repo.ListAssociations(context, groupID, resolvedFilter)
	if err != nil {
		return nil, err
	}

	for _, association := range associations {
		url, err := service.blobs.PresignGet(context, association.Photo.StorageKey, constants.PresignedURLTTL)
		if err != nil {
			return nil, fmt.Errorf("photo: failed to presign download: %w", err)
		}
		association.ImageURL = url
	}

	return &GroupDetail{
		Group:        accessibleGroup,
		Members:      members,
		Vocabulary:   vocabulary,
		Photos:       associations,
		FilterTagIDs: resolvedFilter,
	}, nil
}

/*
AssignTags replaces a photo's tag set within one group.

Description: The association row is created on demand, so tagging a photo
that was shared into the group but never tagged "adopts" it. The submitted
tag IDs are resolved against the group's vocabulary before anything is
written; any foreign or unknown ID fails the whole request, keeping the
replacement all-or-nothing. An empty set clears the photo's tags.

Parameters:
  - context: context.Context
  - groupID: string
  - userID: string
  - photoID: string
  - tagIDs: []string (the complete desired tag set)

Returns:
  - string: Confirmation message
  - error: apperr.NotFound (group, photo), validation errors, or wrapped database errors
*/
func (service *Service) AssignTags(context context.Context, groupID, userID, photoID string, tagIDs []string) (string, error) {
	accessibleGroup, err := service.groups.Authorize(context, groupID, userID)
	if err != nil {
		return "", err
	}

	desired := deduplicate(tagIDs)

	if len(desired) > 0 {
		resolved, err := service.tags.Resolve(context, groupID, desired)
		if err != nil {
			return "", err
		}
		if len(resolved) != len(desired) {
			return "", apperr.ValidationError("One or more tags do not belong to this group.")
		}
	}

	association, _, err := service.repo.GetOrCreateAssociation(context, groupID, photoID)
	if err != nil {
		return "", err
	}

	if err := service.repo.ReplaceTags(context, association.ID, desired); err != nil {
		return "", err
	}

	service.logger.Info("photo_tags_assigned",
		slog.String("group_id", groupID),
		slog.String("photo_id", photoID),
		slog.Int("tags", len(desired)),
	)

	return fmt.Sprintf("Tags updated for photo in group '%s'.", accessibleGroup.Name), nil
}

/*
RemoveTagFromPhoto detaches a single tag from a photo within one group.

Description: The tag must exist in the group's vocabulary; the photo must be
associated with the group. When both hold but the tag was simply never
assigned, the operation reports that outcome instead of failing, so repeated
removals are safe.
*/
func (service *Service) RemoveTagFromPhoto(context context.Context, groupID, userID, photoID, tagID string) (string, error) {
	accessibleGroup, err := service.groups.Authorize(context, groupID, userID)
	if err != nil {
		return "", err
	}

	resolved, err := service.tags.Resolve(context, groupID, []string{tagID})
	if err != nil {
		return "", err
	}
	if len(resolved) == 0 {
		return "", apperr.NotFound("Tag")
	}
	removedTag := resolved[0]

	association, err := service.repo.FindAssociation(context, groupID, photoID)
	if err != nil {
		return "", err
	}

	removed, err := service.repo.RemoveTagFromAssociation(context, association.ID, removedTag.ID)
	if err != nil {
		return "", err
	}
	if !removed {
		return fmt.Sprintf("Tag '%s' was not assigned to this photo in group '%s'.", removedTag.Name, accessibleGroup.Name), nil
	}

	service.logger.Info("photo_tag_removed",
		slog.String("group_id", groupID),
		slog.String("photo_id", photoID),
		slog.String("tag_id", removedTag.ID),
	)

	return fmt.Sprintf("Tag '%s' removed from photo in group '%s'.", removedTag.Name, accessibleGroup.Name), nil
}

/*
RemovePhotoFromGroup deletes a photo's association with one group.

Description: Purely an association delete: the photo row, its blob, and its
presence in other groups are untouched. Removing an already-removed photo
succeeds with the same message, so concurrent removals cannot fail each
other.
*/
func (service *Service) RemovePhotoFromGroup(context context.Context, groupID, userID, photoID string) (string, error) {
	accessibleGroup, err := service.groups.Authorize(context, groupID, userID)
	if err != nil {
		return "", err
	}

	removed, err := service.repo.DeleteAssociation(context, groupID, photoID)
	if err != nil {
		return "", err
	}

	if removed {
		service.logger.Info("photo_removed_from_group",
			slog.String("group_id", groupID),
			slog.String("photo_id", photoID),
		)
	}

	return fmt.Sprintf("Photo removed from group '%s'.", accessibleGroup.Name), nil
}

// deduplicate preserves first-seen order.
func deduplicate(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	unique := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
