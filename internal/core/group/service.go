// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package group

import (
	"context"
	"log/slog"

	"github.com/tagmi/tagmi/internal/platform/validate"
	"github.com/tagmi/tagmi/pkg/uuid"
)

// # Service Layer

// Service orchestrates business rules for photo groups and memberships.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new group [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// # Group Management

// CreateInput holds the data required to open a new sharing circle.
type CreateInput struct {
	Name      string
	MemberIDs []string
}

/*
CreateGroup initialises a new sharing circle.

Description: The creator is always on the roster, no matter what the submitted
member list contains: member IDs are treated as a set with the creator unioned
in, so listing yourself (or listing someone twice) is harmless.

Parameters:
  - context: context.Context
  - input: CreateInput
  - creatorID: string (The user creating the group)

Returns:
  - *Group: Created entity with roster size
  - error: Validation or persistence failures
*/
func (service *Service) CreateGroup(context context.Context, input CreateInput, creatorID string) (*Group, error) {
	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 255)
	validator.Custom(FieldMembers, len(input.MemberIDs) == 0, "Select at least one member")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Set semantics: dedupe and force the creator in.
	memberIDs := uniqueWith(input.MemberIDs, creatorID)

	group := &Group{
		ID:        uuid.New(),
		Name:      input.Name,
		CreatedBy: &creatorID,
	}

	if err := service.repo.Create(context, group, memberIDs); err != nil {
		return nil, err
	}

	service.logger.Info("group_created",
		slog.String("group_id", group.ID),
		slog.String("creator_id", creatorID),
		slog.Int("member_count", len(memberIDs)),
	)

	return group, nil
}

/*
ListGroups retrieves the paginated list of groups the user belongs to.

Parameters:
  - context: context.Context
  - userID: string
  - limit, offset: int

Returns:
  - []*Group: Groups the user is a member of, newest first
  - int: Total matching count
  - error: Retrieval errors
*/
func (service *Service) ListGroups(context context.Context, userID string, limit, offset int) ([]*Group, int, error) {
	return service.repo.ListByMember(context, userID, limit, offset)
}

/*
DeleteGroup removes a group the caller is a member of.

Description: Guarded by [Service.Authorize]; any member may dissolve the
group. Cascades clean up memberships, the vocabulary, and associations.

Parameters:
  - context: context.Context
  - groupID: string
  - userID: string

Returns:
  - error: NotFound (missing or inaccessible) or persistence failures
*/
func (service *Service) DeleteGroup(context context.Context, groupID, userID string) error {
	group, err := service.Authorize(context, groupID, userID)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, group.ID); err != nil {
		return err
	}

	service.logger.Info("group_deleted",
		slog.String("group_id", group.ID),
		slog.String("user_id", userID),
	)

	return nil
}

// # Authorization Boundary

/*
Authorize resolves a group if and only if the user is a member of it.

Description: This is the single chokepoint other domains use before touching
anything group-scoped. Absence and denial are deliberately conflated: a
non-member receives the same NotFound as a request for a group that never
existed, so group IDs cannot be probed.

Parameters:
  - context: context.Context
  - groupID: string
  - userID: string

Returns:
  - *Group: The group, when accessible
  - error: apperr.NotFound otherwise
*/
func (service *Service) Authorize(context context.Context, groupID, userID string) (*Group, error) {
	return service.repo.FindForMember(context, groupID, userID)
}

/*
AccessibleGroups narrows candidate group IDs to those the user may post into.

Description: Used by the bulk upload fan-out. IDs that do not exist, or that
belong to groups the user is not a member of, are dropped silently rather
than rejected.

Parameters:
  - context: context.Context
  - userID: string
  - groupIDs: []string

Returns:
  - []string: The accessible subset (possibly empty)
  - error: Retrieval failures
*/
func (service *Service) AccessibleGroups(context context.Context, userID string, groupIDs []string) ([]string, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}
	return service.repo.FilterAccessible(context, userID, groupIDs)
}

// # Membership Controls

/*
ListMembers returns the roster for a group the caller belongs to.

Parameters:
  - context: context.Context
  - groupID: string
  - userID: string (Caller, for the membership gate)

Returns:
  - []*Member: List of affiliated users
  - error: NotFound or retrieval failures
*/
func (service *Service) ListMembers(context context.Context, groupID, userID string) ([]*Member, error) {
	if _, err := service.Authorize(context, groupID, userID); err != nil {
		return nil, err
	}
	return service.repo.ListMembers(context, groupID)
}

// uniqueWith deduplicates ids and guarantees required is present.
func uniqueWith(ids []string, required string) []string {
	seen := map[string]struct{}{required: {}}
	result := []string{required}

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	return result
}
