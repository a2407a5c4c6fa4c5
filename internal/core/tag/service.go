package tag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tagmi/tagmi/internal/core/group"
	"github.com/tagmi/tagmi/internal/platform/apperr"
	"github.com/tagmi/tagmi/internal/platform/dberr"
	"github.com/tagmi/tagmi/internal/platform/validate"
	"github.com/tagmi/tagmi/pkg/uuid"
)

// MembershipGuard resolves a group if and only if the user may access it.
// Satisfied by the group service.
type MembershipGuard interface {
	Authorize(context context.Context, groupID, userID string) (*group.Group, error)
}

type Service struct {
	repo   Repository
	guard  MembershipGuard
	logger *slog.Logger
}

func NewService(repo Repository, guard MembershipGuard, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  guard,
		logger: logger,
	}
}

// maxTagNameLength mirrors the varchar(50) column.
const maxTagNameLength = 50

/*
AddTag gets-or-creates a vocabulary entry for the group.

The lookup is case-insensitive but a newly created tag keeps the submitted
casing. When the tag already exists the stored entry is returned untouched,
with a message naming the stored casing.
*/
func (service *Service) AddTag(context context.Context, groupID, userID, name string) (*AddResult, error) {
	accessibleGroup, err := service.guard.Authorize(context, groupID, userID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.ValidationError("Tag name cannot be empty.")
	}

	validator := &validate.Validator{}
	validator.MaxLen("tag_name", name, maxTagNameLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// Fast path: the tag already exists (any casing).
	if existing, err := service.repo.FindByName(context, groupID, name); err == nil {
		return &AddResult{
			Tag:     existing,
			Created: false,
			Message: fmt.Sprintf("Tag '%s' already exists in group '%s'.", existing.Name, accessibleGroup.Name),
		}, nil
	}

	created := &Tag{
		ID:      uuid.New(),
		Name:    name,
		GroupID: groupID,
	}

	if err := service.repo.Create(context, created); err != nil {
		// Lost a race against a concurrent insert of the same name. The
		// winner's entry is the vocabulary truth.
		if dberr.IsConflict(err) {
			if existing, findErr := service.repo.FindByName(context, groupID, name); findErr == nil {
				return &AddResult{
					Tag:     existing,
					Created: false,
					Message: fmt.Sprintf("Tag '%s' already exists in group '%s'.", existing.Name, accessibleGroup.Name),
				}, nil
			}
		}
		return nil, err
	}

	service.logger.Info("tag_added",
		slog.String("group_id", groupID),
		slog.String("tag_id", created.ID),
	)

	return &AddResult{
		Tag:     created,
		Created: true,
		Message: fmt.Sprintf("Tag '%s' added to group '%s'.", created.Name, accessibleGroup.Name),
	}, nil
}

// RemoveTag deletes a vocabulary entry and, via cascade, strips it from every
// photo association in the group. Returns NotFound when the tag is not part
// of this group's vocabulary.
func (service *Service) RemoveTag(context context.Context, groupID, userID, tagID string) (string, error) {
	if _, err := service.guard.Authorize(context, groupID, userID); err != nil {
		return "", err
	}

	existing, err := service.repo.FindInGroup(context, groupID, tagID)
	if err != nil {
		return "", err
	}

	if err := service.repo.Delete(context, existing.ID); err != nil {
		return "", err
	}

	service.logger.Info("tag_removed",
		slog.String("group_id", groupID),
		slog.String("tag_id", existing.ID),
	)

	return fmt.Sprintf("Tag '%s' and its associations within this group have been removed.", existing.Name), nil
}

// ListVocabulary returns the group's tags ordered by name.
func (service *Service) ListVocabulary(context context.Context, groupID, userID string) ([]*Tag, error) {
	if _, err := service.guard.Authorize(context, groupID, userID); err != nil {
		return nil, err
	}
	return service.repo.ListByGroup(context, groupID)
}

// Resolve maps candidate tag IDs onto the group's vocabulary, dropping
// anything foreign. Callers are expected to have authorized the group access
// already.
func (service *Service) Resolve(context context.Context, groupID string, tagIDs []string) ([]*Tag, error) {
	if len(tagIDs) == 0 {
		return []*Tag{}, nil
	}
	return service.repo.ResolveInGroup(context, groupID, tagIDs)
}
