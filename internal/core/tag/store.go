package tag

import "context"

type Repository interface {
	// ListByGroup returns the vocabulary ordered by name.
	ListByGroup(context context.Context, groupID string) ([]*Tag, error)

	// FindByName matches case-insensitively within one group.
	FindByName(context context.Context, groupID, name string) (*Tag, error)

	// FindInGroup returns the tag only if it belongs to the group.
	FindInGroup(context context.Context, groupID, tagID string) (*Tag, error)

	// ResolveInGroup returns the subset of ids that exist in the group's vocabulary.
	ResolveInGroup(context context.Context, groupID string, tagIDs []string) ([]*Tag, error)

	Create(context context.Context, tag *Tag) error

	// Delete removes the tag; cascades strip it from every association.
	Delete(context context.Context, tagID string) error
}
