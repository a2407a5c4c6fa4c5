// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package tag_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagmi/tagmi/internal/core/group"
	"github.com/tagmi/tagmi/internal/core/tag"
	"github.com/tagmi/tagmi/internal/platform/apperr"
)

// fakeGuard authorizes a fixed membership table.
type fakeGuard struct {
	groups  map[string]*group.Group
	members map[string]string // userID -> groupID
}

func (f *fakeGuard) Authorize(_ context.Context, groupID, userID string) (*group.Group, error) {
	if f.members[userID] == groupID {
		if g, ok := f.groups[groupID]; ok {
			return g, nil
		}
	}
	return nil, apperr.NotFound("Group")
}

// fakeRepository is an in-memory vocabulary keyed by tag ID.
type fakeRepository struct {
	tags map[string]*tag.Tag
}

func (f *fakeRepository) ListByGroup(_ context.Context, groupID string) ([]*tag.Tag, error) {
	entries := []*tag.Tag{}
	for _, t := range f.tags {
		if t.GroupID == groupID {
			entries = append(entries, t)
		}
	}
	return entries, nil
}

func (f *fakeRepository) FindByName(_ context.Context, groupID, name string) (*tag.Tag, error) {
	for _, t := range f.tags {
		if t.GroupID == groupID && strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return nil, apperr.NotFound("Tag")
}

func (f *fakeRepository) FindInGroup(_ context.Context, groupID, tagID string) (*tag.Tag, error) {
	if t, ok := f.tags[tagID]; ok && t.GroupID == groupID {
		return t, nil
	}
	return nil, apperr.NotFound("Tag")
}

func (f *fakeRepository) ResolveInGroup(_ context.Context, groupID string, tagIDs []string) ([]*tag.Tag, error) {
	resolved := []*tag.Tag{}
	for _, id := range tagIDs {
		if t, ok := f.tags[id]; ok && t.GroupID == groupID {
			resolved = append(resolved, t)
		}
	}
	return resolved, nil
}

func (f *fakeRepository) Create(_ context.Context, t *tag.Tag) error {
	f.tags[t.ID] = t
	return nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	delete(f.tags, id)
	return nil
}

func newFixture() (*tag.Service, *fakeRepository) {
	guard := &fakeGuard{
		groups:  map[string]*group.Group{"g1": {ID: "g1", Name: "Summer Trip"}},
		members: map[string]string{"alice": "g1"},
	}
	repo := &fakeRepository{tags: map[string]*tag.Tag{}}
	return tag.NewService(repo, guard, slog.New(slog.DiscardHandler)), repo
}

/*
TestAddTag covers creation, whitespace trimming, and the case-insensitive
dedup that reports the stored casing.
*/
func TestAddTag(t *testing.T) {
	service, _ := newFixture()

	created, err := service.AddTag(context.Background(), "g1", "alice", "  Beach  ")
	require.NoError(t, err)
	assert.True(t, created.Created)
	assert.Equal(t, "Beach", created.Tag.Name)
	assert.Equal(t, "Tag 'Beach' added to group 'Summer Trip'.", created.Message)

	// Same name in a different casing is the same tag; the stored casing wins.
	duplicate, err := service.AddTag(context.Background(), "g1", "alice", "BEACH")
	require.NoError(t, err)
	assert.False(t, duplicate.Created)
	assert.Equal(t, created.Tag.ID, duplicate.Tag.ID)
	assert.Equal(t, "Tag 'Beach' already exists in group 'Summer Trip'.", duplicate.Message)
}

/*
TestAddTag_Validation rejects blank names and non-members.
*/
func TestAddTag_Validation(t *testing.T) {
	service, _ := newFixture()

	tests := []struct {
		name     string
		groupID  string
		userID   string
		tagName  string
		wantCode string
		wantMsg  string
	}{
		{"empty_name", "g1", "alice", "   ", "VALIDATION_ERROR", "Tag name cannot be empty."},
		{"name_too_long", "g1", "alice", strings.Repeat("x", 51), "VALIDATION_ERROR", ""},
		{"non_member", "g1", "mallory", "Beach", "NOT_FOUND", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AddTag(context.Background(), tt.groupID, tt.userID, tt.tagName)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, ae.Message)
			}
		})
	}
}

/*
TestRemoveTag removes a vocabulary entry and reports unknown tags as missing.
*/
func TestRemoveTag(t *testing.T) {
	service, repo := newFixture()

	added, err := service.AddTag(context.Background(), "g1", "alice", "Sunset")
	require.NoError(t, err)

	message, err := service.RemoveTag(context.Background(), "g1", "alice", added.Tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tag 'Sunset' and its associations within this group have been removed.", message)
	assert.Empty(t, repo.tags)

	_, err = service.RemoveTag(context.Background(), "g1", "alice", added.Tag.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestResolve drops IDs outside the group's vocabulary.
*/
func TestResolve(t *testing.T) {
	service, repo := newFixture()

	added, err := service.AddTag(context.Background(), "g1", "alice", "Beach")
	require.NoError(t, err)

	// A tag belonging to another group must never resolve here.
	repo.tags["foreign"] = &tag.Tag{ID: "foreign", Name: "Beach", GroupID: "g2"}

	resolved, err := service.Resolve(context.Background(), "g1", []string{added.Tag.ID, "foreign", "ghost"})
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, added.Tag.ID, resolved[0].ID)

	empty, err := service.Resolve(context.Background(), "g1", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
