// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package group_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagmi/tagmi/internal/core/group"
	"github.com/tagmi/tagmi/internal/platform/apperr"
)

// fakeRepository is an in-memory group store keyed by group ID.
type fakeRepository struct {
	groups  map[string]*group.Group
	members map[string][]string // groupID -> userIDs
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		groups:  map[string]*group.Group{},
		members: map[string][]string{},
	}
}

func (f *fakeRepository) Create(_ context.Context, g *group.Group, memberIDs []string) error {
	g.MemberCount = len(memberIDs)
	f.groups[g.ID] = g
	f.members[g.ID] = append([]string{}, memberIDs...)
	return nil
}

func (f *fakeRepository) ListByMember(_ context.Context, userID string, limit, offset int) ([]*group.Group, int, error) {
	matches := []*group.Group{}
	for id, g := range f.groups {
		if f.isMember(id, userID) {
			matches = append(matches, g)
		}
	}
	return matches, len(matches), nil
}

func (f *fakeRepository) FindForMember(_ context.Context, groupID, userID string) (*group.Group, error) {
	if g, ok := f.groups[groupID]; ok && f.isMember(groupID, userID) {
		return g, nil
	}
	return nil, apperr.NotFound("Group")
}

func (f *fakeRepository) FilterAccessible(_ context.Context, userID string, groupIDs []string) ([]string, error) {
	accessible := []string{}
	for _, id := range groupIDs {
		if f.isMember(id, userID) {
			accessible = append(accessible, id)
		}
	}
	return accessible, nil
}

func (f *fakeRepository) ListMembers(_ context.Context, groupID string) ([]*group.Member, error) {
	roster := []*group.Member{}
	for _, userID := range f.members[groupID] {
		roster = append(roster, &group.Member{GroupID: groupID, UserID: userID})
	}
	return roster, nil
}

func (f *fakeRepository) Delete(_ context.Context, id string) error {
	if _, ok := f.groups[id]; !ok {
		return apperr.NotFound("Group")
	}
	delete(f.groups, id)
	delete(f.members, id)
	return nil
}

func (f *fakeRepository) isMember(groupID, userID string) bool {
	for _, id := range f.members[groupID] {
		if id == userID {
			return true
		}
	}
	return false
}

func newService(repo *fakeRepository) *group.Service {
	return group.NewService(repo, slog.New(slog.DiscardHandler))
}

/*
TestCreateGroup_CreatorAlwaysMember verifies the set semantics of the roster:
the creator is unioned in and duplicates collapse.
*/
func TestCreateGroup_CreatorAlwaysMember(t *testing.T) {
	tests := []struct {
		name        string
		memberIDs   []string
		wantMembers int
	}{
		{"creator_not_listed", []string{"user-b", "user-c"}, 3},
		{"creator_listed", []string{"creator", "user-b"}, 2},
		{"duplicates_collapse", []string{"user-b", "user-b", "creator"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeRepository()
			service := newService(repo)

			created, err := service.CreateGroup(context.Background(), group.CreateInput{
				Name:      "Trip 2026",
				MemberIDs: tt.memberIDs,
			}, "creator")
			require.NoError(t, err)
			assert.Equal(t, tt.wantMembers, created.MemberCount)
			assert.True(t, repo.isMember(created.ID, "creator"))
		})
	}
}

/*
TestCreateGroup_Validation covers the name and member-selection rules.
*/
func TestCreateGroup_Validation(t *testing.T) {
	tests := []struct {
		name      string
		groupName string
		memberIDs []string
	}{
		{"empty_name", "", []string{"user-b"}},
		{"no_members", "Trip 2026", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newService(newFakeRepository())

			_, err := service.CreateGroup(context.Background(), group.CreateInput{
				Name:      tt.groupName,
				MemberIDs: tt.memberIDs,
			}, "creator")

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		})
	}
}

/*
TestAuthorize_NonMemberSeesNotFound verifies that denial and absence are
indistinguishable: a non-member asking for a real group gets the same answer
as anyone asking for a fabricated ID.
*/
func TestAuthorize_NonMemberSeesNotFound(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo)

	created, err := service.CreateGroup(context.Background(), group.CreateInput{
		Name:      "Private Album",
		MemberIDs: []string{"member"},
	}, "creator")
	require.NoError(t, err)

	_, realErr := service.Authorize(context.Background(), created.ID, "outsider")
	_, fakeErr := service.Authorize(context.Background(), "no-such-group", "outsider")

	for _, err := range []error{realErr, fakeErr} {
		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	}
}

/*
TestDeleteGroup requires membership before the delete runs.
*/
func TestDeleteGroup(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo)

	created, err := service.CreateGroup(context.Background(), group.CreateInput{
		Name:      "Disposable",
		MemberIDs: []string{"member"},
	}, "creator")
	require.NoError(t, err)

	// Any member may delete, not just the creator.
	require.NoError(t, service.DeleteGroup(context.Background(), created.ID, "member"))

	err = service.DeleteGroup(context.Background(), created.ID, "member")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestAccessibleGroups drops inaccessible and unknown IDs silently.
*/
func TestAccessibleGroups(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo)

	mine, err := service.CreateGroup(context.Background(), group.CreateInput{
		Name:      "Mine",
		MemberIDs: []string{"me"},
	}, "me")
	require.NoError(t, err)

	theirs, err := service.CreateGroup(context.Background(), group.CreateInput{
		Name:      "Theirs",
		MemberIDs: []string{"them"},
	}, "them")
	require.NoError(t, err)

	accessible, err := service.AccessibleGroups(context.Background(), "me",
		[]string{mine.ID, theirs.ID, "ghost"})
	require.NoError(t, err)
	assert.Equal(t, []string{mine.ID}, accessible)

	empty, err := service.AccessibleGroups(context.Background(), "me", nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
