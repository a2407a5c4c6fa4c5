// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package photo_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagmi/tagmi/internal/core/group"
	"github.com/tagmi/tagmi/internal/core/photo"
	"github.com/tagmi/tagmi/internal/core/tag"
	"github.com/tagmi/tagmi/internal/platform/apperr"
)

// # Fakes

// fakeBlobs is an in-memory blob store that can be told to fail.
type fakeBlobs struct {
	objects map[string][]byte
	failPut bool
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: map[string][]byte{}}
}

func (f *fakeBlobs) Put(_ context.Context, key string, body io.Reader, _ string) error {
	if f.failPut {
		return fmt.Errorf("blob store down")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeBlobs) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://blobs.test/" + key, nil
}

// fakeGroups implements the GroupDirectory over a fixed membership table.
type fakeGroups struct {
	groups  map[string]*group.Group
	members map[string][]string // groupID -> userIDs
}

func (f *fakeGroups) Authorize(_ context.Context, groupID, userID string) (*group.Group, error) {
	for _, id := range f.members[groupID] {
		if id == userID {
			return f.groups[groupID], nil
		}
	}
	return nil, apperr.NotFound("Group")
}

func (f *fakeGroups) AccessibleGroups(_ context.Context, userID string, groupIDs []string) ([]string, error) {
	accessible := []string{}
	for _, groupID := range groupIDs {
		if _, err := f.Authorize(context.Background(), groupID, userID); err == nil {
			accessible = append(accessible, groupID)
		}
	}
	return accessible, nil
}

func (f *fakeGroups) ListMembers(_ context.Context, groupID, _ string) ([]*group.Member, error) {
	roster := []*group.Member{}
	for _, userID := range f.members[groupID] {
		roster = append(roster, &group.Member{GroupID: groupID, UserID: userID})
	}
	return roster, nil
}

// fakeVocabulary resolves against a fixed tag table.
type fakeVocabulary struct {
	tags map[string]*tag.Tag
}

func (f *fakeVocabulary) ListVocabulary(_ context.Context, groupID, _ string) ([]*tag.Tag, error) {
	entries := []*tag.Tag{}
	for _, t := range f.tags {
		if t.GroupID == groupID {
			entries = append(entries, t)
		}
	}
	return entries, nil
}

func (f *fakeVocabulary) Resolve(_ context.Context, groupID string, tagIDs []string) ([]*tag.Tag, error) {
	resolved := []*tag.Tag{}
	for _, id := range tagIDs {
		if t, ok := f.tags[id]; ok && t.GroupID == groupID {
			resolved = append(resolved, t)
		}
	}
	return resolved, nil
}

// fakeRepository is an in-memory association store.
type fakeRepository struct {
	photos       map[string]*photo.Photo
	associations map[string]*photo.Association // ID -> association
	links        map[string][]string           // associationID -> tagIDs
	nextID       int
	failBatch    bool
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		photos:       map[string]*photo.Photo{},
		associations: map[string]*photo.Association{},
		links:        map[string][]string{},
	}
}

func (f *fakeRepository) CreateBatch(_ context.Context, photos []*photo.Photo, groupIDs []string) (int, error) {
	if f.failBatch {
		return 0, apperr.Internal(fmt.Errorf("database down"))
	}
	created := 0
	for _, p := range photos {
		p.UploadedAt = time.Now()
		f.photos[p.ID] = p
		for _, groupID := range groupIDs {
			f.nextID++
			id := fmt.Sprintf("assoc-%d", f.nextID)
			f.associations[id] = &photo.Association{
				ID:      id,
				PhotoID: p.ID,
				GroupID: groupID,
				Photo:   p,
			}
			created++
		}
	}
	return created, nil
}

func (f *fakeRepository) ListAssociations(_ context.Context, groupID string, filterTagIDs []string) ([]*photo.Association, error) {
	matches := []*photo.Association{}
	for _, association := range f.associations {
		if association.GroupID != groupID {
			continue
		}
		if !f.carriesAll(association.ID, filterTagIDs) {
			continue
		}
		matches = append(matches, association)
	}
	return matches, nil
}

func (f *fakeRepository) GetOrCreateAssociation(_ context.Context, groupID, photoID string) (*photo.Association, bool, error) {
	if _, ok := f.photos[photoID]; !ok {
		return nil, false, apperr.NotFound("Referenced resource")
	}
	for _, association := range f.associations {
		if association.GroupID == groupID && association.PhotoID == photoID {
			return association, false, nil
		}
	}
	f.nextID++
	id := fmt.Sprintf("assoc-%d", f.nextID)
	association := &photo.Association{ID: id, PhotoID: photoID, GroupID: groupID, Photo: f.photos[photoID]}
	f.associations[id] = association
	return association, true, nil
}

func (f *fakeRepository) ReplaceTags(_ context.Context, associationID string, tagIDs []string) error {
	f.links[associationID] = append([]string{}, tagIDs...)
	return nil
}

func (f *fakeRepository) RemoveTagFromAssociation(_ context.Context, associationID, tagID string) (bool, error) {
	linked := f.links[associationID]
	for index, id := range linked {
		if id == tagID {
			f.links[associationID] = append(linked[:index], linked[index+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) FindAssociation(_ context.Context, groupID, photoID string) (*photo.Association, error) {
	for _, association := range f.associations {
		if association.GroupID == groupID && association.PhotoID == photoID {
			return association, nil
		}
	}
	return nil, apperr.NotFound("Resource")
}

func (f *fakeRepository) DeleteAssociation(_ context.Context, groupID, photoID string) (bool, error) {
	for id, association := range f.associations {
		if association.GroupID == groupID && association.PhotoID == photoID {
			delete(f.associations, id)
			delete(f.links, id)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) carriesAll(associationID string, tagIDs []string) bool {
	linked := map[string]bool{}
	for _, id := range f.links[associationID] {
		linked[id] = true
	}
	for _, id := range tagIDs {
		if !linked[id] {
			return false
		}
	}
	return true
}

// # Fixture

type fixture struct {
	service *photo.Service
	repo    *fakeRepository
	blobs   *fakeBlobs
	groups  *fakeGroups
	vocab   *fakeVocabulary
}

func newFixture() *fixture {
	groups := &fakeGroups{
		groups: map[string]*group.Group{
			"g1": {ID: "g1", Name: "Summer Trip"},
			"g2": {ID: "g2", Name: "Family"},
		},
		members: map[string][]string{
			"g1": {"alice", "bob"},
			"g2": {"alice"},
		},
	}
	vocab := &fakeVocabulary{tags: map[string]*tag.Tag{
		"t-beach":  {ID: "t-beach", Name: "Beach", GroupID: "g1"},
		"t-sunset": {ID: "t-sunset", Name: "Sunset", GroupID: "g1"},
		"t-family": {ID: "t-family", Name: "Cousins", GroupID: "g2"},
	}}
	repo := newFakeRepository()
	blobs := newFakeBlobs()
	service := photo.NewService(repo, blobs, groups, vocab, slog.New(slog.DiscardHandler))
	return &fixture{service: service, repo: repo, blobs: blobs, groups: groups, vocab: vocab}
}

func uploadFiles(count int) []photo.UploadFile {
	files := make([]photo.UploadFile, 0, count)
	for index := 0; index < count; index++ {
		files = append(files, photo.UploadFile{
			Filename:    fmt.Sprintf("IMG_%04d.jpg", index),
			ContentType: "image/jpeg",
			Body:        strings.NewReader("jpeg-bytes"),
		})
	}
	return files
}

// # Upload

/*
TestUpload_FanOut verifies the N×M association fan-out and the summary
message counts.
*/
func TestUpload_FanOut(t *testing.T) {
	fx := newFixture()

	result, err := fx.service.Upload(context.Background(), "alice", uploadFiles(3), []string{"g1", "g2"})
	require.NoError(t, err)

	assert.Equal(t, 3, result.PhotosCreated)
	assert.Equal(t, 6, result.AssociationsCreated)
	assert.Equal(t, "3 photo(s) uploaded and associated with 6 group entries.", result.Message)
	assert.Len(t, fx.blobs.objects, 3)
	assert.Len(t, fx.repo.associations, 6)
}

/*
TestUpload_DropsInaccessibleGroups verifies the permissive group selection:
unknown and non-member groups are dropped, and only an empty survivor set
fails the upload.
*/
func TestUpload_DropsInaccessibleGroups(t *testing.T) {
	fx := newFixture()

	// bob is only in g1; g2 and the ghost are silently dropped.
	result, err := fx.service.Upload(context.Background(), "bob", uploadFiles(2), []string{"g1", "g2", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, []string{"g1"}, result.GroupIDs)
	assert.Equal(t, 2, result.AssociationsCreated)

	// Nothing accessible at all.
	_, err = fx.service.Upload(context.Background(), "bob", uploadFiles(1), []string{"g2", "ghost"})
	require.Error(t, err)
	assert.Equal(t, "Invalid or no accessible groups selected.", apperr.As(err).Message)
}

/*
TestUpload_Validation rejects empty inputs before any blob is written.
*/
func TestUpload_Validation(t *testing.T) {
	fx := newFixture()

	tests := []struct {
		name     string
		files    []photo.UploadFile
		groupIDs []string
		wantMsg  string
	}{
		{"no_files", nil, []string{"g1"}, "Please select at least one image to upload."},
		{"no_groups", uploadFiles(1), nil, "Please select at least one group."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fx.service.Upload(context.Background(), "alice", tt.files, tt.groupIDs)
			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantMsg, ae.Message)
			assert.Empty(t, fx.blobs.objects)
		})
	}
}

/*
TestUpload_CleansUpBlobsOnFailure verifies that a failed database transaction
deletes the blobs written before it.
*/
func TestUpload_CleansUpBlobsOnFailure(t *testing.T) {
	fx := newFixture()
	fx.repo.failBatch = true

	_, err := fx.service.Upload(context.Background(), "alice", uploadFiles(2), []string{"g1"})
	require.Error(t, err)
	assert.Empty(t, fx.blobs.objects)
	assert.Empty(t, fx.repo.associations)
}

// # Tag Assignment

/*
TestAssignTags covers the all-or-nothing replacement semantics.
*/
func TestAssignTags(t *testing.T) {
	fx := newFixture()

	result, err := fx.service.Upload(context.Background(), "alice", uploadFiles(1), []string{"g1"})
	require.NoError(t, err)
	photoID := result.PhotoIDs[0]

	message, err := fx.service.AssignTags(context.Background(), "g1", "alice", photoID,
		[]string{"t-beach", "t-sunset", "t-beach"})
	require.NoError(t, err)
	assert.Equal(t, "Tags updated for photo in group 'Summer Trip'.", message)

	association, err := fx.repo.FindAssociation(context.Background(), "g1", photoID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t-beach", "t-sunset"}, fx.repo.links[association.ID])

	// A foreign tag fails the whole request; nothing is written.
	_, err = fx.service.AssignTags(context.Background(), "g1", "alice", photoID,
		[]string{"t-beach", "t-family"})
	require.Error(t, err)
	assert.Equal(t, "One or more tags do not belong to this group.", apperr.As(err).Message)
	assert.ElementsMatch(t, []string{"t-beach", "t-sunset"}, fx.repo.links[association.ID])

	// An empty set clears the tags.
	_, err = fx.service.AssignTags(context.Background(), "g1", "alice", photoID, nil)
	require.NoError(t, err)
	assert.Empty(t, fx.repo.links[association.ID])
}

/*
TestAssignTags_AdoptsUntaggedPhoto verifies the get-or-create on the
association: tagging a photo shared into the group but never tagged there
creates the association row on the fly.
*/
func TestAssignTags_AdoptsUntaggedPhoto(t *testing.T) {
	fx := newFixture()

	result, err := fx.service.Upload(context.Background(), "alice", uploadFiles(1), []string{"g2"})
	require.NoError(t, err)
	photoID := result.PhotoIDs[0]

	// The photo has no association in g1 yet.
	_, err = fx.repo.FindAssociation(context.Background(), "g1", photoID)
	require.Error(t, err)

	_, err = fx.service.AssignTags(context.Background(), "g1", "alice", photoID, []string{"t-beach"})
	require.NoError(t, err)

	association, err := fx.repo.FindAssociation(context.Background(), "g1", photoID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t-beach"}, fx.repo.links[association.ID])
}

/*
TestRemoveTagFromPhoto distinguishes "removed" from "was never assigned".
*/
func TestRemoveTagFromPhoto(t *testing.T) {
	fx := newFixture()

	result, err := fx.service.Upload(context.Background(), "alice", uploadFiles(1), []string{"g1"})
	require.NoError(t, err)
	photoID := result.PhotoIDs[0]

	_, err = fx.service.AssignTags(context.Background(), "g1", "alice", photoID, []string{"t-beach"})
	require.NoError(t, err)

	message, err := fx.service.RemoveTagFromPhoto(context.Background(), "g1", "alice", photoID, "t-beach")
	require.NoError(t, err)
	assert.Equal(t, "Tag 'Beach' removed from photo in group 'Summer Trip'.", message)

	message, err = fx.service.RemoveTagFromPhoto(context.Background(), "g1", "alice", photoID, "t-beach")
	require.NoError(t, err)
	assert.Equal(t, "Tag 'Beach' was not assigned to this photo in group 'Summer Trip'.", message)

	// A tag outside the group's vocabulary is a 404, not a no-op.
	_, err = fx.service.RemoveTagFromPhoto(context.Background(), "g1", "alice", photoID, "t-family")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Group Page

/*
TestGroupDetail_TagFilter verifies the AND-superset photo filter and the
silent dropping of foreign filter tags.
*/
func TestGroupDetail_TagFilter(t *testing.T) {
	fx := newFixture()

	result, err := fx.service.Upload(context.Background(), "alice", uploadFiles(3), []string{"g1"})
	require.NoError(t, err)

	both, onlyBeach, untagged := result.PhotoIDs[0], result.PhotoIDs[1], result.PhotoIDs[2]
	_, err = fx.service.AssignTags(context.Background(), "g1", "alice", both, []string{"t-beach", "t-sunset"})
	require.NoError(t, err)
	_, err = fx.service.AssignTags(context.Background(), "g1", "alice", onlyBeach, []string{"t-beach"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		filter     []string
		wantPhotos []string
	}{
		{"no_filter", nil, []string{both, onlyBeach, untagged}},
		{"single_tag", []string{"t-beach"}, []string{both, onlyBeach}},
		{"all_tags_required", []string{"t-beach", "t-sunset"}, []string{both}},
		{"foreign_tag_dropped", []string{"t-beach", "t-family"}, []string{both, onlyBeach}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail, err := fx.service.GroupDetail(context.Background(), "g1", "alice", tt.filter)
			require.NoError(t, err)

			photoIDs := make([]string, 0, len(detail.Photos))
			for _, association := range detail.Photos {
				photoIDs = append(photoIDs, association.PhotoID)
				assert.NotEmpty(t, association.ImageURL)
			}
			assert.ElementsMatch(t, tt.wantPhotos, photoIDs)
		})
	}
}

/*
TestGroupDetail_Composition verifies the page carries the group, roster, and
vocabulary in one pass, and that non-members get a 404.
*/
func TestGroupDetail_Composition(t *testing.T) {
	fx := newFixture()

	detail, err := fx.service.GroupDetail(context.Background(), "g1", "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, "Summer Trip", detail.Group.Name)
	assert.Len(t, detail.Members, 2)
	assert.Len(t, detail.Vocabulary, 2)

	_, err = fx.service.GroupDetail(context.Background(), "g2", "bob", nil)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

// # Removal

/*
TestRemovePhotoFromGroup verifies the association-only delete and its
idempotency.
*/
func TestRemovePhotoFromGroup(t *testing.T) {
	fx := newFixture()

	result, err := fx.service.Upload(context.Background(), "alice", uploadFiles(1), []string{"g1", "g2"})
	require.NoError(t, err)
	photoID := result.PhotoIDs[0]

	message, err := fx.service.RemovePhotoFromGroup(context.Background(), "g1", "alice", photoID)
	require.NoError(t, err)
	assert.Equal(t, "Photo removed from group 'Summer Trip'.", message)

	// The photo survives in the other group, and the blob is untouched.
	_, err = fx.repo.FindAssociation(context.Background(), "g2", photoID)
	require.NoError(t, err)
	assert.Len(t, fx.blobs.objects, 1)

	// Removing again reports the same success.
	message, err = fx.service.RemovePhotoFromGroup(context.Background(), "g1", "alice", photoID)
	require.NoError(t, err)
	assert.Equal(t, "Photo removed from group 'Summer Trip'.", message)
}
