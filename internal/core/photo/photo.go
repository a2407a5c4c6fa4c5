// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

/*
Package photo manages uploaded photos and their per-group associations.

A photo is uploaded once and stored once; sharing it into a group creates an
association row that carries the group-scoped tag assignments. Removing a
photo from a group deletes only that association, never the photo itself or
its presence in other groups.

The package follows an "Aggregate" pattern: associations and their tag links
are managed through the photo repository to keep the uniqueness and cascade
rules in one place.
*/
package photo

import (
	"time"

	"github.com/tagmi/tagmi/internal/core/group"
	"github.com/tagmi/tagmi/internal/core/tag"
)

// # Entities

// Photo is a stored image, independent of any group.
type Photo struct {
	ID          string    `json:"id"`
	StorageKey  string    `json:"-"`
	ContentType string    `json:"content_type"`
	UploadedBy  string    `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Association is a photo's membership in one group, carrying the tag
// assignments that only exist within that group.
type Association struct {
	ID        string     `json:"id"`
	PhotoID   string     `json:"photo_id"`
	GroupID   string     `json:"group_id"`
	CreatedAt time.Time  `json:"created_at"`
	Photo     *Photo     `json:"photo,omitempty"`
	Tags      []*tag.Tag `json:"tags"`
	ImageURL  string     `json:"image_url,omitempty"`
}

// UploadResult summarizes a bulk upload fan-out.
type UploadResult struct {
	PhotosCreated       int      `json:"photos_created"`
	AssociationsCreated int      `json:"associations_created"`
	PhotoIDs            []string `json:"photo_ids"`
	GroupIDs            []string `json:"group_ids"`
	Message             string   `json:"message"`
}

// GroupDetail is the composite group page: the group itself, its roster, its
// tag vocabulary, and the (optionally tag-filtered) photo associations.
type GroupDetail struct {
	Group        *group.Group    `json:"group"`
	Members      []*group.Member `json:"members"`
	Vocabulary   []*tag.Tag      `json:"vocabulary"`
	Photos       []*Association  `json:"photos"`
	FilterTagIDs []string        `json:"filter_tags,omitempty"`
}

// # Field Names

const (
	FieldImages = "images"
	FieldGroups = "groups"
	FieldTags   = "tags"
)
