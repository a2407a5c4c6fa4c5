// Package tag manages per-group tag vocabularies.
//
// Tag names are unique within a group, compared case-insensitively, but keep
// the exact casing they were first submitted with.
package tag

import "time"

// Tag is one entry in a group's private vocabulary.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	GroupID   string    `json:"group_id"`
	CreatedAt time.Time `json:"-"`
}

// AddResult reports the outcome of an add-tag request.
type AddResult struct {
	Tag     *Tag   `json:"tag"`
	Created bool   `json:"created"`
	Message string `json:"message"`
}
