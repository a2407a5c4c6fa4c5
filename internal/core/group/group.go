// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

/*
Package group manages photo groups and their memberships.

It handles the lifecycle of sharing circles: creation, membership rosters,
and the authorization boundary every other domain package leans on.

# Core Responsibility

  - Organization: Defines the [Group] entity and its metadata.
  - Membership: Manages [Member] associations (flat, no roles).
  - Authorization: Resolves whether a user may see a group at all.

Membership is the single access-control primitive of the platform: photos,
tags, and vocabularies are only ever reachable through a group the caller
belongs to. Non-members are told a group does not exist, never that it is
forbidden.
*/
package group

import "time"

// # Core Entities

// Group represents a private sharing circle of users.
type Group struct {
	ID          string    `json:"id"` // UUIDv7
	Name        string    `json:"name"`
	CreatedBy   *string   `json:"created_by,omitempty"` // NULL once the creator deletes their account
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Member represents a user's affiliation with a specific group.
type Member struct {
	GroupID     string    `json:"group_id"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`               // Denormalized for detail views
	DisplayName *string   `json:"display_name,omitempty"` // Denormalized for detail views
	JoinedAt    time.Time `json:"joined_at"`
}

// # Field Identifiers

const (
	FieldName    = "name"
	FieldMembers = "members"
	FieldItems   = "items"
	FieldTotal   = "total"
	FieldMessage = "message"
)
