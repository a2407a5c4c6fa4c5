// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		Delete permanently removes the account row.

		Description: Hard delete. Referential cascades take the user's photos
		(and their group associations) down with the row, while groups the user
		created survive with a null creator.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error
}

// # Session Data Access

// SessionRepository defines the data access contract for refresh-token sessions.
type SessionRepository interface {

	/*
		Save stores a session under the hash of its refresh token.

		Parameters:
		  - context: context.Context
		  - tokenHash: string (SHA-256 of the raw refresh token)
		  - session: *Session
		  - ttl: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, tokenHash string, session *Session, ttl time.Duration) error

	/*
		Resolve returns the session stored under the given token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated session
		  - error: apperr.NotFound if absent or expired
	*/
	Resolve(context context.Context, tokenHash string) (*Session, error)

	/*
		Revoke removes one session by its token hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - tokenHash: string

		Returns:
		  - error: Deletion failures
	*/
	Revoke(context context.Context, userID, tokenHash string) error

	/*
		RevokeAll removes every session owned by the user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Deletion failures
	*/
	RevokeAll(context context.Context, userID string) error
}
