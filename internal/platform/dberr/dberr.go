// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/tagmi/tagmi/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried row doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	// 2. Constraint violations. Unique races on (name, group) and (photo, group)
	// must surface as a Conflict, never silently overwrite.
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			conflict := apperr.Conflict("Resource already exists")
			conflict.Cause = err
			return conflict
		case pgerrcode.ForeignKeyViolation:
			notFound := apperr.NotFound("Referenced resource")
			notFound.Cause = err
			return notFound
		}
	}

	// 3. Unknown query errors become Internal Server Errors
	return apperr.Internal(err)
}

// IsConflict reports whether err classifies as a uniqueness conflict.
func IsConflict(err error) bool {
	ae := apperr.As(err)
	return ae != nil && ae.Code == "CONFLICT"
}
