// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

/*
Package photo implements the business rules for uploads and group sharing.

# Upload Pipeline

A bulk upload is a fan-out: N images shared into M groups yields N photo rows
and N×M association rows. Blobs are written to object storage first, then all
database rows are committed in one transaction. If the transaction fails the
already-written blobs are deleted on a best-effort basis; an orphaned blob is
invisible to users and cheap, whereas a database row pointing at a missing
blob would be a broken image.

# Access Model

Every operation authorizes through group membership. Requests that reference
inaccessible groups are answered exactly like requests for groups that do not
exist.
*/
package photo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/tagmi/tagmi/internal/platform/apperr"
	"github.com/tagmi/tagmi/internal/platform/constants"
	"github.com/tagmi/tagmi/pkg/uuid"
)

// # Service

// Service coordinates the photo repository, the blob store, and the group
// and tag domains.
type Service struct {
	repo   Repository
	blobs  BlobStore
	groups GroupDirectory
	tags   Vocabulary
	logger *slog.Logger
}

// NewService constructs the photo service.
func NewService(repo Repository, blobs BlobStore, groups GroupDirectory, tags Vocabulary, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		blobs:  blobs,
		groups: groups,
		tags:   tags,
		logger: logger,
	}
}

// UploadFile is one incoming image in a bulk upload.
type UploadFile struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

/*
Upload stores a batch of images and shares each into the selected groups.

Description: The group selection is permissive: IDs the uploader cannot
access (or that do not exist) are silently dropped, and the upload proceeds
against the survivors. Only when nothing survives does the request fail. Each
blob is written under a date-sharded key before the single database
transaction runs.

Parameters:
  - context: context.Context
  - userID: string (the uploader, already authenticated)
  - files: []UploadFile
  - groupIDs: []string (raw client selection)

Returns:
  - *UploadResult: Counts and the human-readable summary
  - error: Validation errors, or wrapped storage/database errors
*/
func (service *Service) Upload(context context.Context, userID string, files []UploadFile, groupIDs []string) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, apperr.ValidationError("Please select at least one image to upload.")
	}
	if len(files) > constants.MaxPhotosPerUpload {
		return nil, apperr.ValidationError(fmt.Sprintf("A single upload is limited to %d photos.", constants.MaxPhotosPerUpload))
	}
	if len(groupIDs) == 0 {
		return nil, apperr.ValidationError("Please select at least one group.")
	}

	accessible, err := service.groups.AccessibleGroups(context, userID, groupIDs)
	if err != nil {
		return nil, err
	}
	if len(accessible) == 0 {
		return nil, apperr.ValidationError("Invalid or no accessible groups selected.")
	}

	// Blobs first. Keys are assigned here so a failed transaction knows
	// exactly what to clean up.
	photos := make([]*Photo, 0, len(files))
	for _, file := range files {
		photo := &Photo{
			ID:          uuid.New(),
			StorageKey:  service.buildKey(file.Filename),
			ContentType: file.ContentType,
			UploadedBy:  userID,
		}

		if err := service.blobs.Put(context, photo.StorageKey, file.Body, photo.ContentType); err != nil {
			service.cleanupBlobs(context, photos)
			return nil, fmt.Errorf("photo: failed to store upload: %w", err)
		}
		photos = append(photos, photo)
	}

	associationsCreated, err := service.repo.CreateBatch(context, photos, accessible)
	if err != nil {
		service.cleanupBlobs(context, photos)
		return nil, err
	}

	service.logger.Info("photos_uploaded",
		slog.String("user_id", userID),
		slog.Int("photos", len(photos)),
		slog.Int("associations", associationsCreated),
	)

	photoIDs := make([]string, len(photos))
	for index, photo := range photos {
		photoIDs[index] = photo.ID
	}

	return &UploadResult{
		PhotosCreated:       len(photos),
		AssociationsCreated: associationsCreated,
		PhotoIDs:            photoIDs,
		GroupIDs:            accessible,
		Message:             fmt.Sprintf("%d photo(s) uploaded and associated with %d group entries.", len(photos), associationsCreated),
	}, nil
}

// buildKey shards blob keys by upload date and randomizes the basename. The
// original filename only contributes its extension.
func (service *Service) buildKey(filename string) string {
	extension := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("%s/%s/%s%s",
		constants.PhotoKeyPrefix,
		time.Now().UTC().Format(constants.PhotoKeyTimeLayout),
		uuid.New(),
		extension,
	)
}

// cleanupBlobs best-effort deletes blobs written by a failed upload. Failures
// are logged and swallowed; an orphaned blob is unreachable and harmless.
func (service *Service) cleanupBlobs(context context.Context, photos []*Photo) {
	for _, photo := range photos {
		if err := service.blobs.Delete(context, photo.StorageKey); err != nil {
			service.logger.Warn("upload_cleanup_failed",
				slog.String("storage_key", photo.StorageKey),
				slog.String("error", err.Error()),
			)
		}
	}
}

// DetectContentType resolves the MIME type for an uploaded file, preferring
// the client-declared header and falling back to the filename extension.
func DetectContentType(declared, filename string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExtension := mime.TypeByExtension(strings.ToLower(path.Ext(filename))); byExtension != "" {
		return byExtension
	}
	return "application/octet-stream"
}
