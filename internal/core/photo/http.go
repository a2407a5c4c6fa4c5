// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

/*
Package photo provides the HTTP interface for uploads and group sharing.

# Routing Strategy

  - POST /api/v1/photos/upload is the single entry point for new images; the
    group fan-out happens inside the one request.
  - Everything association-scoped lives under /api/v1/groups/{groupID}/photos,
    so the URL itself names the group whose view is being edited.
  - GET /api/v1/groups/{groupID} is served here rather than in the group
    package because the composite page pulls photos, tags, and members
    together.

The handler translates between the web/multipart layer and the internal
domain [Service].
*/
package photo

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tagmi/tagmi/internal/platform/apperr"
	"github.com/tagmi/tagmi/internal/platform/constants"
	requestutil "github.com/tagmi/tagmi/internal/platform/request"
	"github.com/tagmi/tagmi/internal/platform/respond"
)

// # HTTP Handler

// Handler exposes the photo service over HTTP.
type Handler struct {
	service *Service
}

// NewHandler constructs the photo HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /photos.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Post("/upload", handler.upload)
	return router
}

// GroupRoutes returns the router mounted at /groups/{groupID}/photos.
func (handler *Handler) GroupRoutes() chi.Router {
	router := chi.NewRouter()
	router.Put("/{photoID}/tags", handler.assignTags)
	router.Delete("/{photoID}/tags/{tagID}", handler.removeTag)
	router.Delete("/{photoID}", handler.removePhoto)
	return router
}

/*
GET /api/v1/groups/{groupID}.

Description: The composite group page: group, members, vocabulary, and the
photo associations with presigned image URLs. An optional ?tags= parameter
(comma-separated tag IDs) narrows the photos to those carrying every listed
tag.

Response:
  - 200: GroupDetail
  - 401: Authentication required
  - 404: Group not found (includes groups the caller is not a member of)
*/
func (handler *Handler) GroupDetail(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filterTagIDs := splitList(request.URL.Query().Get("tags"))

	detail, err := handler.service.GroupDetail(request.Context(), requestutil.ID(request, "groupID"), userID, filterTagIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

/*
POST /api/v1/photos/upload.

Description: Multipart bulk upload. The "images" field carries one or more
files; the "groups" field carries the target group IDs (repeated values or
comma-separated). Inaccessible groups are dropped; the upload fails only if
none survive.

Response:
  - 201: UploadResult
  - 400: Validation errors (no images, no groups, nothing accessible)
  - 401: Authentication required
  - 413: Body exceeds the upload limit
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes)
	if err := request.ParseMultipartForm(constants.MultipartMemoryBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Invalid or oversized multipart body."))
		return
	}
	defer request.MultipartForm.RemoveAll()

	headers := request.MultipartForm.File[FieldImages]
	groupIDs := collectValues(request.MultipartForm.Value[FieldGroups])

	files := make([]UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, file := range opened {
			_ = file.Close()
		}
	}()

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("One of the uploaded files could not be read."))
			return
		}
		opened = append(opened, file)

		files = append(files, UploadFile{
			Filename:    header.Filename,
			ContentType: DetectContentType(header.Header.Get("Content-Type"), header.Filename),
			Body:        file,
		})
	}

	result, err := handler.service.Upload(request.Context(), userID, files, groupIDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, result)
}

/*
PUT /api/v1/groups/{groupID}/photos/{photoID}/tags.

Description: Replaces the photo's tag set within this group. The body lists
the complete desired set; an empty list clears all tags.

Request:
  - body: {"tags": ["<tagID>", ...]}

Response:
  - 200: {"message": ...}
  - 400: A submitted tag is not part of this group's vocabulary
  - 404: Group or photo not found
*/
func (handler *Handler) assignTags(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload struct {
		Tags []string `json:"tags"`
	}
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.AssignTags(request.Context(),
		requestutil.ID(request, "groupID"), userID, requestutil.ID(request, "photoID"), payload.Tags)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"message": message})
}

// DELETE /api/v1/groups/{groupID}/photos/{photoID}/tags/{tagID}.
func (handler *Handler) removeTag(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.RemoveTagFromPhoto(request.Context(),
		requestutil.ID(request, "groupID"), userID,
		requestutil.ID(request, "photoID"), requestutil.ID(request, "tagID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"message": message})
}

// DELETE /api/v1/groups/{groupID}/photos/{photoID}.
func (handler *Handler) removePhoto(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message, err := handler.service.RemovePhotoFromGroup(request.Context(),
		requestutil.ID(request, "groupID"), userID, requestutil.ID(request, "photoID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]string{"message": message})
}

// # Request Parsing Helpers

// splitList parses a comma-separated query value, dropping empties.
func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// collectValues flattens repeated form values, each of which may itself be
// comma-separated.
func collectValues(raw []string) []string {
	values := []string{}
	for _, entry := range raw {
		values = append(values, splitList(entry)...)
	}
	return values
}
