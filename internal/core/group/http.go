// Copyright (c) 2026 Tagmi. All rights reserved.
// Author: dev@tagmi.app

/*
Package group provides the HTTP interface for photo group management.

# Routing Strategy

The /groups subtree is shared territory: the group detail view and the
photo/tag sub-resources are served by their own domain handlers. This handler
therefore exposes exported endpoint methods instead of a self-contained
Routes() router, and the api package composes the full tree.

All endpoints require authentication; group-scoped endpoints additionally
require membership and answer 404 to everyone else.
*/
package group

import (
	"net/http"

	requestutil "github.com/tagmi/tagmi/internal/platform/request"
	"github.com/tagmi/tagmi/internal/platform/respond"
	"github.com/tagmi/tagmi/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for photo group operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new group [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// # Request Payloads

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// # Group Endpoints

/*
List handles GET /api/v1/groups.

Description: Retrieves the paginated list of groups the caller belongs to,
newest first. Groups the caller is not a member of never appear.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Group: Paginated list
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	groups, total, err := handler.service.ListGroups(request.Context(), userID, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, groups, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
Create handles POST /api/v1/groups.

Description: Opens a new sharing circle. The caller is always added to the
roster regardless of the submitted member list (set semantics).

Request (Body):
  - { "name": "string", "members": ["uuid", ...] }

Response:
  - 201: Group: Created object
  - 400: ErrInvalidJSON/Validation: Invalid input data
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createGroupRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.CreateGroup(request.Context(), CreateInput{
		Name:      input.Name,
		MemberIDs: input.Members,
	}, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

/*
Delete handles DELETE /api/v1/groups/{groupID}.

Description: Dissolves a group the caller is a member of. Memberships, the
tag vocabulary, and photo associations go with it.

Request:
  - groupID: string (Group UUID)

Response:
  - 204: No Content: Success
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Group missing or caller is not a member
*/
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	groupID := requestutil.ID(request, "groupID")

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteGroup(request.Context(), groupID, userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Members handles GET /api/v1/groups/{groupID}/members.

Description: Lists the roster of a group the caller belongs to.

Request:
  - groupID: string (Group UUID)

Response:
  - 200: []Member: Success
  - 401: ErrUnauthorized: Authentication required
  - 404: ErrNotFound: Group missing or caller is not a member
*/
func (handler *Handler) Members(writer http.ResponseWriter, request *http.Request) {
	groupID := requestutil.ID(request, "groupID")

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	members, err := handler.service.ListMembers(request.Context(), groupID, userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, members)
}
