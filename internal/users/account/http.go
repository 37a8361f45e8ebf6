// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	requestutil "github.com/taibuivan/userhub/internal/platform/request"
	"github.com/taibuivan/userhub/internal/platform/respond"
	"github.com/taibuivan/userhub/internal/platform/validate"
)

// Handler implements the HTTP layer for profile management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// # User Profile Endpoints

/*
GET /api/v1/user/{id}/get.

Response:
  - 200: User
  - 400: "invalid id"
  - 404: "User with id=<id> not found"
*/
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.IDParam(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetByID(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// GetByUsername serves GET /api/v1/user/by-username/{username}.
func (handler *Handler) GetByUsername(writer http.ResponseWriter, request *http.Request) {
	username := validate.Username(requestutil.Param(request, "username"))

	user, err := handler.accountService.GetByUsername(request.Context(), username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// List serves GET /api/v1/user/list.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.accountService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, users)
}

/*
PUT /api/v1/user/update.

Request:
  - Body: UpdateInput (id, username, firstname, lastname)

Response:
  - 200: User: The updated profile
  - 400: Validation failure
  - 404: Unknown id
  - 409: Username taken by another account
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input = input.Normalize()
	if err := input.Validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Update(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
