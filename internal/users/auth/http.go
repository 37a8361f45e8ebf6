// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	requestutil "github.com/taibuivan/userhub/internal/platform/request"
	"github.com/taibuivan/userhub/internal/platform/respond"
	"github.com/taibuivan/userhub/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the credential HTTP endpoints.
//
// # Scope
//
// Handlers decode and validate the body, then call [Service]. Which of them
// require a bearer token is decided by the router's policy table, not here.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

/*
Login authenticates a user and returns a session.

POST /api/v1/user/auth

Request:
  - Body: LoginInput (username, password)

Response:
  - 200: Session: access_token, refresh_token, expires_in
  - 400: "Can't convert request", "invalid username", "invalid password"
  - 401: "Unauthorized"
*/
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var input LoginInput

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input.Username = validate.Username(input.Username)
	if err := input.Validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), input.Username, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
Create enrolls a new account.

POST /api/v1/user/create

Request:
  - Body: CreateUserInput (username, password, firstname, lastname)

Response:
  - 200: User: Created profile
  - 400: Validation failure
  - 409: "User with username=<u> already exists"
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input CreateUserInput

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input = input.Normalize()
	if err := input.Validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.CreateUser(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// changePasswordResponse acknowledges a password change.
type changePasswordResponse struct {
	ID int64 `json:"id"`
}

/*
ChangePassword replaces the password of an account.

POST /api/v1/user/password-change

Request:
  - Body: ChangePasswordInput (id, old_password, new_password)

Response:
  - 200: {"id": <id>}
  - 400: "invalid id", "invalid password", "Invalid old password"
  - 404: "User with id=<id> not found"
*/
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	var input ChangePasswordInput

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := input.Validate(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, changePasswordResponse{ID: input.ID})
}
