// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import "net/http"

// # Access Policy

// Access tells the router whether a route sits behind the bearer gate.
type Access int

const (
	// Protected routes require a valid bearer token.
	Protected Access = iota

	// Public routes are reachable without a token.
	Public
)

// String implements fmt.Stringer.
func (access Access) String() string {
	if access == Public {
		return "public"
	}
	return "protected"
}

// Route is one row of the user API table.
type Route struct {
	Method  string
	Pattern string
	Access  Access
	Handler http.HandlerFunc
}

// UserRoutesPrefix is where [UserRoutes] are mounted.
const UserRoutesPrefix = "/api/v1/user"

/*
UserRoutes is the single place that decides which operations need a token.

Login is the only public operation; it is how a token is obtained. The
zero value of [Access] is Protected, so a row that forgets its access level
fails closed.
*/
func UserRoutes(h Handlers) []Route {
	return []Route{
		{Method: http.MethodPost, Pattern: "/auth", Access: Public, Handler: h.Auth.Login},
		{Method: http.MethodPost, Pattern: "/create", Access: Protected, Handler: h.Auth.Create},
		{Method: http.MethodPost, Pattern: "/password-change", Access: Protected, Handler: h.Auth.ChangePassword},
		{Method: http.MethodPut, Pattern: "/update", Access: Protected, Handler: h.Account.Update},
		{Method: http.MethodGet, Pattern: "/list", Access: Protected, Handler: h.Account.List},
		{Method: http.MethodGet, Pattern: "/{id}/get", Access: Protected, Handler: h.Account.GetByID},
		{Method: http.MethodGet, Pattern: "/by-username/{username}", Access: Protected, Handler: h.Account.GetByUsername},
	}
}
