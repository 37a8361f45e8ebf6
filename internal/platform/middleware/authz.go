// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/userhub/internal/platform/apperr"
	"github.com/taibuivan/userhub/internal/platform/constants"
	"github.com/taibuivan/userhub/internal/platform/ctxutil"
	"github.com/taibuivan/userhub/internal/platform/metrics"
	"github.com/taibuivan/userhub/internal/platform/respond"
	"github.com/taibuivan/userhub/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// Verify must return an error wrapping [sec.ErrTokenExpired] for expired
// tokens; any other error is treated as a malformed credential.
type TokenVerifier interface {
	Verify(token string) (*sec.Principal, error)
}

// # Auth Outcome

// RejectReason explains why the gate refused a request.
type RejectReason int

const (
	// RejectNone means the request was authenticated.
	RejectNone RejectReason = iota
	RejectMissing
	RejectMalformed
	RejectExpired
)

// String returns the label used in logs and metrics.
func (reason RejectReason) String() string {
	switch reason {
	case RejectNone:
		return "authenticated"
	case RejectMissing:
		return "missing"
	case RejectMalformed:
		return "malformed"
	case RejectExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Outcome is the result of one gate decision: either a principal or a reason.
type Outcome struct {
	Principal *sec.Principal
	Reason    RejectReason
}

// Authenticated reports whether the outcome carries a verified principal.
func (outcome Outcome) Authenticated() bool {
	return outcome.Reason == RejectNone && outcome.Principal != nil
}

func rejected(reason RejectReason) Outcome {
	return Outcome{Reason: reason}
}

// # Gate

// Gate turns an Authorization header into an [Outcome].
//
// It performs no I/O; given the verifier's secrets and clock it is pure.
type Gate struct {
	verifier TokenVerifier
}

// NewGate creates a [Gate] backed by verifier.
func NewGate(verifier TokenVerifier) *Gate {
	return &Gate{verifier: verifier}
}

/*
Authenticate decides the outcome for a raw Authorization header value.

Parameters:
  - header: nil when the header is absent.

Returns:
  - RejectMissing for an absent header.
  - RejectMalformed when the "Bearer " prefix (case-sensitive) is missing,
    the token is empty, or the verifier reports anything but expiry.
  - RejectExpired when the verifier reports [sec.ErrTokenExpired].
  - An authenticated outcome otherwise.
*/
func (gate *Gate) Authenticate(header *string) Outcome {
	if header == nil {
		return rejected(RejectMissing)
	}

	token, found := strings.CutPrefix(*header, constants.BearerPrefix)
	if !found || token == "" {
		return rejected(RejectMalformed)
	}

	principal, err := gate.verifier.Verify(token)
	switch {
	case errors.Is(err, sec.ErrTokenExpired):
		return rejected(RejectExpired)
	case err != nil || principal == nil:
		return rejected(RejectMalformed)
	}

	return Outcome{Principal: principal, Reason: RejectNone}
}

// RequireBearer blocks requests that the gate does not authenticate.
//
// # Flow
//  1. Read the Authorization header (absent maps to nil).
//  2. Ask the [Gate] for an [Outcome] and count it.
//  3. On rejection, answer 401 "Unauthorized" inside the standard envelope.
//  4. On success, store the [*sec.Principal] in the request context.
func RequireBearer(gate *Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			outcome := gate.Authenticate(authorizationHeader(request))
			metrics.RecordGateOutcome(outcome.Reason.String())

			if !outcome.Authenticated() {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "auth_gate_rejected",
					slog.String("reason", outcome.Reason.String()),
				)
				writer.Header().Set("WWW-Authenticate", "Bearer")
				respond.Error(writer, request, apperr.Unauthorized("Unauthorized"))
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), outcome.Principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// authorizationHeader returns the first Authorization value, or nil if absent.
func authorizationHeader(request *http.Request) *string {
	values := request.Header.Values(constants.HeaderAuthorization)
	if len(values) == 0 {
		return nil
	}
	return &values[0]
}
