// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// Using a private, unexported type for keys prevents collisions with
// third-party packages that also store values in a context.
package ctxkey

// key is an unexported type used for context keys.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyPrincipal is the context key for the verified [sec.Principal].
	KeyPrincipal key = "principal"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
