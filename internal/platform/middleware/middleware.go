// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the HTTP chain shared by every Userhub route.

Standard Stack:

  - RequestID: correlation id, accepted from the client when well formed.
  - StructuredLogger: one access line per request plus a request-scoped logger.
  - PanicRecovery: a panicking handler becomes a 500 envelope.
  - CORS: origin allow-list by domain suffix.
  - RequireBearer: the token gate (authz.go).
*/
package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taibuivan/userhub/internal/platform/apperr"
	"github.com/taibuivan/userhub/internal/platform/constants"
	"github.com/taibuivan/userhub/internal/platform/ctxutil"
	"github.com/taibuivan/userhub/internal/platform/respond"
)

// # Request Tracing

// maxRequestIDLength caps client-supplied correlation ids.
const maxRequestIDLength = 128

// RequestID attaches a correlation ID to every request.
//
// A client-supplied X-Request-ID is kept when it is short printable ASCII;
// otherwise a fresh UUID replaces it so log lines cannot be forged.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if !isWellFormedRequestID(requestID) {
				requestID = uuid.NewString()
			}

			writer.Header().Set(constants.HeaderXRequestID, requestID)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithRequestID(request.Context(), requestID)))
		})
	}
}

func isWellFormedRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for index := 0; index < len(id); index++ {
		if id[index] < '!' || id[index] > '~' {
			return false
		}
	}
	return true
}

// # Access Logging

// responseRecorder captures what the handler wrote for the access line.
type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (recorder *responseRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *responseRecorder) Write(body []byte) (int, error) {
	written, err := recorder.ResponseWriter.Write(body)
	recorder.bytes += written
	return written, err
}

// levelFor maps a response status to the access-line level.
func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// StructuredLogger writes one "http_request_finished" line per request and
// stores a request-scoped logger for handlers to use via [ctxutil.GetLogger].
//
// The Authorization header is never logged.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &responseRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			requestLogger.LogAttrs(ctx, levelFor(recorder.status), "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int("bytes", recorder.bytes),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.Bool("has_credentials", request.Header.Get(constants.HeaderAuthorization) != ""),
			)
		})
	}
}

// # Reliability

// PanicRecovery turns a panic into a 500 envelope and logs the stack.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(debug.Stack())),
				)
				respond.Error(writer, request, apperr.Internal(fmt.Errorf("panic: %v", recovered)))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
	OriginSuffix() string
}

const (
	corsAllowMethods  = "GET, POST, PUT, OPTIONS"
	corsAllowHeaders  = "Accept, Content-Type, Content-Length, Authorization, X-Request-ID"
	corsExposeHeaders = "Content-Length, X-Request-ID, WWW-Authenticate"
)

// CORS allows any origin in development. Elsewhere the origin host must be
// the configured suffix or a subdomain of it.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			if cfg.IsDevelopment() || originAllowed(origin, cfg.OriginSuffix()) {
				header := writer.Header()
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", corsAllowMethods)
				header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				header.Set("Access-Control-Expose-Headers", corsExposeHeaders)
				header.Set("Access-Control-Max-Age", "300")
				header.Add("Vary", "Origin")
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// originAllowed matches on a label boundary, so "evil-userhub.app" does not
// pass for suffix "userhub.app".
func originAllowed(origin, suffix string) bool {
	if suffix == "" {
		return false
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	suffix = strings.ToLower(strings.TrimPrefix(suffix, "."))
	return host == suffix || strings.HasSuffix(host, "."+suffix)
}

// # Helpers

// RealIP returns the client address, preferring X-Real-IP, then the first
// X-Forwarded-For hop, then the connection peer.
func RealIP(request *http.Request) string {
	if ip := request.Header.Get(constants.HeaderXRealIP); ip != "" {
		return ip
	}
	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
