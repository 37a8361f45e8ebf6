// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/userhub/internal/platform/ctxutil"
	"github.com/taibuivan/userhub/internal/platform/middleware"
	"github.com/taibuivan/userhub/internal/platform/sec"
)

// mockVerifier is a testify mock of [middleware.TokenVerifier].
type mockVerifier struct {
	mock.Mock
}

func (m *mockVerifier) Verify(token string) (*sec.Principal, error) {
	args := m.Called(token)
	principal, _ := args.Get(0).(*sec.Principal)
	return principal, args.Error(1)
}

func header(value string) *string { return &value }

/*
TestGate_Authenticate covers every branch of the header-to-outcome decision.
*/
func TestGate_Authenticate(t *testing.T) {
	principal := &sec.Principal{Subject: "jdoe", RemainingValidity: 5 * time.Minute}

	tests := []struct {
		name       string
		header     *string
		setup      func(m *mockVerifier)
		wantReason middleware.RejectReason
	}{
		{
			name:       "absent_header",
			header:     nil,
			wantReason: middleware.RejectMissing,
		},
		{
			name:       "lowercase_scheme",
			header:     header("bearer abc.def.ghi"),
			wantReason: middleware.RejectMalformed,
		},
		{
			name:       "basic_scheme",
			header:     header("Basic amRvZTpzZWNyZXQx"),
			wantReason: middleware.RejectMalformed,
		},
		{
			name:       "shorter_than_prefix",
			header:     header("Bear"),
			wantReason: middleware.RejectMalformed,
		},
		{
			name:       "empty_token",
			header:     header("Bearer "),
			wantReason: middleware.RejectMalformed,
		},
		{
			name:       "empty_header",
			header:     header(""),
			wantReason: middleware.RejectMalformed,
		},
		{
			name:   "invalid_token",
			header: header("Bearer forged"),
			setup: func(m *mockVerifier) {
				m.On("Verify", "forged").Return(nil, sec.ErrTokenInvalid)
			},
			wantReason: middleware.RejectMalformed,
		},
		{
			name:   "expired_token",
			header: header("Bearer stale"),
			setup: func(m *mockVerifier) {
				m.On("Verify", "stale").Return(nil, fmt.Errorf("wrapped: %w", sec.ErrTokenExpired))
			},
			wantReason: middleware.RejectExpired,
		},
		{
			name:   "unexpected_verifier_error",
			header: header("Bearer odd"),
			setup: func(m *mockVerifier) {
				m.On("Verify", "odd").Return(nil, errors.New("boom"))
			},
			wantReason: middleware.RejectMalformed,
		},
		{
			name:   "valid_token",
			header: header("Bearer good"),
			setup: func(m *mockVerifier) {
				m.On("Verify", "good").Return(principal, nil)
			},
			wantReason: middleware.RejectNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &mockVerifier{}
			if tt.setup != nil {
				tt.setup(verifier)
			}

			outcome := middleware.NewGate(verifier).Authenticate(tt.header)

			assert.Equal(t, tt.wantReason, outcome.Reason)
			assert.Equal(t, tt.wantReason == middleware.RejectNone, outcome.Authenticated())
			if outcome.Authenticated() {
				assert.Equal(t, principal, outcome.Principal)
			}
			verifier.AssertExpectations(t)
		})
	}
}

/*
TestGate_WithRealTokens runs the gate against the real token service.
*/
func TestGate_WithRealTokens(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	service, err := sec.NewTokenService("primary-secret-0123456789abcdef", nil, sec.WithClock(clock))
	require.NoError(t, err)
	gate := middleware.NewGate(service)

	token, err := service.Issue("jdoe", 5*time.Minute)
	require.NoError(t, err)

	outcome := gate.Authenticate(header("Bearer " + token))
	require.True(t, outcome.Authenticated())
	assert.Equal(t, "jdoe", outcome.Principal.Subject)
	assert.Equal(t, 5*time.Minute, outcome.Principal.RemainingValidity)

	// Graft another subject's payload onto this token's signature.
	other, err := service.Issue("mallory", 5*time.Minute)
	require.NoError(t, err)
	tokenParts, otherParts := strings.Split(token, "."), strings.Split(other, ".")
	forged := tokenParts[0] + "." + otherParts[1] + "." + tokenParts[2]
	assert.Equal(t, middleware.RejectMalformed, gate.Authenticate(header("Bearer "+forged)).Reason)

	now = now.Add(5*time.Minute + time.Second)
	assert.Equal(t, middleware.RejectExpired, gate.Authenticate(header("Bearer "+token)).Reason)
}

/*
TestRequireBearer verifies the HTTP adapter: 401 envelope on rejection,
principal in context on success.
*/
func TestRequireBearer(t *testing.T) {
	principal := &sec.Principal{Subject: "jdoe", RemainingValidity: time.Minute}
	verifier := &mockVerifier{}
	verifier.On("Verify", "good").Return(principal, nil)
	verifier.On("Verify", "stale").Return(nil, sec.ErrTokenExpired)

	var seen *sec.Principal
	protected := middleware.RequireBearer(middleware.NewGate(verifier))(
		http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			seen = ctxutil.GetPrincipal(request.Context())
			writer.WriteHeader(http.StatusNoContent)
		}),
	)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Token good", http.StatusUnauthorized},
		{"expired", "Bearer stale", http.StatusUnauthorized},
		{"authenticated", "Bearer good", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			request := httptest.NewRequest(http.MethodPost, "/api/v1/user/create", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()

			protected.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantStatus != http.StatusUnauthorized {
				assert.Equal(t, principal, seen)
				return
			}

			assert.Nil(t, seen)
			assert.Equal(t, "Bearer", recorder.Header().Get("WWW-Authenticate"))

			var body struct {
				Success bool `json:"success"`
				Data    struct {
					StatusCode int    `json:"status_code"`
					ErrorMsg   string `json:"error_msg"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, http.StatusUnauthorized, body.Data.StatusCode)
			assert.Equal(t, "Unauthorized", body.Data.ErrorMsg)
		})
	}
}

func TestRejectReason_String(t *testing.T) {
	assert.Equal(t, "missing", middleware.RejectMissing.String())
	assert.Equal(t, "malformed", middleware.RejectMalformed.String())
	assert.Equal(t, "expired", middleware.RejectExpired.String())
	assert.Equal(t, "authenticated", middleware.RejectNone.String())
}
