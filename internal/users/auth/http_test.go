// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/userhub/internal/users/auth"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

type errorData struct {
	StatusCode int    `json:"status_code"`
	ErrorMsg   string `json:"error_msg"`
}

func serve(handler http.HandlerFunc, method, body string) (*httptest.ResponseRecorder, envelope) {
	recorder := httptest.NewRecorder()
	handler(recorder, httptest.NewRequest(method, "/", strings.NewReader(body)))

	var decoded envelope
	_ = json.Unmarshal(recorder.Body.Bytes(), &decoded)
	return recorder, decoded
}

func decodeError(t *testing.T, env envelope) errorData {
	t.Helper()
	require.False(t, env.Success)
	var data errorData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"undecodable body", `{"username":`, http.StatusBadRequest, "Can't convert request"},
		{"short username", `{"username":"jdoe","password":"secret1"}`, http.StatusBadRequest, "invalid username"},
		{"short password", `{"username":"jdoe1","password":"abc"}`, http.StatusBadRequest, "invalid password"},
		{"wrong password", `{"username":"jdoe1","password":"wrong1"}`, http.StatusUnauthorized, "Unauthorized"},
		{"unknown user", `{"username":"nobody","password":"secret1"}`, http.StatusUnauthorized, "Unauthorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, "jdoe1", "secret1")
			handler := auth.NewHandler(f.service)

			recorder, env := serve(handler.Login, http.MethodPost, tt.body)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			data := decodeError(t, env)
			assert.Equal(t, tt.wantStatus, data.StatusCode)
			assert.Equal(t, tt.wantMsg, data.ErrorMsg)
		})
	}

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.seed(t, "jdoe1", "secret1")
		handler := auth.NewHandler(f.service)

		recorder, env := serve(handler.Login, http.MethodPost, `{"username":" jdoe1 ","password":"secret1"}`)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, env.Success)

		var session auth.Session
		require.NoError(t, json.Unmarshal(env.Data, &session))
		assert.NotEmpty(t, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
		assert.Equal(t, int64(300), session.ExpiresIn)
	})
}

func TestHandler_Create(t *testing.T) {
	t.Run("created profile has no password", func(t *testing.T) {
		f := newFixture(t)
		handler := auth.NewHandler(f.service)

		recorder, env := serve(handler.Create, http.MethodPost,
			`{"username":"alice","password":"secret1","firstname":"Alice","lastname":"Liddell"}`)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.True(t, env.Success)
		assert.NotContains(t, string(env.Data), "password")

		var user auth.User
		require.NoError(t, json.Unmarshal(env.Data, &user))
		assert.Equal(t, "alice", user.Username)
		assert.NotZero(t, user.ID)
	})

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"four character username", `{"username":"abcd","password":"abcde","firstname":"A","lastname":"B"}`, http.StatusBadRequest, "invalid username"},
		{"empty firstname", `{"username":"abcde","password":"abcde","firstname":"","lastname":"Doe"}`, http.StatusBadRequest, "firstname is empty"},
		{"existing username", `{"username":"jdoe1","password":"abcde","firstname":"A","lastname":"B"}`, http.StatusConflict, "User with username=jdoe1 already exists"},
		{"wrong json type", `{"username":5}`, http.StatusBadRequest, "Can't convert request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, "jdoe1", "secret1")
			handler := auth.NewHandler(f.service)

			recorder, env := serve(handler.Create, http.MethodPost, tt.body)
			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, env).ErrorMsg)
		})
	}
}

func TestHandler_ChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"success", `{"id":1,"old_password":"secret1","new_password":"secret2"}`, http.StatusOK, ""},
		{"wrong old password", `{"id":1,"old_password":"wrong1","new_password":"secret2"}`, http.StatusBadRequest, "Invalid old password"},
		{"unknown id", `{"id":999,"old_password":"secret1","new_password":"secret2"}`, http.StatusNotFound, "User with id=999 not found"},
		{"missing id", `{"old_password":"secret1","new_password":"secret2"}`, http.StatusBadRequest, "invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seed(t, "jdoe1", "secret1")
			handler := auth.NewHandler(f.service)

			recorder, env := serve(handler.ChangePassword, http.MethodPost, tt.body)
			assert.Equal(t, tt.wantStatus, recorder.Code)

			if tt.wantMsg == "" {
				assert.True(t, env.Success)
				assert.JSONEq(t, `{"id":1}`, string(env.Data))
				return
			}
			assert.Equal(t, tt.wantMsg, decodeError(t, env).ErrorMsg)
		})
	}
}

func TestHandler_WritesLogPlainEvents(t *testing.T) {
	f := newFixture(t)
	var buf bytes.Buffer
	service := auth.NewService(f.store, f.hasher, f.tokens, slog.New(slog.NewJSONHandler(&buf, nil)))
	handler := auth.NewHandler(service)

	recorder, env := serve(handler.Create, http.MethodPost,
		`{"username":"alice","password":"secret1","firstname":"Alice","lastname":"Liddell"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	var user auth.User
	require.NoError(t, json.Unmarshal(env.Data, &user))

	recorder, _ = serve(handler.ChangePassword, http.MethodPost,
		`{"id":`+strconv.FormatInt(user.ID, 10)+`,"old_password":"secret1","new_password":"secret2"}`)
	require.Equal(t, http.StatusOK, recorder.Code)

	var events []string
	scanner := bufio.NewScanner(&buf)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		assert.NotContains(t, line, "actor")
		assert.Equal(t, float64(user.ID), line["user_id"])
		events = append(events, line["msg"].(string))
	}
	assert.Equal(t, []string{"user_created", "password_changed"}, events)
}
