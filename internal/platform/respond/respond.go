// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// Every response, success or failure, is written inside the same envelope:
//
//	{"success": true,  "data": <payload>}
//	{"success": false, "data": {"status_code": 404, "error_msg": "..."}}
//
// status_code always mirrors the HTTP status line.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taibuivan/userhub/internal/platform/apperr"
	"github.com/taibuivan/userhub/internal/platform/ctxutil"
)

// Envelope is the JSON body of every API response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorBody is the Data payload of a failed response.
type ErrorBody struct {
	StatusCode int                 `json:"status_code"`
	ErrorMsg   string              `json:"error_msg"`
	Details    []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with data wrapped in the success envelope.
func OK(writer http.ResponseWriter, data any) {
	JSON(writer, http.StatusOK, Envelope{Success: true, Data: data})
}

// Error converts any Go error into the failure envelope.
//
// The status and message come from [apperr.StatusOf]. Server errors are
// logged with their cause and request id; the cause never reaches the client.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	status, message := apperr.StatusOf(err)

	body := ErrorBody{StatusCode: status, ErrorMsg: message}

	if status >= http.StatusInternalServerError {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.String("error", err.Error()),
			slog.Any("cause", errorCause(err)),
		)
	} else if appError := apperr.As(err); appError != nil {
		body.Details = appError.Details
	}

	JSON(writer, status, Envelope{Success: false, Data: body})
}

// errorCause returns the server-only cause of an [apperr.AppError], or err itself.
func errorCause(err error) error {
	if appError := apperr.As(err); appError != nil && appError.Cause != nil {
		return appError.Cause
	}
	return err
}
