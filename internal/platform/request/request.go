// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/userhub/internal/platform/apperr"
	"github.com/taibuivan/userhub/internal/platform/validate"
)

// maxBodyBytes caps request bodies; every payload here is a handful of fields.
const maxBodyBytes = 1 << 16

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to cap the body size)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	body := http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
IDParam parses a named URL parameter as a positive integer id.

Returns:
  - int64: The id
  - error: apperr.BadRequest("invalid id") when absent, non-numeric or not positive
*/
func IDParam(request *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(request, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest("invalid id")
	}
	return id, nil
}
