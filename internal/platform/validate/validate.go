// Copyright (c) 2026 Userhub. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Validation runs at the HTTP boundary, before a use case is invoked. A
// failing request never reaches the service layer. The first failing rule
// supplies the top-level message; every failure is listed in the details.
package validate

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/userhub/internal/platform/apperr"
)

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.BadRequest("Can't convert request")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, message)
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int, message string) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, message)
	}
	return v
}

// MaxBytes fails if the encoded length of value exceeds max bytes.
func (v *Validator) MaxBytes(field, value string, max int, message string) *Validator {
	if len(value) > max {
		v.add(field, message)
	}
	return v
}

// Positive fails if value is zero or negative.
func (v *Validator) Positive(field string, value int64, message string) *Validator {
	if value <= 0 {
		v.add(field, message)
	}
	return v
}

// Err returns a BadRequest [apperr.AppError] if any rule failed, or nil.
//
// This is the only output method. Call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.BadRequest(v.errs[0].Message, v.errs...)
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// # Normalization

// Username trims surrounding whitespace and applies Unicode NFC so that
// visually identical usernames compare equal.
func Username(raw string) string {
	return norm.NFC.String(strings.TrimSpace(raw))
}
