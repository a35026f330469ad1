// Copyright (C) 2026 the Resource Catalogue Authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
//
// SPDX-License-Identifier: MIT

package common

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/madgik/resource-catalogue-go/internal/common/log"
	"github.com/madgik/resource-catalogue-go/internal/common/model"
)

const (
	prefixBadRequest   = "400 Bad Request: "
	prefixUnauthorized = "401 Unauthorized: "
	prefixForbidden    = "403 Forbidden: "
	prefixNotFound     = "404 Not Found: "
	prefixConflict     = "409 Conflict: "
)

type ErrorHandler struct {
	MessageType   string `json:"messageType"`
	Text          string `json:"text"`
	Code          string `json:"code,omitempty"`
	CorrelationId string `json:"correlationId,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

func NewErrorHandler(messageType string, text error, code string, correlationId string, timestamp string) *ErrorHandler {
	return &ErrorHandler{
		MessageType:   messageType,
		Text:          text.Error(),
		Code:          code,
		CorrelationId: correlationId,
		Timestamp:     timestamp,
	}
}

// Result is the body of every error response.
type Result struct {
	Messages []*ErrorHandler `json:"messages"`
}

// NewErrorResponse builds the error response of an operation. The log line
// carries the component, operation and info code; the body carries the status
// code and a correlation id.
func NewErrorResponse(err error, status int, component, operation, info string) model.ImplResponse {
	correlationID := uuid.NewString()
	entry := log.Component(component).WithField("op", operation).WithField("info", info).WithField("correlationId", correlationID)
	if status >= http.StatusInternalServerError {
		entry.Errorf("%v", err)
	} else {
		entry.Infof("%v", err)
	}
	return model.Response(status, Result{
		Messages: []*ErrorHandler{
			NewErrorHandler("Error", err, strconv.Itoa(status), correlationID, GetCurrentTimestamp()),
		},
	})
}

// NewErrorResponseFromError derives the status from the error prefix.
func NewErrorResponseFromError(err error, component, operation string) model.ImplResponse {
	status := StatusFromError(err)
	return NewErrorResponse(err, status, component, operation, http.StatusText(status))
}

// ValidationErrorBody is returned when a payload fails schema validation.
type ValidationErrorBody struct {
	Timestamp string   `json:"timestamp"`
	Status    int      `json:"status"`
	Errors    []string `json:"errors"`
}

// NewValidationErrorResponse builds a 400 response listing the validation errors.
func NewValidationErrorResponse(errs []string) model.ImplResponse {
	return model.Response(http.StatusBadRequest, ValidationErrorBody{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    http.StatusBadRequest,
		Errors:    errs,
	})
}

// ValidationError carries the individual messages of a failed validation.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return prefixBadRequest + strings.Join(e.Errors, "; ")
}

// IsValidationError returns the validation error wrapped in err, if any.
func IsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	ok := errors.As(err, &v)
	return v, ok
}

func NewErrNotFound(elementId string) error {
	return errors.New(prefixNotFound + elementId)
}

func NewErrBadRequest(message string) error {
	return errors.New(prefixBadRequest + message)
}

func NewErrConflict(message string) error {
	return errors.New(prefixConflict + message)
}

func NewErrForbidden(message string) error {
	return errors.New(prefixForbidden + message)
}

func NewErrUnauthorized(message string) error {
	return errors.New(prefixUnauthorized + message)
}

func IsErrNotFound(err error) bool {
	return hasPrefix(err, prefixNotFound)
}

func IsErrBadRequest(err error) bool {
	return hasPrefix(err, prefixBadRequest)
}

func IsErrConflict(err error) bool {
	return hasPrefix(err, prefixConflict)
}

func IsErrForbidden(err error) bool {
	return hasPrefix(err, prefixForbidden)
}

func IsErrUnauthorized(err error) bool {
	return hasPrefix(err, prefixUnauthorized)
}

func hasPrefix(err error, prefix string) bool {
	return err != nil && strings.HasPrefix(err.Error(), prefix)
}

// ErrorMessage strips the status prefix from err.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, p := range []string{prefixBadRequest, prefixUnauthorized, prefixForbidden, prefixNotFound, prefixConflict} {
		if strings.HasPrefix(msg, p) {
			return strings.TrimPrefix(msg, p)
		}
	}
	return msg
}

// StatusFromError maps an error to its HTTP status, defaulting to 500.
func StatusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsErrBadRequest(err):
		return http.StatusBadRequest
	case IsErrUnauthorized(err):
		return http.StatusUnauthorized
	case IsErrForbidden(err):
		return http.StatusForbidden
	case IsErrNotFound(err):
		return http.StatusNotFound
	case IsErrConflict(err):
		return http.StatusConflict
	}
	if _, ok := IsValidationError(err); ok {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
