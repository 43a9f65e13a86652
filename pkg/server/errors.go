/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	cuderrors "github.com/cudalis/cudalis/pkg/errors"
	"github.com/cudalis/cudalis/pkg/serializer"
)

// ErrorResponse is the JSON error body for all API failures.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// writeError writes an error response carrying the request ID.
func writeError(w http.ResponseWriter, r *http.Request, statusCode int,
	code cuderrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// statusFor maps domain error codes to HTTP status codes.
func statusFor(err error) int {
	switch cuderrors.CodeOf(err) {
	case cuderrors.ErrCodeUnknownVersion, cuderrors.ErrCodeNoCompatibleVersion:
		return http.StatusNotFound
	case cuderrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case cuderrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case cuderrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case cuderrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
