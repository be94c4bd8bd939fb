// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"errors"
	"maps"
	"net/http"
	"time"

	relerrors "github.com/NVIDIA/release-phase/pkg/errors"
	"github.com/NVIDIA/release-phase/pkg/serializer"
	"github.com/google/uuid"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code      string         `json:"code" yaml:"code"`
	Message   string         `json:"message" yaml:"message"`
	Details   map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	RequestID string         `json:"requestId" yaml:"requestId"`
	Timestamp time.Time      `json:"timestamp" yaml:"timestamp"`
	Retryable bool           `json:"retryable" yaml:"retryable"`
}

// WriteError writes a structured error response. The request ID is taken
// from the context, or generated when the request bypassed the middleware.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code relerrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := RequestID(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	errResp := ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	}

	serializer.RespondJSON(w, statusCode, errResp)
}

// WriteErrorFromErr maps err to an error response. A StructuredError in the
// chain supplies status, code, message and context; anything else becomes
// an internal error with fallbackMessage. The cause, if any, is reported
// under details["error"].
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraDetails map[string]any) {
	var se *relerrors.StructuredError
	if errors.As(err, &se) {
		details := mergeDetails(se.Context, extraDetails)
		if se.Cause != nil {
			if details == nil {
				details = make(map[string]any)
			}
			details["error"] = se.Cause.Error()
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), details)
		return
	}

	details := mergeDetails(nil, extraDetails)
	if err != nil {
		if details == nil {
			details = make(map[string]any)
		}
		details["error"] = err.Error()
	}
	WriteError(w, r, http.StatusInternalServerError, relerrors.ErrCodeInternal, fallbackMessage,
		retryableFromCode(relerrors.ErrCodeInternal), details)
}

// HTTPStatusFromCode returns the HTTP status for an error code.
func HTTPStatusFromCode(code relerrors.ErrorCode) int {
	switch code {
	case relerrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case relerrors.ErrCodeInvalidConfig:
		return http.StatusUnprocessableEntity
	case relerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case relerrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case relerrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case relerrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case relerrors.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code relerrors.ErrorCode) bool {
	switch code {
	case relerrors.ErrCodeUnavailable, relerrors.ErrCodeRateLimitExceeded, relerrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with the entries of a then b, or nil when
// both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}
