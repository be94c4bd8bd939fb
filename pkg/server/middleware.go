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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"

	relerrors "github.com/NVIDIA/release-phase/pkg/errors"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

type middleware func(http.HandlerFunc) http.HandlerFunc

// chain applies mws so that mws[0] is the outermost.
func chain(h http.HandlerFunc, mws ...middleware) http.HandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// withMiddleware wraps the API handler registered at route. Metrics are
// labeled with route rather than the request path so that arbitrary paths
// served by "/" do not create new series.
func (s *Server) withMiddleware(route string, handler http.HandlerFunc) http.HandlerFunc {
	return chain(handler,
		s.metricsMiddleware(route),
		s.versionMiddleware,
		s.requestIDMiddleware,
		s.panicRecoveryMiddleware, // outside the limiter so panics do not spend tokens
		s.rateLimitMiddleware,
		s.loggingMiddleware,
	)
}

// versionMiddleware negotiates the API version and echoes it in the response.
func (s *Server) versionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := negotiateAPIVersion(r)
		SetAPIVersionHeader(w, version)
		next(w, r.WithContext(context.WithValue(r.Context(), contextKeyAPIVersion, version)))
	}
}

// requestIDMiddleware keeps a caller supplied UUID or assigns a new one.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next(w, r.WithContext(context.WithValue(r.Context(), contextKeyRequestID, id)))
	}
}

// rateLimitMiddleware rejects requests that would have to wait for a token.
func (s *Server) rateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := s.rateLimiter.Reserve()
		if !res.OK() || res.Delay() > 0 {
			retryAfter := 1
			if res.OK() {
				retryAfter = max(1, int(math.Ceil(res.Delay().Seconds())))
				res.Cancel()
			}
			rateLimitRejects.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			WriteError(w, r, http.StatusTooManyRequests, relerrors.ErrCodeRateLimitExceeded,
				"Rate limit exceeded", true, map[string]any{
					"limit": s.config.RateLimit,
					"burst": s.config.RateLimitBurst,
				})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.FormatFloat(float64(s.rateLimiter.Limit()), 'f', -1, 64))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, int(s.rateLimiter.Tokens()))))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

		next(w, r)
	}
}

// panicRecoveryMiddleware turns a handler panic into a 500 response.
// http.ErrAbortHandler is re-raised so the server aborts the response.
func (s *Server) panicRecoveryMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			panicRecoveries.Inc()
			Logger(r.Context()).Error("panic recovered",
				"panic", fmt.Sprint(rec),
				"path", r.URL.Path,
				"method", r.Method,
				"stack", string(debug.Stack()),
			)
			WriteError(w, r, http.StatusInternalServerError, relerrors.ErrCodeInternal,
				"Internal server error", true, nil)
		}()
		next(w, r)
	}
}

// loggingMiddleware logs each completed request; server errors at warn.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)

		next(rec, r)

		level := slog.LevelDebug
		if rec.Status() >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		Logger(r.Context()).Log(r.Context(), level, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"status", rec.Status(),
			"bytes", rec.Bytes(),
			"duration", time.Since(start).String(),
		)
	}
}
