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

package release

import (
	"fmt"
	"net/http"
	"time"

	"github.com/NVIDIA/release-phase/pkg/defaults"
	relerrors "github.com/NVIDIA/release-phase/pkg/errors"
	"github.com/NVIDIA/release-phase/pkg/phase"
	"github.com/NVIDIA/release-phase/pkg/serializer"
	"github.com/NVIDIA/release-phase/pkg/server"
	"github.com/NVIDIA/release-phase/pkg/version"
)

// MaxVersionLength bounds the version query parameter.
const MaxVersionLength = defaults.MaxVersionLength

// VersionResponse is the body of GET /v1/version.
type VersionResponse struct {
	Version    string          `json:"version" yaml:"version"`
	Parsed     version.Version `json:"parsed" yaml:"parsed"`
	IsSnapshot bool            `json:"isSnapshot" yaml:"isSnapshot"`
}

// Handler serves phase evaluations from a fixed evaluator. It is safe for
// concurrent use.
type Handler struct {
	evaluator *phase.Evaluator
	prefix    string
	cacheTTL  time.Duration
}

// NewHandler returns a Handler for ev naming properties under prefix.
func NewHandler(ev *phase.Evaluator, prefix string) *Handler {
	return &Handler{
		evaluator: ev,
		prefix:    prefix,
		cacheTTL:  defaults.PhaseCacheTTL,
	}
}

// Routes returns the handler's routes for server.WithHandler.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/phase":   h.HandlePhase,
		"/v1/version": h.HandleVersion,
		"/v1/rules":   h.HandleRules,
	}
}

// HandlePhase handles GET /v1/phase?version=V and returns a Result.
func (h *Handler) HandlePhase(w http.ResponseWriter, r *http.Request) {
	raw, ok := versionParam(w, r)
	if !ok {
		return
	}

	h.setCacheHeaders(w)
	serializer.RespondJSON(w, http.StatusOK, Resolve(h.evaluator, raw, h.prefix))
}

// HandleVersion handles GET /v1/version?version=V and returns the parsed
// components without evaluating rules.
func (h *Handler) HandleVersion(w http.ResponseWriter, r *http.Request) {
	raw, ok := versionParam(w, r)
	if !ok {
		return
	}

	v := version.Parse(raw)
	h.setCacheHeaders(w)
	serializer.RespondJSON(w, http.StatusOK, VersionResponse{
		Version:    raw,
		Parsed:     v,
		IsSnapshot: v.IsSnapshot(),
	})
}

// HandleRules handles GET /v1/rules and returns the effective rule set,
// in evaluation order and with assigned priorities.
func (h *Handler) HandleRules(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}

	h.setCacheHeaders(w)
	serializer.RespondJSON(w, http.StatusOK, h.evaluator.Config())
}

func (h *Handler) setCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(h.cacheTTL.Seconds())))
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	server.WriteError(w, r, http.StatusMethodNotAllowed, relerrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{
			"method":  r.Method,
			"allowed": []string{http.MethodGet},
		})
	return false
}

// versionParam extracts the version query parameter, writing an error
// response when it is missing or too long. An empty value is accepted when
// the parameter is present.
func versionParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	if !allowGet(w, r) {
		return "", false
	}

	query := r.URL.Query()
	if !query.Has("version") {
		server.WriteError(w, r, http.StatusBadRequest, relerrors.ErrCodeInvalidRequest,
			"version query parameter is required", false, nil)
		return "", false
	}

	raw := query.Get("version")
	if len(raw) > MaxVersionLength {
		server.WriteError(w, r, http.StatusBadRequest, relerrors.ErrCodeInvalidRequest,
			"version is too long", false, map[string]any{
				"length": len(raw),
				"max":    MaxVersionLength,
			})
		return "", false
	}

	return raw, true
}
