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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/NVIDIA/release-phase/pkg/phase"
	"github.com/NVIDIA/release-phase/pkg/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	ev, err := phase.NewEvaluator(testConfig())
	require.NoError(t, err)
	return NewHandler(ev, DefaultPrefix)
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func TestHandlePhase(t *testing.T) {
	h := newTestHandler(t)

	w := get(h.HandlePhase, "/v1/phase?version="+url.QueryEscape("1.0.0-beta-5"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=600", w.Header().Get("Cache-Control"))

	var res Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "2.5", res.Phase)
	assert.Equal(t, phase.ReasonRule, res.Reason)
	assert.Equal(t, "2.5", res.Properties["releasePhase.phase"])
	require.NotNil(t, res.Parsed.Major)
	assert.Equal(t, 1, *res.Parsed.Major)
	require.NotNil(t, res.Rule)
	assert.Equal(t, "beta-([0-9]+)", res.Rule.Pattern)
}

func TestHandlePhase_EmptyVersion(t *testing.T) {
	h := newTestHandler(t)

	w := get(h.HandlePhase, "/v1/phase?version=")
	require.Equal(t, http.StatusOK, w.Code)

	var res Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "1", res.Phase)
	assert.Equal(t, phase.ReasonNoQualifier, res.Reason)
}

func TestHandlePhase_Errors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name   string
		method string
		target string
		status int
		code   string
	}{
		{"missing version", http.MethodGet, "/v1/phase", http.StatusBadRequest, "INVALID_REQUEST"},
		{"too long", http.MethodGet, "/v1/phase?version=" + strings.Repeat("1", MaxVersionLength+1), http.StatusBadRequest, "INVALID_REQUEST"},
		{"wrong method", http.MethodPost, "/v1/phase?version=1", http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()
			h.HandlePhase(w, req)

			require.Equal(t, tt.status, w.Code)
			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Code)
			assert.False(t, resp.Retryable)
			assert.Empty(t, w.Header().Get("Cache-Control"))
		})
	}
}

func TestHandleVersion(t *testing.T) {
	h := newTestHandler(t)

	w := get(h.HandleVersion, "/v1/version?version="+url.QueryEscape("1.0.0.0-SNAPSHOT"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp VersionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "1.0.0.0-SNAPSHOT", resp.Version)
	assert.True(t, resp.IsSnapshot)
	require.NotNil(t, resp.Parsed.Qualifier)
	assert.Equal(t, "0-SNAPSHOT", *resp.Parsed.Qualifier)

	w = get(h.HandleVersion, "/v1/version")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleRules(t *testing.T) {
	h := newTestHandler(t)

	w := get(h.HandleRules, "/v1/rules")
	require.Equal(t, http.StatusOK, w.Code)

	var cfg phase.Config
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, "0", cfg.SnapshotPhase)
	assert.Equal(t, "1", cfg.DefaultPhase)
	require.Len(t, cfg.Rules, 3)
	assert.Equal(t, "(?i)rc([0-9]+)", cfg.Rules[0].Pattern)
	require.NotNil(t, cfg.Rules[0].Priority)
	assert.Equal(t, -1, *cfg.Rules[0].Priority)
	assert.Equal(t, 2, *cfg.Rules[2].Priority)
}

func TestHandler_Routes(t *testing.T) {
	routes := newTestHandler(t).Routes()
	for _, path := range []string{"/v1/phase", "/v1/version", "/v1/rules"} {
		assert.Contains(t, routes, path)
	}
}

func TestHandlePhase_Concurrent(t *testing.T) {
	h := newTestHandler(t)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := get(h.HandlePhase, "/v1/phase?version=1.0.0-beta-9")
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"phase":"2.9"`)
		}()
	}
	wg.Wait()
}
