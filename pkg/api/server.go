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

package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/NVIDIA/release-phase/pkg/defaults"
	"github.com/NVIDIA/release-phase/pkg/logging"
	"github.com/NVIDIA/release-phase/pkg/phase"
	"github.com/NVIDIA/release-phase/pkg/release"
	"github.com/NVIDIA/release-phase/pkg/serializer"
	"github.com/NVIDIA/release-phase/pkg/server"
)

const (
	name           = "relphased"
	versionDefault = "dev"

	// EnvRules names the rule source: a file path, http(s) URL or
	// cm://namespace/name ConfigMap URI.
	EnvRules = "RELPHASE_RULES"
	// EnvPrefix overrides the property prefix; set it empty for no prefix.
	EnvPrefix = "RELPHASE_PREFIX"
	// EnvDefaultPhase overrides the rule set's default phase.
	EnvDefaultPhase = "RELPHASE_DEFAULT_PHASE"
	// EnvSnapshotPhase overrides the rule set's snapshot phase.
	EnvSnapshotPhase = "RELPHASE_SNAPSHOT_PHASE"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/release-phase/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
// The rule set is loaded and compiled once; an invalid rule set prevents
// the server from starting.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to load rules", "error", err)
		return err
	}

	r, err := routes(cfg, prefix())
	if err != nil {
		slog.Error("invalid rule set", "error", err)
		return err
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(r),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// loadConfig reads the rule set named by EnvRules, or the default rule-less
// configuration, and applies the phase overrides from the environment.
func loadConfig() (phase.Config, error) {
	cfg := phase.DefaultConfig()

	if src := os.Getenv(EnvRules); src != "" {
		loaded, err := serializer.FromFile[phase.Config](src)
		if err != nil {
			return phase.Config{}, fmt.Errorf("failed to load rules from %s: %w", src, err)
		}
		cfg = *loaded
		slog.Info("rules loaded", "source", src, "rules", len(cfg.Rules))
	}

	if v := os.Getenv(EnvDefaultPhase); v != "" {
		cfg.DefaultPhase = v
	}
	if v := os.Getenv(EnvSnapshotPhase); v != "" {
		cfg.SnapshotPhase = v
	}

	return cfg, nil
}

func prefix() string {
	if v, ok := os.LookupEnv(EnvPrefix); ok {
		return v
	}
	return release.DefaultPrefix
}

// routes compiles cfg and returns the API handlers, each bounded by
// defaults.PhaseHandlerTimeout.
func routes(cfg phase.Config, prefix string) (map[string]http.HandlerFunc, error) {
	ev, err := phase.NewEvaluator(cfg)
	if err != nil {
		return nil, err
	}

	h := release.NewHandler(ev, prefix)
	r := h.Routes()
	for path, fn := range r {
		r[path] = http.TimeoutHandler(fn, defaults.PhaseHandlerTimeout, "request timed out").ServeHTTP
	}
	return r, nil
}
