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

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/release-phase/pkg/errors"
	"github.com/NVIDIA/release-phase/pkg/phase"
	"github.com/NVIDIA/release-phase/pkg/release"
	"github.com/NVIDIA/release-phase/pkg/serializer"
)

func phaseCmd() *cli.Command {
	return &cli.Command{
		Name:                  "phase",
		EnableShellCompletion: true,
		Usage:                 "Evaluate the release phase of a version",
		Description: `Parse a version and evaluate its release phase against a rule set.

Rules come from --rules (a YAML or JSON file, an http(s) URL, or a ConfigMap
URI cm://namespace/name) followed by any --rule flags, in order. A rule
without a priority is ranked after every rule registered before it.

The result is published as the property <prefix>.phase. The default
properties format prints it as a single key=value line; json and yaml
print the full evaluation including the parsed version and matching rule.

# Examples

Snapshot and release versions with the default phases:
  relphase phase --version 1.0.0-SNAPSHOT     # releasePhase.phase=0
  relphase phase --version 1.0.0              # releasePhase.phase=1

Capture groups in the phase template:
  relphase phase --version 1.0.0-beta-5 --rule '^beta-([0-9]+)$=2.$1'

Rule set from a ConfigMap, result written back to another:
  relphase phase --version 2.1.0-rc1 \
    --rules cm://release/phase-rules \
    --output cm://release/phase-result`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "version",
				Usage:    "version string to evaluate, e.g. 1.0.0-beta-5",
				Required: true,
				Sources:  cli.EnvVars("RELPHASE_VERSION"),
			},
			&cli.StringFlag{
				Name:    "rules",
				Aliases: []string{"r"},
				Usage:   "rule set source: file path, http(s) URL or cm://namespace/name",
				Sources: cli.EnvVars("RELPHASE_RULES"),
			},
			&cli.StringSliceFlag{
				Name:  "rule",
				Usage: "additional rule as PATTERN=PHASE, appended after --rules (can be repeated)",
			},
			&cli.StringFlag{
				Name:    "default-phase",
				Usage:   fmt.Sprintf("phase when no rule matches (default: rule set value or %q)", phase.DefaultDefaultPhase),
				Sources: cli.EnvVars("RELPHASE_DEFAULT_PHASE"),
			},
			&cli.StringFlag{
				Name:    "snapshot-phase",
				Usage:   fmt.Sprintf("phase for snapshot versions (default: rule set value or %q)", phase.DefaultSnapshotPhase),
				Sources: cli.EnvVars("RELPHASE_SNAPSHOT_PHASE"),
			},
			&cli.StringFlag{
				Name:    "prefix",
				Usage:   "property name prefix; empty for none",
				Value:   release.DefaultPrefix,
				Sources: cli.EnvVars("RELPHASE_PREFIX"),
			},
			outputFlag(),
			formatFlag(serializer.FormatProperties),
			kubeconfigFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}

			res, err := release.Evaluate(release.Options{
				Version: cmd.String("version"),
				Prefix:  cmd.String("prefix"),
				Config:  cfg,
			})
			if err != nil {
				return fmt.Errorf("invalid rule set: %w", err)
			}

			return writeResult(ctx, cmd, outFormat, res)
		},
	}
}

// buildConfig assembles the rule set from --rules, the phase overrides and
// the --rule flags.
func buildConfig(cmd *cli.Command) (phase.Config, error) {
	cfg := phase.DefaultConfig()

	if src := cmd.String("rules"); src != "" {
		loaded, err := serializer.FromFileWithKubeconfig[phase.Config](src, cmd.String("kubeconfig"))
		if err != nil {
			return phase.Config{}, fmt.Errorf("failed to load rules from %s: %w", src, err)
		}
		cfg = *loaded
		slog.Debug("rules loaded", "source", src, "rules", len(cfg.Rules))
	}

	if cmd.IsSet("default-phase") {
		cfg.DefaultPhase = cmd.String("default-phase")
	}
	if cmd.IsSet("snapshot-phase") {
		cfg.SnapshotPhase = cmd.String("snapshot-phase")
	}

	extra, err := parseRuleFlags(cmd.StringSlice("rule"))
	if err != nil {
		return phase.Config{}, err
	}
	cfg.Rules = append(cfg.Rules, extra...)

	return cfg, nil
}

// parseRuleFlags converts PATTERN=PHASE values into rules. The pattern ends
// at the last '=' so patterns may contain '='.
func parseRuleFlags(values []string) ([]phase.Rule, error) {
	rules := make([]phase.Rule, 0, len(values))
	for _, v := range values {
		i := strings.LastIndex(v, "=")
		if i <= 0 {
			return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
				"rule must be in PATTERN=PHASE format", map[string]any{"rule": v})
		}
		rules = append(rules, phase.Rule{
			Pattern: v[:i],
			Phase:   v[i+1:],
		})
	}
	return rules, nil
}
