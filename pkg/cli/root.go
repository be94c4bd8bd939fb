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
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/release-phase/pkg/logging"
	"github.com/NVIDIA/release-phase/pkg/serializer"
)

const (
	name           = "relphase"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the relphase command with the process arguments and exits
// non-zero on failure. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Derive a release phase from a version string",
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		// rule patterns may contain commas, e.g. [0-9]{1,3}
		DisableSliceFlagSeparator: true,
		Description: `relphase maps the qualifier of a version string (the part after the
numeric major.minor.micro components) to a release phase token, e.g. the
release number of an RPM package.

Snapshot versions evaluate to the snapshot phase, versions without a
qualifier to the default phase. Everything else is matched against an
ordered list of regex rules whose phase templates may reference capture
groups.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("RELPHASE_LOG_LEVEL", logging.EnvVarLogLevel),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := cmd.String("log-level")
			logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
				"logLevel", level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			phaseCmd(),
			parseCmd(),
		},
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path or ConfigMap URI (cm://namespace/name); stdout when empty",
		Sources: cli.EnvVars("RELPHASE_OUTPUT"),
	}
}

func formatFlag(def serializer.Format) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("output format (%v)", serializer.SupportedFormats()),
		Value:   string(def),
		Sources: cli.EnvVars("RELPHASE_FORMAT"),
	}
}

func kubeconfigFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "kubeconfig",
		Usage: "path to kubeconfig for cm:// rule sources (default: $KUBECONFIG, ~/.kube/config or in-cluster)",
	}
}

// parseOutputFormat returns the format named by the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// writeResult serializes data to the --output destination.
func writeResult(ctx context.Context, cmd *cli.Command, format serializer.Format, data any) (err error) {
	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if closer, ok := ser.(serializer.Closer); ok {
			if cerr := closer.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output: %w", cerr)
			}
		}
	}()

	if err := ser.Serialize(ctx, data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
