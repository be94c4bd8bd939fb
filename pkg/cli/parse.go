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

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/release-phase/pkg/release"
	"github.com/NVIDIA/release-phase/pkg/serializer"
	versionpkg "github.com/NVIDIA/release-phase/pkg/version"
)

func parseCmd() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Usage:     "Show how a version string is decomposed",
		ArgsUsage: "VERSION",
		Description: `Print the major, minor and micro components and the qualifier that
phase evaluation sees for VERSION. Components absent from the input are
omitted. Useful when writing rule patterns.

# Examples

  relphase parse 1.0.0.0-SNAPSHOT
  relphase parse --format properties 2.1-rc1`,
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(serializer.FormatYAML),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("expected exactly one VERSION argument, got %d", cmd.Args().Len())
			}

			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			raw := cmd.Args().First()
			v := versionpkg.Parse(raw)

			return writeResult(ctx, cmd, outFormat, release.VersionResponse{
				Version:    raw,
				Parsed:     v,
				IsSnapshot: v.IsSnapshot(),
			})
		},
	}
}
