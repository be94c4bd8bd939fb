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

// Package cli implements the relphase command-line interface.
//
// # Commands
//
// phase - Evaluate the release phase of a version:
//
//	relphase phase --version 1.0.0-beta-5 [--rules SRC] [--rule PATTERN=PHASE]...
//	    [--default-phase P] [--snapshot-phase P] [--prefix releasePhase]
//	    [--output PATH|cm://namespace/name] [--format properties|json|yaml]
//
// Rules are loaded from a file, an http(s) URL or a ConfigMap and extended
// with --rule flags. The result is the property <prefix>.phase; in the
// default properties format the command prints a single line:
//
//	releasePhase.phase=2.5
//
// parse - Show how a version string is decomposed:
//
//	relphase parse 1.0.0.0-SNAPSHOT [--format yaml|json|properties]
//
// # Global Flags
//
//	--log-level    debug, info, warn or error (env RELPHASE_LOG_LEVEL, LOG_LEVEL)
//	--help, -h     Show command help
//	--version, -v  Show version information (root command only)
//
// Logs are structured JSON on stderr so that stdout carries only the result.
package cli
