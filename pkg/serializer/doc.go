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

// Package serializer reads rule configuration and writes evaluation results
// in several formats.
//
// Output formats:
//   - JSON: Machine-readable structured data with proper indentation
//   - YAML: Human-readable configuration format
//   - Properties: Sorted key=value lines, one per flattened field
//
// Writers target stdout, a local file, or a Kubernetes ConfigMap addressed
// as cm://namespace/name. A ConfigMap receives one data key per property so
// that downstream builds can mount it directly.
//
// Usage:
//
//	writer := serializer.NewFileWriterOrStdout(serializer.FormatProperties, path)
//	defer writer.Close()
//	if err := writer.Serialize(ctx, result); err != nil {
//		return err
//	}
//
// Rule sets are loaded with FromFile, which accepts a local path, an
// http(s) URL, or a ConfigMap URI:
//
//	cfg, err := serializer.FromFile[phase.Config]("cm://release/phase-rules")
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
package serializer
