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
	"mime"
	"net/http"
	"slices"
	"strings"
)

const (
	// DefaultAPIVersion is served when the client does not ask for a
	// supported version.
	DefaultAPIVersion = "v1"

	// APIVersionHeader reports the negotiated API version.
	APIVersionHeader = "X-API-Version"

	vendorMediaTypePrefix = "application/vnd.nvidia.relphase."
)

var supportedAPIVersions = []string{"v1"}

// negotiateAPIVersion returns the first supported version requested through
// a vendor media type in the Accept header, e.g.
//
//	Accept: application/json, application/vnd.nvidia.relphase.v1+json;q=0.9
//
// and DefaultAPIVersion otherwise.
func negotiateAPIVersion(r *http.Request) string {
	for _, accept := range r.Header.Values("Accept") {
		for part := range strings.SplitSeq(accept, ",") {
			mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			rest, ok := strings.CutPrefix(mediaType, vendorMediaTypePrefix)
			if !ok {
				continue
			}
			version, _, _ := strings.Cut(rest, "+")
			if isValidAPIVersion(version) {
				return version
			}
		}
	}
	return DefaultAPIVersion
}

func isValidAPIVersion(version string) bool {
	return slices.Contains(supportedAPIVersions, version)
}

// SetAPIVersionHeader sets the API version header in the response.
func SetAPIVersionHeader(w http.ResponseWriter, version string) {
	w.Header().Set(APIVersionHeader, version)
}
