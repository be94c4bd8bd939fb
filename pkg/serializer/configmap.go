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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/NVIDIA/release-phase/pkg/defaults"
	"github.com/NVIDIA/release-phase/pkg/k8s/client"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	accorev1 "k8s.io/client-go/applyconfigurations/core/v1"
)

const (
	// FieldManager identifies this tool in server-side apply ownership.
	FieldManager = "relphase"

	// UpdatedAnnotation records when the ConfigMap was last written.
	UpdatedAnnotation = "relphase.nvidia.com/updated"

	// documentKeyPrefix names the data key holding the full JSON or YAML
	// document next to the individual properties.
	documentKeyPrefix = "result"
)

// ConfigMapOption configures a ConfigMapWriter.
type ConfigMapOption func(*ConfigMapWriter)

// WithKubeClient sets the client used for the apply. Without it the
// process-wide client from client.GetKubeClient is used.
func WithKubeClient(c client.Interface) ConfigMapOption {
	return func(w *ConfigMapWriter) {
		w.client = c
	}
}

// ConfigMapWriter writes properties to a Kubernetes ConfigMap.
// The ConfigMap is created if it doesn't exist, or updated if it does.
type ConfigMapWriter struct {
	namespace string
	name      string
	format    Format
	client    client.Interface
	now       func() time.Time
}

// NewConfigMapWriter creates a new ConfigMapWriter that writes to the specified
// namespace and ConfigMap name in the given format.
func NewConfigMapWriter(namespace, name string, format Format, opts ...ConfigMapOption) *ConfigMapWriter {
	w := &ConfigMapWriter{
		namespace: namespace,
		name:      name,
		format:    knownOrJSON(format),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Serialize applies data to the ConfigMap. The ConfigMap will have:
//   - one data key per property, e.g. releasePhase.phase
//   - data.result.{json|yaml}: the full document, for JSON and YAML formats
//   - the UpdatedAnnotation with an RFC 3339 timestamp
func (w *ConfigMapWriter) Serialize(ctx context.Context, data any) error {
	writeCtx, cancel := context.WithTimeout(ctx, defaults.ConfigMapWriteTimeout)
	defer cancel()

	k8s := w.client
	if k8s == nil {
		c, _, err := client.GetKubeClient()
		if err != nil {
			return fmt.Errorf("failed to get kubernetes client: %w", err)
		}
		k8s = c
	}

	configMapData := maps.Clone(Properties(data))
	if configMapData == nil {
		configMapData = make(map[string]string)
	}
	if w.format != FormatProperties {
		content, err := marshal(w.format, data)
		if err != nil {
			return fmt.Errorf("failed to serialize ConfigMap document: %w", err)
		}
		configMapData[documentKeyPrefix+"."+string(w.format)] = string(content)
	}

	configMap := accorev1.ConfigMap(w.name, w.namespace).
		WithLabels(map[string]string{
			"app.kubernetes.io/name":       "relphase",
			"app.kubernetes.io/managed-by": FieldManager,
		}).
		WithAnnotations(map[string]string{
			UpdatedAnnotation: w.now().UTC().Format(time.RFC3339),
		}).
		WithData(configMapData)

	slog.Info("applying ConfigMap",
		"namespace", w.namespace,
		"name", w.name,
		"format", w.format,
		"keys", len(configMapData))

	// Force takes ownership from other field managers so that repeated
	// builds can overwrite the previous phase.
	_, err := k8s.CoreV1().ConfigMaps(w.namespace).Apply(
		writeCtx,
		configMap,
		metav1.ApplyOptions{
			FieldManager: FieldManager,
			Force:        true,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to apply ConfigMap %s/%s: %w", w.namespace, w.name, err)
	}

	return nil
}

// Close is a no-op for ConfigMapWriter as there are no resources to release.
func (w *ConfigMapWriter) Close() error {
	return nil
}

// parseConfigMapURI parses a ConfigMap URI in the format cm://namespace/name
// and returns the namespace and name components.
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	path := strings.TrimPrefix(uri, ConfigMapURIScheme)

	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])

	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}

	return namespace, name, nil
}
