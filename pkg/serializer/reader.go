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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/NVIDIA/release-phase/pkg/defaults"
	"github.com/NVIDIA/release-phase/pkg/k8s/client"
	"gopkg.in/yaml.v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ConfigMapDataKeys are the data keys searched, in order, when a document
// is read from a ConfigMap.
var ConfigMapDataKeys = []string{"rules.yaml", "rules.yml", "rules.json"}

// FormatFromPath determines the serialization format based on file extension.
// Supported extensions:
//   - .json → FormatJSON
//   - .yaml, .yml → FormatYAML
//   - .properties → FormatProperties
//
// For http(s) URLs only the URL path is considered. Returns FormatJSON as
// default for unknown extensions. Extension matching is case-insensitive.
func FormatFromPath(filePath string) Format {
	p := filePath
	if isRemote(filePath) {
		if u, err := url.Parse(filePath); err == nil {
			p = u.Path
		}
	}
	lowerPath := strings.ToLower(p)
	switch {
	case strings.HasSuffix(lowerPath, ".json"):
		return FormatJSON
	case strings.HasSuffix(lowerPath, ".yaml"), strings.HasSuffix(lowerPath, ".yml"):
		return FormatYAML
	case strings.HasSuffix(lowerPath, ".properties"):
		return FormatProperties
	default:
		slog.Warn("unknown file extension, defaulting to JSON", "filePath", filePath)
		return FormatJSON
	}
}

func isRemote(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

// Reader handles deserialization of structured data from JSON or YAML.
// Close must be called to release resources when using NewFileReader.
// Properties format is write-only.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader creates a new Reader for deserializing data from an io.Reader source.
// If input implements io.Closer, it will be closed by Reader.Close().
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if err := checkReadable(format); err != nil {
		return nil, err
	}

	r := &Reader{
		format: format,
		input:  input,
	}
	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}
	return r, nil
}

// NewFileReader creates a new Reader that reads from a file path or an
// http(s) URL. Remote content is fetched with HttpReader and held in memory.
func NewFileReader(ctx context.Context, format Format, filePath string) (*Reader, error) {
	if err := checkReadable(format); err != nil {
		return nil, err
	}

	if isRemote(filePath) {
		data, err := NewHttpReader().ReadWithContext(ctx, filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to download remote file: %w", err)
		}
		return &Reader{format: format, input: bytes.NewReader(data)}, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &Reader{
		format: format,
		input:  file,
		closer: file,
	}, nil
}

func checkReadable(format Format) error {
	if format.IsUnknown() {
		return fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatProperties {
		return fmt.Errorf("properties format does not support deserialization")
	}
	return nil
}

// Deserialize reads data from the input source and unmarshals it into v,
// which must be a pointer.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}
	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases any resources held by the Reader.
// Safe to call multiple times and on a nil Reader.
func (r *Reader) Close() error {
	if r == nil {
		return nil
	}
	if r.closer != nil {
		err := r.closer.Close()
		r.closer = nil
		return err
	}
	return nil
}

// FromFile reads and deserializes data from a file path, URL, or ConfigMap URI into type T.
//
// Supported input sources:
//   - Local file paths: /path/to/rules.yaml, ./rules.json
//   - HTTP URLs: https://example.com/rules.yaml
//   - ConfigMap URIs: cm://namespace/configmap-name
//
// Example:
//
//	cfg, err := FromFile[phase.Config]("rules.yaml")
func FromFile[T any](path string) (*T, error) {
	return FromFileWithKubeconfig[T](path, "")
}

// FromFileWithKubeconfig is FromFile with a custom kubeconfig path, used
// only for ConfigMap URIs. An empty kubeconfig uses the shared client.
func FromFileWithKubeconfig[T any](path, kubeconfig string) (*T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaults.ConfigMapReadTimeout)
	defer cancel()

	if strings.HasPrefix(path, ConfigMapURIScheme) {
		namespace, name, err := parseConfigMapURI(path)
		if err != nil {
			return nil, fmt.Errorf("invalid ConfigMap URI: %w", err)
		}

		var k8s client.Interface
		if kubeconfig != "" {
			k8s, _, err = client.BuildKubeClient(kubeconfig)
		} else {
			k8s, _, err = client.GetKubeClient()
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get kubernetes client: %w", err)
		}
		return FromConfigMap[T](ctx, k8s, namespace, name)
	}

	fileFormat := FormatFromPath(path)
	slog.Debug("determined file format",
		slog.String("path", path),
		slog.String("format", string(fileFormat)),
	)

	ser, err := NewFileReader(ctx, fileFormat, path)
	if err != nil {
		return nil, fmt.Errorf("failed to create serializer for %q: %w", path, err)
	}
	defer func() {
		if closeErr := ser.Close(); closeErr != nil {
			slog.Warn("failed to close serializer", "error", closeErr)
		}
	}()

	var r T
	if err := ser.Deserialize(&r); err != nil {
		return nil, fmt.Errorf("failed to deserialize object from %q: %w", path, err)
	}

	slog.Debug("successfully loaded object from file", slog.String("path", path))

	return &r, nil
}

// FromConfigMap reads the first of ConfigMapDataKeys present in the
// ConfigMap and deserializes it into T. A ConfigMap with a single data key
// is read from that key, with the format taken from its extension.
func FromConfigMap[T any](ctx context.Context, k8s client.Interface, namespace, name string) (*T, error) {
	cm, err := k8s.CoreV1().ConfigMaps(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get ConfigMap %s/%s: %w", namespace, name, err)
	}

	key, content, found := "", "", false
	for _, k := range ConfigMapDataKeys {
		if data, ok := cm.Data[k]; ok {
			key, content, found = k, data, true
			break
		}
	}
	if !found && len(cm.Data) == 1 {
		for k, data := range cm.Data {
			key, content, found = k, data, true
		}
	}
	if !found {
		return nil, fmt.Errorf("ConfigMap %s/%s has no data under %s", namespace, name, strings.Join(ConfigMapDataKeys, ", "))
	}

	format := FormatFromPath(key)
	slog.Debug("reading from ConfigMap",
		"namespace", namespace,
		"name", name,
		"key", key,
		"size", len(content))

	reader, err := NewReader(format, strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to create reader for ConfigMap data: %w", err)
	}

	var result T
	if err := reader.Deserialize(&result); err != nil {
		return nil, fmt.Errorf("failed to deserialize ConfigMap %s/%s key %s: %w", namespace, name, key, err)
	}

	return &result, nil
}
