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
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func TestParseConfigMapURI(t *testing.T) {
	tests := []struct {
		name          string
		uri           string
		wantNamespace string
		wantName      string
		wantErr       bool
	}{
		{
			name:          "valid URI",
			uri:           "cm://release/phase-rules",
			wantNamespace: "release",
			wantName:      "phase-rules",
		},
		{
			name:          "valid URI with spaces",
			uri:           "cm://release / phase-rules ",
			wantNamespace: "release",
			wantName:      "phase-rules",
		},
		{name: "missing scheme", uri: "release/phase-rules", wantErr: true},
		{name: "wrong scheme", uri: "http://release/phase-rules", wantErr: true},
		{name: "missing name", uri: "cm://release/", wantErr: true},
		{name: "missing namespace", uri: "cm:///phase-rules", wantErr: true},
		{name: "missing separator", uri: "cm://release", wantErr: true},
		{name: "empty URI", uri: "", wantErr: true},
		{name: "only scheme", uri: "cm://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			namespace, name, err := parseConfigMapURI(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseConfigMapURI() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				if namespace != tt.wantNamespace {
					t.Errorf("parseConfigMapURI() namespace = %v, want %v", namespace, tt.wantNamespace)
				}
				if name != tt.wantName {
					t.Errorf("parseConfigMapURI() name = %v, want %v", name, tt.wantName)
				}
			}
		})
	}
}

func TestNewConfigMapWriter(t *testing.T) {
	writer := NewConfigMapWriter("release", "phase", Format("unknown"))
	if writer.format != FormatJSON {
		t.Errorf("NewConfigMapWriter() format = %v, want %v", writer.format, FormatJSON)
	}
	if writer.client != nil {
		t.Error("client should be resolved lazily")
	}
	if err := writer.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestConfigMapWriter_Serialize(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	data := propertyResult{Props: map[string]string{"releasePhase.phase": "2.5"}}

	tests := []struct {
		name        string
		format      Format
		documentKey string
	}{
		{name: "properties", format: FormatProperties},
		{name: "json", format: FormatJSON, documentKey: "result.json"},
		{name: "yaml", format: FormatYAML, documentKey: "result.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k8s := fake.NewClientset()
			writer := NewConfigMapWriter("release", "phase", tt.format, WithKubeClient(k8s))
			writer.now = func() time.Time { return fixed }

			require.NoError(t, writer.Serialize(context.Background(), data))

			cm, err := k8s.CoreV1().ConfigMaps("release").Get(context.Background(), "phase", metav1.GetOptions{})
			require.NoError(t, err)
			assert.Equal(t, "2.5", cm.Data["releasePhase.phase"])
			assert.Equal(t, "2026-01-02T03:04:05Z", cm.Annotations[UpdatedAnnotation])
			assert.Equal(t, FieldManager, cm.Labels["app.kubernetes.io/managed-by"])

			if tt.documentKey == "" {
				assert.Len(t, cm.Data, 1)
				return
			}
			assert.Contains(t, cm.Data[tt.documentKey], "releasePhase")
		})
	}

	// The source map must not pick up the document key.
	assert.Len(t, data.Props, 1)
}

func TestConfigMapWriter_SerializeOverwrites(t *testing.T) {
	k8s := fake.NewClientset()
	writer := NewConfigMapWriter("release", "phase", FormatProperties, WithKubeClient(k8s))
	ctx := context.Background()

	require.NoError(t, writer.Serialize(ctx, map[string]string{"phase": "1"}))
	require.NoError(t, writer.Serialize(ctx, map[string]string{"phase": "2"}))

	cm, err := k8s.CoreV1().ConfigMaps("release").Get(ctx, "phase", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "2", cm.Data["phase"])
}

func TestConfigMapWriter_SerializeJSONDocument(t *testing.T) {
	k8s := fake.NewClientset()
	writer := NewConfigMapWriter("release", "phase", FormatJSON, WithKubeClient(k8s))

	require.NoError(t, writer.Serialize(context.Background(), testConfig{Name: testName, Value: 3}))

	cm, err := k8s.CoreV1().ConfigMaps("release").Get(context.Background(), "phase", metav1.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, testName, cm.Data["name"])
	assert.Equal(t, "3", cm.Data["value"])

	var doc testConfig
	require.NoError(t, json.Unmarshal([]byte(cm.Data["result.json"]), &doc))
	assert.Equal(t, 3, doc.Value)
}
