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

package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"regexp/syntax"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "rule set not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "rule set not found" {
		t.Errorf("expected message 'rule set not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestNewWithContext(t *testing.T) {
	err := NewWithContext(ErrCodeInvalidRequest, "version is required", map[string]any{"param": "version"})
	if err.Context["param"] != "version" {
		t.Errorf("expected param context to be version, got %v", err.Context["param"])
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, "operation failed", cause)

	if err.Code != ErrCodeInternal {
		t.Errorf("expected code %s, got %s", ErrCodeInternal, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	_, cause := regexp.Compile("(")
	ctx := map[string]any{
		"pattern": "(",
		"phase":   "1",
	}

	err := WrapWithContext(ErrCodeInvalidConfig, "invalid phase rule pattern", cause, ctx)

	if err.Code != ErrCodeInvalidConfig {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidConfig, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["pattern"] != "(" {
		t.Errorf("expected pattern to be (")
	}

	var syntaxErr *syntax.Error
	if !errors.As(err, &syntaxErr) {
		t.Errorf("expected regexp syntax error to be reachable through the chain")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInvalidConfig, "bad rule", errors.New("root cause")),
			expected: "[INVALID_CONFIGURATION] bad rule: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}
}

func TestHasCode(t *testing.T) {
	inner := Wrap(ErrCodeInvalidConfig, "bad rule", errors.New("boom"))
	outer := Wrap(ErrCodeInternal, "load failed", fmt.Errorf("rules: %w", inner))

	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"nil error", nil, ErrCodeInternal, false},
		{"plain error", errors.New("x"), ErrCodeInternal, false},
		{"direct match", inner, ErrCodeInvalidConfig, true},
		{"outer code", outer, ErrCodeInternal, true},
		{"nested code", outer, ErrCodeInvalidConfig, true},
		{"absent code", outer, ErrCodeNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeInvalidConfig,
		ErrCodeNotFound,
		ErrCodeInternal,
		ErrCodeInvalidRequest,
		ErrCodeRateLimitExceeded,
		ErrCodeMethodNotAllowed,
		ErrCodeUnavailable,
	}

	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
	}
}

func TestLogValue(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := WrapWithContext(ErrCodeInvalidConfig, "invalid phase rule pattern",
		fmt.Errorf("missing closing )"), map[string]any{"pattern": "beta(", "priority": 2})
	logger.Error("rule rejected", "error", err)

	out := buf.String()
	for _, want := range []string{
		"error.code=INVALID_CONFIGURATION",
		`error.message="invalid phase rule pattern"`,
		`error.cause="missing closing )"`,
		"error.pattern=beta(",
		"error.priority=2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}
