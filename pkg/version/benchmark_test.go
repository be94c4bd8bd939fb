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

package version

import (
	"testing"
)

func BenchmarkParse(b *testing.B) {
	tests := []string{
		"1",
		"1.2",
		"1.2.3",
		"1.2.3-SNAPSHOT",
		"1.2.3.4.5",
		"1.Final",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Parse(tests[i%len(tests)])
	}
}

func BenchmarkParseFull(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Parse("1.2.3-beta-5")
	}
}

func BenchmarkIsSnapshot(b *testing.B) {
	v := Parse("1.2.3-SNAPSHOT")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = v.IsSnapshot()
	}
}
