/*
Copyright © 2026 Cudalis Authors
SPDX-License-Identifier: Apache-2.0
*/

package version

import (
	"testing"
)

func BenchmarkParse(b *testing.B) {
	tests := []string{
		"3",
		"v3",
		"11.0",
		"3.8",
		"3.8.5",
		"v1.7.1",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		input := tests[i%len(tests)]
		_, _ = Parse(input)
	}
}

func BenchmarkCompare(b *testing.B) {
	x := MustParse("11.0")
	y := MustParse("11.0.3")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = x.Compare(y)
	}
}

func BenchmarkCompareStrict(b *testing.B) {
	x := MustParse("11.0.2")
	y := MustParse("11.0.3")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = x.CompareStrict(y)
	}
}
