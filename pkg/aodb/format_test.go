package aodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeMaxNodeSize(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero falls back to default", 0, DefaultMaxNodeSize},
		{"odd falls back to default", 5, DefaultMaxNodeSize},
		{"too small falls back to default", 2, DefaultMaxNodeSize},
		{"minimum legal value is kept", 4, 4},
		{"even value above minimum is kept", 16, 16},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMaxNodeSize(tc.in))
		})
	}
}
