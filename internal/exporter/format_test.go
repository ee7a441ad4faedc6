package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		prec     int
		expected string
	}{
		{"zero value", 0, 2, "0.00"},
		{"rounds", 123.4567, 2, "123.46"},
		{"negative", -0.5, 4, "-0.5000"},
		{"integer precision", 179.6, 0, "180"},
		{"NaN is empty", math.NaN(), 4, ""},
		{"infinity", math.Inf(1), 2, "+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFloat(tt.input, tt.prec))
		})
	}
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", formatInt(0))
	assert.Equal(t, "-42", formatInt(-42))
	assert.Equal(t, "1200", formatInt(1200))
}

func TestFileStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"walk01", "walk01"},
		{"walk_01", "walk_01"},
		{" walk 02 ", "%20walk 02%20"},
		{"a/b\\c", "a%2Fb%5Cc"},
		{"t:1?", "t%3A1%3F"},
		{"50%", "50%25"},
		{"", "%"},
		{"..", "%2E%2E"},
		{"v1.2", "v1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, fileStem(tt.in))
		})
	}
}

func TestFileStem_Distinct(t *testing.T) {
	names := []string{"a/b", "a_b", "a%2Fb", "a b", "a b ", "", ".", "..", "%"}
	seen := make(map[string]string)
	for _, name := range names {
		stem := fileStem(name)
		if other, ok := seen[stem]; ok {
			t.Errorf("trials %q and %q share stem %q", other, name, stem)
		}
		seen[stem] = name
	}
}
