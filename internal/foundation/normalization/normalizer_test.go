package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnum string

const (
	testEnumAlpha testEnum = "alpha"
	testEnumBeta  testEnum = "beta"
)

func TestNormalizer_Basic(t *testing.T) {
	normalizer := NewNormalizer(map[string]testEnum{
		"alpha": testEnumAlpha,
		"beta":  testEnumBeta,
	}, testEnumAlpha)

	tests := []struct {
		name     string
		input    string
		expected testEnum
	}{
		{"exact match", "alpha", testEnumAlpha},
		{"case insensitive", "BETA", testEnumBeta},
		{"with spaces", "  beta  ", testEnumBeta},
		{"invalid input", "invalid", testEnumAlpha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizer.Normalize(tt.input))
		})
	}
}

func TestNormalizer_WithError(t *testing.T) {
	normalizer := NewNormalizer(map[string]testEnum{
		"alpha": testEnumAlpha,
		"beta":  testEnumBeta,
	}, testEnumAlpha)

	got, err := normalizer.NormalizeWithError("Beta")
	require.NoError(t, err)
	assert.Equal(t, testEnumBeta, got)

	got, err = normalizer.NormalizeWithError("")
	require.NoError(t, err)
	assert.Equal(t, testEnumAlpha, got)

	_, err = normalizer.NormalizeWithError("gamma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[alpha beta]")
	assert.Equal(t, []string{"alpha", "beta"}, normalizer.ValidKeys())
}
