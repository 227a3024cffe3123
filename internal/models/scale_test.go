package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleTokensAreCaseInsensitive(t *testing.T) {
	scale, ok := ScaleByName(DefaultScaleName)
	require.True(t, ok)

	assert.True(t, scale.Valid("aa"))
	assert.Equal(t, 4.0, scale.Points("aa"))
	assert.Equal(t, 3.5, scale.Points("Ba"))
	assert.False(t, scale.Valid("zz"))
}

func TestLetterForGPABands(t *testing.T) {
	cases := map[float64]string{
		4.0:  "AA",
		3.75: "AA",
		3.74: "BA",
		3.25: "BA",
		3.0:  "BB",
		2.5:  "CB",
		2.0:  "CC",
		1.5:  "DC",
		1.0:  "DD",
		0.5:  "FD",
		0.24: "FF",
		0.0:  "FF",
	}
	for gpa, want := range cases {
		assert.Equal(t, want, LetterForGPA(gpa), "gpa %.2f", gpa)
	}
}
