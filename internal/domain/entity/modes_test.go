package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseColorMode(t *testing.T) {
	m, err := ParseColorMode(" Strict ")
	require.NoError(t, err)
	require.Equal(t, ColorStrict, m)

	m, err = ParseColorMode("compat")
	require.NoError(t, err)
	require.Equal(t, ColorCompat, m)

	_, err = ParseColorMode("rgb")
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestNormalizeParamsValidate(t *testing.T) {
	require.NoError(t, DefaultNormalizeParams().Validate())

	p := DefaultNormalizeParams()
	p.KernelSize = 4
	require.ErrorIs(t, p.Validate(), ErrInvalidParameter)

	p = DefaultNormalizeParams()
	p.Blur = "bilateral"
	require.ErrorIs(t, p.Validate(), ErrInvalidParameter)

	p = DefaultNormalizeParams()
	p.TargetSize = 0
	require.ErrorIs(t, p.Validate(), ErrInvalidParameter)
}

func TestPredictionConfidence(t *testing.T) {
	p := Prediction{
		Index: 1,
		Label: LabelDirty,
		Probabilities: []ClassProbability{
			{Label: LabelClean, Probability: 0.3},
			{Label: LabelDirty, Probability: 0.7},
		},
	}
	require.Equal(t, 0.7, p.Confidence())
	require.Zero(t, Prediction{Index: 3}.Confidence())
}
