package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"vegcheck/internal/domain/entity"
)

func TestAssemble_Order(t *testing.T) {
	color := entity.ColorStats{HMean: 1, HStd: 2, SMean: 3, SStd: 4, VMean: 5, VStd: 6}
	texture := entity.TextureStats{Contrast: 7, Dissimilarity: 8, Homogeneity: 9, Energy: 10, ASM: 11, Correlation: 12}

	v, err := Assemble(color, texture)
	require.NoError(t, err)
	require.Equal(t, entity.FeatureVector{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, v)
	require.Len(t, v.Slice(), entity.FeatureCount)
}

func TestAssemble_RejectsNonFinite(t *testing.T) {
	_, err := Assemble(entity.ColorStats{HMean: math.NaN()}, entity.TextureStats{})
	require.ErrorIs(t, err, entity.ErrInternalInvariant)

	_, err = Assemble(entity.ColorStats{}, entity.TextureStats{Contrast: math.Inf(1)})
	require.ErrorIs(t, err, entity.ErrInternalInvariant)
}
