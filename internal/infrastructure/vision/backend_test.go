package vision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vegcheck/internal/domain/entity"
)

func TestNewBackend(t *testing.T) {
	b := NewBackend()
	require.NotEmpty(t, b.Name)
	require.NotNil(t, b.Decoder)
	require.NotNil(t, b.Normalizer)
	require.NotNil(t, b.Segmenter)
}

func TestBackend_SegmentBoundary(t *testing.T) {
	b := NewBackend()

	_, _, err := b.Segmenter.Segment(entity.NewImage(20, 20))
	require.ErrorIs(t, err, entity.ErrImageTooSmall)

	_, mask, err := b.Segmenter.Segment(entity.NewImage(21, 21))
	require.NoError(t, err)
	require.Len(t, mask.Bits, 21*21)
}

func TestBackend_NormalizeRejectsEvenKernel(t *testing.T) {
	params := entity.DefaultNormalizeParams()
	params.KernelSize = 2
	_, err := NewBackend().Normalizer.Normalize(entity.NewImage(30, 30), params)
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
}
