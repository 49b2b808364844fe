package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageValidate(t *testing.T) {
	require.NoError(t, NewImage(3, 2).Validate())

	var nilImg *Image
	require.ErrorIs(t, nilImg.Validate(), ErrInvalidImage)
	require.ErrorIs(t, (&Image{Width: 0, Height: 5}).Validate(), ErrInvalidImage)
	require.ErrorIs(t, (&Image{Width: 2, Height: 2, Pix: make([]uint8, 5)}).Validate(), ErrInvalidImage)
}

func TestImageSetAtClone(t *testing.T) {
	img := NewImage(2, 2)
	img.Set(1, 1, 10, 20, 30)

	clone := img.Clone()
	img.Set(1, 1, 0, 0, 0)

	c0, c1, c2 := clone.At(1, 1)
	require.Equal(t, [3]uint8{10, 20, 30}, [3]uint8{c0, c1, c2})
}
