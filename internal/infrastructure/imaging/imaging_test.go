package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"vegcheck/internal/domain/entity"
)

func filled(w, h int, v uint8) *entity.Image {
	img := entity.NewImage(w, h)
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestDecoder_PNGIsBGR(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	src.Set(1, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, err := NewDecoder().Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 2, img.Width)
	require.Equal(t, 1, img.Height)
	require.Equal(t, []uint8{50, 100, 200, 3, 2, 1}, img.Pix)

	back := ToImage(img)
	require.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, back.RGBAAt(0, 0))
}

func TestDecoder_Invalid(t *testing.T) {
	_, err := NewDecoder().Decode(nil)
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = NewDecoder().Decode([]byte("definitely not an image"))
	require.ErrorIs(t, err, entity.ErrInvalidImage)
}

func TestBlur_RejectsBadParameters(t *testing.T) {
	img := filled(5, 5, 10)

	_, err := Blur(img, entity.BlurGaussian, 4)
	require.ErrorIs(t, err, entity.ErrInvalidParameter)

	_, err = Blur(img, entity.BlurMedian, 0)
	require.ErrorIs(t, err, entity.ErrInvalidParameter)

	_, err = Blur(img, entity.BlurKind("bilateral"), 3)
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestBlur_UniformStaysUniform(t *testing.T) {
	img := filled(9, 7, 123)
	for _, kind := range []entity.BlurKind{entity.BlurGaussian, entity.BlurMedian, entity.BlurMean} {
		for _, size := range []int{1, 3, 5, 9} {
			out, err := Blur(img, kind, size)
			require.NoError(t, err)
			require.Equal(t, img.Pix, out.Pix, "%s %d", kind, size)
		}
	}
}

func TestBlur_MeanReflectsBorder(t *testing.T) {
	img := entity.NewImage(3, 3)
	img.Set(1, 1, 9, 9, 9)

	out, err := Blur(img, entity.BlurMean, 3)
	require.NoError(t, err)

	c, _, _ := out.At(0, 0)
	require.Equal(t, uint8(4), c)
	c, _, _ = out.At(1, 0)
	require.Equal(t, uint8(2), c)
	c, _, _ = out.At(1, 1)
	require.Equal(t, uint8(1), c)
}

func TestBlur_MedianRemovesSpeck(t *testing.T) {
	img := entity.NewImage(5, 5)
	img.Set(2, 2, 255, 255, 255)

	out, err := Blur(img, entity.BlurMedian, 3)
	require.NoError(t, err)
	require.Equal(t, make([]uint8, len(out.Pix)), out.Pix)
}

func TestGaussianKernel_Normalized(t *testing.T) {
	for _, size := range []int{3, 5, 7, 9, 11} {
		var sum float64
		for _, v := range gaussianKernel(size) {
			sum += v
		}
		require.InDelta(t, 1.0, sum, 1e-12)
	}
}

func TestReflect101(t *testing.T) {
	require.Equal(t, 1, reflect101(-1, 5))
	require.Equal(t, 2, reflect101(-2, 5))
	require.Equal(t, 3, reflect101(5, 5))
	require.Equal(t, 0, reflect101(-3, 1))
	require.Equal(t, 1, reflect101(-3, 2))
}

func TestResizeArea_AveragesBlocks(t *testing.T) {
	img := entity.NewImage(4, 4)
	blocks := [2][2]uint8{{10, 200}, {60, 90}}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := blocks[y/2][x/2]
			img.Set(x, y, v, v, v)
		}
	}

	out := ResizeArea(img, 2, 2)
	require.Equal(t, 2, out.Width)
	require.Equal(t, 2, out.Height)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			c, _, _ := out.At(x, y)
			require.InDelta(t, float64(blocks[y][x]), float64(c), 1)
		}
	}
}

func TestScaleRoundTrip_Identity(t *testing.T) {
	img := entity.NewImage(256, 1)
	for x := 0; x < 256; x++ {
		v := uint8(x)
		img.Set(x, 0, v, v, v)
	}
	require.Equal(t, img.Pix, ScaleRoundTrip(img).Pix)
}

func TestNormalizer(t *testing.T) {
	n := NewNormalizer()

	out, err := n.Normalize(filled(40, 30, 77), entity.DefaultNormalizeParams())
	require.NoError(t, err)
	require.Equal(t, 256, out.Width)
	require.Equal(t, 256, out.Height)

	params := entity.DefaultNormalizeParams()
	params.KernelSize = 6
	_, err = n.Normalize(filled(40, 30, 77), params)
	require.ErrorIs(t, err, entity.ErrInvalidParameter)

	_, err = n.Normalize(&entity.Image{}, entity.DefaultNormalizeParams())
	require.ErrorIs(t, err, entity.ErrInvalidImage)
}
