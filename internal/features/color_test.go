package features

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vegcheck/internal/domain/entity"
)

func uniformImage(w, h int, c0, c1, c2 uint8) *entity.Image {
	img := entity.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c0, c1, c2)
		}
	}
	return img
}

func TestRGBToHSV(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b uint8
		want    [3]uint8
	}{
		{"black", 0, 0, 0, [3]uint8{0, 0, 0}},
		{"gray", 128, 128, 128, [3]uint8{0, 0, 128}},
		{"red", 255, 0, 0, [3]uint8{0, 255, 255}},
		{"green", 0, 255, 0, [3]uint8{60, 255, 255}},
		{"blue", 0, 0, 255, [3]uint8{120, 255, 255}},
		{"pink wraps hue", 255, 0, 128, [3]uint8{165, 255, 255}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tc.r, tc.g, tc.b)
			require.Equal(t, tc.want, [3]uint8{h, s, v})
		})
	}
}

func TestColorStats_Uniform(t *testing.T) {
	// BGR: чистый зелёный
	img := uniformImage(8, 8, 0, 255, 0)

	st, err := ColorStats(img, entity.ColorStrict)
	require.NoError(t, err)
	require.Equal(t, entity.ColorStats{HMean: 60, SMean: 255, VMean: 255}, st)
}

func TestColorStats_PopulationStd(t *testing.T) {
	// половина пикселей чёрная, половина белая: V = 0 и 255
	img := entity.NewImage(2, 1)
	img.Set(1, 0, 255, 255, 255)

	st, err := ColorStats(img, entity.ColorStrict)
	require.NoError(t, err)
	require.InDelta(t, 127.5, st.VMean, 1e-12)
	require.InDelta(t, 127.5, st.VStd, 1e-12)
}

func TestColorStats_ModesDiverge(t *testing.T) {
	// BGR (0, 0, 255) это красный; в режиме compat он читается как синий.
	img := uniformImage(4, 4, 0, 0, 255)

	strict, err := ColorStats(img, entity.ColorStrict)
	require.NoError(t, err)
	compat, err := ColorStats(img, entity.ColorCompat)
	require.NoError(t, err)

	require.Equal(t, 0.0, strict.HMean)
	require.Equal(t, 120.0, compat.HMean)
	require.NotEqual(t, strict, compat)
}

func TestColorStats_GrayImageSameInBothModes(t *testing.T) {
	img := uniformImage(4, 4, 90, 90, 90)

	strict, err := ColorStats(img, entity.ColorStrict)
	require.NoError(t, err)
	compat, err := ColorStats(img, entity.ColorCompat)
	require.NoError(t, err)
	require.Equal(t, strict, compat)
}

func TestColorStats_Errors(t *testing.T) {
	_, err := ColorStats(&entity.Image{}, entity.ColorStrict)
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = ColorStats(entity.NewImage(2, 2), entity.ColorMode("hsl"))
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
}

func TestGray(t *testing.T) {
	img := entity.NewImage(3, 1)
	img.Set(0, 0, 0, 0, 255)     // красный
	img.Set(1, 0, 255, 255, 255) // белый
	img.Set(2, 0, 255, 0, 0)     // синий

	g, err := Gray(img)
	require.NoError(t, err)
	require.Equal(t, []uint8{76, 255, 29}, g.Pix)
}
