// Package features считает признаки сегментированного изображения: статистики HSV,
// признаки матрицы совместной встречаемости и итоговый вектор. Все функции чистые.
package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"vegcheck/internal/domain/entity"
)

// Таблицы целочисленного RGB->HSV для 8-битных изображений, H в диапазоне [0, 180].
const (
	hsvShift = 12
	hueRange = 180
)

var (
	sdivTable [256]int
	hdivTable [256]int
)

func init() {
	for i := 1; i < 256; i++ {
		sdivTable[i] = int(math.RoundToEven(float64(255<<hsvShift) / float64(i)))
		hdivTable[i] = int(math.RoundToEven(float64(hueRange<<hsvShift) / (6 * float64(i))))
	}
}

// RGBToHSV переводит 8-битный цвет в HSV с точностью до бита как cv::cvtColor.
func RGBToHSV(r, g, b uint8) (h, s, v uint8) {
	ri, gi, bi := int(r), int(g), int(b)
	vi := max(ri, gi, bi)
	diff := vi - min(ri, gi, bi)

	vr, vg := 0, 0
	if vi == ri {
		vr = -1
	}
	if vi == gi {
		vg = -1
	}

	si := (diff*sdivTable[vi] + (1 << (hsvShift - 1))) >> hsvShift
	hi := (vr & (gi - bi)) + (^vr & ((vg & (bi - ri + 2*diff)) + (^vg & (ri - gi + 4*diff))))
	hi = (hi*hdivTable[diff] + (1 << (hsvShift - 1))) >> hsvShift
	if hi < 0 {
		hi += hueRange
	}
	return uint8(hi), uint8(si), uint8(vi)
}

// channelsToRGB выбирает, какой канал декодера считать красным.
func channelsToRGB(mode entity.ColorMode, c0, c1, c2 uint8) (r, g, b uint8) {
	if mode == entity.ColorCompat {
		// BGR-буфер читается как RGB: синий идёт за красный.
		return c0, c1, c2
	}
	return c2, c1, c0
}

// ColorStats считает среднее и стандартное отклонение (по генеральной совокупности)
// каналов H, S, V по всем пикселям, включая обнулённый фон.
func ColorStats(img *entity.Image, mode entity.ColorMode) (entity.ColorStats, error) {
	if err := img.Validate(); err != nil {
		return entity.ColorStats{}, err
	}
	if mode != entity.ColorStrict && mode != entity.ColorCompat {
		return entity.ColorStats{}, fmt.Errorf("%w: color mode %q", entity.ErrInvalidParameter, mode)
	}

	n := img.Width * img.Height
	hs := make([]float64, n)
	ss := make([]float64, n)
	vs := make([]float64, n)
	for p := 0; p < n; p++ {
		i := p * entity.Channels
		r, g, b := channelsToRGB(mode, img.Pix[i], img.Pix[i+1], img.Pix[i+2])
		h, s, v := RGBToHSV(r, g, b)
		hs[p], ss[p], vs[p] = float64(h), float64(s), float64(v)
	}

	var out entity.ColorStats
	out.HMean, out.HStd = stat.PopMeanStdDev(hs, nil)
	out.SMean, out.SStd = stat.PopMeanStdDev(ss, nil)
	out.VMean, out.VStd = stat.PopMeanStdDev(vs, nil)
	return out, nil
}
