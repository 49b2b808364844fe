package imaging

import (
	"fmt"
	"math"
	"slices"

	"vegcheck/internal/domain/entity"
)

// Ядра гаусса для размеров до 7 при sigma <= 0, как в cv::getGaussianKernel.
var smallGaussian = map[int][]float64{
	1: {1},
	3: {0.25, 0.5, 0.25},
	5: {0.0625, 0.25, 0.375, 0.25, 0.0625},
	7: {0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125},
}

// Blur применяет фильтр kind с квадратным нечётным ядром size.
func Blur(img *entity.Image, kind entity.BlurKind, size int) (*entity.Image, error) {
	if size <= 0 || size%2 == 0 {
		return nil, fmt.Errorf("%w: kernel size must be a positive odd number, got %d", entity.ErrInvalidParameter, size)
	}
	switch kind {
	case entity.BlurGaussian:
		return separable(img, gaussianKernel(size)), nil
	case entity.BlurMean:
		k := make([]float64, size)
		for i := range k {
			k[i] = 1 / float64(size)
		}
		return separable(img, k), nil
	case entity.BlurMedian:
		return median(img, size), nil
	}
	return nil, fmt.Errorf("%w: blur kind %q", entity.ErrInvalidParameter, kind)
}

func gaussianKernel(size int) []float64 {
	if k, ok := smallGaussian[size]; ok {
		return k
	}
	sigma := 0.3*(float64(size-1)*0.5-1) + 0.8
	k := make([]float64, size)
	var sum float64
	for i := range k {
		x := float64(i - (size-1)/2)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// reflect101 отражает индекс без повтора крайнего пикселя: gfedcb|abcdefgh|gfedcba.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n-1)
}

func saturate(v float64) uint8 {
	return uint8(min(max(math.RoundToEven(v), 0), 255))
}

// separable сворачивает изображение ядром k по строкам, затем по столбцам.
func separable(img *entity.Image, k []float64) *entity.Image {
	w, h, r := img.Width, img.Height, len(k)/2
	tmp := make([]float64, len(img.Pix))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < entity.Channels; c++ {
				var acc float64
				for t, kv := range k {
					sx := reflect101(x+t-r, w)
					acc += kv * float64(img.Pix[img.Offset(sx, y)+c])
				}
				tmp[img.Offset(x, y)+c] = acc
			}
		}
	}

	out := entity.NewImage(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < entity.Channels; c++ {
				var acc float64
				for t, kv := range k {
					sy := reflect101(y+t-r, h)
					acc += kv * tmp[img.Offset(x, sy)+c]
				}
				out.Pix[out.Offset(x, y)+c] = saturate(acc)
			}
		}
	}
	return out
}

// median медианный фильтр, граница повторяет крайний пиксель.
func median(img *entity.Image, size int) *entity.Image {
	w, h, r := img.Width, img.Height, size/2
	out := entity.NewImage(w, h)
	window := make([]uint8, 0, size*size)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < entity.Channels; c++ {
				window = window[:0]
				for dy := -r; dy <= r; dy++ {
					sy := clampIndex(y+dy, h)
					for dx := -r; dx <= r; dx++ {
						sx := clampIndex(x+dx, w)
						window = append(window, img.Pix[img.Offset(sx, sy)+c])
					}
				}
				slices.Sort(window)
				out.Pix[out.Offset(x, y)+c] = window[len(window)/2]
			}
		}
	}
	return out
}
