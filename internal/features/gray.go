package features

import "vegcheck/internal/domain/entity"

// Веса BGR->GRAY в фиксированной точке (сдвиг 14), как в cv::cvtColor.
const (
	grayShift = 14
	grayR     = 4899
	grayG     = 9617
	grayB     = 1868
)

// Gray переводит изображение с каналами BGR в оттенки серого.
func Gray(img *entity.Image) (*entity.GrayImage, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	out := &entity.GrayImage{
		Width:  img.Width,
		Height: img.Height,
		Pix:    make([]uint8, img.Width*img.Height),
	}
	for p := range out.Pix {
		i := p * entity.Channels
		b, g, r := int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2])
		out.Pix[p] = uint8((b*grayB + g*grayG + r*grayR + (1 << (grayShift - 1))) >> grayShift)
	}
	return out, nil
}
