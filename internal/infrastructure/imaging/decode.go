// Package imaging реализует декодирование и нормализацию изображений на чистом Go.
// Используется, когда сборка идёт без тега gocv.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/domain/port"
)

// Decoder декодирует JPEG, PNG, GIF, BMP, TIFF и WebP.
type Decoder struct{}

// NewDecoder создаёт декодер.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode возвращает изображение с каналами в порядке BGR. Альфа-канал отбрасывается.
func (d *Decoder) Decode(data []byte) (*entity.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", entity.ErrInvalidImage)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	return FromImage(src)
}

// FromImage переводит image.Image в BGR-буфер.
func FromImage(src image.Image) (*entity.Image, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: zero dimension", entity.ErrInvalidImage)
	}
	out := entity.NewImage(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			out.Set(x, y, c.B, c.G, c.R)
		}
	}
	return out, nil
}

// ToImage переводит BGR-буфер в image.RGBA, например для кодирования в PNG.
func ToImage(img *entity.Image) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for p := 0; p < img.Width*img.Height; p++ {
		i, o := p*entity.Channels, p*4
		out.Pix[o+0] = img.Pix[i+2]
		out.Pix[o+1] = img.Pix[i+1]
		out.Pix[o+2] = img.Pix[i+0]
		out.Pix[o+3] = 0xff
	}
	return out
}

var _ port.ImageDecoder = (*Decoder)(nil)
