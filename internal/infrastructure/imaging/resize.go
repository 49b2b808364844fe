package imaging

import (
	"image"

	"golang.org/x/image/draw"

	"vegcheck/internal/domain/entity"
)

// areaKernel прямоугольное ядро: при уменьшении каждый выходной пиксель
// усредняет покрываемую им область исходного изображения.
var areaKernel = &draw.Kernel{
	Support: 0.5,
	At:      func(float64) float64 { return 1 },
}

// ResizeArea меняет размер изображения усреднением по площади.
func ResizeArea(img *entity.Image, width, height int) *entity.Image {
	if img.Width == width && img.Height == height {
		return img.Clone()
	}
	// порядок каналов для ресайза не важен, каналы раскладываются как есть
	src := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	for p := 0; p < img.Width*img.Height; p++ {
		copy(src.Pix[p*4:p*4+3], img.Pix[p*entity.Channels:(p+1)*entity.Channels])
		src.Pix[p*4+3] = 0xff
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	areaKernel.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	out := entity.NewImage(width, height)
	for p := 0; p < width*height; p++ {
		copy(out.Pix[p*entity.Channels:(p+1)*entity.Channels], dst.Pix[p*4:p*4+3])
	}
	return out
}
