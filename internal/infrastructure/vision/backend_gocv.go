//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"image"
	"runtime"

	"gocv.io/x/gocv"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/domain/port"
	"vegcheck/internal/infrastructure/grabcut"
)

// minGrabCutSamples k-means в OpenCV требует не меньше образцов, чем компонент смеси.
const minGrabCutSamples = 5

// NewBackend собирает реализации на OpenCV.
func NewBackend() *Backend {
	return &Backend{
		Name:       "gocv",
		Decoder:    &GoCVDecoder{},
		Normalizer: &GoCVNormalizer{},
		Segmenter:  NewGoCVSegmenter(),
	}
}

// GoCVDecoder декодер cv::imdecode, каналы BGR.
type GoCVDecoder struct{}

// Decode декодирует байты как цветное изображение.
func (d *GoCVDecoder) Decode(data []byte) (*entity.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty data", entity.ErrInvalidImage)
	}
	mat, err := decodeToMat(data)
	if err != nil {
		return nil, err
	}
	defer mat.Close()
	return fromMat(mat)
}

// GoCVNormalizer нормализатор на OpenCV.
type GoCVNormalizer struct{}

// Normalize размывает, приводит к INTER_AREA размеру и прогоняет через float32 [0,1].
func (n *GoCVNormalizer) Normalize(img *entity.Image, params entity.NormalizeParams) (*entity.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	src, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	k := params.KernelSize
	switch params.Blur {
	case entity.BlurGaussian:
		gocv.GaussianBlur(src, &blurred, image.Pt(k, k), 0, 0, gocv.BorderDefault)
	case entity.BlurMedian:
		gocv.MedianBlur(src, &blurred, k)
	case entity.BlurMean:
		gocv.Blur(src, &blurred, image.Pt(k, k))
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(blurred, &resized, image.Pt(params.TargetSize, params.TargetSize), 0, 0, gocv.InterpolationArea)

	// Круговое масштабирование повторяет предобработку обучающей выборки.
	unit := gocv.NewMat()
	defer unit.Close()
	resized.ConvertToWithParams(&unit, gocv.MatTypeCV32FC3, 1.0/255, 0)

	back := gocv.NewMat()
	defer back.Close()
	unit.ConvertToWithParams(&back, gocv.MatTypeCV8UC3, 255, 0)

	return fromMat(back)
}

// GoCVSegmenter сегментатор cv::grabCut.
type GoCVSegmenter struct {
	Seed     int
	fallback *grabcut.Segmenter
}

// NewGoCVSegmenter создаёт сегментатор с фиксированным зерном генератора OpenCV.
func NewGoCVSegmenter() *GoCVSegmenter {
	return &GoCVSegmenter{
		Seed:     int(grabcut.DefaultSeed),
		fallback: grabcut.NewSegmenter(),
	}
}

// Segment запускает GrabCut на прямоугольнике с отступом grabcut.Margin.
func (s *GoCVSegmenter) Segment(img *entity.Image) (*entity.Image, *entity.Mask, error) {
	if err := img.Validate(); err != nil {
		return nil, nil, err
	}
	rect, err := grabcut.Rect(img.Width, img.Height)
	if err != nil {
		return nil, nil, err
	}
	if rect.Dx()*rect.Dy() < minGrabCutSamples {
		return s.fallback.Segment(img)
	}

	src, err := toMat(img)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	mask := gocv.NewMat()
	defer mask.Close()
	bgdModel := gocv.NewMat()
	defer bgdModel.Close()
	fgdModel := gocv.NewMat()
	defer fgdModel.Close()

	// Генератор OpenCV локален для потока: зерно и GrabCut должны идти в одном.
	runtime.LockOSThread()
	gocv.SetRNGSeed(s.Seed)
	gocv.GrabCut(src, &mask, rect, &bgdModel, &fgdModel, grabcut.Iterations, gocv.GCInitWithRect)
	runtime.UnlockOSThread()

	raw := mask.ToBytes()
	if len(raw) != img.Width*img.Height {
		return nil, nil, fmt.Errorf("%w: grabcut mask has %d cells for %dx%d image",
			entity.ErrInternalInvariant, len(raw), img.Width, img.Height)
	}
	labels := make([]grabcut.Label, len(raw))
	for i, v := range raw {
		labels[i] = grabcut.Label(v)
	}

	binary := grabcut.Binarize(labels, img.Width, img.Height)
	segmented, err := img.ApplyMask(binary)
	if err != nil {
		return nil, nil, err
	}
	return segmented, binary, nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), fmt.Errorf("%w: failed to decode image", entity.ErrInvalidImage)
}

func toMat(img *entity.Image) (gocv.Mat, error) {
	mat, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, img.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("%w: %v", entity.ErrInvalidImage, err)
	}
	return mat, nil
}

func fromMat(mat gocv.Mat) (*entity.Image, error) {
	if mat.Empty() || mat.Type() != gocv.MatTypeCV8UC3 {
		return nil, fmt.Errorf("%w: expected 8-bit 3-channel matrix", entity.ErrInvalidImage)
	}
	img := &entity.Image{Width: mat.Cols(), Height: mat.Rows(), Pix: mat.ToBytes()}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

var (
	_ port.ImageDecoder    = (*GoCVDecoder)(nil)
	_ port.ImageNormalizer = (*GoCVNormalizer)(nil)
	_ port.Segmenter       = (*GoCVSegmenter)(nil)
)
