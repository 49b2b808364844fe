package imaging

import (
	"math"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/domain/port"
)

// Normalizer нормализатор на чистом Go.
type Normalizer struct{}

// NewNormalizer создаёт нормализатор.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize размывает, приводит к TargetSize x TargetSize и прогоняет значения
// через [0,1] и обратно. Круговое масштабирование обязательно: на нём обучались модели.
func (n *Normalizer) Normalize(img *entity.Image, params entity.NormalizeParams) (*entity.Image, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	blurred, err := Blur(img, params.Blur, params.KernelSize)
	if err != nil {
		return nil, err
	}
	resized := ResizeArea(blurred, params.TargetSize, params.TargetSize)
	return ScaleRoundTrip(resized), nil
}

// ScaleRoundTrip переводит каналы в float32 [0,1] и обратно в [0,255] с округлением.
func ScaleRoundTrip(img *entity.Image) *entity.Image {
	const inv = float32(1.0 / 255.0)
	out := entity.NewImage(img.Width, img.Height)
	for i, v := range img.Pix {
		unit := float32(v) * inv
		out.Pix[i] = uint8(min(max(math.RoundToEven(float64(unit*255)), 0), 255))
	}
	return out
}

var _ port.ImageNormalizer = (*Normalizer)(nil)
