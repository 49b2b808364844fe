package app

import (
	"bytes"
	"image/png"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/infrastructure/grabcut"
	"vegcheck/internal/infrastructure/imaging"
)

// vegetableImage зелёный «овощ» с бурыми пятнами на светлом фоне, каналы BGR.
func vegetableImage(size int, seed uint64) *entity.Image {
	rng := rand.New(rand.NewPCG(seed, 7))
	jitter := func(v int) uint8 { return uint8(min(max(v+rng.IntN(17)-8, 0), 255)) }

	img := entity.NewImage(size, size)
	c, r := size/2, size/4
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-c, y-c
			switch {
			case dx*dx+dy*dy > r*r:
				img.Set(x, y, jitter(225), jitter(225), jitter(230))
			case (x/3+y/3)%4 == 0:
				img.Set(x, y, jitter(30), jitter(60), jitter(90))
			default:
				img.Set(x, y, jitter(40), jitter(170), jitter(60))
			}
		}
	}
	return img
}

func encodePNG(t *testing.T, img *entity.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, imaging.ToImage(img)))
	return buf.Bytes()
}

func newTestExtractor(t *testing.T, opts ExtractorOptions) *FeatureExtractor {
	t.Helper()
	e, err := NewFeatureExtractor(imaging.NewNormalizer(), grabcut.NewSegmenter(), opts)
	require.NoError(t, err)
	return e
}

// stubClassifier считает грязным всё, у чего контраст выше порога.
type stubClassifier struct {
	threshold float64
}

func (c stubClassifier) PredictProbabilities(v entity.FeatureVector) (entity.Prediction, error) {
	dirty := 0.2
	if v[6] > c.threshold {
		dirty = 0.8
	}
	probs := []entity.ClassProbability{
		{Label: entity.LabelClean, Probability: 1 - dirty},
		{Label: entity.LabelDirty, Probability: dirty},
	}
	idx := 0
	if dirty > 0.5 {
		idx = 1
	}
	return entity.Prediction{Index: idx, Label: probs[idx].Label, Probabilities: probs}, nil
}

// sizeRecorder сегментатор, запоминающий размер входа.
type sizeRecorder struct {
	width, height int
	next          *grabcut.Segmenter
}

func (s *sizeRecorder) Segment(img *entity.Image) (*entity.Image, *entity.Mask, error) {
	s.width, s.height = img.Width, img.Height
	return s.next.Segment(img)
}
