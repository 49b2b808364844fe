// Package grabcut отделяет объект от фона итеративным GrabCut: смеси гауссиан
// для цветов объекта и фона переоцениваются, разметка уточняется минимальным разрезом.
package grabcut

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/domain/port"
)

// Label метка пикселя в маске GrabCut.
type Label uint8

const (
	Background         Label = 0 // точно фон
	Foreground         Label = 1 // точно объект
	ProbableBackground Label = 2
	ProbableForeground Label = 3
)

// Параметры сегментации зафиксированы: от них зависят признаки обученных моделей.
const (
	Iterations = 5
	Margin     = 10

	gamma       = 50.0
	lambda      = 9 * gamma
	kmeansIters = 10
)

// DefaultSeed зерно инициализации k-means: одинаковый вход даёт одинаковую маску.
const DefaultSeed uint64 = 0x5eed

// Rect прямоугольник инициализации: отступ Margin от каждого края.
// Ошибка, если изображение не больше 2*Margin по любой стороне.
func Rect(width, height int) (image.Rectangle, error) {
	if width <= 2*Margin || height <= 2*Margin {
		return image.Rectangle{}, fmt.Errorf("%w: %dx%d, need both sides > %d",
			entity.ErrImageTooSmall, width, height, 2*Margin)
	}
	return image.Rect(Margin, Margin, width-Margin, height-Margin), nil
}

// Binarize сводит четыре метки к бинарной маске: фон и вероятный фон дают 0.
func Binarize(labels []Label, width, height int) *entity.Mask {
	m := entity.NewMask(width, height)
	for i, l := range labels {
		if l == Foreground || l == ProbableForeground {
			m.Bits[i] = 1
		}
	}
	return m
}

// Segmenter сегментатор на чистом Go.
type Segmenter struct {
	Seed uint64
}

// NewSegmenter создаёт сегментатор с фиксированным зерном.
func NewSegmenter() *Segmenter {
	return &Segmenter{Seed: DefaultSeed}
}

// Segment возвращает изображение с обнулённым фоном и бинарную маску.
func (s *Segmenter) Segment(img *entity.Image) (*entity.Image, *entity.Mask, error) {
	if err := img.Validate(); err != nil {
		return nil, nil, err
	}
	rect, err := Rect(img.Width, img.Height)
	if err != nil {
		return nil, nil, err
	}

	labels := Run(img, rect, Iterations, s.Seed)
	mask := Binarize(labels, img.Width, img.Height)
	segmented, err := img.ApplyMask(mask)
	if err != nil {
		return nil, nil, err
	}
	return segmented, mask, nil
}

// Run выполняет GrabCut, инициализированный прямоугольником, и возвращает метки пикселей.
func Run(img *entity.Image, rect image.Rectangle, iterations int, seed uint64) []Label {
	w, h := img.Width, img.Height
	colors := make([][3]float64, w*h)
	for p := range colors {
		i := p * entity.Channels
		colors[p] = [3]float64{float64(img.Pix[i]), float64(img.Pix[i+1]), float64(img.Pix[i+2])}
	}

	labels := make([]Label, w*h)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			labels[y*w+x] = ProbableForeground
		}
	}

	var bgd, fgd gmm
	initGMMs(colors, labels, &bgd, &fgd, rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)))

	nw := newNeighbourWeights(colors, w, h)
	comps := make([]int, w*h)
	for it := 0; it < iterations; it++ {
		assignComponents(colors, labels, &bgd, &fgd, comps)
		learnGMMs(colors, labels, comps, &bgd, &fgd)
		g := buildGraph(colors, labels, &bgd, &fgd, nw, w, h)
		g.maxFlow()
		for p, l := range labels {
			if l == ProbableBackground || l == ProbableForeground {
				if g.inSourceSegment(p) {
					labels[p] = ProbableForeground
				} else {
					labels[p] = ProbableBackground
				}
			}
		}
	}
	return labels
}

func isBackground(l Label) bool {
	return l == Background || l == ProbableBackground
}

func initGMMs(colors [][3]float64, labels []Label, bgd, fgd *gmm, rng *rand.Rand) {
	var bgdIdx, fgdIdx []int
	var bgdSamples, fgdSamples [][3]float64
	for p, l := range labels {
		if isBackground(l) {
			bgdIdx = append(bgdIdx, p)
			bgdSamples = append(bgdSamples, colors[p])
		} else {
			fgdIdx = append(fgdIdx, p)
			fgdSamples = append(fgdSamples, colors[p])
		}
	}

	bgdLabels := kmeans(bgdSamples, components, kmeansIters, rng)
	fgdLabels := kmeans(fgdSamples, components, kmeansIters, rng)

	bgd.initLearning()
	for i, p := range bgdIdx {
		bgd.addSample(bgdLabels[i], colors[p])
	}
	bgd.endLearning()

	fgd.initLearning()
	for i, p := range fgdIdx {
		fgd.addSample(fgdLabels[i], colors[p])
	}
	fgd.endLearning()
}

func assignComponents(colors [][3]float64, labels []Label, bgd, fgd *gmm, comps []int) {
	for p, c := range colors {
		if isBackground(labels[p]) {
			comps[p] = bgd.whichComponent(c)
		} else {
			comps[p] = fgd.whichComponent(c)
		}
	}
}

func learnGMMs(colors [][3]float64, labels []Label, comps []int, bgd, fgd *gmm) {
	bgd.initLearning()
	fgd.initLearning()
	for p, c := range colors {
		if isBackground(labels[p]) {
			bgd.addSample(comps[p], c)
		} else {
			fgd.addSample(comps[p], c)
		}
	}
	bgd.endLearning()
	fgd.endLearning()
}

// neighbourWeights веса гладкости к соседям слева, слева сверху, сверху и справа сверху.
type neighbourWeights struct {
	left, upLeft, up, upRight []float64
}

func newNeighbourWeights(colors [][3]float64, w, h int) *neighbourWeights {
	beta := calcBeta(colors, w, h)
	gammaDivSqrt2 := gamma / math.Sqrt2
	nw := &neighbourWeights{
		left:    make([]float64, w*h),
		upLeft:  make([]float64, w*h),
		up:      make([]float64, w*h),
		upRight: make([]float64, w*h),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*w + x
			c := colors[p]
			if x > 0 {
				nw.left[p] = gamma * math.Exp(-beta*sqDist(c, colors[p-1]))
			}
			if x > 0 && y > 0 {
				nw.upLeft[p] = gammaDivSqrt2 * math.Exp(-beta*sqDist(c, colors[p-w-1]))
			}
			if y > 0 {
				nw.up[p] = gamma * math.Exp(-beta*sqDist(c, colors[p-w]))
			}
			if x < w-1 && y > 0 {
				nw.upRight[p] = gammaDivSqrt2 * math.Exp(-beta*sqDist(c, colors[p-w+1]))
			}
		}
	}
	return nw
}

// calcBeta нормирует перепады цвета: 1 / (2 * средний квадрат разности соседей).
func calcBeta(colors [][3]float64, w, h int) float64 {
	var beta float64
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*w + x
			c := colors[p]
			if x > 0 {
				beta += sqDist(c, colors[p-1])
			}
			if x > 0 && y > 0 {
				beta += sqDist(c, colors[p-w-1])
			}
			if y > 0 {
				beta += sqDist(c, colors[p-w])
			}
			if x < w-1 && y > 0 {
				beta += sqDist(c, colors[p-w+1])
			}
		}
	}
	if beta <= math.SmallestNonzeroFloat64 {
		return 0
	}
	pairs := float64(4*w*h - 3*w - 3*h + 2)
	return 1 / (2 * beta / pairs)
}

func buildGraph(colors [][3]float64, labels []Label, bgd, fgd *gmm, nw *neighbourWeights, w, h int) *graph {
	g := newGraph(w*h, 5*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := y*w + x
			c := colors[p]

			var fromSource, toSink float64
			switch labels[p] {
			case ProbableBackground, ProbableForeground:
				fromSource = bgd.penalty(c)
				toSink = fgd.penalty(c)
			case Background:
				toSink = lambda
			case Foreground:
				fromSource = lambda
			}
			g.addTermWeights(p, fromSource, toSink)

			if x > 0 {
				g.addEdge(p, p-1, nw.left[p], nw.left[p])
			}
			if x > 0 && y > 0 {
				g.addEdge(p, p-w-1, nw.upLeft[p], nw.upLeft[p])
			}
			if y > 0 {
				g.addEdge(p, p-w, nw.up[p], nw.up[p])
			}
			if x < w-1 && y > 0 {
				g.addEdge(p, p-w+1, nw.upRight[p], nw.upRight[p])
			}
		}
	}
	return g
}

var _ port.Segmenter = (*Segmenter)(nil)
