package grabcut

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"vegcheck/internal/domain/entity"
)

// diskImage синий фон с шумом и красный круг в центре (каналы BGR).
func diskImage(size, radius int, seed uint64) *entity.Image {
	rng := rand.New(rand.NewPCG(seed, 1))
	noise := func(v int) uint8 { return uint8(v + rng.IntN(21) - 10) }

	img := entity.NewImage(size, size)
	c := size / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-c, y-c
			if dx*dx+dy*dy <= radius*radius {
				img.Set(x, y, noise(30), noise(40), noise(210))
			} else {
				img.Set(x, y, noise(200), noise(60), noise(40))
			}
		}
	}
	return img
}

func TestSegment_FindsDisk(t *testing.T) {
	img := diskImage(60, 12, 3)

	seg, mask, err := NewSegmenter().Segment(img)
	require.NoError(t, err)
	require.Equal(t, img.Width, mask.Width)
	require.Equal(t, img.Height, mask.Height)

	require.Equal(t, uint8(1), mask.At(30, 30))
	require.Equal(t, uint8(0), mask.At(15, 15))
	require.InDelta(t, 0.126, mask.Coverage(), 0.05)

	// всё вне прямоугольника остаётся фоном
	for x := 0; x < img.Width; x++ {
		require.Equal(t, uint8(0), mask.At(x, 5))
	}

	b, g, r := seg.At(15, 15)
	require.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{b, g, r})
	b, g, r = seg.At(30, 30)
	wb, wg, wr := img.At(30, 30)
	require.Equal(t, [3]uint8{wb, wg, wr}, [3]uint8{b, g, r})
}

func TestSegment_Deterministic(t *testing.T) {
	img := diskImage(48, 9, 5)

	_, first, err := NewSegmenter().Segment(img)
	require.NoError(t, err)
	_, second, err := NewSegmenter().Segment(img)
	require.NoError(t, err)
	require.Equal(t, first.Bits, second.Bits)
}

func TestSegment_SizeBoundary(t *testing.T) {
	_, _, err := NewSegmenter().Segment(diskImage(20, 4, 1))
	require.ErrorIs(t, err, entity.ErrImageTooSmall)

	_, mask, err := NewSegmenter().Segment(diskImage(21, 4, 1))
	require.NoError(t, err)
	require.Equal(t, 21, mask.Width)

	_, _, err = NewSegmenter().Segment(entity.NewImage(100, 20))
	require.ErrorIs(t, err, entity.ErrImageTooSmall)
}

func TestSegment_InvalidImage(t *testing.T) {
	_, _, err := NewSegmenter().Segment(&entity.Image{Width: 30, Height: 30})
	require.ErrorIs(t, err, entity.ErrInvalidImage)
}

func TestBinarize(t *testing.T) {
	m := Binarize([]Label{Background, Foreground, ProbableBackground, ProbableForeground}, 2, 2)
	require.Equal(t, []uint8{0, 1, 0, 1}, m.Bits)
}

func TestMaxFlow(t *testing.T) {
	// классическая сеть: s=4, t=5, максимальный поток 23
	g := newGraph(4, 10)
	s, tt := g.source, g.sink
	g.addEdge(s, 0, 16, 0)
	g.addEdge(s, 1, 13, 0)
	g.addEdge(0, 2, 12, 0)
	g.addEdge(1, 0, 4, 0)
	g.addEdge(1, 3, 14, 0)
	g.addEdge(2, 1, 9, 0)
	g.addEdge(2, tt, 20, 0)
	g.addEdge(3, 2, 7, 0)
	g.addEdge(3, tt, 4, 0)

	require.InDelta(t, 23.0, g.maxFlow(), 1e-9)
	require.True(t, g.inSourceSegment(0))
	require.True(t, g.inSourceSegment(1))
	require.False(t, g.inSourceSegment(tt))
}

func TestKMeans_SeparatesClusters(t *testing.T) {
	samples := [][3]float64{
		{0, 0, 0}, {1, 0, 1}, {0, 1, 0},
		{200, 200, 200}, {201, 199, 200}, {199, 200, 201},
	}
	labels := kmeans(samples, 2, 10, rand.New(rand.NewPCG(1, 2)))
	require.Equal(t, labels[0], labels[1])
	require.Equal(t, labels[0], labels[2])
	require.Equal(t, labels[3], labels[4])
	require.Equal(t, labels[3], labels[5])
	require.NotEqual(t, labels[0], labels[3])

	require.Equal(t, []int{0}, kmeans([][3]float64{{1, 2, 3}}, 5, 10, rand.New(rand.NewPCG(1, 2))))
}
