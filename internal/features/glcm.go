package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"vegcheck/internal/domain/entity"
)

// Levels число уровней серого в матрице совместной встречаемости.
const Levels = 256

// stdEpsilon порог, ниже которого корреляция считается равной 1.
const stdEpsilon = 1e-15

// Offset смещение второго пикселя пары относительно первого.
type Offset struct {
	Angle int // градусы
	DRow  int
	DCol  int
}

// Directions четыре направления на расстоянии 1 пиксель.
var Directions = [4]Offset{
	{Angle: 0, DRow: 0, DCol: 1},
	{Angle: 45, DRow: 1, DCol: 1},
	{Angle: 90, DRow: 1, DCol: 0},
	{Angle: 135, DRow: 1, DCol: -1},
}

// CooccurrenceMatrix строит симметричную нормированную матрицу Levels x Levels:
// p(i,j) учитывает и пару (i,j), и пару (j,i), сумма элементов равна 1.
func CooccurrenceMatrix(gray *entity.GrayImage, off Offset) (*mat.SymDense, error) {
	if gray == nil || gray.Width < 2 || gray.Height < 2 || len(gray.Pix) != gray.Width*gray.Height {
		return nil, fmt.Errorf("%w: gray image must be at least 2x2", entity.ErrInvalidImage)
	}

	counts := make([]float64, Levels*Levels)
	startRow, endRow := max(0, -off.DRow), min(gray.Height, gray.Height-off.DRow)
	startCol, endCol := max(0, -off.DCol), min(gray.Width, gray.Width-off.DCol)
	for r := startRow; r < endRow; r++ {
		for c := startCol; c < endCol; c++ {
			i := int(gray.At(c, r))
			j := int(gray.At(c+off.DCol, r+off.DRow))
			counts[i*Levels+j]++
		}
	}

	data := make([]float64, Levels*Levels)
	var total float64
	for i := 0; i < Levels; i++ {
		for j := 0; j < Levels; j++ {
			v := counts[i*Levels+j] + counts[j*Levels+i]
			data[i*Levels+j] = v
			total += v
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: no pixel pairs for offset %d°", entity.ErrInvalidImage, off.Angle)
	}
	for k := range data {
		data[k] /= total
	}
	return mat.NewSymDense(Levels, data), nil
}

// MatrixStats считает шесть признаков для одной нормированной матрицы.
func MatrixStats(p mat.Symmetric) entity.TextureStats {
	n := p.SymmetricDim()

	var st entity.TextureStats
	var meanI, meanJ float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := p.At(i, j)
			if v == 0 {
				continue
			}
			d := float64(i - j)
			st.Contrast += d * d * v
			st.Dissimilarity += math.Abs(d) * v
			st.Homogeneity += v / (1 + d*d)
			st.ASM += v * v
			meanI += float64(i) * v
			meanJ += float64(j) * v
		}
	}
	st.Energy = math.Sqrt(st.ASM)

	var varI, varJ, cov float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := p.At(i, j)
			if v == 0 {
				continue
			}
			di, dj := float64(i)-meanI, float64(j)-meanJ
			varI += v * di * di
			varJ += v * dj * dj
			cov += v * di * dj
		}
	}
	stdI, stdJ := math.Sqrt(varI), math.Sqrt(varJ)
	if stdI < stdEpsilon || stdJ < stdEpsilon {
		st.Correlation = 1
	} else {
		st.Correlation = cov / (stdI * stdJ)
	}
	return st
}

// DirectionalStats считает признаки отдельно для каждого направления из Directions.
func DirectionalStats(gray *entity.GrayImage) ([len(Directions)]entity.TextureStats, error) {
	var out [len(Directions)]entity.TextureStats
	for k, off := range Directions {
		p, err := CooccurrenceMatrix(gray, off)
		if err != nil {
			return out, err
		}
		out[k] = MatrixStats(p)
	}
	return out, nil
}

// TextureStats усредняет признаки по четырём направлениям.
// Энергия усредняется как есть, а не пересчитывается из среднего ASM.
func TextureStats(gray *entity.GrayImage) (entity.TextureStats, error) {
	per, err := DirectionalStats(gray)
	if err != nil {
		return entity.TextureStats{}, err
	}

	column := func(get func(entity.TextureStats) float64) float64 {
		xs := make([]float64, len(per))
		for k, st := range per {
			xs[k] = get(st)
		}
		return stat.Mean(xs, nil)
	}
	return entity.TextureStats{
		Contrast:      column(func(s entity.TextureStats) float64 { return s.Contrast }),
		Dissimilarity: column(func(s entity.TextureStats) float64 { return s.Dissimilarity }),
		Homogeneity:   column(func(s entity.TextureStats) float64 { return s.Homogeneity }),
		Energy:        column(func(s entity.TextureStats) float64 { return s.Energy }),
		ASM:           column(func(s entity.TextureStats) float64 { return s.ASM }),
		Correlation:   column(func(s entity.TextureStats) float64 { return s.Correlation }),
	}, nil
}
