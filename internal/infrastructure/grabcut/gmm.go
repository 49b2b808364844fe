package grabcut

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	components  = 5
	singularFix = 0.01
	// minProbability не даёт -log уйти в бесконечность, когда модель пуста.
	minProbability = 1e-300
)

// gmm смесь из пяти гауссиан с полными ковариациями в пространстве цвета.
type gmm struct {
	coefs   [components]float64
	means   [components][3]float64
	inverse [components][9]float64
	determs [components]float64

	sums   [components][3]float64
	prods  [components][9]float64
	counts [components]int
	total  int
}

func (m *gmm) initLearning() {
	m.sums = [components][3]float64{}
	m.prods = [components][9]float64{}
	m.counts = [components]int{}
	m.total = 0
}

func (m *gmm) addSample(ci int, c [3]float64) {
	for i := 0; i < 3; i++ {
		m.sums[ci][i] += c[i]
		for j := 0; j < 3; j++ {
			m.prods[ci][i*3+j] += c[i] * c[j]
		}
	}
	m.counts[ci]++
	m.total++
}

func (m *gmm) endLearning() {
	for ci := 0; ci < components; ci++ {
		n := m.counts[ci]
		if n == 0 {
			m.coefs[ci] = 0
			continue
		}
		m.coefs[ci] = float64(n) / float64(m.total)

		mean := &m.means[ci]
		for i := 0; i < 3; i++ {
			mean[i] = m.sums[ci][i] / float64(n)
		}
		cov := make([]float64, 9)
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[i*3+j] = m.prods[ci][i*3+j]/float64(n) - mean[i]*mean[j]
			}
		}
		m.setCovariance(ci, cov)
	}
}

// setCovariance запоминает обратную матрицу и определитель. Вырожденная
// ковариация (один цвет в компоненте) сдвигается на singularFix по диагонали.
func (m *gmm) setCovariance(ci int, cov []float64) {
	c := mat.NewSymDense(3, cov)
	det := mat.Det(c)
	if det <= 1e-6 {
		for i := 0; i < 3; i++ {
			c.SetSym(i, i, c.At(i, i)+singularFix)
		}
		det = mat.Det(c)
	}

	var inv mat.Dense
	if det <= math.SmallestNonzeroFloat64 || inv.Inverse(c) != nil {
		m.coefs[ci] = 0
		return
	}
	m.determs[ci] = det
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.inverse[ci][i*3+j] = inv.At(i, j)
		}
	}
}

// component плотность компоненты ci без множителя (2π)^(-3/2).
func (m *gmm) component(ci int, c [3]float64) float64 {
	if m.coefs[ci] <= 0 {
		return 0
	}
	d := [3]float64{c[0] - m.means[ci][0], c[1] - m.means[ci][1], c[2] - m.means[ci][2]}
	inv := &m.inverse[ci]
	mult := d[0]*(d[0]*inv[0]+d[1]*inv[3]+d[2]*inv[6]) +
		d[1]*(d[0]*inv[1]+d[1]*inv[4]+d[2]*inv[7]) +
		d[2]*(d[0]*inv[2]+d[1]*inv[5]+d[2]*inv[8])
	return 1 / math.Sqrt(m.determs[ci]) * math.Exp(-0.5*mult)
}

// probability взвешенная сумма плотностей компонент.
func (m *gmm) probability(c [3]float64) float64 {
	var p float64
	for ci := 0; ci < components; ci++ {
		p += m.coefs[ci] * m.component(ci, c)
	}
	return p
}

// penalty штраф -log p, ограниченный сверху.
func (m *gmm) penalty(c [3]float64) float64 {
	return -math.Log(math.Max(m.probability(c), minProbability))
}

// whichComponent компонента с наибольшей плотностью (веса не учитываются).
func (m *gmm) whichComponent(c [3]float64) int {
	best, bestP := 0, 0.0
	for ci := 0; ci < components; ci++ {
		if p := m.component(ci, c); p > bestP {
			best, bestP = ci, p
		}
	}
	return best
}
