package entity

import "math"

// FeatureCount длина вектора признаков.
const FeatureCount = 12

// FeatureNames порядок признаков. Это контракт с обученным классификатором:
// перестановка делает существующие модели недействительными.
var FeatureNames = [FeatureCount]string{
	"H_mean", "H_std", "S_mean", "S_std", "V_mean", "V_std",
	"contrast", "dissimilarity", "homogeneity", "energy", "ASM", "correlation",
}

// FeatureVector упорядоченный вектор признаков.
type FeatureVector [FeatureCount]float64

// Slice возвращает признаки срезом.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}

// Finite сообщает, что все значения конечны.
func (v FeatureVector) Finite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// ColorStats статистики HSV по сегментированному изображению.
type ColorStats struct {
	HMean, HStd float64
	SMean, SStd float64
	VMean, VStd float64
}

// Values возвращает статистики в порядке вектора признаков.
func (c ColorStats) Values() []float64 {
	return []float64{c.HMean, c.HStd, c.SMean, c.SStd, c.VMean, c.VStd}
}

// TextureStats признаки матрицы совместной встречаемости, усреднённые по направлениям.
type TextureStats struct {
	Contrast      float64
	Dissimilarity float64
	Homogeneity   float64
	Energy        float64
	ASM           float64
	Correlation   float64
}

// Values возвращает признаки в порядке вектора признаков.
func (t TextureStats) Values() []float64 {
	return []float64{t.Contrast, t.Dissimilarity, t.Homogeneity, t.Energy, t.ASM, t.Correlation}
}
