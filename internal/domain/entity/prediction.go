package entity

// Label класс овоща.
type Label string

const (
	LabelClean Label = "clean"
	LabelDirty Label = "dirty"
)

// Labels порядок классов: индекс совпадает с индексом вероятности.
var Labels = []Label{LabelClean, LabelDirty}

// ClassProbability вероятность одного класса.
type ClassProbability struct {
	Label       Label
	Probability float64
}

// Prediction ответ классификатора: вероятности в порядке индексов классов.
type Prediction struct {
	Index         int
	Label         Label
	Probabilities []ClassProbability
}

// Confidence вероятность выбранного класса.
func (p Prediction) Confidence() float64 {
	if p.Index < 0 || p.Index >= len(p.Probabilities) {
		return 0
	}
	return p.Probabilities[p.Index].Probability
}

// InspectionResult итог проверки одного снимка.
type InspectionResult struct {
	Prediction Prediction
	Features   FeatureVector
	ColorMode  ColorMode
	Foreground *ForegroundArea // nil, если объект не найден
	Coverage   float64         // доля пикселей объекта
}
