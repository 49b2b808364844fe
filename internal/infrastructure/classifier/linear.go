// Package classifier загружает линейный классификатор чистоты овощей.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/domain/port"
)

// Model формат файла модели.
//
//	labels:  [clean, dirty]
//	weights: [12 чисел в порядке entity.FeatureNames]
//	bias:    0.0
//	platt:   {a: -1.0, b: 0.0}
//	scaler:  {mean: [...], scale: [...]}   # необязательно
type Model struct {
	Labels  []entity.Label `yaml:"labels"`
	Weights []float64      `yaml:"weights"`
	Bias    float64        `yaml:"bias"`
	Platt   Platt          `yaml:"platt"`
	Scaler  *Scaler        `yaml:"scaler,omitempty"`
}

// Platt коэффициенты сигмоиды: P = 1 / (1 + exp(A*d + B)).
type Platt struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

// Scaler стандартизация признаков перед решающей функцией.
type Scaler struct {
	Mean  []float64 `yaml:"mean"`
	Scale []float64 `yaml:"scale"`
}

// Linear линейная разделяющая граница с вероятностями по Платту.
// Неизменяем после загрузки, безопасен для конкурентного чтения.
type Linear struct {
	labels  []entity.Label
	weights []float64
	bias    float64
	plattA  float64
	plattB  float64
	mean    []float64
	scale   []float64
}

// Load читает модель из YAML-файла. Вызывается один раз при старте.
func Load(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Parse(data)
}

// Parse разбирает и проверяет модель.
func Parse(data []byte) (*Linear, error) {
	var m Model
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	return New(m)
}

// New проверяет модель и строит классификатор.
func New(m Model) (*Linear, error) {
	if len(m.Labels) == 0 {
		m.Labels = entity.Labels
	}
	if len(m.Labels) != 2 {
		return nil, fmt.Errorf("model must have 2 labels, got %d", len(m.Labels))
	}
	if len(m.Weights) != entity.FeatureCount {
		return nil, fmt.Errorf("model must have %d weights, got %d", entity.FeatureCount, len(m.Weights))
	}
	if m.Platt.A == 0 {
		return nil, errors.New("platt.a must be non-zero")
	}

	c := &Linear{
		labels:  append([]entity.Label(nil), m.Labels...),
		weights: append([]float64(nil), m.Weights...),
		bias:    m.Bias,
		plattA:  m.Platt.A,
		plattB:  m.Platt.B,
	}
	if m.Scaler != nil {
		if len(m.Scaler.Mean) != entity.FeatureCount || len(m.Scaler.Scale) != entity.FeatureCount {
			return nil, fmt.Errorf("scaler must have %d means and scales", entity.FeatureCount)
		}
		for i, s := range m.Scaler.Scale {
			if s == 0 {
				return nil, fmt.Errorf("scaler scale for %s is zero", entity.FeatureNames[i])
			}
		}
		c.mean = append([]float64(nil), m.Scaler.Mean...)
		c.scale = append([]float64(nil), m.Scaler.Scale...)
	}
	return c, nil
}

// Decision расстояние до разделяющей границы: положительное в сторону второго класса.
func (c *Linear) Decision(features entity.FeatureVector) float64 {
	x := features.Slice()
	if c.mean != nil {
		floats.Sub(x, c.mean)
		floats.Div(x, c.scale)
	}
	return floats.Dot(c.weights, x) + c.bias
}

// PredictProbabilities возвращает вероятности классов; при равенстве выбирается меньший индекс.
func (c *Linear) PredictProbabilities(features entity.FeatureVector) (entity.Prediction, error) {
	if !features.Finite() {
		return entity.Prediction{}, fmt.Errorf("%w: non-finite features", entity.ErrInvalidParameter)
	}

	d := c.Decision(features)
	second := 1 / (1 + math.Exp(c.plattA*d+c.plattB))
	probs := []entity.ClassProbability{
		{Label: c.labels[0], Probability: 1 - second},
		{Label: c.labels[1], Probability: second},
	}

	idx := 0
	if probs[1].Probability > probs[0].Probability {
		idx = 1
	}
	return entity.Prediction{Index: idx, Label: probs[idx].Label, Probabilities: probs}, nil
}

var _ port.Classifier = (*Linear)(nil)
