package port

import "vegcheck/internal/domain/entity"

// Classifier обученный классификатор. Только чтение, безопасен для конкурентных вызовов.
type Classifier interface {
	// PredictProbabilities возвращает вероятности классов в порядке их индексов
	PredictProbabilities(features entity.FeatureVector) (entity.Prediction, error)
}
