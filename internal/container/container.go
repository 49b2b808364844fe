package container

import (
	"fmt"

	app "vegcheck/internal/application"
	"vegcheck/internal/domain/port"
	"vegcheck/internal/infrastructure/vision"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
	DatasetService    *app.DatasetService
	Extractor         *app.FeatureExtractor
	Backend           *vision.Backend
}

// New собирает сервисы. classifier может быть nil для выгрузки признаков без модели.
func New(backend *vision.Backend, classifier port.Classifier, userRepo port.UserRepository, opts app.ExtractorOptions) (*Container, error) {
	extractor, err := app.NewFeatureExtractor(backend.Normalizer, backend.Segmenter, opts)
	if err != nil {
		return nil, fmt.Errorf("feature extractor: %w", err)
	}

	return &Container{
		UserService:       app.NewUserService(userRepo),
		InspectionService: app.NewInspectionService(backend.Decoder, extractor, classifier),
		DatasetService:    app.NewDatasetService(backend.Decoder, extractor),
		Extractor:         extractor,
		Backend:           backend,
	}, nil
}
