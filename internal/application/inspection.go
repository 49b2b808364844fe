package app

import (
	"context"
	"errors"
	"fmt"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/domain/port"
)

// InspectionService классифицирует снимок овоща как чистый или грязный.
type InspectionService struct {
	decoder    port.ImageDecoder
	extractor  *FeatureExtractor
	classifier port.Classifier
}

// NewInspectionService создаёт сервис проверки. Классификатор загружается заранее и только читается.
func NewInspectionService(decoder port.ImageDecoder, extractor *FeatureExtractor, classifier port.Classifier) *InspectionService {
	return &InspectionService{
		decoder:    decoder,
		extractor:  extractor,
		classifier: classifier,
	}
}

// ColorMode режим цвета, с которым считаются признаки.
func (s *InspectionService) ColorMode() entity.ColorMode {
	return s.extractor.Options().ColorMode
}

// Inspect декодирует снимок, считает признаки и спрашивает классификатор.
func (s *InspectionService) Inspect(ctx context.Context, imageData []byte) (*entity.InspectionResult, error) {
	if s.classifier == nil {
		return nil, errors.New("classifier is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, err := s.decoder.Decode(imageData)
	if err != nil {
		return nil, err
	}
	ext, err := s.extractor.ExtractDetailed(img)
	if err != nil {
		return nil, err
	}
	prediction, err := s.classifier.PredictProbabilities(ext.Features)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	result := &entity.InspectionResult{
		Prediction: prediction,
		Features:   ext.Features,
		ColorMode:  s.ColorMode(),
		Coverage:   ext.Mask.Coverage(),
	}
	if area, ok := ext.Mask.Bounds(); ok {
		result.Foreground = &area
	}
	return result, nil
}
