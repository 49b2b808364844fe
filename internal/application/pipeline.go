package app

import (
	"fmt"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/domain/port"
	"vegcheck/internal/features"
)

// ExtractorOptions параметры конвейера. ColorMode должен совпадать с режимом,
// в котором считались признаки для обучения классификатора.
type ExtractorOptions struct {
	ColorMode     entity.ColorMode
	Preprocessing entity.PreprocessingMode
	Normalize     entity.NormalizeParams
}

// DefaultExtractorOptions режим strict, сегментация без предобработки.
func DefaultExtractorOptions() ExtractorOptions {
	return ExtractorOptions{
		ColorMode:     entity.ColorStrict,
		Preprocessing: entity.PreprocessNone,
		Normalize:     entity.DefaultNormalizeParams(),
	}
}

// Validate проверяет режимы и параметры нормализации.
func (o ExtractorOptions) Validate() error {
	if _, err := entity.ParseColorMode(string(o.ColorMode)); err != nil {
		return err
	}
	mode, err := entity.ParsePreprocessingMode(string(o.Preprocessing))
	if err != nil {
		return err
	}
	if mode == entity.PreprocessFull {
		return o.Normalize.Validate()
	}
	return nil
}

// Extraction промежуточные результаты конвейера для отладки.
type Extraction struct {
	Input     *entity.Image // изображение, поданное в сегментатор
	Segmented *entity.Image
	Mask      *entity.Mask
	Gray      *entity.GrayImage
	Color     entity.ColorStats
	Texture   entity.TextureStats
	Features  entity.FeatureVector
}

// FeatureExtractor превращает изображение в вектор признаков:
// нормализация (по режиму), сегментация, статистики HSV, текстура, сборка вектора.
// Не хранит состояния между вызовами и может использоваться из многих горутин.
type FeatureExtractor struct {
	normalizer port.ImageNormalizer
	segmenter  port.Segmenter
	opts       ExtractorOptions
}

// NewFeatureExtractor создаёт конвейер.
func NewFeatureExtractor(normalizer port.ImageNormalizer, segmenter port.Segmenter, opts ExtractorOptions) (*FeatureExtractor, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if segmenter == nil {
		return nil, fmt.Errorf("%w: segmenter is required", entity.ErrInvalidParameter)
	}
	if opts.Preprocessing == entity.PreprocessFull && normalizer == nil {
		return nil, fmt.Errorf("%w: normalizer is required for full preprocessing", entity.ErrInvalidParameter)
	}
	return &FeatureExtractor{normalizer: normalizer, segmenter: segmenter, opts: opts}, nil
}

// Options возвращает параметры конвейера.
func (e *FeatureExtractor) Options() ExtractorOptions {
	return e.opts
}

// Extract возвращает вектор из entity.FeatureCount признаков.
func (e *FeatureExtractor) Extract(img *entity.Image) (entity.FeatureVector, error) {
	ext, err := e.ExtractDetailed(img)
	if err != nil {
		return entity.FeatureVector{}, err
	}
	return ext.Features, nil
}

// ExtractDetailed как Extract, но возвращает и промежуточные результаты.
func (e *FeatureExtractor) ExtractDetailed(img *entity.Image) (*Extraction, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}

	input := img
	if e.opts.Preprocessing == entity.PreprocessFull {
		normalized, err := e.normalizer.Normalize(img, e.opts.Normalize)
		if err != nil {
			return nil, fmt.Errorf("normalize: %w", err)
		}
		input = normalized
	}

	segmented, mask, err := e.segmenter.Segment(input)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	color, err := features.ColorStats(segmented, e.opts.ColorMode)
	if err != nil {
		return nil, fmt.Errorf("color stats: %w", err)
	}
	gray, err := features.Gray(segmented)
	if err != nil {
		return nil, fmt.Errorf("gray: %w", err)
	}
	texture, err := features.TextureStats(gray)
	if err != nil {
		return nil, fmt.Errorf("texture stats: %w", err)
	}
	vector, err := features.Assemble(color, texture)
	if err != nil {
		return nil, err
	}

	return &Extraction{
		Input:     input,
		Segmented: segmented,
		Mask:      mask,
		Gray:      gray,
		Color:     color,
		Texture:   texture,
		Features:  vector,
	}, nil
}
