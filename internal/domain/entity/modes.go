package entity

import (
	"fmt"
	"strings"
)

// ColorMode выбирает, как каналы декодера трактуются перед переводом в HSV.
// Режим должен совпадать при обучении и при инференсе.
type ColorMode string

const (
	// ColorStrict каналы BGR переставляются в RGB, затем корректный RGB->HSV.
	ColorStrict ColorMode = "strict"
	// ColorCompat каналы BGR считаются RGB без перестановки. Совместимость
	// с классификаторами, обученными на таких признаках.
	ColorCompat ColorMode = "compat"
)

// ParseColorMode разбирает режим цвета без учёта регистра.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case ColorStrict:
		return ColorStrict, nil
	case ColorCompat:
		return ColorCompat, nil
	}
	return "", fmt.Errorf("%w: color mode %q", ErrInvalidParameter, s)
}

// PreprocessingMode определяет, нормализуется ли изображение перед сегментацией.
type PreprocessingMode string

const (
	PreprocessNone PreprocessingMode = "none" // сегментация исходного изображения
	PreprocessFull PreprocessingMode = "full" // размытие, ресайз, масштабирование, затем сегментация
)

// ParsePreprocessingMode разбирает режим предобработки.
func ParsePreprocessingMode(s string) (PreprocessingMode, error) {
	switch PreprocessingMode(strings.ToLower(strings.TrimSpace(s))) {
	case PreprocessNone:
		return PreprocessNone, nil
	case PreprocessFull:
		return PreprocessFull, nil
	}
	return "", fmt.Errorf("%w: preprocessing mode %q", ErrInvalidParameter, s)
}

// BlurKind тип сглаживающего фильтра нормализатора.
type BlurKind string

const (
	BlurGaussian BlurKind = "gaussian"
	BlurMedian   BlurKind = "median"
	BlurMean     BlurKind = "mean"
)

// ParseBlurKind разбирает тип фильтра.
func ParseBlurKind(s string) (BlurKind, error) {
	switch BlurKind(strings.ToLower(strings.TrimSpace(s))) {
	case BlurGaussian:
		return BlurGaussian, nil
	case BlurMedian:
		return BlurMedian, nil
	case BlurMean:
		return BlurMean, nil
	}
	return "", fmt.Errorf("%w: blur kind %q", ErrInvalidParameter, s)
}

// NormalizeParams параметры нормализатора.
type NormalizeParams struct {
	TargetSize int
	Blur       BlurKind
	KernelSize int
}

// DefaultNormalizeParams ресайз 256x256 и гауссово ядро 5x5.
func DefaultNormalizeParams() NormalizeParams {
	return NormalizeParams{TargetSize: 256, Blur: BlurGaussian, KernelSize: 5}
}

// Validate проверяет параметры. Чётное ядро отклоняется, а не округляется.
func (p NormalizeParams) Validate() error {
	if _, err := ParseBlurKind(string(p.Blur)); err != nil {
		return err
	}
	if p.KernelSize <= 0 || p.KernelSize%2 == 0 {
		return fmt.Errorf("%w: kernel size must be a positive odd number, got %d", ErrInvalidParameter, p.KernelSize)
	}
	if p.TargetSize <= 0 {
		return fmt.Errorf("%w: target size must be positive, got %d", ErrInvalidParameter, p.TargetSize)
	}
	return nil
}
