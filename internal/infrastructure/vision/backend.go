// Package vision выбирает реализацию обработки изображений: OpenCV через gocv
// (сборка с тегом gocv) или чистый Go.
package vision

import "vegcheck/internal/domain/port"

// Backend набор реализаций для конвейера признаков.
type Backend struct {
	Name       string
	Decoder    port.ImageDecoder
	Normalizer port.ImageNormalizer
	Segmenter  port.Segmenter
}
