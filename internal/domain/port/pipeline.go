package port

import "vegcheck/internal/domain/entity"

// ImageNormalizer интерфейс нормализатора: размытие, ресайз, масштабирование
type ImageNormalizer interface {
	// Normalize возвращает новое изображение, исходное не меняется
	Normalize(img *entity.Image, params entity.NormalizeParams) (*entity.Image, error)
}

// Segmenter интерфейс сегментатора объект/фон
type Segmenter interface {
	// Segment возвращает изображение с обнулённым фоном и бинарную маску
	Segment(img *entity.Image) (*entity.Image, *entity.Mask, error)
}
