package port

import "vegcheck/internal/domain/entity"

// ImageDecoder интерфейс декодера изображений
type ImageDecoder interface {
	// Decode превращает байты файла в изображение с каналами в порядке BGR
	Decode(data []byte) (*entity.Image, error)
}
