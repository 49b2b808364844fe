package entity

import "errors"

// Виды ошибок конвейера. Сравнивать через errors.Is: конвейер оборачивает их контекстом.
var (
	// ErrInvalidImage пустое, нераскодированное или повреждённое изображение.
	ErrInvalidImage = errors.New("invalid image")
	// ErrImageTooSmall изображение меньше отступа прямоугольника сегментации.
	ErrImageTooSmall = errors.New("image too small")
	// ErrInvalidParameter неизвестный тип размытия или некорректный размер ядра.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInternalInvariant нарушение внутреннего инварианта (дефект логики, не ошибка пользователя).
	ErrInternalInvariant = errors.New("internal invariant violation")
)
