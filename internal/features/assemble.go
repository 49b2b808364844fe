package features

import (
	"fmt"

	"vegcheck/internal/domain/entity"
)

// Assemble склеивает цветовые и текстурные признаки в вектор фиксированного порядка.
// Частично заполненный вектор не возвращается никогда.
func Assemble(color entity.ColorStats, texture entity.TextureStats) (entity.FeatureVector, error) {
	var v entity.FeatureVector

	values := append(color.Values(), texture.Values()...)
	if len(values) != entity.FeatureCount {
		return v, fmt.Errorf("%w: feature vector has %d values, want %d",
			entity.ErrInternalInvariant, len(values), entity.FeatureCount)
	}
	copy(v[:], values)

	if !v.Finite() {
		return entity.FeatureVector{}, fmt.Errorf("%w: non-finite feature value in %v", entity.ErrInternalInvariant, v)
	}
	return v, nil
}
