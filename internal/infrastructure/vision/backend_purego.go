//go:build !gocv
// +build !gocv

package vision

import (
	"vegcheck/internal/infrastructure/grabcut"
	"vegcheck/internal/infrastructure/imaging"
)

// NewBackend собирает реализации на чистом Go (сборка без тега gocv).
func NewBackend() *Backend {
	return &Backend{
		Name:       "purego",
		Decoder:    imaging.NewDecoder(),
		Normalizer: imaging.NewNormalizer(),
		Segmenter:  grabcut.NewSegmenter(),
	}
}
