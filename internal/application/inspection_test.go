package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vegcheck/internal/domain/entity"
	"vegcheck/internal/infrastructure/imaging"
)

func TestInspectionService_Inspect(t *testing.T) {
	svc := NewInspectionService(imaging.NewDecoder(), newTestExtractor(t, DefaultExtractorOptions()), stubClassifier{threshold: 1e9})

	result, err := svc.Inspect(context.Background(), encodePNG(t, vegetableImage(64, 8)))
	require.NoError(t, err)
	require.Equal(t, entity.LabelClean, result.Prediction.Label)
	require.Len(t, result.Prediction.Probabilities, 2)
	require.InDelta(t, 0.8, result.Prediction.Confidence(), 1e-12)
	require.Equal(t, entity.ColorStrict, result.ColorMode)
	require.True(t, result.Features.Finite())
	require.NotNil(t, result.Foreground)
	require.Greater(t, result.Coverage, 0.0)
}

func TestInspectionService_MatchesDirectExtraction(t *testing.T) {
	extractor := newTestExtractor(t, DefaultExtractorOptions())
	svc := NewInspectionService(imaging.NewDecoder(), extractor, stubClassifier{})
	img := vegetableImage(48, 9)

	result, err := svc.Inspect(context.Background(), encodePNG(t, img))
	require.NoError(t, err)

	want, err := extractor.Extract(img)
	require.NoError(t, err)
	require.Equal(t, want, result.Features)
}

func TestInspectionService_Errors(t *testing.T) {
	extractor := newTestExtractor(t, DefaultExtractorOptions())
	ctx := context.Background()

	svc := NewInspectionService(imaging.NewDecoder(), extractor, stubClassifier{})
	_, err := svc.Inspect(ctx, []byte("not an image"))
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = svc.Inspect(ctx, encodePNG(t, vegetableImage(20, 1)))
	require.ErrorIs(t, err, entity.ErrImageTooSmall)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Inspect(cancelled, encodePNG(t, vegetableImage(32, 1)))
	require.ErrorIs(t, err, context.Canceled)

	noModel := NewInspectionService(imaging.NewDecoder(), extractor, nil)
	_, err = noModel.Inspect(ctx, encodePNG(t, vegetableImage(32, 1)))
	require.Error(t, err)
}
