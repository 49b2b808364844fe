package container

import (
	"testing"

	"github.com/stretchr/testify/require"

	app "vegcheck/internal/application"
	"vegcheck/internal/domain/entity"
	"vegcheck/internal/infrastructure/storage"
	"vegcheck/internal/infrastructure/vision"
)

func TestNew(t *testing.T) {
	c, err := New(vision.NewBackend(), nil, storage.NewMemoryUserRepository(), app.DefaultExtractorOptions())
	require.NoError(t, err)
	require.NotNil(t, c.UserService)
	require.NotNil(t, c.InspectionService)
	require.NotNil(t, c.DatasetService)
	require.Equal(t, entity.ColorStrict, c.InspectionService.ColorMode())
}

func TestNew_InvalidOptions(t *testing.T) {
	opts := app.DefaultExtractorOptions()
	opts.ColorMode = "sepia"

	_, err := New(vision.NewBackend(), nil, storage.NewMemoryUserRepository(), opts)
	require.ErrorIs(t, err, entity.ErrInvalidParameter)
}
