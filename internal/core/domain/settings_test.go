package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	settings := DefaultAppSettings()

	assert.Equal(t, DefaultFilterConfig(), settings.Filter)
	assert.Empty(t, settings.PluginsDir)
	assert.Empty(t, settings.CatalogDir)
	assert.Equal(t, DefaultHistoryLimit, settings.HistoryLimit)
}
