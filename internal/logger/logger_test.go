package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandash/internal/config"
)

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "loandash.log")
	t.Cleanup(func() { Log = newDiscard() })

	require.NoError(t, Init(config.LogConfig{Level: "debug", File: path, MaxSize: 1}))
	Log.WithField("page", 3).Debug("fetching")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "fetching")
	assert.Contains(t, string(data), "page=3")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
}

func TestInitRejectsBadLevel(t *testing.T) {
	assert.Error(t, Init(config.LogConfig{Level: "loud"}))
}
