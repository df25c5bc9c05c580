package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"portablesource/internal/config"
	"portablesource/pkg/defaults"
)

func TestSyncConfigWaitsBeforeCollectingGarbage(t *testing.T) {
	cfg := syncConfig(&config.Config{GitMaxAttempts: 5})

	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, defaults.LockRetryDelay, cfg.LockDelay)
}
