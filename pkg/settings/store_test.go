package settings_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portablesource/pkg/models"
	"portablesource/pkg/settings"
)

func TestLoadMissingRecordReturnsDefaults(t *testing.T) {
	store := settings.NewStore("/opt/ps", afero.NewMemMapFs())

	record, err := store.Load()

	require.NoError(t, err)
	assert.Equal(t, settings.FormatVersion, record.Version)
	assert.Equal(t, "/opt/ps", record.InstallPath)
	assert.Nil(t, record.GPU)
}

func TestSaveThenLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := settings.NewStore("/opt/ps", fs)

	require.NoError(t, store.Save(&models.Settings{
		GPU: &models.HardwareProfile{
			RawName:        "NVIDIA GeForce RTX 4090",
			Generation:     models.GenerationAda,
			ToolkitVersion: models.Toolkit128,
			Backend:        models.BackendCUDATensorRT,
		},
		EnvironmentVars:           map[string]string{"CUDA_PATH": "/opt/ps/ps_env/CUDA"},
		EnvironmentSetupCompleted: true,
	}))

	data, err := afero.ReadFile(fs, "/opt/ps/portablesource_config.json")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gpu_config"`)

	record, err := settings.NewStore("/opt/ps", fs).Load()
	require.NoError(t, err)
	assert.Equal(t, settings.FormatVersion, record.Version)
	assert.Equal(t, "/opt/ps", record.InstallPath)
	assert.True(t, record.EnvironmentSetupCompleted)
	require.NotNil(t, record.GPU)
	assert.Equal(t, models.Toolkit128, record.GPU.ToolkitVersion)
}

func TestLoadCorruptRecord(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/opt/ps/portablesource_config.json", []byte("{"), 0o644))

	_, err := settings.NewStore("/opt/ps", fs).Load()

	assert.ErrorContains(t, err, "unmarshalling")
}
