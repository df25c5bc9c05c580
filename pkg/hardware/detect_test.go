package hardware_test

import (
	"context"
	"errors"
	"testing"

	"portablesource/pkg/hardware"
	"portablesource/pkg/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRunner struct {
	outputs map[string]string
	calls   []string
}

func (r *scriptedRunner) Run(_ context.Context, cmd process.Command) (process.Result, error) {
	r.calls = append(r.calls, cmd.Name)

	out, ok := r.outputs[cmd.Name]
	if !ok {
		return process.Result{ExitCode: -1}, &process.ExitError{Command: cmd.Name, ExitCode: -1, Err: errors.New("not found")}
	}

	return process.Result{Output: out}, nil
}

func TestParseNvidiaSMI(t *testing.T) {
	info, ok := hardware.ParseNvidiaSMI("NVIDIA GeForce RTX 3060, 12288, 551.61\nNVIDIA GeForce GTX 1050, 2048, 551.61\n")

	require.True(t, ok)
	assert.Equal(t, "NVIDIA GeForce RTX 3060", info.Name)
	assert.Equal(t, 12288, info.MemoryMB)
	assert.Equal(t, "551.61", info.Driver)
}

func TestParseNvidiaSMI_empty(t *testing.T) {
	_, ok := hardware.ParseNvidiaSMI("\n")

	assert.False(t, ok)
}

func TestParseWMIC_prefersNvidia(t *testing.T) {
	out := "\r\nNode,AdapterRAM,Name\r\nDESKTOP,1073741824,Intel(R) UHD Graphics 630\r\nDESKTOP,4293918720,NVIDIA GeForce RTX 2070\r\n"

	info, ok := hardware.ParseWMIC(out)

	require.True(t, ok)
	assert.Equal(t, "NVIDIA GeForce RTX 2070", info.Name)
	assert.Equal(t, 4095, info.MemoryMB)
}

func TestDetect_windowsFallsBackToWMIC(t *testing.T) {
	runner := &scriptedRunner{outputs: map[string]string{
		"wmic": "Node,AdapterRAM,Name\nPC,2147483648,AMD Radeon RX 580\n",
	}}

	info, err := hardware.NewDetector(runner, "windows").Detect(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "AMD Radeon RX 580", info.Name)
	assert.Equal(t, []string{"nvidia-smi", "wmic"}, runner.calls)
}

func TestDetect_linuxWithoutAdapter(t *testing.T) {
	runner := &scriptedRunner{outputs: map[string]string{}}

	info, err := hardware.NewDetector(runner, "linux").Detect(context.Background())

	require.NoError(t, err)
	assert.Empty(t, info.Name)
	assert.Equal(t, []string{"nvidia-smi"}, runner.calls)
}
