package metrics_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portablesource/pkg/metrics"
	"portablesource/pkg/models"
)

func TestCountersAndTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Install("uv", errors.New("boom"))
	m.Install("pip", nil)
	m.InstallerFallback()
	m.Remediation(models.ErrorClassDiverged, true)
	m.ProvisioningRun("install", nil)

	expected := `
# HELP portablesource_installer_invocations_total Package installer invocations by installer and outcome
# TYPE portablesource_installer_invocations_total counter
portablesource_installer_invocations_total{installer="pip",outcome="success"} 1
portablesource_installer_invocations_total{installer="uv",outcome="failure"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "portablesource_installer_invocations_total"))

	path := filepath.Join(t.TempDir(), "portablesource.prom")
	require.NoError(t, metrics.WriteToTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `portablesource_sync_remediations_total{class="diverged",result="applied"} 1`)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.SyncAttempt()
		m.Install("uv", nil)
		m.AuthorityRequest("install-plan", "found")
		m.CategoryFailure("torch")
	})
}
