package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "portablesource"

// Metrics holds the provisioning counters. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	provisioningRuns   *prometheus.CounterVec
	syncAttempts       prometheus.Counter
	remediations       *prometheus.CounterVec
	installerRuns      *prometheus.CounterVec
	installerFallbacks prometheus.Counter
	authorityRequests  *prometheus.CounterVec
	categoryFailures   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		provisioningRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provisioning_runs_total",
			Help:      "Provisioning runs by outcome",
		}, []string{"operation", "outcome"}),
		syncAttempts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_pull_attempts_total",
			Help:      "Repository update attempts",
		}),
		remediations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_remediations_total",
			Help:      "Remediations applied to failed updates by error class and result",
		}, []string{"class", "result"}),
		installerRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "installer_invocations_total",
			Help:      "Package installer invocations by installer and outcome",
		}, []string{"installer", "outcome"}),
		installerFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "installer_fallbacks_total",
			Help:      "Steps retried with the baseline installer after the fast installer failed",
		}),
		authorityRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "authority_requests_total",
			Help:      "Plan authority requests by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		categoryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "local_plan_category_failures_total",
			Help:      "Package categories that failed to install from a local plan",
		}, []string{"category"}),
	}

	reg.MustRegister(
		m.provisioningRuns,
		m.syncAttempts,
		m.remediations,
		m.installerRuns,
		m.installerFallbacks,
		m.authorityRequests,
		m.categoryFailures,
	)

	return m
}

func (m *Metrics) ProvisioningRun(operation string, err error) {
	if m == nil {
		return
	}

	m.provisioningRuns.WithLabelValues(operation, outcome(err == nil)).Inc()
}

func (m *Metrics) SyncAttempt() {
	if m == nil {
		return
	}

	m.syncAttempts.Inc()
}

func (m *Metrics) Remediation(class fmt.Stringer, applied bool) {
	if m == nil {
		return
	}

	result := "applied"
	if !applied {
		result = "failed"
	}

	m.remediations.WithLabelValues(class.String(), result).Inc()
}

func (m *Metrics) Install(installer string, err error) {
	if m == nil {
		return
	}

	m.installerRuns.WithLabelValues(installer, outcome(err == nil)).Inc()
}

func (m *Metrics) InstallerFallback() {
	if m == nil {
		return
	}

	m.installerFallbacks.Inc()
}

func (m *Metrics) AuthorityRequest(endpoint, result string) {
	if m == nil {
		return
	}

	m.authorityRequests.WithLabelValues(endpoint, result).Inc()
}

func (m *Metrics) CategoryFailure(category string) {
	if m == nil {
		return
	}

	m.categoryFailures.WithLabelValues(category).Inc()
}

// WriteToTextfile dumps gatherer in the text exposition format.
func WriteToTextfile(path string, gatherer prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, gatherer); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}

	return nil
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}

	return "failure"
}
