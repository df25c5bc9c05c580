package gitsync

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"portablesource/pkg/defaults"
	perrors "portablesource/pkg/errors"
	"portablesource/pkg/log"
	"portablesource/pkg/metrics"
	"portablesource/pkg/models"
	"portablesource/pkg/ports"
	"portablesource/pkg/process"
)

var errFixPanicked = errors.New("remediation panicked")

// Config configures a Synchronizer.
type Config struct {
	// MaxAttempts bounds the pull attempts of one update.
	MaxAttempts int
	// LockDelay is waited before collecting garbage in a locked repository.
	LockDelay time.Duration
}

// Synchronizer brings a local clone to the remote's current state and
// applies a corrective action per classified failure between attempts.
type Synchronizer struct {
	git         ports.SourceControlClient
	inspector   ports.RepositoryInspector
	fs          afero.Fs
	metrics     *metrics.Metrics
	maxAttempts int
	lockDelay   time.Duration
	after       func(time.Duration) <-chan time.Time
}

func New(cfg *Config, git ports.SourceControlClient, inspector ports.RepositoryInspector, fs afero.Fs, m *metrics.Metrics) *Synchronizer {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaults.GitMaxAttempts
	}

	lockDelay := cfg.LockDelay
	if lockDelay <= 0 {
		lockDelay = defaults.LockRetryDelay
	}

	return &Synchronizer{
		git:         git,
		inspector:   inspector,
		fs:          fs,
		metrics:     m,
		maxAttempts: maxAttempts,
		lockDelay:   lockDelay,
		after:       defaultAfter,
	}
}

// Sync clones url into repoPath when it is absent, otherwise pulls with up
// to MaxAttempts attempts. Clone failures are not retried.
func (s *Synchronizer) Sync(ctx context.Context, url, branch, repoPath string) (models.SyncState, error) {
	logger := log.GetLogger(ctx).WithField("repo", filepath.Base(repoPath))

	state := models.SyncState{
		RepoPath:    repoPath,
		MaxAttempts: s.maxAttempts,
		Phase:       models.SyncPhaseAbsent,
	}

	exists, err := afero.DirExists(s.fs, repoPath)
	if err != nil {
		return state, fmt.Errorf("checking %s: %w", repoPath, err)
	}

	if !exists {
		state.Phase = models.SyncPhaseCloning
		logger.WithField("url", url).Info("cloning repository")

		if err := s.fs.MkdirAll(filepath.Dir(repoPath), defaults.DataDirPerm); err != nil {
			return state, fmt.Errorf("creating %s: %w", filepath.Dir(repoPath), err)
		}

		if err := s.git.Clone(ctx, url, branch, repoPath); err != nil {
			return state, fmt.Errorf("%w: %s: %w", perrors.ErrCloneFailed, url, err)
		}

		state.Phase = models.SyncPhaseUpToDate

		return state, nil
	}

	if !s.inspector.IsRepository(repoPath) {
		return state, fmt.Errorf("%w: %s", perrors.ErrNotARepository, repoPath)
	}

	return s.update(ctx, state)
}

func (s *Synchronizer) update(ctx context.Context, state models.SyncState) (models.SyncState, error) {
	logger := log.GetLogger(ctx).WithField("repo", filepath.Base(state.RepoPath))

	for state.Attempt = 1; state.Attempt <= s.maxAttempts; state.Attempt++ {
		s.metrics.SyncAttempt()

		output, err := s.git.Pull(ctx, state.RepoPath)
		if err == nil {
			state.Phase = models.SyncPhaseUpToDate
			logger.WithField("attempt", state.Attempt).Info("repository up to date")

			return state, nil
		}

		state.Phase = models.SyncPhaseUpdateFailed
		state.LastErrorClass = Classify(failureText(output, err))

		attemptLogger := logger.WithFields(logrus.Fields{
			"attempt": state.Attempt,
			"class":   state.LastErrorClass.String(),
		})
		attemptLogger.WithError(err).Warn("repository update failed")

		if state.LastErrorClass == models.ErrorClassNone {
			return state, fmt.Errorf("updating %s: %w", state.RepoPath, err)
		}

		if state.Attempt == s.maxAttempts {
			break
		}

		if fixErr := s.remediate(ctx, state.LastErrorClass, state.RepoPath); fixErr != nil {
			attemptLogger.WithError(fixErr).Warn("remediation did not apply")
			s.metrics.Remediation(state.LastErrorClass, false)

			continue
		}

		state.Phase = models.SyncPhaseFixed
		s.metrics.Remediation(state.LastErrorClass, true)
		attemptLogger.Info("remediation applied, retrying update")
	}

	state.Phase = models.SyncPhaseExhaustedRetries
	if state.Attempt > s.maxAttempts {
		state.Attempt = s.maxAttempts
	}

	return state, fmt.Errorf("%w: %s (last error: %s)", perrors.ErrSyncRetriesExhausted, state.RepoPath, state.LastErrorClass)
}

// remediate runs the corrective action for class. A panicking action is
// reported as a failed fix.
func (s *Synchronizer) remediate(ctx context.Context, class models.ErrorClass, repoPath string) (err error) {
	fix, ok := remediations[class]
	if !ok {
		return fmt.Errorf("no remediation for %s", class)
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errFixPanicked, r)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, defaults.GitCommandTimeout)
	defer cancel()

	return fix(ctx, s, repoPath)
}

func (s *Synchronizer) defaultBranch(ctx context.Context, repoPath string) string {
	branch, err := s.inspector.DefaultBranch(repoPath)
	if err != nil || branch == "" {
		log.GetLogger(ctx).WithError(err).Debug("default branch unknown, assuming main")

		return "main"
	}

	return branch
}

// branchCandidates is the detected default branch followed by main and master.
func (s *Synchronizer) branchCandidates(ctx context.Context, repoPath string) []string {
	candidates := []string{s.defaultBranch(ctx, repoPath)}

	for _, branch := range []string{"main", "master"} {
		if branch != candidates[0] {
			candidates = append(candidates, branch)
		}
	}

	return candidates
}

// failureText is what classification sees: the command output and the
// exit status, but not the command line, so repository paths cannot match.
func failureText(output string, err error) string {
	var exitErr *process.ExitError
	if errors.As(err, &exitErr) {
		if output == "" {
			output = exitErr.Output
		}

		return fmt.Sprintf("%s\nexit status %d", output, exitErr.ExitCode)
	}

	return output + "\n" + err.Error()
}
