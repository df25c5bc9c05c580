package gitsync

import (
	"context"
	"fmt"
	"time"

	"portablesource/pkg/log"
	"portablesource/pkg/models"
)

const origin = "origin"

type remediation func(ctx context.Context, s *Synchronizer, repoPath string) error

// remediations holds one corrective action per error class.
var remediations = map[models.ErrorClass]remediation{
	models.ErrorClassDiverged:           resetToRemoteDefault,
	models.ErrorClassUncommittedChanges: stashChanges,
	models.ErrorClassMergeConflict:      abortMergeAndReset,
	models.ErrorClassDetachedHead:       checkoutDefault,
	models.ErrorClassCorruptIndex:       rebuildIndex,
	models.ErrorClassNoTracking:         setUpstream,
	models.ErrorClassGenericFatal:       escalatingReset,
	models.ErrorClassPermissionLocked:   waitAndCollectGarbage,
	models.ErrorClassNetwork:            refreshRemoteURL,
}

func resetToRemoteDefault(ctx context.Context, s *Synchronizer, repoPath string) error {
	if err := s.git.Fetch(ctx, repoPath, origin); err != nil {
		return fmt.Errorf("fetching origin: %w", err)
	}

	return s.git.ResetHard(ctx, repoPath, origin+"/"+s.defaultBranch(ctx, repoPath))
}

func stashChanges(ctx context.Context, s *Synchronizer, repoPath string) error {
	return s.git.Stash(ctx, repoPath)
}

func abortMergeAndReset(ctx context.Context, s *Synchronizer, repoPath string) error {
	if err := s.git.MergeAbort(ctx, repoPath); err != nil {
		log.GetLogger(ctx).WithError(err).Debug("no merge to abort")
	}

	return resetToRemoteDefault(ctx, s, repoPath)
}

func checkoutDefault(ctx context.Context, s *Synchronizer, repoPath string) error {
	var lastErr error

	for _, branch := range s.branchCandidates(ctx, repoPath) {
		if lastErr = s.git.Checkout(ctx, repoPath, branch); lastErr == nil {
			return nil
		}
	}

	return lastErr
}

func rebuildIndex(ctx context.Context, s *Synchronizer, repoPath string) error {
	return s.git.ResetMixed(ctx, repoPath)
}

func setUpstream(ctx context.Context, s *Synchronizer, repoPath string) error {
	return s.git.SetUpstream(ctx, repoPath, origin+"/"+s.defaultBranch(ctx, repoPath))
}

// escalatingReset tries each candidate branch and finally discards
// everything untracked and resets to HEAD.
func escalatingReset(ctx context.Context, s *Synchronizer, repoPath string) error {
	logger := log.GetLogger(ctx)

	if err := s.git.Fetch(ctx, repoPath, origin); err != nil {
		logger.WithError(err).Debug("fetch before reset failed")
	}

	for _, branch := range s.branchCandidates(ctx, repoPath) {
		err := s.git.ResetHard(ctx, repoPath, origin+"/"+branch)
		if err == nil {
			return nil
		}

		logger.WithError(err).WithField("branch", branch).Debug("reset to remote branch failed")
	}

	if err := s.git.Clean(ctx, repoPath); err != nil {
		return fmt.Errorf("cleaning working tree: %w", err)
	}

	return s.git.ResetHard(ctx, repoPath, "HEAD")
}

func waitAndCollectGarbage(ctx context.Context, s *Synchronizer, repoPath string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.after(s.lockDelay):
	}

	return s.git.GC(ctx, repoPath)
}

func refreshRemoteURL(ctx context.Context, s *Synchronizer, repoPath string) error {
	url, err := s.inspector.RemoteURL(repoPath, origin)
	if err != nil || url == "" {
		url, err = s.git.RemoteURL(ctx, repoPath, origin)
		if err != nil {
			return fmt.Errorf("reading origin url: %w", err)
		}
	}

	return s.git.SetRemoteURL(ctx, repoPath, origin, url)
}

func defaultAfter(d time.Duration) <-chan time.Time {
	return time.After(d)
}
