package gitsync

import (
	"context"
	"path/filepath"
	"strings"

	"portablesource/pkg/process"
)

// CLI drives the git executable through a process.Runner.
type CLI struct {
	runner process.Runner
	binary string
	env    []string
}

// NewCLI returns a git client using binary, e.g. "git" or the portable
// git.exe under the install path. env is added to every invocation.
func NewCLI(runner process.Runner, binary string, env []string) *CLI {
	if binary == "" {
		binary = "git"
	}

	return &CLI{runner: runner, binary: binary, env: env}
}

func (c *CLI) run(ctx context.Context, dir string, args ...string) (string, error) {
	result, err := c.runner.Run(ctx, process.Command{
		Name: c.binary,
		Args: args,
		Dir:  dir,
		Env:  c.env,
	})

	return result.Output, err
}

// Clone implements ports.SourceControlClient. It runs in the parent of dest
// so the clone lands under the repository name.
func (c *CLI) Clone(ctx context.Context, url, branch, dest string) error {
	args := []string{"clone", url}
	if branch != "" {
		args = append(args, "-b", branch)
	}

	args = append(args, filepath.Base(dest))

	_, err := c.run(ctx, filepath.Dir(dest), args...)

	return err
}

// Pull implements ports.SourceControlClient.
func (c *CLI) Pull(ctx context.Context, repoPath string) (string, error) {
	return c.run(ctx, repoPath, "pull")
}

// Fetch implements ports.SourceControlClient.
func (c *CLI) Fetch(ctx context.Context, repoPath, remote string) error {
	args := []string{"fetch", "--all"}
	if remote != "" {
		args = []string{"fetch", remote}
	}

	_, err := c.run(ctx, repoPath, args...)

	return err
}

// ResetHard implements ports.SourceControlClient.
func (c *CLI) ResetHard(ctx context.Context, repoPath, ref string) error {
	_, err := c.run(ctx, repoPath, "reset", "--hard", ref)

	return err
}

// ResetMixed implements ports.SourceControlClient.
func (c *CLI) ResetMixed(ctx context.Context, repoPath string) error {
	_, err := c.run(ctx, repoPath, "reset", "--mixed")

	return err
}

// Clean implements ports.SourceControlClient.
func (c *CLI) Clean(ctx context.Context, repoPath string) error {
	_, err := c.run(ctx, repoPath, "clean", "-fd")

	return err
}

// Checkout implements ports.SourceControlClient.
func (c *CLI) Checkout(ctx context.Context, repoPath, ref string) error {
	_, err := c.run(ctx, repoPath, "checkout", ref)

	return err
}

// Stash implements ports.SourceControlClient.
func (c *CLI) Stash(ctx context.Context, repoPath string) error {
	_, err := c.run(ctx, repoPath, "stash")

	return err
}

// MergeAbort implements ports.SourceControlClient.
func (c *CLI) MergeAbort(ctx context.Context, repoPath string) error {
	_, err := c.run(ctx, repoPath, "merge", "--abort")

	return err
}

// SetUpstream implements ports.SourceControlClient.
func (c *CLI) SetUpstream(ctx context.Context, repoPath, upstream string) error {
	_, err := c.run(ctx, repoPath, "branch", "--set-upstream-to="+upstream)

	return err
}

// GC implements ports.SourceControlClient.
func (c *CLI) GC(ctx context.Context, repoPath string) error {
	_, err := c.run(ctx, repoPath, "gc", "--prune=now")

	return err
}

// RemoteURL implements ports.SourceControlClient.
func (c *CLI) RemoteURL(ctx context.Context, repoPath, remote string) (string, error) {
	out, err := c.run(ctx, repoPath, "remote", "get-url", remote)

	return strings.TrimSpace(out), err
}

// SetRemoteURL implements ports.SourceControlClient.
func (c *CLI) SetRemoteURL(ctx context.Context, repoPath, remote, url string) error {
	_, err := c.run(ctx, repoPath, "remote", "set-url", remote, url)

	return err
}
