package gitsync_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portablesource/pkg/gitsync"
	"portablesource/pkg/process"
)

type recordingRunner struct {
	commands []process.Command
	output   string
}

func (r *recordingRunner) Run(_ context.Context, cmd process.Command) (process.Result, error) {
	r.commands = append(r.commands, cmd)

	return process.Result{Output: r.output}, nil
}

func (r *recordingRunner) lines() []string {
	out := make([]string, 0, len(r.commands))
	for _, cmd := range r.commands {
		out = append(out, cmd.Dir+": "+cmd.Name+" "+strings.Join(cmd.Args, " "))
	}

	return out
}

func TestCLICommandShapes(t *testing.T) {
	runner := &recordingRunner{output: "https://example.com/demo.git\n"}
	cli := gitsync.NewCLI(runner, "", []string{"GIT_TERMINAL_PROMPT=0"})
	ctx := context.Background()

	require.NoError(t, cli.Clone(ctx, "https://example.com/demo.git", "dev", "/i/repos/demo"))
	_, err := cli.Pull(ctx, "/i/repos/demo")
	require.NoError(t, err)
	require.NoError(t, cli.Fetch(ctx, "/i/repos/demo", ""))
	require.NoError(t, cli.SetUpstream(ctx, "/i/repos/demo", "origin/main"))
	require.NoError(t, cli.GC(ctx, "/i/repos/demo"))

	url, err := cli.RemoteURL(ctx, "/i/repos/demo", "origin")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/demo.git", url)

	assert.Equal(t, []string{
		"/i/repos: git clone https://example.com/demo.git -b dev demo",
		"/i/repos/demo: git pull",
		"/i/repos/demo: git fetch --all",
		"/i/repos/demo: git branch --set-upstream-to=origin/main",
		"/i/repos/demo: git gc --prune=now",
		"/i/repos/demo: git remote get-url origin",
	}, runner.lines())
	assert.Equal(t, []string{"GIT_TERMINAL_PROMPT=0"}, runner.commands[0].Env)
}
