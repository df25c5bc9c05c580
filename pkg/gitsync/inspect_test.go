package gitsync_test

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portablesource/pkg/gitsync"
)

func TestInspectorReadsRemoteAndDefaultBranch(t *testing.T) {
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"https://example.com/demo.git"}})
	require.NoError(t, err)

	require.NoError(t, repo.Storer.SetReference(plumbing.NewSymbolicReference(
		plumbing.NewRemoteHEADReferenceName("origin"),
		plumbing.NewRemoteReferenceName("origin", "trunk"),
	)))

	inspector := gitsync.NewInspector()

	assert.True(t, inspector.IsRepository(dir))

	url, err := inspector.RemoteURL(dir, "origin")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/demo.git", url)

	branch, err := inspector.DefaultBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "trunk", branch)
}

func TestInspectorPlainDirectory(t *testing.T) {
	dir := t.TempDir()
	inspector := gitsync.NewInspector()

	assert.False(t, inspector.IsRepository(dir))

	_, err := inspector.DefaultBranch(dir)
	assert.Error(t, err)
}
