package gitsync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

var errNoRemoteURL = errors.New("remote has no url")

// Inspector reads repository metadata with go-git, without running git.
type Inspector struct{}

func NewInspector() *Inspector {
	return &Inspector{}
}

// IsRepository implements ports.RepositoryInspector.
func (i *Inspector) IsRepository(path string) bool {
	_, err := git.PlainOpen(path)

	return err == nil
}

// DefaultBranch implements ports.RepositoryInspector. It follows
// refs/remotes/origin/HEAD and falls back to the checked out branch.
func (i *Inspector) DefaultBranch(path string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("opening repository %s: %w", path, err)
	}

	ref, err := repo.Reference(plumbing.NewRemoteHEADReferenceName(origin), false)
	if err == nil && ref.Type() == plumbing.SymbolicReference {
		return strings.TrimPrefix(ref.Target().Short(), origin+"/"), nil
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("reading HEAD of %s: %w", path, err)
	}

	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD of %s is detached", path)
	}

	return head.Name().Short(), nil
}

// RemoteURL implements ports.RepositoryInspector.
func (i *Inspector) RemoteURL(path, remote string) (string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("opening repository %s: %w", path, err)
	}

	r, err := repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("reading remote %s: %w", remote, err)
	}

	urls := r.Config().URLs
	if len(urls) == 0 {
		return "", errNoRemoteURL
	}

	return urls[0], nil
}
