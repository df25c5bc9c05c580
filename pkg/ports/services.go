package ports

import (
	"context"

	"portablesource/pkg/models"
)

// SourceControlClient is the port definition for the git command surface.
// Every method blocks until the underlying command exits.
type SourceControlClient interface {
	// Clone clones url into dest. An empty branch uses the remote default.
	Clone(ctx context.Context, url, branch, dest string) error
	// Pull updates the working tree and returns the combined command output.
	Pull(ctx context.Context, repoPath string) (string, error)
	// Fetch fetches the given remote, or every remote when remote is empty.
	Fetch(ctx context.Context, repoPath, remote string) error
	// ResetHard moves the branch and working tree to ref.
	ResetHard(ctx context.Context, repoPath, ref string) error
	// ResetMixed rebuilds the index from HEAD.
	ResetMixed(ctx context.Context, repoPath string) error
	// Clean removes untracked files and directories.
	Clean(ctx context.Context, repoPath string) error
	// Checkout switches to ref.
	Checkout(ctx context.Context, repoPath, ref string) error
	// Stash shelves local changes.
	Stash(ctx context.Context, repoPath string) error
	// MergeAbort abandons an in-progress merge.
	MergeAbort(ctx context.Context, repoPath string) error
	// SetUpstream sets the tracking branch of the current branch.
	SetUpstream(ctx context.Context, repoPath, upstream string) error
	// GC prunes unreachable objects.
	GC(ctx context.Context, repoPath string) error
	// RemoteURL returns the configured URL of remote.
	RemoteURL(ctx context.Context, repoPath, remote string) (string, error)
	// SetRemoteURL rewrites the URL of remote.
	SetRemoteURL(ctx context.Context, repoPath, remote, url string) error
}

// RepositoryInspector reads repository metadata without invoking git.
type RepositoryInspector interface {
	// IsRepository reports whether path is the root of a git repository.
	IsRepository(path string) bool
	// DefaultBranch returns the branch origin/HEAD points at.
	DefaultBranch(path string) (string, error)
	// RemoteURL returns the first URL configured for remote.
	RemoteURL(path, remote string) (string, error)
}

// InstallRequest is one installer invocation.
type InstallRequest struct {
	// Packages are installer arguments, e.g. "torch==2.3.1".
	Packages []string
	// RequirementsFile installs from a file instead of Packages when set.
	RequirementsFile string
	// IndexURL replaces the default package index when set.
	IndexURL string
	// Flags are appended verbatim.
	Flags []string
	// Dir is the working directory of the installer.
	Dir string
}

// PackageInstaller is the port definition for a Python package installer.
type PackageInstaller interface {
	// Name identifies the installer in logs and metrics.
	Name() string
	// Ensure verifies the installer is usable in env, installing it on demand.
	Ensure(ctx context.Context, env models.Environment) error
	// Install installs the request into env.
	Install(ctx context.Context, env models.Environment, req InstallRequest) error
}

// PlanAuthorityClient is the port definition for the remote plan authority.
// No method returns an error: every failure degrades to an absent result.
type PlanAuthorityClient interface {
	// IsAvailable reports whether the authority answers at all.
	IsAvailable(ctx context.Context) bool
	// TryFetch returns the installation plan for a repository, nil when absent.
	TryFetch(ctx context.Context, repoName string) (*models.RemotePlan, models.FetchOutcome)
	// RepositoryInfo looks up a repository by name.
	RepositoryInfo(ctx context.Context, repoName string) (*models.RepositoryDescriptor, bool)
	// Search returns repositories matching query.
	Search(ctx context.Context, query string) []models.RepositoryDescriptor
	// ReportDownload records a successful installation.
	ReportDownload(ctx context.Context, repoName string)
}

// EnvironmentService is the port definition for isolated environments.
type EnvironmentService interface {
	// Create builds a fresh environment for name, replacing any existing one.
	Create(ctx context.Context, name string) (models.Environment, error)
	// Get returns the existing environment for name.
	Get(name string) (models.Environment, bool)
	// Remove deletes the environment for name. Missing environments are not an error.
	Remove(name string) error
	// CheckTools reports the external tools the provisioner relies on.
	CheckTools(ctx context.Context) []models.ToolStatus
	// BaseEnv returns variables that put the portable tools on PATH.
	BaseEnv() []string
}

// GPUDetector is the port definition for adapter detection.
type GPUDetector interface {
	// Detect returns the primary adapter, empty when none is found.
	Detect(ctx context.Context) (models.GPUInfo, error)
}

// SettingsRepository is the port definition for the persisted settings record.
type SettingsRepository interface {
	// Load returns the stored record, or a fresh one when none exists.
	Load() (*models.Settings, error)
	// Save persists the record.
	Save(settings *models.Settings) error
}

// LaunchSpec is the input of launcher generation.
type LaunchSpec struct {
	// Name is the repository name.
	Name string
	// RepoPath is the cloned source tree.
	RepoPath string
	// RepoURL is the clone URL, used as the last entry-file guess.
	RepoURL string
	// MainFile is the entry file suggested by the authority, if any.
	MainFile string
	// ProgramArgs are passed to the entry file.
	ProgramArgs string
	// Env is the repository environment.
	Env models.Environment
	// Profile selects the CUDA section of the launcher.
	Profile models.HardwareProfile
}

// LauncherGenerator is the port definition for launcher script generation.
type LauncherGenerator interface {
	// Generate writes the launcher and returns its path.
	Generate(ctx context.Context, spec LaunchSpec) (string, error)
}

// SourceSynchronizer is the port definition for bringing a source tree up
// to date with its remote.
type SourceSynchronizer interface {
	// Sync clones url into repoPath, or updates the existing clone.
	Sync(ctx context.Context, url, branch, repoPath string) (models.SyncState, error)
}

// PlanExecutor is the port definition for applying installation plans.
type PlanExecutor interface {
	// ExecuteRemote installs a server plan; the first failed step aborts.
	ExecuteRemote(ctx context.Context, plan *models.RemotePlan, env models.Environment) error
	// ExecuteLocal installs every group of a synthesized plan.
	ExecuteLocal(ctx context.Context, plan *models.InstallationPlan, env models.Environment) error
}
