package app_test

import (
	"context"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"portablesource/pkg/app"
	"portablesource/pkg/models"
	"portablesource/pkg/ports"
	"portablesource/pkg/settings"
)

const installPath = "/opt/ps"

type fakeSynchronizer struct {
	fs    afero.Fs
	err   error
	files map[string]string
	calls []string
}

func (f *fakeSynchronizer) Sync(_ context.Context, url, branch, repoPath string) (models.SyncState, error) {
	f.calls = append(f.calls, url+"#"+branch+" -> "+repoPath)

	if err := f.fs.MkdirAll(repoPath, 0o755); err != nil {
		return models.SyncState{}, err
	}

	for name, content := range f.files {
		if err := afero.WriteFile(f.fs, filepath.Join(repoPath, name), []byte(content), 0o644); err != nil {
			return models.SyncState{}, err
		}
	}

	return models.SyncState{RepoPath: repoPath, Phase: models.SyncPhaseUpToDate}, f.err
}

type fakeAuthority struct {
	available bool
	plan      *models.RemotePlan
	info      map[string]*models.RepositoryDescriptor
	found     []models.RepositoryDescriptor
	reported  []string
}

func (f *fakeAuthority) IsAvailable(context.Context) bool { return f.available }

func (f *fakeAuthority) TryFetch(context.Context, string) (*models.RemotePlan, models.FetchOutcome) {
	if f.plan == nil {
		return nil, models.FetchNotFound
	}

	return f.plan, models.FetchFound
}

func (f *fakeAuthority) RepositoryInfo(_ context.Context, name string) (*models.RepositoryDescriptor, bool) {
	info, ok := f.info[name]

	return info, ok
}

func (f *fakeAuthority) Search(context.Context, string) []models.RepositoryDescriptor {
	return f.found
}

func (f *fakeAuthority) ReportDownload(_ context.Context, name string) {
	f.reported = append(f.reported, name)
}

type fakeEnvironments struct {
	fs      afero.Fs
	err     error
	created []string
}

func (f *fakeEnvironments) env(name string) models.Environment {
	root := filepath.Join(installPath, "envs", name)

	return models.Environment{Name: name, Root: root, Python: filepath.Join(root, "bin", "python"), TargetOS: "linux"}
}

func (f *fakeEnvironments) Create(_ context.Context, name string) (models.Environment, error) {
	f.created = append(f.created, name)
	env := f.env(name)

	if f.err != nil {
		return env, f.err
	}

	return env, afero.WriteFile(f.fs, env.Python, []byte("#!"), 0o755)
}

func (f *fakeEnvironments) Get(name string) (models.Environment, bool) {
	env := f.env(name)
	ok, _ := afero.Exists(f.fs, env.Python)

	return env, ok
}

func (f *fakeEnvironments) Remove(name string) error {
	return f.fs.RemoveAll(f.env(name).Root)
}

func (f *fakeEnvironments) CheckTools(context.Context) []models.ToolStatus {
	return []models.ToolStatus{
		{Name: "git", Path: "/usr/bin/git", Found: true},
		{Name: "python", Path: "/usr/bin/python3", Found: true},
		{Name: "ffmpeg"},
	}
}

func (f *fakeEnvironments) BaseEnv() []string { return nil }

type fakeInstaller struct {
	ensureErr error
	requests  []ports.InstallRequest
}

func (f *fakeInstaller) Name() string { return "pip" }

func (f *fakeInstaller) Ensure(context.Context, models.Environment) error { return f.ensureErr }

func (f *fakeInstaller) Install(_ context.Context, _ models.Environment, req ports.InstallRequest) error {
	f.requests = append(f.requests, req)

	return nil
}

type fakeExecutor struct {
	remoteErr error
	localErr  error
	remote    []*models.RemotePlan
	local     []*models.InstallationPlan
}

func (f *fakeExecutor) ExecuteRemote(_ context.Context, plan *models.RemotePlan, _ models.Environment) error {
	f.remote = append(f.remote, plan)

	return f.remoteErr
}

func (f *fakeExecutor) ExecuteLocal(_ context.Context, plan *models.InstallationPlan, _ models.Environment) error {
	f.local = append(f.local, plan)

	return f.localErr
}

type fakeLaunchers struct {
	specs []ports.LaunchSpec
}

func (f *fakeLaunchers) Generate(_ context.Context, spec ports.LaunchSpec) (string, error) {
	f.specs = append(f.specs, spec)

	return filepath.Join(spec.RepoPath, "start_"+spec.Name+".sh"), nil
}

type fakeDetector struct {
	info  models.GPUInfo
	err   error
	calls int
}

func (f *fakeDetector) Detect(context.Context) (models.GPUInfo, error) {
	f.calls++

	return f.info, f.err
}

type fakeInspector struct {
	url string
}

func (f *fakeInspector) IsRepository(string) bool { return true }

func (f *fakeInspector) DefaultBranch(string) (string, error) { return "main", nil }

func (f *fakeInspector) RemoteURL(string, string) (string, error) { return f.url, nil }

type harness struct {
	fs        afero.Fs
	cfg       *app.Config
	sync      *fakeSynchronizer
	authority *fakeAuthority
	envs      *fakeEnvironments
	baseline  *fakeInstaller
	executor  *fakeExecutor
	launchers *fakeLaunchers
	detector  *fakeDetector
	settings  *settings.Store
}

func newHarness() *harness {
	fs := afero.NewMemMapFs()

	return &harness{
		fs:        fs,
		cfg:       &app.Config{InstallPath: installPath, TargetOS: "linux"},
		sync:      &fakeSynchronizer{fs: fs},
		authority: &fakeAuthority{info: map[string]*models.RepositoryDescriptor{}},
		envs:      &fakeEnvironments{fs: fs},
		baseline:  &fakeInstaller{},
		executor:  &fakeExecutor{},
		launchers: &fakeLaunchers{},
		detector:  &fakeDetector{info: models.GPUInfo{Name: "NVIDIA GeForce RTX 3060", MemoryMB: 12288}},
		settings:  settings.NewStore(installPath, fs),
	}
}

func (h *harness) app() app.App {
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	return app.New(h.cfg, &ports.Collection{
		Inspector:         &fakeInspector{url: "https://github.com/user/demo.git"},
		Synchronizer:      h.sync,
		Executor:          h.executor,
		FastInstaller:     &fakeInstaller{},
		BaselineInstaller: h.baseline,
		Authority:         h.authority,
		Environments:      h.envs,
		Launchers:         h.launchers,
		GPUDetector:       h.detector,
		Settings:          h.settings,
		FileSystem:        h.fs,
		Clock:             func() time.Time { return clock },
	}, nil)
}
