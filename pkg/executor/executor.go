package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"portablesource/pkg/defaults"
	perrors "portablesource/pkg/errors"
	"portablesource/pkg/log"
	"portablesource/pkg/metrics"
	"portablesource/pkg/models"
	"portablesource/pkg/ports"
)

// fastFirstStepTypes are remote step types tried with the fast installer
// before the baseline one.
var fastFirstStepTypes = map[string]bool{
	models.StepTypeRegular:     true,
	models.StepTypeOnnxRuntime: true,
	models.StepTypeTensorFlow:  true,
}

// Config configures an Executor.
type Config struct {
	// TargetOS selects exception handling, as a GOOS value.
	TargetOS string
}

// Executor applies installation plans to an environment.
type Executor struct {
	fast       ports.PackageInstaller
	baseline   ports.PackageInstaller
	exceptions *Exceptions
	fs         afero.Fs
	metrics    *metrics.Metrics
	targetOS   string
}

func New(cfg *Config, fast, baseline ports.PackageInstaller, exceptions *Exceptions, fs afero.Fs, m *metrics.Metrics) *Executor {
	if exceptions == nil {
		exceptions = DefaultExceptions()
	}

	return &Executor{
		fast:       fast,
		baseline:   baseline,
		exceptions: exceptions,
		fs:         fs,
		metrics:    m,
		targetOS:   cfg.TargetOS,
	}
}

// ExecuteRemote installs the steps of a server plan in order. The first
// failed step aborts the plan.
func (e *Executor) ExecuteRemote(ctx context.Context, plan *models.RemotePlan, env models.Environment) error {
	logger := log.GetLogger(ctx).WithField("env", env.Name)

	for _, step := range plan.Steps {
		stepLogger := logger.WithField("step", step.Index).WithField("type", step.Type)

		req := e.remoteRequest(plan, step)
		if len(req.Packages) == 0 {
			stepLogger.Debug("skipping step without packages")

			continue
		}

		stepLogger.Infof("installing %s", strings.Join(req.Packages, " "))

		var err error
		if fastFirstStepTypes[step.Type] {
			err = e.installWithFallback(ctx, env, req)
		} else {
			err = e.installBaseline(ctx, env, req)
		}

		if err != nil {
			stepLogger.WithError(err).Error("installation step failed, aborting plan")

			return perrors.NewStepFailed(step.Index, step.Type, err)
		}
	}

	return nil
}

func (e *Executor) remoteRequest(plan *models.RemotePlan, step models.RemoteStep) ports.InstallRequest {
	req := ports.InstallRequest{Flags: step.InstallFlags}

	for _, pkg := range step.Packages {
		if pkg.Name == "" {
			continue
		}

		name := pkg.Name
		if step.Type == models.StepTypeOnnxRuntime && plan.OnnxPackageName != "" {
			name = plan.OnnxPackageName
		}

		req.Packages = append(req.Packages, pkg.Spec(name))

		if req.IndexURL == "" && pkg.IndexURL != "" {
			req.IndexURL = pkg.IndexURL
		}
	}

	if req.IndexURL == "" && step.Type == models.StepTypeTorch {
		req.IndexURL = plan.TorchIndexURL
	}

	return req
}

// ExecuteLocal installs every group of a synthesized plan. A failed group
// does not stop the others; all failures are returned together.
func (e *Executor) ExecuteLocal(ctx context.Context, plan *models.InstallationPlan, env models.Environment) error {
	logger := log.GetLogger(ctx).WithField("env", env.Name)

	var result *multierror.Error

	for _, group := range plan.Groups {
		groupLogger := logger.WithField("category", group.Category)
		groupLogger.Infof("installing %d %s packages", len(group.Packages), group.Category)

		if err := e.installGroup(ctx, plan, group, env); err != nil {
			groupLogger.WithError(err).Warn("package group failed, continuing with the rest of the plan")
			e.metrics.CategoryFailure(string(group.Category))
			result = multierror.Append(result, perrors.NewCategoryFailed(string(group.Category), err))
		}
	}

	return result.ErrorOrNil()
}

func (e *Executor) installGroup(ctx context.Context, plan *models.InstallationPlan, group models.PackageGroup, env models.Environment) error {
	switch group.Category {
	case models.CategoryTorch:
		return e.installBaseline(ctx, env, ports.InstallRequest{
			Packages: lines(group.Packages),
			IndexURL: plan.IndexURLs[models.CategoryTorch],
		})
	case models.CategoryOnnxRuntime:
		specs := make([]string, 0, len(group.Packages))

		for _, record := range group.Packages {
			if override, ok := plan.NameOverrides[record.Name]; ok {
				specs = append(specs, record.SpecAs(override))
			} else {
				specs = append(specs, line(record))
			}
		}

		return e.installWithFallback(ctx, env, ports.InstallRequest{Packages: specs})
	case models.CategoryTensorFlow:
		return e.installBaseline(ctx, env, ports.InstallRequest{Packages: lines(group.Packages)})
	default:
		return e.installRegular(ctx, group.Packages, env)
	}
}

func (e *Executor) installRegular(ctx context.Context, records []models.PackageRecord, env models.Environment) error {
	logger := log.GetLogger(ctx).WithField("env", env.Name)

	var (
		result  *multierror.Error
		regular []models.PackageRecord
	)

	for _, record := range records {
		exception, ok := e.exceptions.Lookup(record.Name)
		if !ok {
			regular = append(regular, record)

			continue
		}

		replacement, ok := exception.Resolve(e.targetOS)
		if !ok {
			logger.WithField("package", record.Name).Infof("skipping %s installation on %s", record.Name, e.targetOS)

			continue
		}

		logger.WithField("package", record.Name).Infof("installing %s instead of %s", replacement, record.Name)

		if err := e.installBaseline(ctx, env, ports.InstallRequest{Packages: []string{replacement}}); err != nil {
			result = multierror.Append(result, fmt.Errorf("installing %s: %w", replacement, err))
		}
	}

	if len(regular) > 0 {
		if err := e.installRequirementsFile(ctx, regular, env); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

// installRequirementsFile hands regular packages to the installer as a
// requirements file so markers and full constraints survive.
func (e *Executor) installRequirementsFile(ctx context.Context, records []models.PackageRecord, env models.Environment) error {
	if err := e.fs.MkdirAll(env.Root, defaults.DataDirPerm); err != nil {
		return fmt.Errorf("creating %s: %w", env.Root, err)
	}

	file, err := afero.TempFile(e.fs, env.Root, "requirements-*.txt")
	if err != nil {
		return fmt.Errorf("creating requirements file: %w", err)
	}

	path := file.Name()
	defer func() {
		_ = e.fs.Remove(path)
	}()

	_, err = file.WriteString(strings.Join(lines(records), "\n") + "\n")
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("writing requirements file %s: %w", path, err)
	}

	return e.installWithFallback(ctx, env, ports.InstallRequest{RequirementsFile: path})
}

// installWithFallback tries the fast installer and repeats the identical
// request with the baseline installer when it is unusable or fails.
func (e *Executor) installWithFallback(ctx context.Context, env models.Environment, req ports.InstallRequest) error {
	logger := log.GetLogger(ctx).WithField("env", env.Name)

	if err := e.fast.Ensure(ctx, env); err != nil {
		logger.WithError(err).Warnf("%s unavailable, using %s", e.fast.Name(), e.baseline.Name())
	} else {
		err := e.fast.Install(ctx, env, req)
		e.metrics.Install(e.fast.Name(), err)

		if err == nil {
			return nil
		}

		logger.WithError(err).Warnf("%s failed, retrying with %s", e.fast.Name(), e.baseline.Name())
	}

	e.metrics.InstallerFallback()

	return e.installBaseline(ctx, env, req)
}

func (e *Executor) installBaseline(ctx context.Context, env models.Environment, req ports.InstallRequest) error {
	err := e.baseline.Install(ctx, env, req)
	e.metrics.Install(e.baseline.Name(), err)

	return err
}

func line(record models.PackageRecord) string {
	if record.OriginalLine != "" {
		return record.OriginalLine
	}

	return record.Spec()
}

func lines(records []models.PackageRecord) []string {
	out := make([]string, 0, len(records))
	for _, record := range records {
		out = append(out, line(record))
	}

	return out
}
