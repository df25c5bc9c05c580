package errors

import (
	"errors"
	"fmt"
)

var (
	ErrRepositoryNotFound      = errors.New("repository not found")
	ErrInvalidRepositoryURL    = errors.New("invalid repository url")
	ErrNotARepository          = errors.New("directory exists but is not a git repository")
	ErrCloneFailed             = errors.New("cloning repository failed")
	ErrSyncRetriesExhausted    = errors.New("repository update failed after all attempts")
	ErrRemotePlanFailed        = errors.New("remote installation plan failed")
	ErrEnvironmentCreate       = errors.New("creating environment failed")
	ErrPortablePythonMissing   = errors.New("portable python not found in install path")
	ErrInstallPathRequired     = errors.New("install path is required")
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")
	ErrNoPackages              = errors.New("no packages to install")
	ErrManifestNotFound        = errors.New("no requirements manifest found")
	ErrPartialInstall          = errors.New("some packages failed to install")
)

type repositoryNotFoundError struct {
	name string
}

// Error returns the error message.
func (e repositoryNotFoundError) Error() string {
	return fmt.Sprintf("repository %s not found", e.name)
}

// Unwrap lets errors.Is match ErrRepositoryNotFound.
func (e repositoryNotFoundError) Unwrap() error {
	return ErrRepositoryNotFound
}

func NewRepositoryNotFound(name string) error {
	return repositoryNotFoundError{name: name}
}

// StepFailedError is returned when a remote plan step could not be installed.
type StepFailedError struct {
	Step int
	Type string
	Err  error
}

// Error returns the error message.
func (e StepFailedError) Error() string {
	return fmt.Sprintf("installing step %d (%s): %v", e.Step, e.Type, e.Err)
}

// Unwrap returns ErrRemotePlanFailed and the installer error.
func (e StepFailedError) Unwrap() []error {
	return []error{ErrRemotePlanFailed, e.Err}
}

func NewStepFailed(step int, stepType string, err error) error {
	return StepFailedError{Step: step, Type: stepType, Err: err}
}

type categoryFailedError struct {
	category string
	err      error
}

// Error returns the error message.
func (e categoryFailedError) Error() string {
	return fmt.Sprintf("installing %s packages: %v", e.category, e.err)
}

func (e categoryFailedError) Unwrap() error {
	return e.err
}

func NewCategoryFailed(category string, err error) error {
	return categoryFailedError{category: category, err: err}
}
