package models

// ErrorClass is the classification of a failed git update.
type ErrorClass int

const (
	ErrorClassNone ErrorClass = iota
	ErrorClassDiverged
	ErrorClassUncommittedChanges
	ErrorClassMergeConflict
	ErrorClassDetachedHead
	ErrorClassCorruptIndex
	ErrorClassNoTracking
	ErrorClassPermissionLocked
	ErrorClassNetwork
	ErrorClassGenericFatal
)

func (c ErrorClass) String() string {
	switch c {
	case ErrorClassDiverged:
		return "diverged"
	case ErrorClassUncommittedChanges:
		return "uncommitted_changes"
	case ErrorClassMergeConflict:
		return "merge_conflict"
	case ErrorClassDetachedHead:
		return "detached_head"
	case ErrorClassCorruptIndex:
		return "corrupt_index"
	case ErrorClassNoTracking:
		return "no_tracking"
	case ErrorClassPermissionLocked:
		return "permission_locked"
	case ErrorClassNetwork:
		return "network"
	case ErrorClassGenericFatal:
		return "generic_fatal"
	default:
		return "none"
	}
}

// SyncPhase is the state of a source synchronization.
type SyncPhase string

const (
	SyncPhaseAbsent           SyncPhase = "absent"
	SyncPhaseCloning          SyncPhase = "cloning"
	SyncPhaseUpToDate         SyncPhase = "up_to_date"
	SyncPhaseUpdateFailed     SyncPhase = "update_failed"
	SyncPhaseFixed            SyncPhase = "fixed"
	SyncPhaseExhaustedRetries SyncPhase = "exhausted_retries"
)

// SyncState is the ephemeral state of one synchronization run.
type SyncState struct {
	RepoPath       string
	Attempt        int
	MaxAttempts    int
	LastErrorClass ErrorClass
	Phase          SyncPhase
}

// Environment is an isolated interpreter environment for one repository.
type Environment struct {
	// Name is the repository the environment belongs to.
	Name string
	// Root is the environment directory.
	Root string
	// Python is the interpreter inside the environment.
	Python string
	// TargetOS is the GOOS the environment was built for.
	TargetOS string
}
