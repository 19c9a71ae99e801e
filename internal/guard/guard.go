package guard

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
)

const (
	lockDirectoryPermissionsConstant = 0o755
	lockDirectoryFailureTemplate     = "unable to create lock directory %s: %w"
	lockAcquireFailureTemplate       = "unable to acquire audit lock %s: %w"
	lockReleaseFailureTemplate       = "unable to release audit lock %s: %w"
)

// ErrAuditInFlight marks a rejected invocation attempt while another audit
// holds the guard. The attempt is rejected, never queued.
var ErrAuditInFlight = errors.New("an audit invocation is already in flight")

// FlockGuard is the single-flight invocation guard.
//
// The in-process flag settles concurrent attempts inside one process
// deterministically; the file lock extends the guarantee across processes
// sharing the same lock file. The guard is held for the whole invocation.
type FlockGuard struct {
	fileLock     *flock.Flock
	lockFilePath string
	inFlight     atomic.Bool
}

// NewFlockGuard creates a guard over the given lock file, creating the parent
// directory when needed.
func NewFlockGuard(lockFilePath string) (*FlockGuard, error) {
	lockDirectory := filepath.Dir(lockFilePath)
	if directoryError := os.MkdirAll(lockDirectory, lockDirectoryPermissionsConstant); directoryError != nil {
		return nil, fmt.Errorf(lockDirectoryFailureTemplate, lockDirectory, directoryError)
	}

	return &FlockGuard{
		fileLock:     flock.New(lockFilePath),
		lockFilePath: lockFilePath,
	}, nil
}

// Acquire takes the guard without blocking; a held guard yields ErrAuditInFlight.
func (invocationGuard *FlockGuard) Acquire() error {
	if !invocationGuard.inFlight.CompareAndSwap(false, true) {
		return ErrAuditInFlight
	}

	lockAcquired, lockError := invocationGuard.fileLock.TryLock()
	if lockError != nil {
		invocationGuard.inFlight.Store(false)
		return fmt.Errorf(lockAcquireFailureTemplate, invocationGuard.lockFilePath, lockError)
	}
	if !lockAcquired {
		invocationGuard.inFlight.Store(false)
		return ErrAuditInFlight
	}

	return nil
}

// Release returns the guard so the next invocation can proceed.
func (invocationGuard *FlockGuard) Release() error {
	defer invocationGuard.inFlight.Store(false)
	if unlockError := invocationGuard.fileLock.Unlock(); unlockError != nil {
		return fmt.Errorf(lockReleaseFailureTemplate, invocationGuard.lockFilePath, unlockError)
	}
	return nil
}
