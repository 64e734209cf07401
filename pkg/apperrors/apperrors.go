package apperrors

import "errors"

// Cross-layer sentinels shared by repositories and services. Module
// specific business errors live next to the service that owns them.
var (
	// ErrOptimisticLock means the record was modified by another
	// operation between read and write. The caller should re-read and
	// retry; the verify path does this itself, bounded.
	ErrOptimisticLock = errors.New("record was modified by another operation")

	// ErrStorageTimeout means the entity store did not answer within
	// the configured deadline. No partial mutation was committed.
	// Transient: the caller may retry with backoff.
	ErrStorageTimeout = errors.New("entity store timed out")

	// ErrForbidden means the store or a server-side role check denied
	// the operation. Never retried.
	ErrForbidden = errors.New("operation not permitted for this role")
)
