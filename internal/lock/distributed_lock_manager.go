package lock

import "context"

// Advisory lock keys used by this process. The claim pass deliberately
// does not take one: claiming is best-effort by design.
const (
	MigrationLock = iota
)

type DistributedLockManager interface {
	Acquire(ctx context.Context, lockID int) error
	Release(ctx context.Context, lockID int) error
}
