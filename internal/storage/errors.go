package storage

import "fmt"

// StateLockedError is returned when another process holds the lock of a shared inventory.
type StateLockedError struct {
	Table  string
	LockID string
}

func (err StateLockedError) Error() string {
	return fmt.Sprintf("inventory is locked by another process. If this is an error, delete the item with %s=%q from DynamoDB table %q", AttrLockID, err.LockID, err.Table)
}
