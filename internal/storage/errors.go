package storage

import (
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned by reads and updates that match no row.
var ErrNotFound = errors.New("not found")

// ReferentialIntegrityError reports an insert or update whose foreign key
// points at a row that does not exist.
type ReferentialIntegrityError struct {
	Entity string // table being written
	Ref    string // referenced table
	Key    string // offending key value
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s references missing %s %q", e.Entity, e.Ref, e.Key)
}

// UniquenessError reports an insert that collides with an existing row on a
// unique key. Callers revising an existing value must use an explicit
// update, never a blind re-insert.
type UniquenessError struct {
	Entity string
	Key    string
}

func (e *UniquenessError) Error() string {
	return fmt.Sprintf("%s already has an entry for %s", e.Entity, e.Key)
}

// CheckConstraintError reports a value outside an enumerated column domain,
// such as a category side or an account status.
type CheckConstraintError struct {
	Entity string
	Value  string
}

func (e *CheckConstraintError) Error() string {
	return fmt.Sprintf("%s rejects value %q", e.Entity, e.Value)
}

// DeleteBlockedError reports an attempt to delete a row that dependent rows
// still reference. Accounts with history are retired by flipping their
// status instead.
type DeleteBlockedError struct {
	Entity string
	Key    string
}

func (e *DeleteBlockedError) Error() string {
	return fmt.Sprintf("%s %q is still referenced and cannot be deleted", e.Entity, e.Key)
}

func constraintCode(err error) int {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code()
	}
	return 0
}

func isForeignKeyViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}

func isUniqueViolation(err error) bool {
	// Text primary keys surface as PRIMARYKEY, secondary unique indexes as
	// UNIQUE; both are the same invariant to callers.
	c := constraintCode(err)
	return c == sqlite3.SQLITE_CONSTRAINT_UNIQUE || c == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func isCheckViolation(err error) bool {
	return constraintCode(err) == sqlite3.SQLITE_CONSTRAINT_CHECK
}
