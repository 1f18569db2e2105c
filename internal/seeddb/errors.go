package seeddb

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by any operation on a Database that was already
// closed, including a second call to Close.
var ErrClosed = errors.New("database is closed")

// ConnectionError is returned by Open when the database location can not
// be opened by the SQLite engine.
type ConnectionError struct {
	Location string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to open database %q: %v", e.Location, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ScriptNotFoundError is returned by Seed when the seed script does not
// exist at its configured location.
type ScriptNotFoundError struct {
	Script string
	Err    error
}

func (e *ScriptNotFoundError) Error() string {
	return fmt.Sprintf("seed script %s not found: %v", e.Script, e.Err)
}

func (e *ScriptNotFoundError) Unwrap() error {
	return e.Err
}

// ScriptExecutionError is returned by Seed when the engine rejects a
// statement of the seed script. The whole script is rolled back.
type ScriptExecutionError struct {
	Script string
	Err    error
}

func (e *ScriptExecutionError) Error() string {
	return fmt.Sprintf("failed to execute seed script %s: %v", e.Script, e.Err)
}

func (e *ScriptExecutionError) Unwrap() error {
	return e.Err
}
