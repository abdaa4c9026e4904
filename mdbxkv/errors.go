// Package mdbxkv is a typed, transactional key-value façade over an
// embedded, memory-mapped B+tree engine. It never talks to the engine
// directly: every Environment is constructed over a kv.RawEnv, so the exact
// same façade code runs against github.com/erigontech/mdbx-go in production
// and against the cgo-free kv/memkv store in tests.
package mdbxkv

import (
	"errors"
	"fmt"

	"github.com/erigontech/mdbxkv/kv"
)

// Error is the façade's public error type. Kind classifies the failure (read
// it through errors.As); where Err is one of the Err* sentinels below,
// errors.Is matches that sentinel through Unwrap, so callers need no
// string-matching.
type Error struct {
	Op   string
	Kind kv.Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mdbxkv: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("mdbxkv: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, kind kv.Kind, cause error) *Error {
	return &Error{Op: op, Kind: kind, Err: cause}
}

// fromRaw classifies an error returned across the kv.RawEnv/RawTxn/RawCursor
// boundary into a façade *Error, preserving its Kind when the raw layer
// already tagged one.
func fromRaw(op string, err error) error {
	if err == nil {
		return nil
	}
	var ee *kv.EngineError
	if errors.As(err, &ee) {
		return newError(op, ee.Kind, err)
	}
	return newError(op, kv.KindOther, err)
}

var (
	// ErrKeyNotFound is never returned by Database.Get family methods
	// directly (they return (zero, false, nil) instead); it is
	// reserved for callers that want an error-returning wrapper.
	ErrKeyNotFound = errors.New("mdbxkv: key not found")

	// ErrAlreadyOpen indicates the environment registry already has an
	// open handle for this canonical path with different OpenOptions.
	ErrAlreadyOpen = errors.New("mdbxkv: environment already open with different options")

	// ErrClosed is returned by ReadTxn/WriteTxn/NestedWriteTxn once
	// PrepareForClosing has been called on their Environment: the registry
	// slot is already evicted at that point, so no new transaction may
	// start even though the underlying engine handle isn't closed yet
	// (existing transactions still run to completion).
	ErrClosed = errors.New("mdbxkv: environment is closed")

	// ErrTypeMismatch is returned by open_database/create_database when a
	// sub-database name was previously opened with a different (K, V)
	// codec pair within this process.
	ErrTypeMismatch = errors.New("mdbxkv: database name already opened with a different key/value type")

	// ErrWrongEnvironment is only ever the cause wrapped by a panic: a Txn
	// or Database handle was used against a foreign Environment.
	ErrWrongEnvironment = errors.New("mdbxkv: handle does not belong to this environment")
)

func isNotFound(err error) bool {
	var ee *kv.EngineError
	if errors.As(err, &ee) {
		return ee.Kind == kv.KindNotFound
	}
	return false
}
