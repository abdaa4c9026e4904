package mdbxkv

import "github.com/erigontech/mdbxkv/kv"

// txnHandle is the common surface Database's open_database/create_database
// need from either a RoTxn or a RwTxn.
type txnHandle interface {
	rawTxn() kv.RawTxn
	environment() *Environment
	writable() bool
}

// RoTxn is a read-only transaction. Byte slices it hands out (through
// Database methods) are only valid until the transaction is committed,
// aborted, or used to start another read.
type RoTxn struct {
	env  *Environment
	raw  kv.RawTxn
	done bool
}

func (t *RoTxn) rawTxn() kv.RawTxn        { return t.raw }
func (t *RoTxn) environment() *Environment { return t.env }
func (t *RoTxn) writable() bool           { return false }

func (t *RoTxn) ID() uint64 { return t.raw.ID() }

// Abort releases the transaction's read snapshot. Safe to call more than
// once.
func (t *RoTxn) Abort() {
	if t.done {
		return
	}
	t.done = true
	t.raw.Abort()
}

// RwTxn is a read-write transaction, optionally nested under a parent.
type RwTxn struct {
	env    *Environment
	raw    kv.RawTxn
	parent *RwTxn
	done   bool
}

func (t *RwTxn) rawTxn() kv.RawTxn        { return t.raw }
func (t *RwTxn) environment() *Environment { return t.env }
func (t *RwTxn) writable() bool           { return true }

func (t *RwTxn) ID() uint64 { return t.raw.ID() }

// Commit applies the transaction's writes. For a nested transaction this
// only folds them into the parent; the parent must still commit for them to
// become durable.
func (t *RwTxn) Commit() error {
	if t.done {
		return newError("commit", kv.KindBadTxn, nil)
	}
	t.done = true
	return fromRaw("commit", t.raw.Commit())
}

// Abort discards every write made in this transaction (and, if it has any
// still-open nested children, theirs too — the raw layer's Abort is
// recursive by construction since a child's working set is simply never
// merged back).
func (t *RwTxn) Abort() {
	if t.done {
		return
	}
	t.done = true
	t.raw.Abort()
}

// assertOwnedBy panics with ErrWrongEnvironment (a programming error, not a
// returned error) if h was not obtained from env: cross-environment handle
// misuse must never silently corrupt data.
func assertOwnedBy(env *Environment, h txnHandle) {
	if h.environment() != env {
		panic(ErrWrongEnvironment)
	}
}
