package mdbxkv

import (
	"crypto/rand"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/erigontech/mdbxkv/kv"
)

// Environment is one opened storage environment. It is always obtained
// through Open, never constructed directly, so that the registry's
// single-open-per-path invariant holds.
type Environment struct {
	path string
	raw  kv.RawEnv
	opts OpenOptions
	log  *zap.Logger

	refs atomic.Int64

	typesMu sync.Mutex
	types   map[string]dbTypeID // sub-database name -> (K, V) identity

	closeMu  sync.Mutex
	closeEvt *EnvClosingEvent // non-nil once PrepareForClosing or Close has run once
}

// dbTypeID identifies the (K, V) pair a sub-database name was first opened
// with. Go generics let two different Database[K,V] instantiations target
// the same runtime DBI name without a compile error, so this check is kept
// at runtime as a stand-in for that compile-time guarantee.
type dbTypeID struct {
	key   reflect.Type
	value reflect.Type
}

func newEnvironment(path string, raw kv.RawEnv, opts OpenOptions) *Environment {
	env := &Environment{path: path, raw: raw, opts: opts, log: opts.logger(), types: map[string]dbTypeID{}}
	env.refs.Store(1)
	return env
}

func (e *Environment) Path() string { return e.path }

// closingEvent evicts this environment's registry entry on its first call
// (whichever of PrepareForClosing or Close reaches it first) and caches the
// resulting event so every later caller — from either method, or from a
// ClosingEventFor lookup that ran before the first eviction — waits on the
// same instance.
func (e *Environment) closingEvent() *EnvClosingEvent {
	e.closeMu.Lock()
	defer e.closeMu.Unlock()
	if e.closeEvt == nil {
		e.closeEvt = evictRegistry(e)
	}
	return e.closeEvt
}

// Close releases this handle. The underlying engine is only actually closed
// once every handle obtained from Open for this path has been released.
func (e *Environment) Close() error {
	if e.refs.Add(-1) > 0 {
		return nil
	}
	e.log.Info("environment closing", zap.String("path", e.path))
	evt := e.closingEvent()
	err := e.raw.Close()
	evt.signal()
	return err
}

// PrepareForClosing evicts this environment from the registry immediately
// — a concurrent Open on the same path observes absence and opens a fresh
// environment rather than attaching to this one — and returns a waitable
// event that fires once the engine is actually closed, once every handle
// obtained from Open for this path has been released. ReadTxn/WriteTxn/
// NestedWriteTxn called on this Environment after PrepareForClosing all
// fail with ErrClosed; transactions already in flight are unaffected.
func (e *Environment) PrepareForClosing() *EnvClosingEvent {
	return e.closingEvent()
}

func (e *Environment) isClosing() bool {
	e.closeMu.Lock()
	defer e.closeMu.Unlock()
	return e.closeEvt != nil
}

// ReadTxn starts a read-only transaction.
func (e *Environment) ReadTxn() (*RoTxn, error) {
	if e.isClosing() {
		return nil, newError("read_txn", kv.KindClosed, ErrClosed)
	}
	raw, err := e.raw.BeginTxn(nil, true)
	if err != nil {
		return nil, fromRaw("read_txn", err)
	}
	return &RoTxn{env: e, raw: raw}, nil
}

// WriteTxn starts a read-write transaction. Only one write transaction may
// be in flight per environment at a time; kv/mdbx and kv/memkv both enforce
// this with an engine-level writer lock, so WriteTxn simply blocks until
// it's this caller's turn.
func (e *Environment) WriteTxn() (*RwTxn, error) {
	if e.isClosing() {
		return nil, newError("write_txn", kv.KindClosed, ErrClosed)
	}
	raw, err := e.raw.BeginTxn(nil, false)
	if err != nil {
		return nil, fromRaw("write_txn", err)
	}
	return &RwTxn{env: e, raw: raw}, nil
}

// NestedWriteTxn starts a child write transaction under parent. The child's
// writes are only visible outside parent once both the child and parent
// commit.
func (e *Environment) NestedWriteTxn(parent *RwTxn) (*RwTxn, error) {
	if parent.env != e {
		panic(ErrWrongEnvironment)
	}
	if e.isClosing() {
		return nil, newError("nested_write_txn", kv.KindClosed, ErrClosed)
	}
	raw, err := e.raw.BeginTxn(parent.raw, false)
	if err != nil {
		return nil, fromRaw("nested_write_txn", err)
	}
	return &RwTxn{env: e, raw: raw, parent: parent}, nil
}

// checkType registers name's (K, V) identity on first use and rejects a
// later open_database/create_database call for the same name with a
// different (K, V) pair.
func (e *Environment) checkType(name string, key, value reflect.Type) error {
	e.typesMu.Lock()
	defer e.typesMu.Unlock()
	want := dbTypeID{key: key, value: value}
	if got, ok := e.types[name]; ok {
		if got != want {
			return ErrTypeMismatch
		}
		return nil
	}
	e.types[name] = want
	return nil
}

// seal wraps plain under the environment's AEAD (if one is configured),
// prepending a fresh random nonce (supplemented from heed's
// encrypted_database.rs: the core engine never sees plaintext values once
// OpenOptions.AEAD is set). A nil AEAD is a no-op pass-through.
func (e *Environment) seal(plain []byte) ([]byte, error) {
	if e.opts.AEAD == nil || plain == nil {
		return plain, nil
	}
	nonce := make([]byte, e.opts.AEAD.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("mdbxkv: aead: generating nonce: %w", err)
	}
	return e.opts.AEAD.Seal(nonce, nonce, plain, nil), nil
}

// open reverses seal. Values written with PutReserved bypass this layer
// entirely (there is no encode step to intercept once the engine has
// handed back an in-place buffer), so AEAD and PutReserved are not meant to
// be combined on the same Database.
func (e *Environment) open(enc []byte) ([]byte, error) {
	if e.opts.AEAD == nil || enc == nil {
		return enc, nil
	}
	ns := e.opts.AEAD.NonceSize()
	if len(enc) < ns {
		return nil, fmt.Errorf("mdbxkv: aead: ciphertext shorter than nonce")
	}
	nonce, ct := enc[:ns], enc[ns:]
	out, err := e.opts.AEAD.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("mdbxkv: aead: decrypting value: %w", err)
	}
	return out, nil
}

func (e *Environment) CopyTo(dst string, compact bool) error {
	return fromRaw("copy_to", e.raw.CopyTo(dst, compact))
}

func (e *Environment) Info() (kv.EnvInfo, error) {
	info, err := e.raw.Info()
	if err != nil {
		return kv.EnvInfo{}, fromRaw("info", err)
	}
	return info, nil
}

func (e *Environment) Stat() (kv.Stat, error) {
	s, err := e.raw.Stat()
	if err != nil {
		return kv.Stat{}, fromRaw("stat", err)
	}
	return s, nil
}

// RealDiskSize approximates heed's real_disk_size: the portion of MapSize
// actually backed by allocated pages, derived from EnvInfo.LastPNO and the
// per-database page size.
func (e *Environment) RealDiskSize() (int64, error) {
	info, err := e.raw.Info()
	if err != nil {
		return 0, fromRaw("real_disk_size", err)
	}
	stat, err := e.raw.Stat()
	if err != nil {
		return 0, fromRaw("real_disk_size", err)
	}
	return (info.LastPNO + 1) * int64(stat.PSize), nil
}

// NonFreePagesSize returns the size used by all databases in the
// environment, excluding free pages: the environment-level (unnamed)
// database's occupied pages, plus the same for every sub-database this
// process has opened. Grounded on heed's non_free_pages_size, which walks
// the unnamed database's keys to enumerate sub-databases by name; this
// walks Environment.types (the same name set checkType already tracks)
// instead of re-deriving it from a cursor scan.
func (e *Environment) NonFreePagesSize() (uint64, error) {
	stat, err := e.raw.Stat()
	if err != nil {
		return 0, fromRaw("non_free_pages_size", err)
	}
	size := occupiedPagesSize(stat)

	e.typesMu.Lock()
	names := make([]string, 0, len(e.types))
	for name := range e.types {
		names = append(names, name)
	}
	e.typesMu.Unlock()
	if len(names) == 0 {
		return size, nil
	}

	txn, err := e.ReadTxn()
	if err != nil {
		return 0, err
	}
	defer txn.Abort()

	for _, name := range names {
		dbi, err := txn.raw.OpenDBI(name, 0, nil)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return 0, fromRaw("non_free_pages_size", err)
		}
		s, err := txn.raw.DBIStat(dbi)
		if err != nil {
			return 0, fromRaw("non_free_pages_size", err)
		}
		size += occupiedPagesSize(s)
	}
	return size, nil
}

func occupiedPagesSize(s kv.Stat) uint64 {
	return (s.LeafPages + s.BranchPages + s.OverflowPages) * uint64(s.PSize)
}

func (e *Environment) Flags() (kv.EnvFlag, error) {
	f, err := e.raw.Flags()
	if err != nil {
		return 0, fromRaw("raw_flags", err)
	}
	return f, nil
}

func (e *Environment) SetFlags(flags kv.EnvFlag, enable bool) error {
	return fromRaw("set_flags", e.raw.SetFlags(flags, enable))
}

// Resize grows or shrinks the environment's map size. Callers must ensure
// no other transaction is active; the raw layer does not serialize this for
// them.
func (e *Environment) Resize(newSize int64) error {
	if newSize <= 0 {
		return fmt.Errorf("mdbxkv: resize: size must be positive, got %d", newSize)
	}
	return fromRaw("resize", e.raw.SetMapSize(newSize))
}

// ClearStaleReaders reclaims reader-table slots held by processes that
// exited without closing their transactions, returning the number cleared.
func (e *Environment) ClearStaleReaders() (int, error) {
	n, err := e.raw.ReaderCheck()
	if err != nil {
		return 0, fromRaw("clear_stale_readers", err)
	}
	if n > 0 {
		e.log.Warn("cleared stale readers", zap.Int("count", n), zap.String("path", e.path))
	}
	return n, nil
}
