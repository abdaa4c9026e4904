// Package memkv is an in-process, cgo-free stand-in for the mdbx engine. It
// keeps one ordered index per sub-database using google/btree's
// copy-on-write BTreeG (the same persistent-tree trick LMDB/MDBX use at the
// page level, here done at the Go value level) so that a read transaction
// is a cheap O(1) snapshot rather than a deep copy, and a per-key ordered
// set of duplicate values using tidwall/btree to emulate DupSort tables.
//
// It implements kv.RawEnv/RawTxn/RawCursor so the façade's test suite can
// exercise every code path without linking libmdbx.
package memkv

import (
	"bytes"
	"sync"

	gbtree "github.com/google/btree"
	tbtree "github.com/tidwall/btree"

	"github.com/erigontech/mdbxkv/kv"
)

const treeDegree = 32

// row is one key's committed state within a sub-database. For a plain
// table val holds the single stored value; for a DupSort table dups holds
// the ordered set of values and val is unused.
type row struct {
	key  []byte
	val  []byte
	dups *tbtree.BTreeG[[]byte]
}

func dupLess(a, b []byte) bool { return bytes.Compare(a, b) < 0 }

type table struct {
	name  string
	flags kv.DBFlag
	cmp   kv.Comparator
	rows  *gbtree.BTreeG[row]
}

func newTable(name string, flags kv.DBFlag, cmp kv.Comparator) *table {
	t := &table{name: name, flags: flags, cmp: cmp}
	t.rows = gbtree.NewG(treeDegree, func(a, b row) bool {
		if t.cmp != nil {
			return t.cmp(a.key, b.key) < 0
		}
		return bytes.Compare(a.key, b.key) < 0
	})
	return t
}

func (t *table) clone() *table {
	return &table{name: t.name, flags: t.flags, cmp: t.cmp, rows: t.rows.Clone()}
}

func (t *table) dupSort() bool { return t.flags.Has(kv.DupSort) }

func (t *table) firstKey() (row, bool) { return t.rows.Min() }
func (t *table) lastKey() (row, bool)  { return t.rows.Max() }

func (t *table) compare(a, b []byte) int {
	if t.cmp != nil {
		return t.cmp(a, b)
	}
	return bytes.Compare(a, b)
}

func (t *table) nextKey(after []byte) (row, bool) {
	var next row
	found := false
	t.rows.AscendGreaterOrEqual(row{key: after}, func(item row) bool {
		if t.compare(item.key, after) <= 0 {
			return true
		}
		next = item
		found = true
		return false
	})
	return next, found
}

func (t *table) prevKey(before []byte) (row, bool) {
	var prev row
	found := false
	t.rows.DescendLessOrEqual(row{key: before}, func(item row) bool {
		if t.compare(item.key, before) >= 0 {
			return true
		}
		prev = item
		found = true
		return false
	})
	return prev, found
}

// Env is the memkv implementation of kv.RawEnv.
type Env struct {
	path string

	dataMu sync.RWMutex // guards swapping the committed tables map
	tables map[string]*table

	writerMu sync.Mutex // single-writer lock, mirrors the engine's design

	namesMu sync.Mutex
	byName  map[string]kv.RawDBI
	byDBI   map[kv.RawDBI]string
	nextDBI kv.RawDBI

	seqMu sync.Mutex
	seq   map[string]uint64

	flagsMu sync.Mutex
	flags   kv.EnvFlag

	txnSeq uint64
}

// New constructs an empty in-memory environment. path is informational only
// (memkv never touches the filesystem).
func New(path string) kv.RawEnv {
	return &Env{
		path:   path,
		tables: map[string]*table{},
		byName: map[string]kv.RawDBI{},
		byDBI:  map[kv.RawDBI]string{},
		seq:    map[string]uint64{},
	}
}

func (e *Env) snapshot() map[string]*table {
	e.dataMu.RLock()
	defer e.dataMu.RUnlock()
	out := make(map[string]*table, len(e.tables))
	for k, v := range e.tables {
		out[k] = v.clone()
	}
	return out
}

func (e *Env) BeginTxn(parent kv.RawTxn, readOnly bool) (kv.RawTxn, error) {
	if readOnly {
		return &Txn{env: e, readOnly: true, id: nextTxnID(e), tables: e.snapshot()}, nil
	}

	if parent != nil {
		pt, ok := parent.(*Txn)
		if !ok {
			return nil, kv.NewEngineError("mdbx_txn_begin", kv.KindInvalid, nil)
		}
		if pt.readOnly {
			return nil, kv.NewEngineError("mdbx_txn_begin", kv.KindInvalid, nil)
		}
		child := &Txn{env: e, readOnly: false, id: nextTxnID(e), parent: pt, tables: cloneTables(pt.tables)}
		return child, nil
	}

	e.writerMu.Lock()
	return &Txn{env: e, readOnly: false, id: nextTxnID(e), tables: e.snapshot()}, nil
}

func cloneTables(src map[string]*table) map[string]*table {
	out := make(map[string]*table, len(src))
	for k, v := range src {
		out[k] = v.clone()
	}
	return out
}

func (e *Env) Close() error { return nil }

func (e *Env) Stat() (kv.Stat, error) {
	e.dataMu.RLock()
	defer e.dataMu.RUnlock()
	var entries uint64
	for _, t := range e.tables {
		entries += uint64(t.rows.Len())
	}
	return kv.Stat{Entries: entries}, nil
}

func (e *Env) Info() (kv.EnvInfo, error) { return kv.EnvInfo{}, nil }

func (e *Env) Sync(bool) error { return nil }

func (e *Env) Flags() (kv.EnvFlag, error) {
	e.flagsMu.Lock()
	defer e.flagsMu.Unlock()
	return e.flags, nil
}

func (e *Env) SetFlags(flags kv.EnvFlag, enable bool) error {
	e.flagsMu.Lock()
	defer e.flagsMu.Unlock()
	if enable {
		e.flags |= flags
	} else {
		e.flags &^= flags
	}
	return nil
}

func (e *Env) MaxKeySize() int { return 511 }

func (e *Env) SetMapSize(int64) error { return nil }

func (e *Env) SetMaxReaders(int) error { return nil }

func (e *Env) ReaderCheck() (int, error) { return 0, nil }

func (e *Env) CopyTo(string, bool) error { return kv.ErrNotSupported }

func (e *Env) Path() string { return e.path }
