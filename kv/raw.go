package kv

// RawDBI is an opaque handle identifying a sub-database within an
// environment. Values are assigned by the engine; OpenDBI with name ""
// returns the handle of the unnamed root database.
type RawDBI uint32

// Comparator is a user-supplied byte-order function installed on a
// sub-database at open time. It must never panic: a panic that escapes a
// comparator invoked from inside the engine cannot unwind across the
// engine boundary and the process must abort.
type Comparator func(a, b []byte) int

// Stat mirrors the subset of per-database B+tree statistics the façade
// exposes through Database.Len's O(1) fast path and Environment.Stat.
type Stat struct {
	PSize         uint32
	Depth         uint32
	BranchPages   uint64
	LeafPages     uint64
	OverflowPages uint64
	Entries       uint64
}

// EnvInfo mirrors mdb_envinfo / the equivalent mdbx structure.
type EnvInfo struct {
	MapSize    int64
	LastPNO    int64
	LastTxnID  int64
	MaxReaders uint32
	NumReaders uint32
}

// RawEnv is the only view the façade has of an opened storage environment.
// Implementations: kv/mdbx (production, backed by github.com/erigontech/mdbx-go)
// and kv/memkv (an in-process ordered store used by the façade's test suite).
type RawEnv interface {
	// BeginTxn starts a new raw transaction. parent is nil for a top-level
	// txn, or a live write txn to start a nested child.
	BeginTxn(parent RawTxn, readOnly bool) (RawTxn, error)

	Close() error

	Stat() (Stat, error)
	Info() (EnvInfo, error)
	Sync(force bool) error

	Flags() (EnvFlag, error)
	SetFlags(flags EnvFlag, enable bool) error

	MaxKeySize() int
	SetMapSize(size int64) error
	SetMaxReaders(n int) error
	ReaderCheck() (int, error)

	// CopyTo writes a consistent snapshot of the environment to dst;
	// compact requests free-page compaction and renumbering.
	CopyTo(dst string, compact bool) error

	Path() string
}

// RawTxn is the raw boundary's transaction handle. Byte slices returned by
// Get and by a RawCursor created from this txn are only valid until the
// next mutating call on the same txn.
type RawTxn interface {
	ID() uint64
	ReadOnly() bool

	// OpenDBI opens (optionally creating) the named sub-database. name=""
	// addresses the environment's unnamed root database. cmp may be nil.
	OpenDBI(name string, flags DBFlag, cmp Comparator) (RawDBI, error)
	DropDBI(dbi RawDBI, delete bool) error
	DBIFlags(dbi RawDBI) (DBFlag, error)
	DBIStat(dbi RawDBI) (Stat, error)

	Get(dbi RawDBI, key []byte) (val []byte, found bool, err error)
	Put(dbi RawDBI, key, val []byte, flags PutFlag) error
	// PutReserve asks the engine to allocate n bytes in place for key and
	// returns a slice the caller must fill exactly; forbidden on DupSort
	// tables (returns ErrNotSupported).
	PutReserve(dbi RawDBI, key []byte, n int, flags PutFlag) ([]byte, error)
	Delete(dbi RawDBI, key, val []byte) (bool, error)

	Sequence(dbi RawDBI, incrementBy uint64) (uint64, error)

	Cursor(dbi RawDBI) (RawCursor, error)

	Commit() error
	Abort()
}

// RawCursor is a mutable position within one sub-database. Direction and
// duplicate-handling policy are applied by the caller (package mdbxkv); the
// raw cursor only exposes positioning primitives.
type RawCursor interface {
	First() (k, v []byte, ok bool, err error)
	Last() (k, v []byte, ok bool, err error)
	Next() (k, v []byte, ok bool, err error)
	Prev() (k, v []byte, ok bool, err error)
	Current() (k, v []byte, ok bool, err error)
	// SeekGE positions at the first key >= seek.
	SeekGE(seek []byte) (k, v []byte, ok bool, err error)

	Count() (uint64, error)
	Close()

	// Write-cursor operations; they fail with an error on a read-only txn's
	// cursor.
	Put(k, v []byte, flags PutFlag) error
	PutReserve(k []byte, n int, flags PutFlag) ([]byte, error)
	DeleteCurrent() error

	// Duplicate-aware operations. NextNoDup, PrevNoDup and PutNoDupData also
	// work on a non-DupSort table (stepping like Next/Prev, writing like
	// Put); kv/memkv returns ErrNotSupported from the others there.
	FirstDup() (v []byte, ok bool, err error)
	LastDup() (v []byte, ok bool, err error)
	NextDup() (k, v []byte, ok bool, err error)
	PrevDup() (k, v []byte, ok bool, err error)
	NextNoDup() (k, v []byte, ok bool, err error)
	PrevNoDup() (k, v []byte, ok bool, err error)
	SeekBothRange(key, value []byte) (v []byte, ok bool, err error)
	SeekBothExact(key, value []byte) (k, v []byte, ok bool, err error)
	CountDuplicates() (uint64, error)
	DeleteCurrentDuplicates() error
	PutNoDupData(key, value []byte) error
}
