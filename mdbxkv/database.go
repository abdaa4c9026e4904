package mdbxkv

import (
	"fmt"
	"reflect"

	"github.com/erigontech/mdbxkv/kv"
	"github.com/erigontech/mdbxkv/mdbxkv/codec"
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Database is a typed view over one sub-database: every key and value
// crossing this handle is run through KC/VC. Two Database[K,V] handles for
// the same name but different (K, V) are rejected at open time by
// Environment.checkType, the runtime stand-in for heed's phantom-typed
// compile-time guarantee.
type Database[K, V any] struct {
	env  *Environment
	dbi  kv.RawDBI
	name string
	kc   codec.Codec[K]
	vc   codec.Codec[V]
}

// OpenDatabase attaches to an existing sub-database. It returns (nil, nil)
// if the sub-database does not exist yet — callers needing
// create-if-missing use CreateDatabase on a RwTxn instead.
func OpenDatabase[K, V any](txn txnHandle, name string, kc codec.Codec[K], vc codec.Codec[V]) (*Database[K, V], error) {
	env := txn.environment()
	if err := env.checkType(name, typeOf[K](), typeOf[V]()); err != nil {
		return nil, err
	}
	dbi, err := txn.rawTxn().OpenDBI(name, 0, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fromRaw("open_database", err)
	}
	return &Database[K, V]{env: env, dbi: dbi, name: name, kc: kc, vc: vc}, nil
}

// CreateDatabase attaches to name, creating it (with flags, e.g.
// kv.DupSort) if it does not yet exist.
func CreateDatabase[K, V any](txn *RwTxn, name string, flags kv.DBFlag, kc codec.Codec[K], vc codec.Codec[V]) (*Database[K, V], error) {
	env := txn.environment()
	if err := env.checkType(name, typeOf[K](), typeOf[V]()); err != nil {
		return nil, err
	}
	dbi, err := txn.raw.OpenDBI(name, flags|kv.Create, nil)
	if err != nil {
		return nil, fromRaw("create_database", err)
	}
	return &Database[K, V]{env: env, dbi: dbi, name: name, kc: kc, vc: vc}, nil
}

// CreateDatabaseWithComparator is CreateDatabase with a user-supplied
// byte-order comparator installed on the sub-database at open time. A nil
// cmp is equivalent to CreateDatabase:
// the engine's own lexicographic order is used. The comparator must not
// panic: libmdbx cannot unwind a Go panic across its C frames, so kv/mdbx
// recovers it, reports it on stderr and exits the process instead of
// corrupting the B+tree mid-rebalance.
func CreateDatabaseWithComparator[K, V any](txn *RwTxn, name string, flags kv.DBFlag, cmp kv.Comparator, kc codec.Codec[K], vc codec.Codec[V]) (*Database[K, V], error) {
	env := txn.environment()
	if err := env.checkType(name, typeOf[K](), typeOf[V]()); err != nil {
		return nil, err
	}
	dbi, err := txn.raw.OpenDBI(name, flags|kv.Create, cmp)
	if err != nil {
		return nil, fromRaw("create_database", err)
	}
	return &Database[K, V]{env: env, dbi: dbi, name: name, kc: kc, vc: vc}, nil
}

// RemapTypes reinterprets db's underlying sub-database under different
// key/value codecs, bypassing the (K, V) registry check the same way
// heed's Database::remap_types does — the caller is asserting the bytes
// already stored really do decode under NK/NV.
func RemapTypes[K, V, NK, NV any](db *Database[K, V], kc codec.Codec[NK], vc codec.Codec[NV]) *Database[NK, NV] {
	return &Database[NK, NV]{env: db.env, dbi: db.dbi, name: db.name, kc: kc, vc: vc}
}

// RemapKeyType is RemapTypes holding the value codec fixed.
func RemapKeyType[K, V, NK any](db *Database[K, V], kc codec.Codec[NK]) *Database[NK, V] {
	return &Database[NK, V]{env: db.env, dbi: db.dbi, name: db.name, kc: kc, vc: db.vc}
}

// RemapDataType is RemapTypes holding the key codec fixed.
func RemapDataType[K, V, NV any](db *Database[K, V], vc codec.Codec[NV]) *Database[K, NV] {
	return &Database[K, NV]{env: db.env, dbi: db.dbi, name: db.name, kc: db.kc, vc: vc}
}

// LazilyDecodeData remaps db's value type to codec.Lazy[V], deferring
// decode to the caller.
func LazilyDecodeData[K, V any](db *Database[K, V]) *Database[K, codec.Lazy[V]] {
	return RemapDataType[K, V, codec.Lazy[V]](db, codec.LazyCodec[V]{Inner: db.vc})
}

func (db *Database[K, V]) assertOwner(txn txnHandle) {
	assertOwnedBy(db.env, txn)
}

func (db *Database[K, V]) decodeRow(k, v []byte) (K, V, error) {
	var zeroK K
	var zeroV V
	key, err := db.kc.Decode(k)
	if err != nil {
		return zeroK, zeroV, err
	}
	val, err := db.decodeVal(v)
	if err != nil {
		return zeroK, zeroV, err
	}
	return key, val, nil
}

// encodeVal runs the value codec and then, if the environment was opened
// with an AEAD, seals the result.
func (db *Database[K, V]) encodeVal(val V) ([]byte, error) {
	vb, err := db.vc.EncodeTo(val)
	if err != nil {
		return nil, err
	}
	return db.env.seal(vb)
}

// decodeVal reverses encodeVal: open under AEAD first, then decode.
func (db *Database[K, V]) decodeVal(b []byte) (V, error) {
	var zero V
	plain, err := db.env.open(b)
	if err != nil {
		return zero, err
	}
	return db.vc.Decode(plain)
}

// Get returns the value stored for key, or ok=false if no such key exists.
func (db *Database[K, V]) Get(txn txnHandle, key K) (val V, ok bool, err error) {
	db.assertOwner(txn)
	var zero V
	kb, err := db.kc.EncodeTo(key)
	if err != nil {
		return zero, false, err
	}
	raw, found, err := txn.rawTxn().Get(db.dbi, kb)
	if err != nil {
		return zero, false, fromRaw("get", err)
	}
	if !found {
		return zero, false, nil
	}
	val, err = db.decodeVal(raw)
	if err != nil {
		return zero, false, err
	}
	return val, true, nil
}

// Has reports whether key exists without paying for a value decode.
func (db *Database[K, V]) Has(txn txnHandle, key K) (bool, error) {
	db.assertOwner(txn)
	kb, err := db.kc.EncodeTo(key)
	if err != nil {
		return false, err
	}
	_, found, err := txn.rawTxn().Get(db.dbi, kb)
	if err != nil {
		return false, fromRaw("has", err)
	}
	return found, nil
}

// Put stores val under key, overwriting any existing value.
func (db *Database[K, V]) Put(txn *RwTxn, key K, val V) error {
	return db.PutWithFlags(txn, key, val, 0)
}

// PutWithFlags is Put with direct access to the raw put-flag bits (e.g.
// kv.NoOverwrite), for callers that need exact mdbx semantics.
func (db *Database[K, V]) PutWithFlags(txn *RwTxn, key K, val V, flags kv.PutFlag) error {
	db.assertOwner(txn)
	kb, err := db.kc.EncodeTo(key)
	if err != nil {
		return err
	}
	vb, err := db.encodeVal(val)
	if err != nil {
		return err
	}
	return fromRaw("put", txn.raw.Put(db.dbi, kb, vb, flags))
}

// Append stores val under key, asserting key is greater than every key
// already present; violating this is a caller bug, not a recoverable
// condition, and the engine rejects it instead of silently reordering.
func (db *Database[K, V]) Append(txn *RwTxn, key K, val V) error {
	return db.PutWithFlags(txn, key, val, kv.Append)
}

// GetOrPut returns the value already stored for key, or stores and returns
// defaultValue if key was absent.
func (db *Database[K, V]) GetOrPut(txn *RwTxn, key K, defaultValue V) (V, error) {
	db.assertOwner(txn)
	if val, ok, err := db.Get(txn, key); err != nil {
		var zero V
		return zero, err
	} else if ok {
		return val, nil
	}
	if err := db.Put(txn, key, defaultValue); err != nil {
		var zero V
		return zero, err
	}
	return defaultValue, nil
}

// GetOrPutWithFlags is GetOrPut with direct access to the put-flag bits
// applied to the fallback insert.
func (db *Database[K, V]) GetOrPutWithFlags(txn *RwTxn, key K, defaultValue V, flags kv.PutFlag) (V, error) {
	db.assertOwner(txn)
	if val, ok, err := db.Get(txn, key); err != nil {
		var zero V
		return zero, err
	} else if ok {
		return val, nil
	}
	if err := db.PutWithFlags(txn, key, defaultValue, flags); err != nil {
		var zero V
		return zero, err
	}
	return defaultValue, nil
}

// ReserveWriter fills a buffer the engine allocated in place for a
// put_reserved call. It must write exactly len(buf) bytes.
type ReserveWriter func(buf []byte) error

// PutReserved asks the engine to allocate n bytes for key and lets write
// fill them in place, avoiding an intermediate encode buffer for large
// values. Rejected on DupSort sub-databases (kv.ErrNotSupported,
// surfaced as a KindOther Error) since the engine cannot reserve space
// for one value among several sorted duplicates. Bypasses the
// Environment's AEAD layer: see Environment.open's doc comment.
func (db *Database[K, V]) PutReserved(txn *RwTxn, key K, n int, write ReserveWriter) error {
	db.assertOwner(txn)
	kb, err := db.kc.EncodeTo(key)
	if err != nil {
		return err
	}
	buf, err := txn.raw.PutReserve(db.dbi, kb, n, 0)
	if err != nil {
		return fromRaw("put_reserved", err)
	}
	if err := write(buf); err != nil {
		return fmt.Errorf("mdbxkv: put_reserved: writer: %w", err)
	}
	return nil
}

// GetOrPutReserved is GetOrPut's put_reserved counterpart: if key is
// already present its decoded value is returned with existed=true; if
// absent, n bytes are reserved and filled via write under NoOverwrite, and
// existed=false tells the caller no decoding happened (they already wrote
// the bytes themselves).
func (db *Database[K, V]) GetOrPutReserved(txn *RwTxn, key K, n int, write ReserveWriter) (prev V, existed bool, err error) {
	return db.GetOrPutReservedWithFlags(txn, key, n, 0, write)
}

// GetOrPutReservedWithFlags is GetOrPutReserved with extra put-flag bits
// ORed onto the fallback insert's implicit kv.NoOverwrite.
func (db *Database[K, V]) GetOrPutReservedWithFlags(txn *RwTxn, key K, n int, flags kv.PutFlag, write ReserveWriter) (prev V, existed bool, err error) {
	db.assertOwner(txn)
	if val, ok, gerr := db.Get(txn, key); gerr != nil {
		var zero V
		return zero, false, gerr
	} else if ok {
		return val, true, nil
	}
	kb, err := db.kc.EncodeTo(key)
	if err != nil {
		var zero V
		return zero, false, err
	}
	buf, err := txn.raw.PutReserve(db.dbi, kb, n, flags|kv.NoOverwrite)
	if err != nil {
		var zero V
		return zero, false, fromRaw("get_or_put_reserved", err)
	}
	if err := write(buf); err != nil {
		var zero V
		return zero, false, fmt.Errorf("mdbxkv: get_or_put_reserved: writer: %w", err)
	}
	var zero V
	return zero, false, nil
}

// Delete removes key, reporting whether it was present.
func (db *Database[K, V]) Delete(txn *RwTxn, key K) (bool, error) {
	db.assertOwner(txn)
	kb, err := db.kc.EncodeTo(key)
	if err != nil {
		return false, err
	}
	found, err := txn.raw.Delete(db.dbi, kb, nil)
	if err != nil {
		return false, fromRaw("delete", err)
	}
	return found, nil
}

// DeleteRange removes every key in [start, end) and returns the count
// removed.
func (db *Database[K, V]) DeleteRange(txn *RwTxn, start, end K) (int, error) {
	db.assertOwner(txn)
	lo, err := db.kc.EncodeTo(start)
	if err != nil {
		return 0, err
	}
	hi, err := db.kc.EncodeTo(end)
	if err != nil {
		return 0, err
	}
	cur, err := txn.raw.Cursor(db.dbi)
	if err != nil {
		return 0, fromRaw("delete_range", err)
	}
	defer cur.Close()

	n := 0
	k, _, ok, err := cur.SeekGE(lo)
	for ok && err == nil && compareBytes(k, hi) < 0 {
		if err := cur.DeleteCurrent(); err != nil {
			return n, fromRaw("delete_range", err)
		}
		n++
		k, _, ok, err = cur.Next()
	}
	if err != nil {
		return n, fromRaw("delete_range", err)
	}
	return n, nil
}

// Clear removes every entry without dropping the sub-database itself.
func (db *Database[K, V]) Clear(txn *RwTxn) error {
	db.assertOwner(txn)
	return fromRaw("clear", txn.raw.DropDBI(db.dbi, false))
}

// Len returns the number of entries via the engine's own page-level
// counter; O(1) on mdbx, O(1) amortized on memkv.
func (db *Database[K, V]) Len(txn txnHandle) (uint64, error) {
	db.assertOwner(txn)
	stat, err := txn.rawTxn().DBIStat(db.dbi)
	if err != nil {
		return 0, fromRaw("len", err)
	}
	return stat.Entries, nil
}

func (db *Database[K, V]) IsEmpty(txn txnHandle) (bool, error) {
	n, err := db.Len(txn)
	return n == 0, err
}

// Sequence reads and advances a monotonic counter private to this
// sub-database, useful for generating surrogate keys without a separate
// max-key scan. incrementBy may be 0 to only read the current value.
func (db *Database[K, V]) Sequence(txn *RwTxn, incrementBy uint64) (uint64, error) {
	db.assertOwner(txn)
	n, err := txn.raw.Sequence(db.dbi, incrementBy)
	if err != nil {
		return 0, fromRaw("sequence", err)
	}
	return n, nil
}

func (db *Database[K, V]) withCursor(txn txnHandle, fn func(kv.RawCursor) (K, V, bool, error)) (K, V, bool, error) {
	var zeroK K
	var zeroV V
	cur, err := txn.rawTxn().Cursor(db.dbi)
	if err != nil {
		return zeroK, zeroV, false, fromRaw("cursor", err)
	}
	defer cur.Close()
	return fn(cur)
}

func (db *Database[K, V]) First(txn txnHandle) (key K, val V, ok bool, err error) {
	db.assertOwner(txn)
	return db.withCursor(txn, func(cur kv.RawCursor) (K, V, bool, error) {
		k, v, found, err := cur.First()
		if err != nil || !found {
			var zk K
			var zv V
			return zk, zv, false, err
		}
		dk, dv, err := db.decodeRow(k, v)
		return dk, dv, err == nil, err
	})
}

func (db *Database[K, V]) Last(txn txnHandle) (key K, val V, ok bool, err error) {
	db.assertOwner(txn)
	return db.withCursor(txn, func(cur kv.RawCursor) (K, V, bool, error) {
		k, v, found, err := cur.Last()
		if err != nil || !found {
			var zk K
			var zv V
			return zk, zv, false, err
		}
		dk, dv, err := db.decodeRow(k, v)
		return dk, dv, err == nil, err
	})
}

// GetGreaterThanOrEqualTo returns the first entry with key' >= key.
func (db *Database[K, V]) GetGreaterThanOrEqualTo(txn txnHandle, key K) (K, V, bool, error) {
	db.assertOwner(txn)
	kb, err := db.kc.EncodeTo(key)
	if err != nil {
		var zk K
		var zv V
		return zk, zv, false, err
	}
	return db.withCursor(txn, func(cur kv.RawCursor) (K, V, bool, error) {
		k, v, found, err := cur.SeekGE(kb)
		if err != nil || !found {
			var zk K
			var zv V
			return zk, zv, false, err
		}
		dk, dv, err := db.decodeRow(k, v)
		return dk, dv, err == nil, err
	})
}

// GetGreaterThan returns the first entry with key' > key.
func (db *Database[K, V]) GetGreaterThan(txn txnHandle, key K) (K, V, bool, error) {
	db.assertOwner(txn)
	kb, err := db.kc.EncodeTo(key)
	if err != nil {
		var zk K
		var zv V
		return zk, zv, false, err
	}
	return db.withCursor(txn, func(cur kv.RawCursor) (K, V, bool, error) {
		k, v, found, err := cur.SeekGE(advanceKey(kb))
		if err != nil || !found {
			var zk K
			var zv V
			return zk, zv, false, err
		}
		dk, dv, err := db.decodeRow(k, v)
		return dk, dv, err == nil, err
	})
}

// GetLowerThanOrEqualTo returns the last entry with key' <= key.
func (db *Database[K, V]) GetLowerThanOrEqualTo(txn txnHandle, key K) (K, V, bool, error) {
	db.assertOwner(txn)
	kb, err := db.kc.EncodeTo(key)
	if err != nil {
		var zk K
		var zv V
		return zk, zv, false, err
	}
	return db.withCursor(txn, func(cur kv.RawCursor) (K, V, bool, error) {
		k, v, found, err := cur.SeekGE(advanceKey(kb))
		if err != nil {
			var zk K
			var zv V
			return zk, zv, false, err
		}
		if !found {
			k, v, found, err = cur.Last()
		} else {
			k, v, found, err = cur.Prev()
		}
		if err != nil || !found {
			var zk K
			var zv V
			return zk, zv, false, err
		}
		dk, dv, err := db.decodeRow(k, v)
		return dk, dv, err == nil, err
	})
}

// GetLowerThan returns the last entry with key' < key.
func (db *Database[K, V]) GetLowerThan(txn txnHandle, key K) (K, V, bool, error) {
	db.assertOwner(txn)
	kb, err := db.kc.EncodeTo(key)
	if err != nil {
		var zk K
		var zv V
		return zk, zv, false, err
	}
	return db.withCursor(txn, func(cur kv.RawCursor) (K, V, bool, error) {
		k, v, found, err := cur.SeekGE(kb)
		if err != nil {
			var zk K
			var zv V
			return zk, zv, false, err
		}
		if !found {
			k, v, found, err = cur.Last()
		} else {
			k, v, found, err = cur.Prev()
		}
		if err != nil || !found {
			var zk K
			var zv V
			return zk, zv, false, err
		}
		dk, dv, err := db.decodeRow(k, v)
		return dk, dv, err == nil, err
	})
}
