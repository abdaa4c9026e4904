package mdbxkv

import (
	"github.com/erigontech/mdbxkv/kv"
	"github.com/erigontech/mdbxkv/mdbxkv/codec"
)

// RwIter is Iter's mutable counterpart: a cursor walk that additionally
// allows deleting or replacing the entry it last yielded. Built by Database.IterMut/RevIterMut/
// RangeMut/RevRangeMut/PrefixIterMut/RevPrefixIterMut and, like Iter,
// wraps the single rawWalker state machine.
type RwIter[K, V any] struct {
	db  *Database[K, V]
	w   *rawWalker
	err error
}

func startRwIter[K, V any](db *Database[K, V], txn *RwTxn, dir direction, lower, upper bound) (*RwIter[K, V], error) {
	db.assertOwner(txn)
	cur, err := txn.raw.Cursor(db.dbi)
	if err != nil {
		return nil, fromRaw("iter_mut", err)
	}
	return &RwIter[K, V]{db: db, w: newRawWalker(cur, dir, lower, upper)}, nil
}

// IterMut walks every entry forward, allowing in-place mutation.
func (db *Database[K, V]) IterMut(txn *RwTxn) (*RwIter[K, V], error) {
	return startRwIter(db, txn, forward, noBound(), noBound())
}

// RevIterMut walks every entry backward, allowing in-place mutation.
func (db *Database[K, V]) RevIterMut(txn *RwTxn) (*RwIter[K, V], error) {
	return startRwIter(db, txn, reverse, noBound(), noBound())
}

// RangeMut walks [start, end) forward, allowing in-place mutation.
func (db *Database[K, V]) RangeMut(txn *RwTxn, start, end K) (*RwIter[K, V], error) {
	lo, err := db.kc.EncodeTo(start)
	if err != nil {
		return nil, err
	}
	hi, err := db.kc.EncodeTo(end)
	if err != nil {
		return nil, err
	}
	return startRwIter(db, txn, forward, inclusiveBound(lo), exclusiveBound(hi))
}

// RevRangeMut walks [start, end) backward, allowing in-place mutation.
func (db *Database[K, V]) RevRangeMut(txn *RwTxn, start, end K) (*RwIter[K, V], error) {
	lo, err := db.kc.EncodeTo(start)
	if err != nil {
		return nil, err
	}
	hi, err := db.kc.EncodeTo(end)
	if err != nil {
		return nil, err
	}
	return startRwIter(db, txn, reverse, inclusiveBound(lo), exclusiveBound(hi))
}

// PrefixIterMut walks every entry whose key starts with prefix, forward,
// allowing in-place mutation.
func (db *Database[K, V]) PrefixIterMut(txn *RwTxn, prefix K) (*RwIter[K, V], error) {
	pb, err := db.kc.EncodeTo(prefix)
	if err != nil {
		return nil, err
	}
	return startRwIter(db, txn, forward, inclusiveBound(pb), prefixUpperBound(pb))
}

// RevPrefixIterMut walks every entry whose key starts with prefix,
// backward, allowing in-place mutation.
func (db *Database[K, V]) RevPrefixIterMut(txn *RwTxn, prefix K) (*RwIter[K, V], error) {
	pb, err := db.kc.EncodeTo(prefix)
	if err != nil {
		return nil, err
	}
	return startRwIter(db, txn, reverse, inclusiveBound(pb), prefixUpperBound(pb))
}

// Next returns the next (key, value) pair in the walk, or ok=false once
// exhausted or on error.
func (it *RwIter[K, V]) Next() (key K, val V, ok bool, err error) {
	var zk K
	var zv V
	if it.err != nil {
		return zk, zv, false, it.err
	}
	k, v, found, err := it.w.Next()
	if err != nil {
		it.err = fromRaw("iter_mut", err)
		return zk, zv, false, it.err
	}
	if !found {
		return zk, zv, false, nil
	}
	dk, dv, err := it.db.decodeRow(k, v)
	if err != nil {
		it.err = err
		return zk, zv, false, err
	}
	return dk, dv, true, nil
}

// Last jumps straight to the walk's terminal element; see rawWalker.Last.
func (it *RwIter[K, V]) Last() (key K, val V, ok bool, err error) {
	var zk K
	var zv V
	if it.err != nil {
		return zk, zv, false, it.err
	}
	k, v, found, err := it.w.Last()
	if err != nil {
		it.err = fromRaw("iter_mut", err)
		return zk, zv, false, it.err
	}
	if !found {
		return zk, zv, false, nil
	}
	dk, dv, err := it.db.decodeRow(k, v)
	if err != nil {
		it.err = err
		return zk, zv, false, err
	}
	return dk, dv, true, nil
}

// MoveBetweenKeys collapses the walk to one entry per key on a DupSort
// table. No effect on a non-DupSort table.
func (it *RwIter[K, V]) MoveBetweenKeys() *RwIter[K, V] {
	it.w.moveOp = moveNoDup
	return it
}

// MoveThroughDuplicateValues restores the default walk.
func (it *RwIter[K, V]) MoveThroughDuplicateValues() *RwIter[K, V] {
	it.w.moveOp = moveAny
	return it
}

func (it *RwIter[K, V]) Close() { it.w.Close() }

// DelCurrent removes the entry this iterator last yielded. Any reference
// to that entry's bytes obtained
// from a prior Next() becomes invalid the instant this call returns;
// callers must have already copied anything they need to keep.
func (it *RwIter[K, V]) DelCurrent() (bool, error) {
	if err := it.w.cur.DeleteCurrent(); err != nil {
		return false, fromRaw("del_current", err)
	}
	return true, nil
}

// PutCurrent overwrites the value at the iterator's current position. key
// must equal the cursor's current key; passing a different key
// does not move the cursor, it corrupts the sub-database's ordering.
func (it *RwIter[K, V]) PutCurrent(key K, val V) (bool, error) {
	return it.PutCurrentWithFlags(kv.Current, key, val)
}

// PutCurrentWithFlags is PutCurrent with direct access to the put-flag
// bits, always including kv.Current.
func (it *RwIter[K, V]) PutCurrentWithFlags(flags kv.PutFlag, key K, val V) (bool, error) {
	kb, err := it.db.kc.EncodeTo(key)
	if err != nil {
		return false, err
	}
	vb, err := it.db.encodeVal(val)
	if err != nil {
		return false, err
	}
	if err := it.w.cur.Put(kb, vb, flags|kv.Current); err != nil {
		return false, fromRaw("put_current", err)
	}
	return true, nil
}

// PutCurrentReserved replaces the current entry's value with n
// engine-allocated bytes filled in place by write.
func (it *RwIter[K, V]) PutCurrentReserved(key K, n int, write ReserveWriter) (bool, error) {
	kb, err := it.db.kc.EncodeTo(key)
	if err != nil {
		return false, err
	}
	buf, err := it.w.cur.PutReserve(kb, n, kv.Current)
	if err != nil {
		return false, fromRaw("put_current_reserved", err)
	}
	if err := write(buf); err != nil {
		return false, err
	}
	return true, nil
}

// PutCurrentWithOptions writes val at the iterator's current position
// using a value codec other than the one the iterator was built with,
// the type-remapped write heed names put_current_with_options.
func PutCurrentWithOptions[K, V, NV any](it *RwIter[K, V], flags kv.PutFlag, key K, val NV, vc codec.Encoder[NV]) (bool, error) {
	kb, err := it.db.kc.EncodeTo(key)
	if err != nil {
		return false, err
	}
	vb, err := vc.EncodeTo(val)
	if err != nil {
		return false, err
	}
	if err := it.w.cur.Put(kb, vb, flags|kv.Current); err != nil {
		return false, fromRaw("put_current_with_options", err)
	}
	return true, nil
}
