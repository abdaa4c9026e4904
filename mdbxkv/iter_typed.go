package mdbxkv

// Iter is a typed cursor walk over a Database[K, V]. It is built by
// Database.Iter/RevIter/RangeIter/PrefixIter and always wraps the single
// rawWalker state machine in iterator.go.
type Iter[K, V any] struct {
	db *Database[K, V]
	w  *rawWalker
	// err sticks once set; Next keeps returning it on every further call so
	// callers who ignore one error don't get a misleading ok=false forever.
	err error
}

// Next returns the next (key, value) pair in the walk, or ok=false once
// exhausted or on error (the error is returned here, and again by every
// later call).
func (it *Iter[K, V]) Next() (key K, val V, ok bool, err error) {
	var zk K
	var zv V
	if it.err != nil {
		return zk, zv, false, it.err
	}
	k, v, found, err := it.w.Next()
	if err != nil {
		it.err = fromRaw("iter", err)
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
func (it *Iter[K, V]) Last() (key K, val V, ok bool, err error) {
	var zk K
	var zv V
	if it.err != nil {
		return zk, zv, false, it.err
	}
	k, v, found, err := it.w.Last()
	if err != nil {
		it.err = fromRaw("iter", err)
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
// table, skipping subsequent duplicate values. No effect on a
// non-DupSort table.
func (it *Iter[K, V]) MoveBetweenKeys() *Iter[K, V] {
	it.w.moveOp = moveNoDup
	return it
}

// MoveThroughDuplicateValues restores the default walk, visiting every
// duplicate value of every key.
func (it *Iter[K, V]) MoveThroughDuplicateValues() *Iter[K, V] {
	it.w.moveOp = moveAny
	return it
}

func (it *Iter[K, V]) Close() { it.w.Close() }

func startIter[K, V any](db *Database[K, V], txn txnHandle, dir direction, lower, upper bound) (*Iter[K, V], error) {
	db.assertOwner(txn)
	cur, err := txn.rawTxn().Cursor(db.dbi)
	if err != nil {
		return nil, fromRaw("iter", err)
	}
	return &Iter[K, V]{db: db, w: newRawWalker(cur, dir, lower, upper)}, nil
}

// Iter walks every entry forward.
func (db *Database[K, V]) Iter(txn txnHandle) (*Iter[K, V], error) {
	return startIter(db, txn, forward, noBound(), noBound())
}

// RevIter walks every entry backward.
func (db *Database[K, V]) RevIter(txn txnHandle) (*Iter[K, V], error) {
	return startIter(db, txn, reverse, noBound(), noBound())
}

// RangeIter walks [start, end) forward.
func (db *Database[K, V]) RangeIter(txn txnHandle, start, end K) (*Iter[K, V], error) {
	lo, err := db.kc.EncodeTo(start)
	if err != nil {
		return nil, err
	}
	hi, err := db.kc.EncodeTo(end)
	if err != nil {
		return nil, err
	}
	return startIter(db, txn, forward, inclusiveBound(lo), exclusiveBound(hi))
}

// RevRangeIter walks [start, end) backward, yielding the same entries as
// RangeIter in reverse order.
func (db *Database[K, V]) RevRangeIter(txn txnHandle, start, end K) (*Iter[K, V], error) {
	lo, err := db.kc.EncodeTo(start)
	if err != nil {
		return nil, err
	}
	hi, err := db.kc.EncodeTo(end)
	if err != nil {
		return nil, err
	}
	return startIter(db, txn, reverse, inclusiveBound(lo), exclusiveBound(hi))
}

// PrefixIter walks every entry whose key starts with prefix, forward.
func (db *Database[K, V]) PrefixIter(txn txnHandle, prefix K) (*Iter[K, V], error) {
	pb, err := db.kc.EncodeTo(prefix)
	if err != nil {
		return nil, err
	}
	return startIter(db, txn, forward, inclusiveBound(pb), prefixUpperBound(pb))
}

// RevPrefixIter walks every entry whose key starts with prefix, backward.
func (db *Database[K, V]) RevPrefixIter(txn txnHandle, prefix K) (*Iter[K, V], error) {
	pb, err := db.kc.EncodeTo(prefix)
	if err != nil {
		return nil, err
	}
	return startIter(db, txn, reverse, inclusiveBound(pb), prefixUpperBound(pb))
}
