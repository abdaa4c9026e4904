package mdbxkv

import (
	"github.com/erigontech/mdbxkv/kv"
	"github.com/erigontech/mdbxkv/mdbxkv/codec"
)

// MultiDatabase is a typed view over a DupSort sub-database: one key maps
// to an ordered set of values rather than a single value. Supplemented
// from heed/src/db/multi.rs, which  references only in passing
// (§4.4, §4.6) via the DupSort flag and MoveOperation.
type MultiDatabase[K, V any] struct {
	Database[K, V]
}

// CreateMultiDatabase attaches to name, creating it with the DupSort flag
// (plus any extra flags the caller asks for, e.g. kv.DupFixed) if it does
// not yet exist.
func CreateMultiDatabase[K, V any](txn *RwTxn, name string, extra kv.DBFlag, kc codec.Codec[K], vc codec.Codec[V]) (*MultiDatabase[K, V], error) {
	db, err := CreateDatabase[K, V](txn, name, extra|kv.DupSort, kc, vc)
	if err != nil {
		return nil, err
	}
	return &MultiDatabase[K, V]{Database: *db}, nil
}

// OpenMultiDatabase attaches to an existing DupSort sub-database. It
// returns (nil, nil) if name does not exist yet.
func OpenMultiDatabase[K, V any](txn txnHandle, name string, kc codec.Codec[K], vc codec.Codec[V]) (*MultiDatabase[K, V], error) {
	db, err := OpenDatabase[K, V](txn, name, kc, vc)
	if err != nil || db == nil {
		return nil, err
	}
	return &MultiDatabase[K, V]{Database: *db}, nil
}

// PutDup inserts val as one more duplicate of key, without disturbing any
// duplicate already stored. Equivalent to Put on a DupSort table, spelled
// out separately so call sites read as intentional multi-value inserts.
func (m *MultiDatabase[K, V]) PutDup(txn *RwTxn, key K, val V) error {
	return m.Put(txn, key, val)
}

// AppendDup is the DupSort fast path: both key and value must be
// monotone nondecreasing across calls.
func (m *MultiDatabase[K, V]) AppendDup(txn *RwTxn, key K, val V) error {
	return m.PutWithFlags(txn, key, val, kv.AppendDup)
}

// DelOneDup removes exactly one duplicate (key, val) pair, leaving any
// other duplicates of key untouched, and reports whether it was present.
//
// DelOneDup encodes val through encodeVal so the bytes it asks the engine
// to match are the same bytes Put stored. That equality breaks under AEAD,
// though: a fresh random nonce is sealed into every call, so the same
// plaintext never seals to the same ciphertext twice, and no byte-equal
// match is possible. A MultiDatabase opened on an AEAD-enabled Environment
// can still PutDup/IterDup (values are sealed/opened independently at each
// call), but DelOneDup — and any other exact-match-by-value lookup — will
// never find what PutDup stored.
func (m *MultiDatabase[K, V]) DelOneDup(txn *RwTxn, key K, val V) (bool, error) {
	m.assertOwner(txn)
	kb, err := m.kc.EncodeTo(key)
	if err != nil {
		return false, err
	}
	vb, err := m.encodeVal(val)
	if err != nil {
		return false, err
	}
	found, err := txn.raw.Delete(m.dbi, kb, vb)
	if err != nil {
		return false, fromRaw("del_one_dup", err)
	}
	return found, nil
}

// LenDup returns the number of duplicate values stored under key, or 0 if
// key is absent.
func (m *MultiDatabase[K, V]) LenDup(txn txnHandle, key K) (uint64, error) {
	m.assertOwner(txn)
	kb, err := m.kc.EncodeTo(key)
	if err != nil {
		return 0, err
	}
	cur, err := txn.rawTxn().Cursor(m.dbi)
	if err != nil {
		return 0, fromRaw("len_dup", err)
	}
	defer cur.Close()
	k, _, ok, err := cur.SeekGE(kb)
	if err != nil {
		return 0, fromRaw("len_dup", err)
	}
	if !ok || compareBytes(k, kb) != 0 {
		return 0, nil
	}
	n, err := cur.CountDuplicates()
	if err != nil {
		return 0, fromRaw("len_dup", err)
	}
	return n, nil
}

// DupIter walks every duplicate value stored under one key, in their
// stored order.
type DupIter[K, V any] struct {
	db      *Database[K, V]
	cur     kv.RawCursor
	started bool
	done    bool
	first   []byte
	haveV   bool
	err     error
}

// IterDup opens a DupIter positioned at key's first duplicate value.
func (m *MultiDatabase[K, V]) IterDup(txn txnHandle, key K) (*DupIter[K, V], error) {
	m.assertOwner(txn)
	kb, err := m.kc.EncodeTo(key)
	if err != nil {
		return nil, err
	}
	cur, err := txn.rawTxn().Cursor(m.dbi)
	if err != nil {
		return nil, fromRaw("iter_dup", err)
	}
	k, v, ok, err := cur.SeekGE(kb)
	if err != nil {
		cur.Close()
		return nil, fromRaw("iter_dup", err)
	}
	if !ok || compareBytes(k, kb) != 0 {
		cur.Close()
		return &DupIter[K, V]{db: &m.Database, done: true}, nil
	}
	return &DupIter[K, V]{db: &m.Database, cur: cur, first: v, haveV: true}, nil
}

// Next returns the next duplicate value under the key IterDup was opened
// with, or ok=false once the key's duplicate set is exhausted.
func (it *DupIter[K, V]) Next() (val V, ok bool, err error) {
	var zero V
	if it.done || it.err != nil {
		return zero, false, it.err
	}
	var v []byte
	var found bool
	if !it.started {
		it.started = true
		v, found = it.first, it.haveV
	} else {
		_, v, found, err = it.cur.NextDup()
		if err != nil {
			it.done = true
			it.err = fromRaw("iter_dup", err)
			return zero, false, it.err
		}
	}
	if !found {
		it.done = true
		return zero, false, nil
	}
	dv, err := it.db.decodeVal(v)
	if err != nil {
		it.done = true
		it.err = err
		return zero, false, err
	}
	return dv, true, nil
}

func (it *DupIter[K, V]) Close() {
	if it.cur != nil {
		it.cur.Close()
	}
}
