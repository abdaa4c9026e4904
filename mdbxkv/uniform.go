package mdbxkv

import (
	"github.com/erigontech/mdbxkv/kv"
	"github.com/erigontech/mdbxkv/mdbxkv/codec"
)

// FixedWidthCodec is a Codec whose encoded values are always exactly
// FixedWidth() bytes, letting UniformDatabase reserve that width in
// PutReserved without the caller passing it.
// Supplemented from heed/src/db/uniform.rs; codec.U32,
// codec.U64, codec.I32, codec.I64 and codec.Pod[T] already satisfy it.
type FixedWidthCodec[T any] interface {
	codec.Codec[T]
	FixedWidth() int
}

// UniformDatabase is Database[K, V] specialized to a fixed-width value
// codec, adding a PutReserved convenience that doesn't require the caller
// to pass n on every call.
type UniformDatabase[K, V any] struct {
	Database[K, V]
	width int
}

// CreateUniformDatabase attaches to name, creating it if it does not yet
// exist.
func CreateUniformDatabase[K, V any](txn *RwTxn, name string, flags kv.DBFlag, kc codec.Codec[K], vc FixedWidthCodec[V]) (*UniformDatabase[K, V], error) {
	db, err := CreateDatabase[K, V](txn, name, flags, kc, vc)
	if err != nil {
		return nil, err
	}
	return &UniformDatabase[K, V]{Database: *db, width: vc.FixedWidth()}, nil
}

// OpenUniformDatabase attaches to an existing sub-database. It returns
// (nil, nil) if name does not exist yet.
func OpenUniformDatabase[K, V any](txn txnHandle, name string, kc codec.Codec[K], vc FixedWidthCodec[V]) (*UniformDatabase[K, V], error) {
	db, err := OpenDatabase[K, V](txn, name, kc, vc)
	if err != nil || db == nil {
		return nil, err
	}
	return &UniformDatabase[K, V]{Database: *db, width: vc.FixedWidth()}, nil
}

// PutReserved reserves exactly this database's fixed width and lets write
// fill it in place, without the caller repeating the width at every call
// site the way Database.PutReserved requires.
func (u *UniformDatabase[K, V]) PutReserved(txn *RwTxn, key K, write ReserveWriter) error {
	return u.Database.PutReserved(txn, key, u.width, write)
}

// Len returns the engine's own entry count (Database.Len, via DBIStat) when
// available. If that fails it returns the Count() of a freshly opened raw
// cursor on the sub-database instead; no value bytes are read or divided.
func (u *UniformDatabase[K, V]) Len(txn txnHandle) (uint64, error) {
	if n, err := u.Database.Len(txn); err == nil {
		return n, nil
	}
	cur, err := txn.rawTxn().Cursor(u.dbi)
	if err != nil {
		return 0, fromRaw("len", err)
	}
	defer cur.Close()
	n, err := cur.Count()
	if err != nil {
		return 0, fromRaw("len", err)
	}
	return n, nil
}
