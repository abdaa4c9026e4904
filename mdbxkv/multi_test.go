package mdbxkv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/mdbxkv/mdbxkv/codec"
)

func TestMultiDatabase_PutDupPreservesAllValues(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateMultiDatabase[string, uint32](txn, "multi", 0, codec.Str{}, codec.U32{})
	require.NoError(err)

	require.NoError(db.PutDup(txn, "k", 3))
	require.NoError(db.PutDup(txn, "k", 1))
	require.NoError(db.PutDup(txn, "k", 2))

	n, err := db.LenDup(txn, "k")
	require.NoError(err)
	require.Equal(uint64(3), n)

	it, err := db.IterDup(txn, "k")
	require.NoError(err)
	defer it.Close()
	var got []uint32
	for {
		v, ok, err := it.Next()
		require.NoError(err)
		if !ok {
			break
		}
		got = append(got, v)
	}
	require.Equal([]uint32{1, 2, 3}, got)
	require.NoError(txn.Commit())
}

func TestMultiDatabase_DelOneDupLeavesOthers(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateMultiDatabase[string, uint32](txn, "multi", 0, codec.Str{}, codec.U32{})
	require.NoError(err)
	require.NoError(db.PutDup(txn, "k", 1))
	require.NoError(db.PutDup(txn, "k", 2))

	found, err := db.DelOneDup(txn, "k", 1)
	require.NoError(err)
	require.True(found)

	n, err := db.LenDup(txn, "k")
	require.NoError(err)
	require.Equal(uint64(1), n)
	require.NoError(txn.Commit())
}

func TestMultiDatabase_AppendDupRejectsNonmonotone(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateMultiDatabase[string, uint32](txn, "multi", 0, codec.Str{}, codec.U32{})
	require.NoError(err)
	require.NoError(db.AppendDup(txn, "k", 5))
	err = db.AppendDup(txn, "k", 3)
	require.Error(err)
	txn.Abort()
}

func TestIter_MoveBetweenKeysSkipsDuplicates(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateMultiDatabase[string, uint32](txn, "multi", 0, codec.Str{}, codec.U32{})
	require.NoError(err)
	require.NoError(db.PutDup(txn, "a", 1))
	require.NoError(db.PutDup(txn, "a", 2))
	require.NoError(db.PutDup(txn, "b", 1))

	it, err := db.Iter(txn)
	require.NoError(err)
	it.MoveBetweenKeys()
	defer it.Close()

	var keys []string
	for {
		k, _, ok, err := it.Next()
		require.NoError(err)
		if !ok {
			break
		}
		keys = append(keys, k)
	}
	require.Equal([]string{"a", "b"}, keys)
	txn.Abort()
}
