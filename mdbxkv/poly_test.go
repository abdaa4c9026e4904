package mdbxkv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/mdbxkv/mdbxkv/codec"
)

func TestPolyDatabase_PutGetRoundTrip(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	poly, err := CreatePolyDatabase(txn, "poly", 0)
	require.NoError(err)

	require.NoError(PolyPut[string, uint32](poly, txn, "alpha", 1, codec.Str{}, codec.U32{}))
	require.NoError(txn.Commit())

	ro, err := env.ReadTxn()
	require.NoError(err)
	defer ro.Abort()

	val, ok, err := PolyGet[string, uint32](poly, ro, "alpha", codec.Str{}, codec.U32{})
	require.NoError(err)
	require.True(ok)
	require.Equal(uint32(1), val)

	_, ok, err = PolyGet[string, uint32](poly, ro, "missing", codec.Str{}, codec.U32{})
	require.NoError(err)
	require.False(ok)
}

func TestPolyDatabase_DeleteReportsPresence(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	poly, err := CreatePolyDatabase(txn, "poly", 0)
	require.NoError(err)
	require.NoError(PolyPut[string, uint32](poly, txn, "k", 1, codec.Str{}, codec.U32{}))

	found, err := PolyDelete[string](poly, txn, "k", codec.Str{})
	require.NoError(err)
	require.True(found)

	found, err = PolyDelete[string](poly, txn, "k", codec.Str{})
	require.NoError(err)
	require.False(found)
	require.NoError(txn.Commit())
}

func TestPolyDatabase_LenAndClear(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	poly, err := CreatePolyDatabase(txn, "poly", 0)
	require.NoError(err)
	require.NoError(PolyPut[string, uint32](poly, txn, "a", 1, codec.Str{}, codec.U32{}))
	require.NoError(PolyPut[string, uint32](poly, txn, "b", 2, codec.Str{}, codec.U32{}))

	n, err := poly.Len(txn)
	require.NoError(err)
	require.Equal(uint64(2), n)

	require.NoError(poly.Clear(txn))
	empty, err := poly.IsEmpty(txn)
	require.NoError(err)
	require.True(empty)
	require.NoError(txn.Commit())
}

func TestPolyDatabase_InterconvertsWithTypedHandle(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)
	db := createStrU32DB(t, env, "shared")

	txn, err := env.WriteTxn()
	require.NoError(err)
	require.NoError(db.Put(txn, "k", 5))
	require.NoError(txn.Commit())

	poly := db.AsPoly()

	ro, err := env.ReadTxn()
	require.NoError(err)
	defer ro.Abort()

	val, ok, err := PolyGet[string, uint32](poly, ro, "k", codec.Str{}, codec.U32{})
	require.NoError(err)
	require.True(ok)
	require.Equal(uint32(5), val)

	rebound := BindPoly[string, uint32](poly, codec.Str{}, codec.U32{})
	v2, ok, err := rebound.Get(ro, "k")
	require.NoError(err)
	require.True(ok)
	require.Equal(uint32(5), v2)
}

func TestPolyDatabase_OpenMissingReturnsNilWithoutError(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	defer txn.Abort()

	poly, err := OpenPolyDatabase(txn, "does-not-exist")
	require.NoError(err)
	require.Nil(poly)
}
