package mdbxkv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/mdbxkv/kv/memkv"
	"github.com/erigontech/mdbxkv/mdbxkv/codec"
)

func openTestEnv(t *testing.T) *Environment {
	t.Helper()
	env, err := Open(t.TempDir(), OpenOptions{engineOpen: memkv.Open})
	require.NoError(t, err)
	t.Cleanup(func() { env.Close() })
	return env
}

func createStrU32DB(t *testing.T, env *Environment, name string) *Database[string, uint32] {
	t.Helper()
	txn, err := env.WriteTxn()
	require.NoError(t, err)
	db, err := CreateDatabase[string, uint32](txn, name, 0, codec.Str{}, codec.U32{})
	require.NoError(t, err)
	require.NoError(t, txn.Commit())
	return db
}

func TestDatabase_PutGetRoundTrip(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)
	db := createStrU32DB(t, env, "kv")

	txn, err := env.WriteTxn()
	require.NoError(err)
	require.NoError(db.Put(txn, "alpha", 1))
	require.NoError(db.Put(txn, "beta", 2))
	require.NoError(txn.Commit())

	ro, err := env.ReadTxn()
	require.NoError(err)
	defer ro.Abort()

	val, ok, err := db.Get(ro, "alpha")
	require.NoError(err)
	require.True(ok)
	require.Equal(uint32(1), val)

	_, ok, err = db.Get(ro, "missing")
	require.NoError(err)
	require.False(ok)
}

func TestDatabase_PutOverwritesByDefault(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)
	db := createStrU32DB(t, env, "kv")

	txn, err := env.WriteTxn()
	require.NoError(err)
	require.NoError(db.Put(txn, "k", 1))
	require.NoError(db.Put(txn, "k", 2))
	val, ok, err := db.Get(txn, "k")
	require.NoError(err)
	require.True(ok)
	require.Equal(uint32(2), val)
	require.NoError(txn.Commit())
}

func TestDatabase_AppendRejectsOutOfOrderKey(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)
	db := createStrU32DB(t, env, "kv")

	txn, err := env.WriteTxn()
	require.NoError(err)
	require.NoError(db.Append(txn, "b", 1))
	err = db.Append(txn, "a", 2)
	require.Error(err)
	txn.Abort()
}

func TestDatabase_DeleteReportsPresence(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)
	db := createStrU32DB(t, env, "kv")

	txn, err := env.WriteTxn()
	require.NoError(err)
	require.NoError(db.Put(txn, "k", 1))

	found, err := db.Delete(txn, "k")
	require.NoError(err)
	require.True(found)

	found, err = db.Delete(txn, "k")
	require.NoError(err)
	require.False(found)
	require.NoError(txn.Commit())
}

func TestDatabase_DeleteRangeAndClear(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)
	db := createStrU32DB(t, env, "kv")

	txn, err := env.WriteTxn()
	require.NoError(err)
	for i, k := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(db.Put(txn, k, uint32(i)))
	}

	n, err := db.DeleteRange(txn, "b", "d")
	require.NoError(err)
	require.Equal(2, n)

	_, ok, err := db.Get(txn, "b")
	require.NoError(err)
	require.False(ok)
	_, ok, err = db.Get(txn, "d")
	require.NoError(err)
	require.True(ok)

	require.NoError(db.Clear(txn))
	empty, err := db.IsEmpty(txn)
	require.NoError(err)
	require.True(empty)
	require.NoError(txn.Commit())
}

func TestDatabase_GetOrPut(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)
	db := createStrU32DB(t, env, "kv")

	txn, err := env.WriteTxn()
	require.NoError(err)

	v, err := db.GetOrPut(txn, "k", 42)
	require.NoError(err)
	require.Equal(uint32(42), v)

	v, err = db.GetOrPut(txn, "k", 99)
	require.NoError(err)
	require.Equal(uint32(42), v)
	require.NoError(txn.Commit())
}

func TestDatabase_PutReserved(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)
	db := createStrU32DB(t, env, "kv")

	txn, err := env.WriteTxn()
	require.NoError(err)
	require.NoError(db.PutReserved(txn, "k", 4, func(buf []byte) error {
		copy(buf, []byte{0, 0, 0, 7})
		return nil
	}))
	val, ok, err := db.Get(txn, "k")
	require.NoError(err)
	require.True(ok)
	require.Equal(uint32(7), val)
	require.NoError(txn.Commit())
}

func TestDatabase_SequenceIsMonotonic(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)
	db := createStrU32DB(t, env, "kv")

	txn, err := env.WriteTxn()
	require.NoError(err)
	first, err := db.Sequence(txn, 10)
	require.NoError(err)
	require.Equal(uint64(0), first)
	second, err := db.Sequence(txn, 5)
	require.NoError(err)
	require.Equal(uint64(10), second)
	require.NoError(txn.Commit())
}

func TestDatabase_CrossEnvironmentHandleAborts(t *testing.T) {
	env1 := openTestEnv(t)
	env2 := openTestEnv(t)
	db := createStrU32DB(t, env1, "kv")

	txn2, err := env2.WriteTxn()
	require.NoError(t, err)
	defer txn2.Abort()

	require.Panics(t, func() {
		_, _, _ = db.Get(txn2, "k")
	})
}

func TestDatabase_TypeMismatchOnReopen(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	_, err = CreateDatabase[string, uint32](txn, "typed", 0, codec.Str{}, codec.U32{})
	require.NoError(err)

	_, err = CreateDatabase[string, string](txn, "typed", 0, codec.Str{}, codec.Str{})
	require.ErrorIs(err, ErrTypeMismatch)
	txn.Abort()
}

func TestDatabase_CustomComparatorReordersKeys(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	reverse := func(a, b []byte) int { return -compareBytes(a, b) }

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateDatabaseWithComparator[string, uint32](txn, "rev", 0, reverse, codec.Str{}, codec.U32{})
	require.NoError(err)
	require.NoError(db.Put(txn, "a", 1))
	require.NoError(db.Put(txn, "b", 2))
	require.NoError(db.Put(txn, "c", 3))

	k, _, ok, err := db.First(txn)
	require.NoError(err)
	require.True(ok)
	require.Equal("c", k)
	require.NoError(txn.Commit())
}

func TestDatabase_AEADRoundTrip(t *testing.T) {
	require := require.New(t)
	key := make([]byte, 32)
	aead, err := NewAEAD(key)
	require.NoError(err)

	env, err := Open(t.Name(), OpenOptions{engineOpen: memkv.Open, AEAD: aead})
	require.NoError(err)
	t.Cleanup(func() { env.Close() })

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateDatabase[string, uint32](txn, "sealed", 0, codec.Str{}, codec.U32{})
	require.NoError(err)
	require.NoError(db.Put(txn, "k", 123))

	val, ok, err := db.Get(txn, "k")
	require.NoError(err)
	require.True(ok)
	require.Equal(uint32(123), val)
	require.NoError(txn.Commit())
}
