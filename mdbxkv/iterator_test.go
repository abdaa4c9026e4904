package mdbxkv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/mdbxkv/kv/memkv"
	"github.com/erigontech/mdbxkv/mdbxkv/codec"
)

func drainIter[K, V any](t *testing.T, it *Iter[K, V]) ([]K, []V) {
	t.Helper()
	var keys []K
	var vals []V
	for {
		k, v, ok, err := it.Next()
		require.NoError(t, err)
		if !ok {
			break
		}
		keys = append(keys, k)
		vals = append(vals, v)
	}
	return keys, vals
}

// Scenario A: keys inserted out of order are visited in big-endian numeric
// order by a forward full scan, and in the reverse order by a reverse scan.
func TestIter_OrdersU32KeysNumerically(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateDatabase[uint32, string](txn, "ordered", 0, codec.U32{}, codec.Str{})
	require.NoError(err)
	for _, k := range []uint32{30, 10, 20, 5, 25} {
		require.NoError(db.Put(txn, k, "v"))
	}
	require.NoError(txn.Commit())

	ro, err := env.ReadTxn()
	require.NoError(err)
	defer ro.Abort()

	it, err := db.Iter(ro)
	require.NoError(err)
	defer it.Close()
	keys, _ := drainIter(t, it)
	require.Equal([]uint32{5, 10, 20, 25, 30}, keys)

	rit, err := db.RevIter(ro)
	require.NoError(err)
	defer rit.Close()
	rkeys, _ := drainIter(t, rit)
	require.Equal([]uint32{30, 25, 20, 10, 5}, rkeys)
}

// Scenario B: a range iterator is lower-inclusive/upper-exclusive, and
// DeleteRange removes exactly the keys the same bounds would have yielded.
func TestIter_RangeMatchesDeleteRangeBounds(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateDatabase[uint32, string](txn, "range", 0, codec.U32{}, codec.Str{})
	require.NoError(err)
	for _, k := range []uint32{1, 2, 3, 4, 5, 6} {
		require.NoError(db.Put(txn, k, "v"))
	}

	it, err := db.RangeIter(txn, 2, 5)
	require.NoError(err)
	keys, _ := drainIter(t, it)
	it.Close()
	require.Equal([]uint32{2, 3, 4}, keys)

	n, err := db.DeleteRange(txn, 2, 5)
	require.NoError(err)
	require.Equal(3, n)

	remaining, err := db.Iter(txn)
	require.NoError(err)
	rk, _ := drainIter(t, remaining)
	remaining.Close()
	require.Equal([]uint32{1, 5, 6}, rk)
	require.NoError(txn.Commit())
}

// Scenario C: prefix iteration over keys whose prefix byte is 0xFF exercises
// prefixUpperBound's all-0xFF case (no finite upper bound, so none of the
// prefix's own keys is cut off).
func TestIter_PrefixHandlesFFByteRollover(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateDatabase[[]byte, string](txn, "prefix", 0, codec.Bytes{}, codec.Str{})
	require.NoError(err)
	for _, k := range [][]byte{{0xFF, 0x00}, {0xFF, 0x01}, {0xFF, 0xFF}, {0x00}} {
		require.NoError(db.Put(txn, k, "v"))
	}

	it, err := db.PrefixIter(txn, []byte{0xFF})
	require.NoError(err)
	defer it.Close()
	keys, _ := drainIter(t, it)
	require.Len(keys, 3)
	for _, k := range keys {
		require.Equal(byte(0xFF), k[0])
	}
	txn.Abort()
}

func TestIter_LastSpecializationMatchesDrainedTail(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateDatabase[uint32, string](txn, "lasttest", 0, codec.U32{}, codec.Str{})
	require.NoError(err)
	for _, k := range []uint32{1, 2, 3} {
		require.NoError(db.Put(txn, k, "v"))
	}
	require.NoError(txn.Commit())

	ro, err := env.ReadTxn()
	require.NoError(err)
	defer ro.Abort()

	it, err := db.Iter(ro)
	require.NoError(err)
	defer it.Close()
	k, _, ok, err := it.Last()
	require.NoError(err)
	require.True(ok)
	require.Equal(uint32(3), k)

	// a walker already past its terminal element reports no further Last.
	_, _, ok, err = it.Last()
	require.NoError(err)
	require.False(ok)
}

func TestIterMut_DelCurrentAndPutCurrent(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	txn, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateDatabase[uint32, string](txn, "mut", 0, codec.U32{}, codec.Str{})
	require.NoError(err)
	for _, k := range []uint32{1, 2, 3, 4} {
		require.NoError(db.Put(txn, k, "orig"))
	}

	it, err := db.IterMut(txn)
	require.NoError(err)
	for {
		k, _, ok, err := it.Next()
		require.NoError(err)
		if !ok {
			break
		}
		if k == 2 {
			_, err := it.DelCurrent()
			require.NoError(err)
		}
		if k == 3 {
			_, err := it.PutCurrent(k, "replaced")
			require.NoError(err)
		}
	}
	it.Close()

	_, ok, err := db.Get(txn, uint32(2))
	require.NoError(err)
	require.False(ok)

	v, ok, err := db.Get(txn, uint32(3))
	require.NoError(err)
	require.True(ok)
	require.Equal("replaced", v)
	require.NoError(txn.Commit())
}
