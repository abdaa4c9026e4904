package mdbxkv

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/mdbxkv/mdbxkv/codec"
)

// Scenario F: a nested write transaction's changes never reach the parent
// (let alone the environment) if the child is aborted instead of committed.
func TestNestedWriteTxn_AbortDiscardsChildWritesOnly(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	parent, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateDatabase[string, uint32](parent, "nested", 0, codec.Str{}, codec.U32{})
	require.NoError(err)
	require.NoError(db.Put(parent, "parent-key", 1))

	child, err := env.NestedWriteTxn(parent)
	require.NoError(err)
	require.NoError(db.Put(child, "child-key", 2))
	child.Abort()

	_, ok, err := db.Get(parent, "child-key")
	require.NoError(err)
	require.False(ok)

	v, ok, err := db.Get(parent, "parent-key")
	require.NoError(err)
	require.True(ok)
	require.Equal(uint32(1), v)
	require.NoError(parent.Commit())

	ro, err := env.ReadTxn()
	require.NoError(err)
	defer ro.Abort()
	_, ok, err = db.Get(ro, "child-key")
	require.NoError(err)
	require.False(ok)
}

func TestNestedWriteTxn_CommitFoldsIntoParentOnly(t *testing.T) {
	require := require.New(t)
	env := openTestEnv(t)

	setup, err := env.WriteTxn()
	require.NoError(err)
	db, err := CreateDatabase[string, uint32](setup, "nested2", 0, codec.Str{}, codec.U32{})
	require.NoError(err)
	require.NoError(setup.Commit())

	// the child's write must be visible to the parent as soon as it
	// commits, but not durable (visible outside the parent) until the
	// parent itself commits.
	ro, err := env.ReadTxn()
	require.NoError(err)

	parent, err := env.WriteTxn()
	require.NoError(err)
	child, err := env.NestedWriteTxn(parent)
	require.NoError(err)
	require.NoError(db.Put(child, "child-key", 9))
	require.NoError(child.Commit())

	v, ok, err := db.Get(parent, "child-key")
	require.NoError(err)
	require.True(ok)
	require.Equal(uint32(9), v)

	_, ok, err = db.Get(ro, "child-key")
	require.NoError(err)
	require.False(ok)
	ro.Abort()

	require.NoError(parent.Commit())
}

func TestNestedWriteTxn_RejectsForeignParent(t *testing.T) {
	env1 := openTestEnv(t)
	env2 := openTestEnv(t)

	foreignParent, err := env2.WriteTxn()
	require.NoError(t, err)
	defer foreignParent.Abort()

	require.Panics(t, func() {
		_, _ = env1.NestedWriteTxn(foreignParent)
	})
}
