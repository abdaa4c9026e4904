package mdbxkv

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/erigontech/mdbxkv/kv"
	"github.com/erigontech/mdbxkv/kv/memkv"
	"github.com/erigontech/mdbxkv/kv/mocks"
)

func TestOpen_SameOptionsSharesEnvironment(t *testing.T) {
	require := require.New(t)
	opts := OpenOptions{engineOpen: memkv.Open}

	env1, err := Open("/test/shared", opts)
	require.NoError(err)
	defer env1.Close()

	env2, err := Open("/test/shared", opts)
	require.NoError(err)
	defer env2.Close()

	require.Same(env1, env2)
}

// Scenario E: reopening an already-open path with incompatible options is
// rejected rather than silently attaching to the wrong shape of store.
func TestOpen_MismatchedOptionsRejected(t *testing.T) {
	require := require.New(t)
	opts := OpenOptions{engineOpen: memkv.Open, MaxDBs: 4}

	env, err := Open("/test/mismatch", opts)
	require.NoError(err)
	defer env.Close()

	_, err = Open("/test/mismatch", OpenOptions{engineOpen: memkv.Open, MaxDBs: 8})
	require.ErrorIs(err, ErrAlreadyOpen)
}

// The underlying engine is only actually closed once every handle obtained
// from Open for this path has been released, verified here against a
// MockRawEnv whose Close() expectation fires exactly once no matter how
// many Open/Close pairs ran first.
func TestClose_OnlyClosesEngineOnceAllRefsReleased(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	raw := mocks.NewMockRawEnv(ctrl)
	raw.EXPECT().Close().Return(nil).Times(1)

	opts := OpenOptions{engineOpen: func(string, kv.EnvFlag, int, int, int64) (kv.RawEnv, error) {
		return raw, nil
	}}

	env1, err := Open("/test/refcount", opts)
	require.NoError(err)
	env2, err := Open("/test/refcount", opts)
	require.NoError(err)
	require.Same(env1, env2)

	require.NoError(env1.Close())
	require.NoError(env2.Close())
}

func TestClosingEventFor_FiresAfterClose(t *testing.T) {
	require := require.New(t)
	opts := OpenOptions{engineOpen: memkv.Open}
	env, err := Open("/test/closing-event", opts)
	require.NoError(err)

	evt, ok := ClosingEventFor(env.Path())
	require.True(ok)

	require.NoError(env.Close())
	require.True(evt.Wait(0))
}
