package mdbxkv

import (
	"crypto/cipher"
	"fmt"

	"github.com/c2h5oh/datasize"
	"go.uber.org/zap"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/erigontech/mdbxkv/kv"
)

// defaultMaxReaders and defaultMaxDBs mirror the engine's own defaults
//.
const (
	defaultMaxReaders = 126
	defaultMaxDBs     = 128
)

// OpenOptions configures Open. Sizes accept datasize.ByteSize so a caller
// can write OpenOptions{MapSize: 8 * datasize.GB} instead of a raw int64.
type OpenOptions struct {
	MapSize    datasize.ByteSize
	MaxReaders int
	MaxDBs     int
	Flags      kv.EnvFlag

	// Logger receives structured diagnostics (env open/close, stale reader
	// slots being cleared). Defaults to zap.NewNop() when nil.
	Logger *zap.Logger

	// AEAD, when set, seals each value the typed and polymorphic database
	// handles encode before it reaches the raw engine, and opens it again on
	// read (supplemented from heed's encrypted_database/encrypted_env). Keys
	// are stored in the clear, and values filled in place through the
	// reserve APIs or written with PutCurrentWithOptions are not sealed.
	// Purely opt-in and never engaged by default.
	AEAD cipher.AEAD

	// engineOpen lets tests substitute kv/memkv for the production mdbx
	// binding; zero value selects the production engine.
	engineOpen func(path string, flags kv.EnvFlag, maxReaders, maxDBs int, mapSize int64) (kv.RawEnv, error)
}

// NewAEAD builds a chacha20poly1305 AEAD from a 32-byte key, for callers
// that want OpenOptions.AEAD without importing the crypto package
// themselves.
func NewAEAD(key []byte) (cipher.AEAD, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("mdbxkv: building AEAD: %w", err)
	}
	return aead, nil
}

func (o OpenOptions) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o OpenOptions) maxReaders() int {
	if o.MaxReaders > 0 {
		return o.MaxReaders
	}
	return defaultMaxReaders
}

func (o OpenOptions) maxDBs() int {
	if o.MaxDBs > 0 {
		return o.MaxDBs
	}
	return defaultMaxDBs
}

// equivalent reports whether two OpenOptions would produce the same
// on-disk/in-memory environment shape, used by the registry to detect a
// second Open of an already-open path with incompatible options.
func (o OpenOptions) equivalent(other OpenOptions) bool {
	return o.MapSize == other.MapSize &&
		o.maxReaders() == other.maxReaders() &&
		o.maxDBs() == other.maxDBs() &&
		o.Flags == other.Flags
}
