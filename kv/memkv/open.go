package memkv

import "github.com/erigontech/mdbxkv/kv"

// Open adapts New to the engine-constructor signature mdbxkv.OpenOptions
// expects (the same shape kv/mdbx.Open has), so a test can swap the
// production engine out from under mdbxkv.Open with:
//
//	mdbxkv.Open(path, mdbxkv.OpenOptions{engineOpen: memkv.Open})
//
// flags, maxReaders, maxDBs and mapSize are accepted to satisfy the
// signature and otherwise ignored: memkv has no page cache to size and no
// reader table to bound.
func Open(path string, _ kv.EnvFlag, _ int, _ int, _ int64) (kv.RawEnv, error) {
	return New(path), nil
}
