// Copyright 2021 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package mdbx binds the kv.RawEnv/RawTxn/RawCursor boundary to
// github.com/erigontech/mdbx-go, the same libmdbx cgo wrapper erigon-lib's
// own storage layer depends on. This is the production engine; kv/memkv
// provides a cgo-free stand-in used by the façade's own test suite.
package mdbx

import (
	"fmt"
	"os"

	"github.com/erigontech/mdbx-go/mdbx"

	"github.com/erigontech/mdbxkv/kv"
)

// Open creates (or attaches to) an mdbx environment at path with the given
// geometry. It does not enforce single-open-per-path; that invariant is the
// façade's registry's job.
func Open(path string, flags kv.EnvFlag, maxReaders, maxDBs int, mapSize int64) (kv.RawEnv, error) {
	env, err := mdbx.NewEnv()
	if err != nil {
		return nil, wrap("mdbx_env_create", err)
	}
	if maxDBs > 0 {
		if err := env.SetMaxDBs(maxDBs); err != nil {
			return nil, wrap("mdbx_env_set_maxdbs", err)
		}
	}
	if maxReaders > 0 {
		if err := env.SetMaxReaders(maxReaders); err != nil {
			return nil, wrap("mdbx_env_set_maxreaders", err)
		}
	}
	if mapSize > 0 {
		if err := env.SetGeometry(-1, -1, int(mapSize), -1, -1, -1); err != nil {
			return nil, wrap("mdbx_env_set_geometry", err)
		}
	}

	cflags := toMdbxEnvFlags(flags)
	if err := env.Open(path, cflags, 0o644); err != nil {
		_ = env.Close()
		return nil, wrap("mdbx_env_open", err)
	}

	return &Env{env: env, path: path}, nil
}

// Env adapts *mdbx.Env to kv.RawEnv.
type Env struct {
	env  *mdbx.Env
	path string
}

func (e *Env) BeginTxn(parent kv.RawTxn, readOnly bool) (kv.RawTxn, error) {
	var parentTxn *mdbx.Txn
	if parent != nil {
		pt, ok := parent.(*Txn)
		if !ok {
			return nil, fmt.Errorf("mdbx: parent txn is not from this engine")
		}
		parentTxn = pt.txn
	}

	flags := uint(0)
	if readOnly {
		flags |= mdbx.Readonly
	}

	txn, err := e.env.BeginTxn(parentTxn, flags)
	if err != nil {
		return nil, wrap("mdbx_txn_begin", err)
	}
	return &Txn{txn: txn, readOnly: readOnly}, nil
}

func (e *Env) Close() error {
	if err := e.env.Close(); err != nil {
		return wrap("mdbx_env_close", err)
	}
	return nil
}

func (e *Env) Stat() (kv.Stat, error) {
	s, err := e.env.Stat()
	if err != nil {
		return kv.Stat{}, wrap("mdbx_env_stat", err)
	}
	return kv.Stat{
		PSize:         uint32(s.PSize),
		Depth:         uint32(s.Depth),
		BranchPages:   s.BranchPages,
		LeafPages:     s.LeafPages,
		OverflowPages: s.OverflowPages,
		Entries:       s.Entries,
	}, nil
}

func (e *Env) Info() (kv.EnvInfo, error) {
	info, err := e.env.Info(nil)
	if err != nil {
		return kv.EnvInfo{}, wrap("mdbx_env_info", err)
	}
	return kv.EnvInfo{
		MapSize:    int64(info.MapSize),
		LastPNO:    int64(info.LastPNO),
		LastTxnID:  int64(info.LastTxnID),
		MaxReaders: uint32(info.MaxReaders),
		NumReaders: uint32(info.NumReaders),
	}, nil
}

func (e *Env) Sync(force bool) error {
	if err := e.env.Sync(force, false); err != nil {
		return wrap("mdbx_env_sync", err)
	}
	return nil
}

func (e *Env) Flags() (kv.EnvFlag, error) {
	f, err := e.env.Flags()
	if err != nil {
		return 0, wrap("mdbx_env_get_flags", err)
	}
	return fromMdbxEnvFlags(f), nil
}

func (e *Env) SetFlags(flags kv.EnvFlag, enable bool) error {
	if enable {
		return wrap("mdbx_env_set_flags", e.env.SetFlags(toMdbxEnvFlags(flags)))
	}
	return wrap("mdbx_env_set_flags", e.env.UnsetFlags(toMdbxEnvFlags(flags)))
}

func (e *Env) MaxKeySize() int { return e.env.MaxKeySize() }

func (e *Env) SetMapSize(size int64) error {
	return wrap("mdbx_env_set_geometry", e.env.SetGeometry(-1, -1, int(size), -1, -1, -1))
}

func (e *Env) SetMaxReaders(n int) error {
	return wrap("mdbx_env_set_maxreaders", e.env.SetMaxReaders(n))
}

func (e *Env) ReaderCheck() (int, error) {
	dead, err := e.env.ReaderCheck()
	if err != nil {
		return 0, wrap("mdbx_reader_check", err)
	}
	return dead, nil
}

func (e *Env) CopyTo(dst string, compact bool) error {
	flags := uint(0)
	if compact {
		flags |= mdbx.CpCompact
	}
	return wrap("mdbx_env_copy2", e.env.CopyFlag(dst, flags))
}

func (e *Env) Path() string { return e.path }

func toMdbxEnvFlags(f kv.EnvFlag) uint {
	var out uint
	if f.Has(kv.NoSubDir) {
		out |= mdbx.NoSubdir
	}
	if f.Has(kv.EnvReadOnly) {
		out |= mdbx.Readonly
	}
	if f.Has(kv.WriteMap) {
		out |= mdbx.WriteMap
	}
	if f.Has(kv.NoMetaSync) {
		out |= mdbx.NoMetaSync
	}
	if f.Has(kv.NoSync) {
		out |= mdbx.SafeNoSync
	}
	if f.Has(kv.MapAsync) {
		out |= mdbx.UtterlyNoSync
	}
	if f.Has(kv.NoTLS) {
		out |= mdbx.NoTLS
	}
	if f.Has(kv.NoLock) {
		out |= mdbx.Exclusive
	}
	if f.Has(kv.NoReadAhead) {
		out |= mdbx.NoReadahead
	}
	if f.Has(kv.NoMemInit) {
		out |= mdbx.NoMemInit
	}
	return out
}

func fromMdbxEnvFlags(f uint) kv.EnvFlag {
	var out kv.EnvFlag
	if f&mdbx.NoSubdir != 0 {
		out |= kv.NoSubDir
	}
	if f&mdbx.Readonly != 0 {
		out |= kv.EnvReadOnly
	}
	if f&mdbx.WriteMap != 0 {
		out |= kv.WriteMap
	}
	if f&mdbx.NoMetaSync != 0 {
		out |= kv.NoMetaSync
	}
	if f&mdbx.NoTLS != 0 {
		out |= kv.NoTLS
	}
	return out
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return kv.NewEngineError(op, classify(err), err)
}

func classify(err error) kv.Kind {
	switch {
	case mdbx.IsNotFound(err):
		return kv.KindNotFound
	case mdbx.IsKeyExist(err):
		return kv.KindKeyExist
	case mdbx.IsMapFull(err):
		return kv.KindMapFull
	case mdbx.IsMapResized(err):
		return kv.KindMapResized
	case mdbx.IsReadersFull(err):
		return kv.KindReadersFull
	case os.IsNotExist(err):
		return kv.KindIO
	default:
		return kv.KindOther
	}
}
