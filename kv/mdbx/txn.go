package mdbx

import (
	"fmt"
	"os"

	"github.com/erigontech/mdbx-go/mdbx"

	"github.com/erigontech/mdbxkv/kv"
)

// Txn adapts *mdbx.Txn to kv.RawTxn.
type Txn struct {
	txn      *mdbx.Txn
	readOnly bool
}

func (t *Txn) ID() uint64    { return uint64(t.txn.ID()) }
func (t *Txn) ReadOnly() bool { return t.readOnly }

func (t *Txn) OpenDBI(name string, flags kv.DBFlag, cmp kv.Comparator) (kv.RawDBI, error) {
	cflags := toMdbxDBFlags(flags)
	dbi, err := t.txn.OpenDBI(name, cflags, wrapCmp(cmp), nil)
	if err != nil {
		return 0, wrap("mdbx_dbi_open", err)
	}
	return kv.RawDBI(dbi), nil
}

func (t *Txn) DropDBI(dbi kv.RawDBI, del bool) error {
	return wrap("mdbx_drop", t.txn.Drop(mdbx.DBI(dbi), del))
}

func (t *Txn) DBIFlags(dbi kv.RawDBI) (kv.DBFlag, error) {
	f, _, err := t.txn.Flags(mdbx.DBI(dbi))
	if err != nil {
		return 0, wrap("mdbx_dbi_flags", err)
	}
	return fromMdbxDBFlags(f), nil
}

func (t *Txn) DBIStat(dbi kv.RawDBI) (kv.Stat, error) {
	s, err := t.txn.StatDBI(mdbx.DBI(dbi))
	if err != nil {
		return kv.Stat{}, wrap("mdbx_dbi_stat", err)
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

func (t *Txn) Get(dbi kv.RawDBI, key []byte) ([]byte, bool, error) {
	v, err := t.txn.Get(mdbx.DBI(dbi), key)
	if err != nil {
		if mdbx.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, wrap("mdbx_get", err)
	}
	return v, true, nil
}

func (t *Txn) Put(dbi kv.RawDBI, key, val []byte, flags kv.PutFlag) error {
	return wrap("mdbx_put", t.txn.Put(mdbx.DBI(dbi), key, val, toMdbxPutFlags(flags)))
}

func (t *Txn) PutReserve(dbi kv.RawDBI, key []byte, n int, flags kv.PutFlag) ([]byte, error) {
	buf, err := t.txn.PutReserve(mdbx.DBI(dbi), key, n, toMdbxPutFlags(flags)|mdbx.Reserve)
	if err != nil {
		return nil, wrap("mdbx_put_reserve", err)
	}
	return buf, nil
}

func (t *Txn) Delete(dbi kv.RawDBI, key, val []byte) (bool, error) {
	err := t.txn.Del(mdbx.DBI(dbi), key, val)
	if err != nil {
		if mdbx.IsNotFound(err) {
			return false, nil
		}
		return false, wrap("mdbx_del", err)
	}
	return true, nil
}

func (t *Txn) Sequence(dbi kv.RawDBI, incrementBy uint64) (uint64, error) {
	seq, err := t.txn.Sequence(mdbx.DBI(dbi), incrementBy)
	if err != nil {
		return 0, wrap("mdbx_dbi_sequence", err)
	}
	return seq, nil
}

func (t *Txn) Cursor(dbi kv.RawDBI) (kv.RawCursor, error) {
	c, err := t.txn.OpenCursor(mdbx.DBI(dbi))
	if err != nil {
		return nil, wrap("mdbx_cursor_open", err)
	}
	return &Cursor{c: c}, nil
}

func (t *Txn) Commit() error {
	_, err := t.txn.Commit()
	return wrap("mdbx_txn_commit", err)
}

func (t *Txn) Abort() { t.txn.Abort() }

func toMdbxDBFlags(f kv.DBFlag) uint {
	var out uint
	if f.Has(kv.ReverseKey) {
		out |= mdbx.ReverseKey
	}
	if f.Has(kv.DupSort) {
		out |= mdbx.DupSort
	}
	if f.Has(kv.IntegerKey) {
		out |= mdbx.IntegerKey
	}
	if f.Has(kv.DupFixed) {
		out |= mdbx.DupFixed
	}
	if f.Has(kv.IntegerDup) {
		out |= mdbx.IntegerDup
	}
	if f.Has(kv.ReverseDup) {
		out |= mdbx.ReverseDup
	}
	if f.Has(kv.Create) {
		out |= mdbx.Create
	}
	return out
}

func fromMdbxDBFlags(f uint) kv.DBFlag {
	var out kv.DBFlag
	if f&mdbx.ReverseKey != 0 {
		out |= kv.ReverseKey
	}
	if f&mdbx.DupSort != 0 {
		out |= kv.DupSort
	}
	if f&mdbx.IntegerKey != 0 {
		out |= kv.IntegerKey
	}
	if f&mdbx.DupFixed != 0 {
		out |= kv.DupFixed
	}
	if f&mdbx.IntegerDup != 0 {
		out |= kv.IntegerDup
	}
	if f&mdbx.ReverseDup != 0 {
		out |= kv.ReverseDup
	}
	return out
}

func toMdbxPutFlags(f kv.PutFlag) uint {
	var out uint
	if f.Has(kv.NoOverwrite) {
		out |= mdbx.NoOverwrite
	}
	if f.Has(kv.NoDupData) {
		out |= mdbx.NoDupData
	}
	if f.Has(kv.Current) {
		out |= mdbx.Current
	}
	if f.Has(kv.Append) {
		out |= mdbx.Append
	}
	if f.Has(kv.AppendDup) {
		out |= mdbx.AppendDup
	}
	return out
}

// wrapCmp adapts a kv.Comparator to the mdbx-go comparator signature. A
// panic inside fn must never unwind across the cgo call boundary back into
// libmdbx's C frames, so it is recovered here and turned into a process
// abort rather than a Go panic.
func wrapCmp(fn kv.Comparator) mdbx.CmpFunc {
	if fn == nil {
		return nil
	}
	return func(a, b []byte) int {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "mdbx: comparator panicked: %v\n", r)
				os.Exit(2)
			}
		}()
		return fn(a, b)
	}
}
