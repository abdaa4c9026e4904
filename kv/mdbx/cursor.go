package mdbx

import (
	"github.com/erigontech/mdbx-go/mdbx"

	"github.com/erigontech/mdbxkv/kv"
)

// Cursor adapts *mdbx.Cursor to kv.RawCursor. The mdbx-go cursor is a single
// "op-code + key + value" primitive (mirroring mdb_cursor_get); this file
// fans that one primitive out into the named methods kv.RawCursor expects.
type Cursor struct {
	c *mdbx.Cursor
}

func (cur *Cursor) get(op uint) (k, v []byte, ok bool, err error) {
	k, v, err = cur.c.Get(nil, nil, op)
	if err != nil {
		if mdbx.IsNotFound(err) {
			return nil, nil, false, nil
		}
		return nil, nil, false, wrap("mdbx_cursor_get", err)
	}
	return k, v, true, nil
}

func (cur *Cursor) First() (k, v []byte, ok bool, err error) { return cur.get(mdbx.First) }
func (cur *Cursor) Last() (k, v []byte, ok bool, err error)  { return cur.get(mdbx.Last) }
func (cur *Cursor) Next() (k, v []byte, ok bool, err error)  { return cur.get(mdbx.Next) }
func (cur *Cursor) Prev() (k, v []byte, ok bool, err error)  { return cur.get(mdbx.Prev) }
func (cur *Cursor) Current() (k, v []byte, ok bool, err error) {
	return cur.get(mdbx.GetCurrent)
}

func (cur *Cursor) SeekGE(seek []byte) (k, v []byte, ok bool, err error) {
	k, v, err = cur.c.Get(seek, nil, mdbx.SetRange)
	if err != nil {
		if mdbx.IsNotFound(err) {
			return nil, nil, false, nil
		}
		return nil, nil, false, wrap("mdbx_cursor_get", err)
	}
	return k, v, true, nil
}

func (cur *Cursor) Count() (uint64, error) {
	n, err := cur.c.Count()
	if err != nil {
		return 0, wrap("mdbx_cursor_count", err)
	}
	return n, nil
}

func (cur *Cursor) Close() { cur.c.Close() }

func (cur *Cursor) Put(k, v []byte, flags kv.PutFlag) error {
	return wrap("mdbx_cursor_put", cur.c.Put(k, v, toMdbxPutFlags(flags)))
}

func (cur *Cursor) PutReserve(k []byte, n int, flags kv.PutFlag) ([]byte, error) {
	buf, err := cur.c.PutReserve(k, n, toMdbxPutFlags(flags)|mdbx.Reserve)
	if err != nil {
		return nil, wrap("mdbx_cursor_put_reserve", err)
	}
	return buf, nil
}

func (cur *Cursor) DeleteCurrent() error {
	return wrap("mdbx_cursor_del", cur.c.Del(0))
}

func (cur *Cursor) FirstDup() (v []byte, ok bool, err error) {
	_, v, ok, err = cur.get(mdbx.FirstDup)
	return v, ok, err
}

func (cur *Cursor) LastDup() (v []byte, ok bool, err error) {
	_, v, ok, err = cur.get(mdbx.LastDup)
	return v, ok, err
}

func (cur *Cursor) NextDup() (k, v []byte, ok bool, err error)   { return cur.get(mdbx.NextDup) }
func (cur *Cursor) PrevDup() (k, v []byte, ok bool, err error)   { return cur.get(mdbx.PrevDup) }
func (cur *Cursor) NextNoDup() (k, v []byte, ok bool, err error) { return cur.get(mdbx.NextNoDup) }
func (cur *Cursor) PrevNoDup() (k, v []byte, ok bool, err error) { return cur.get(mdbx.PrevNoDup) }

func (cur *Cursor) SeekBothRange(key, value []byte) (v []byte, ok bool, err error) {
	_, v, err = cur.c.Get(key, value, mdbx.GetBothRange)
	if err != nil {
		if mdbx.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, wrap("mdbx_cursor_get", err)
	}
	return v, true, nil
}

func (cur *Cursor) SeekBothExact(key, value []byte) (k, v []byte, ok bool, err error) {
	k, v, err = cur.c.Get(key, value, mdbx.GetBoth)
	if err != nil {
		if mdbx.IsNotFound(err) {
			return nil, nil, false, nil
		}
		return nil, nil, false, wrap("mdbx_cursor_get", err)
	}
	return k, v, true, nil
}

func (cur *Cursor) CountDuplicates() (uint64, error) { return cur.Count() }

func (cur *Cursor) DeleteCurrentDuplicates() error {
	return wrap("mdbx_cursor_del", cur.c.Del(mdbx.AllDups))
}

func (cur *Cursor) PutNoDupData(key, value []byte) error {
	return wrap("mdbx_cursor_put", cur.c.Put(key, value, mdbx.NoDupData))
}
