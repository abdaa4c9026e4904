package memkv

import (
	"bytes"

	"github.com/erigontech/mdbxkv/kv"
)

// Cursor is the memkv implementation of kv.RawCursor. It tracks the current
// row (by key) and, for DupSort tables, the current duplicate value within
// that row's value set.
type Cursor struct {
	tx *Txn
	t  *table

	positioned bool
	key        []byte
	dupVal     []byte
	haveDup    bool
}

func (c *Cursor) setRow(r row, ok bool) (k, v []byte, found bool, err error) {
	if !ok {
		c.positioned = false
		return nil, nil, false, nil
	}
	c.positioned = true
	c.key = r.key
	if c.t.dupSort() {
		first, ok2 := r.dups.Min()
		c.dupVal = first
		c.haveDup = ok2
		return r.key, first, ok2, nil
	}
	c.haveDup = false
	return r.key, r.val, true, nil
}

func (c *Cursor) currentRow() (row, bool) {
	if !c.positioned {
		return row{}, false
	}
	return c.t.rows.Get(row{key: c.key})
}

func (c *Cursor) First() (k, v []byte, ok bool, err error) {
	r, found := c.t.firstKey()
	return c.setRow(r, found)
}

func (c *Cursor) Last() (k, v []byte, ok bool, err error) {
	r, found := c.t.lastKey()
	if !found {
		c.positioned = false
		return nil, nil, false, nil
	}
	c.positioned = true
	c.key = r.key
	if c.t.dupSort() {
		last, ok2 := r.dups.Max()
		c.dupVal = last
		c.haveDup = ok2
		return r.key, last, ok2, nil
	}
	return r.key, r.val, true, nil
}

func (c *Cursor) Next() (k, v []byte, ok bool, err error) {
	if !c.positioned {
		return c.First()
	}
	if c.t.dupSort() && c.haveDup {
		if k2, v2, ok2, err2 := c.NextDup(); ok2 {
			return k2, v2, ok2, err2
		}
	}
	r, found := c.t.nextKey(c.key)
	return c.setRow(r, found)
}

func (c *Cursor) Prev() (k, v []byte, ok bool, err error) {
	if !c.positioned {
		return c.Last()
	}
	if c.t.dupSort() && c.haveDup {
		if k2, v2, ok2, err2 := c.PrevDup(); ok2 {
			return k2, v2, ok2, err2
		}
	}
	r, found := c.t.prevKey(c.key)
	if !found {
		c.positioned = false
		return nil, nil, false, nil
	}
	c.positioned = true
	c.key = r.key
	if c.t.dupSort() {
		last, ok2 := r.dups.Max()
		c.dupVal = last
		c.haveDup = ok2
		return r.key, last, ok2, nil
	}
	return r.key, r.val, true, nil
}

func (c *Cursor) Current() (k, v []byte, ok bool, err error) {
	r, found := c.currentRow()
	if !found {
		return nil, nil, false, nil
	}
	if c.t.dupSort() {
		if !c.haveDup {
			return nil, nil, false, nil
		}
		return r.key, c.dupVal, true, nil
	}
	return r.key, r.val, true, nil
}

func (c *Cursor) SeekGE(seek []byte) (k, v []byte, ok bool, err error) {
	r, found := c.t.nextKeyInclusive(seek)
	return c.setRow(r, found)
}

func (c *Cursor) Count() (uint64, error) { return uint64(c.t.rows.Len()), nil }

func (c *Cursor) Close() {}

func (c *Cursor) Put(k, v []byte, flags kv.PutFlag) error {
	if c.tx.readOnly {
		return kv.NewEngineError("mdbx_cursor_put", kv.KindBadTxn, nil)
	}
	dbi := c.tx.env.lookupOrAllocDBI(c.t.name)
	if err := c.tx.Put(dbi, k, v, flags); err != nil {
		return err
	}
	c.positioned = true
	c.key = append([]byte(nil), k...)
	c.dupVal = append([]byte(nil), v...)
	c.haveDup = true
	return nil
}

func (c *Cursor) PutReserve(k []byte, n int, flags kv.PutFlag) ([]byte, error) {
	if c.tx.readOnly {
		return nil, kv.NewEngineError("mdbx_cursor_put_reserve", kv.KindBadTxn, nil)
	}
	dbi := c.tx.env.lookupOrAllocDBI(c.t.name)
	buf, err := c.tx.PutReserve(dbi, k, n, flags)
	if err != nil {
		return nil, err
	}
	c.positioned = true
	c.key = append([]byte(nil), k...)
	return buf, nil
}

func (c *Cursor) DeleteCurrent() error {
	if c.tx.readOnly {
		return kv.NewEngineError("mdbx_cursor_del", kv.KindBadTxn, nil)
	}
	if !c.positioned {
		return kv.NewEngineError("mdbx_cursor_del", kv.KindInvalid, nil)
	}
	if c.t.dupSort() && c.haveDup {
		dbi := c.tx.env.lookupOrAllocDBI(c.t.name)
		_, err := c.tx.Delete(dbi, c.key, c.dupVal)
		return err
	}
	dbi := c.tx.env.lookupOrAllocDBI(c.t.name)
	_, err := c.tx.Delete(dbi, c.key, nil)
	return err
}

func (c *Cursor) FirstDup() (v []byte, ok bool, err error) {
	r, found := c.currentRow()
	if !found || !c.t.dupSort() {
		return nil, false, kv.ErrNotSupported
	}
	v, ok = r.dups.Min()
	c.dupVal, c.haveDup = v, ok
	return v, ok, nil
}

func (c *Cursor) LastDup() (v []byte, ok bool, err error) {
	r, found := c.currentRow()
	if !found || !c.t.dupSort() {
		return nil, false, kv.ErrNotSupported
	}
	v, ok = r.dups.Max()
	c.dupVal, c.haveDup = v, ok
	return v, ok, nil
}

func (c *Cursor) NextDup() (k, v []byte, ok bool, err error) {
	if !c.t.dupSort() {
		return nil, nil, false, kv.ErrNotSupported
	}
	r, found := c.currentRow()
	if !found || !c.haveDup {
		return nil, nil, false, nil
	}
	var next []byte
	nfound := false
	r.dups.Ascend(c.dupVal, func(item []byte) bool {
		if bytes.Compare(item, c.dupVal) <= 0 {
			return true
		}
		next = item
		nfound = true
		return false
	})
	if !nfound {
		return nil, nil, false, nil
	}
	c.dupVal, c.haveDup = next, true
	return c.key, next, true, nil
}

func (c *Cursor) PrevDup() (k, v []byte, ok bool, err error) {
	if !c.t.dupSort() {
		return nil, nil, false, kv.ErrNotSupported
	}
	r, found := c.currentRow()
	if !found || !c.haveDup {
		return nil, nil, false, nil
	}
	var prev []byte
	pfound := false
	r.dups.Descend(c.dupVal, func(item []byte) bool {
		if bytes.Compare(item, c.dupVal) >= 0 {
			return true
		}
		prev = item
		pfound = true
		return false
	})
	if !pfound {
		return nil, nil, false, nil
	}
	c.dupVal, c.haveDup = prev, true
	return c.key, prev, true, nil
}

func (c *Cursor) NextNoDup() (k, v []byte, ok bool, err error) {
	r, found := c.t.nextKey(c.key)
	return c.setRow(r, found)
}

func (c *Cursor) PrevNoDup() (k, v []byte, ok bool, err error) {
	r, found := c.t.prevKey(c.key)
	if !found {
		c.positioned = false
		return nil, nil, false, nil
	}
	c.positioned = true
	c.key = r.key
	if c.t.dupSort() {
		last, ok2 := r.dups.Max()
		c.dupVal = last
		c.haveDup = ok2
		return r.key, last, ok2, nil
	}
	return r.key, r.val, true, nil
}

func (c *Cursor) SeekBothRange(key, value []byte) (v []byte, ok bool, err error) {
	if !c.t.dupSort() {
		return nil, false, kv.ErrNotSupported
	}
	r, found := c.t.rows.Get(row{key: key})
	if !found {
		c.positioned = false
		return nil, false, nil
	}
	var next []byte
	nfound := false
	r.dups.Ascend(value, func(item []byte) bool {
		next = item
		nfound = true
		return false
	})
	c.positioned = true
	c.key = r.key
	c.dupVal, c.haveDup = next, nfound
	return next, nfound, nil
}

func (c *Cursor) SeekBothExact(key, value []byte) (k, v []byte, ok bool, err error) {
	if !c.t.dupSort() {
		return nil, nil, false, kv.ErrNotSupported
	}
	r, found := c.t.rows.Get(row{key: key})
	if !found {
		c.positioned = false
		return nil, nil, false, nil
	}
	got, exists := r.dups.Get(value)
	if !exists {
		c.positioned = false
		return nil, nil, false, nil
	}
	c.positioned = true
	c.key = r.key
	c.dupVal, c.haveDup = got, true
	return r.key, got, true, nil
}

func (c *Cursor) CountDuplicates() (uint64, error) {
	r, found := c.currentRow()
	if !found || !c.t.dupSort() {
		return 0, kv.ErrNotSupported
	}
	return uint64(r.dups.Len()), nil
}

func (c *Cursor) DeleteCurrentDuplicates() error {
	if c.tx.readOnly {
		return kv.NewEngineError("mdbx_cursor_del", kv.KindBadTxn, nil)
	}
	if !c.positioned || !c.t.dupSort() {
		return kv.ErrNotSupported
	}
	c.t.rows.Delete(row{key: c.key})
	c.haveDup = false
	return nil
}

func (c *Cursor) PutNoDupData(key, value []byte) error {
	return c.Put(key, value, kv.NoDupData)
}

// nextKeyInclusive returns the first row with key >= seek, used by SeekGE.
func (t *table) nextKeyInclusive(seek []byte) (row, bool) {
	var next row
	found := false
	t.rows.AscendGreaterOrEqual(row{key: seek}, func(item row) bool {
		next = item
		found = true
		return false
	})
	return next, found
}
