package memkv

import (
	"bytes"
	"sync/atomic"

	tbtree "github.com/tidwall/btree"

	"github.com/erigontech/mdbxkv/kv"
)

// Txn is the memkv implementation of kv.RawTxn. Write transactions work
// against a private clone of the committed table set and only become
// visible to other transactions when Commit swaps it into the Env.
type Txn struct {
	env      *Env
	readOnly bool
	id       uint64
	parent   *Txn
	tables   map[string]*table
	done     bool
}

func (tx *Txn) ID() uint64     { return tx.id }
func (tx *Txn) ReadOnly() bool { return tx.readOnly }

func (e *Env) lookupOrAllocDBI(name string) kv.RawDBI {
	e.namesMu.Lock()
	defer e.namesMu.Unlock()
	if id, ok := e.byName[name]; ok {
		return id
	}
	e.nextDBI++
	id := e.nextDBI
	e.byName[name] = id
	e.byDBI[id] = name
	return id
}

func (e *Env) nameFor(dbi kv.RawDBI) (string, error) {
	e.namesMu.Lock()
	defer e.namesMu.Unlock()
	name, ok := e.byDBI[dbi]
	if !ok {
		return "", kv.NewEngineError("mdbx_dbi", kv.KindInvalid, nil)
	}
	return name, nil
}

func (tx *Txn) tableFor(dbi kv.RawDBI) (*table, error) {
	name, err := tx.env.nameFor(dbi)
	if err != nil {
		return nil, err
	}
	t, ok := tx.tables[name]
	if !ok {
		return nil, kv.NewEngineError("mdbx_dbi", kv.KindBadTxn, nil)
	}
	return t, nil
}

func (tx *Txn) OpenDBI(name string, flags kv.DBFlag, cmp kv.Comparator) (kv.RawDBI, error) {
	dbi := tx.env.lookupOrAllocDBI(name)
	if _, ok := tx.tables[name]; !ok {
		if !flags.Has(kv.Create) {
			return 0, kv.NewEngineError("mdbx_dbi_open", kv.KindNotFound, nil)
		}
		if tx.readOnly {
			return 0, kv.NewEngineError("mdbx_dbi_open", kv.KindBadTxn, nil)
		}
		tx.tables[name] = newTable(name, flags, cmp)
	}
	return dbi, nil
}

func (tx *Txn) DropDBI(dbi kv.RawDBI, del bool) error {
	if tx.readOnly {
		return kv.NewEngineError("mdbx_drop", kv.KindBadTxn, nil)
	}
	name, err := tx.env.nameFor(dbi)
	if err != nil {
		return err
	}
	t, ok := tx.tables[name]
	if !ok {
		return nil
	}
	if del {
		delete(tx.tables, name)
	} else {
		tx.tables[name] = newTable(name, t.flags, t.cmp)
	}
	return nil
}

func (tx *Txn) DBIFlags(dbi kv.RawDBI) (kv.DBFlag, error) {
	t, err := tx.tableFor(dbi)
	if err != nil {
		return 0, err
	}
	return t.flags, nil
}

func (tx *Txn) DBIStat(dbi kv.RawDBI) (kv.Stat, error) {
	t, err := tx.tableFor(dbi)
	if err != nil {
		return kv.Stat{}, err
	}
	return kv.Stat{Entries: uint64(t.rows.Len())}, nil
}

func (tx *Txn) Get(dbi kv.RawDBI, key []byte) ([]byte, bool, error) {
	t, err := tx.tableFor(dbi)
	if err != nil {
		return nil, false, err
	}
	r, ok := t.rows.Get(row{key: key})
	if !ok {
		return nil, false, nil
	}
	if t.dupSort() {
		v, ok2 := r.dups.Min()
		return v, ok2, nil
	}
	return r.val, true, nil
}

func (tx *Txn) Put(dbi kv.RawDBI, key, val []byte, flags kv.PutFlag) error {
	if tx.readOnly {
		return kv.NewEngineError("mdbx_put", kv.KindBadTxn, nil)
	}
	t, err := tx.tableFor(dbi)
	if err != nil {
		return err
	}
	kc := append([]byte(nil), key...)
	vc := append([]byte(nil), val...)

	if t.dupSort() {
		r, ok := t.rows.Get(row{key: kc})
		if !ok {
			r = row{key: kc, dups: tbtree.NewBTreeG(dupLess)}
		} else {
			r.dups = r.dups.Copy()
		}
		if flags.Has(kv.NoDupData) {
			if _, exists := r.dups.Get(vc); exists {
				return kv.NewEngineError("mdbx_put", kv.KindKeyExist, nil)
			}
		}
		if flags.Has(kv.AppendDup) {
			if last, ok2 := r.dups.Max(); ok2 && bytes.Compare(vc, last) <= 0 {
				return kv.NewEngineError("mdbx_put", kv.KindInvalid, nil)
			}
		}
		r.dups.Set(vc)
		t.rows.ReplaceOrInsert(r)
		return nil
	}

	if flags.Has(kv.NoOverwrite) {
		if _, exists := t.rows.Get(row{key: kc}); exists {
			return kv.NewEngineError("mdbx_put", kv.KindKeyExist, nil)
		}
	}
	if flags.Has(kv.Append) {
		if last, ok2 := t.lastKey(); ok2 && bytes.Compare(kc, last.key) <= 0 {
			return kv.NewEngineError("mdbx_put", kv.KindInvalid, nil)
		}
	}
	t.rows.ReplaceOrInsert(row{key: kc, val: vc})
	return nil
}

func (tx *Txn) PutReserve(dbi kv.RawDBI, key []byte, n int, flags kv.PutFlag) ([]byte, error) {
	if tx.readOnly {
		return nil, kv.NewEngineError("mdbx_put_reserve", kv.KindBadTxn, nil)
	}
	t, err := tx.tableFor(dbi)
	if err != nil {
		return nil, err
	}
	if t.dupSort() {
		return nil, kv.ErrNotSupported
	}
	kc := append([]byte(nil), key...)
	buf := make([]byte, n)
	t.rows.ReplaceOrInsert(row{key: kc, val: buf})
	return buf, nil
}

func (tx *Txn) Delete(dbi kv.RawDBI, key, val []byte) (bool, error) {
	if tx.readOnly {
		return false, kv.NewEngineError("mdbx_del", kv.KindBadTxn, nil)
	}
	t, err := tx.tableFor(dbi)
	if err != nil {
		return false, err
	}
	r, ok := t.rows.Get(row{key: key})
	if !ok {
		return false, nil
	}
	if t.dupSort() && val != nil {
		r.dups = r.dups.Copy()
		_, existed := r.dups.Delete(val)
		if !existed {
			return false, nil
		}
		if r.dups.Len() == 0 {
			t.rows.Delete(row{key: key})
		} else {
			t.rows.ReplaceOrInsert(r)
		}
		return true, nil
	}
	t.rows.Delete(row{key: key})
	return true, nil
}

// Sequence is process-wide, not per-snapshot: unlike every other mutation
// here it is visible across concurrent transactions immediately, matching
// mdbx_dbi_sequence's counter semantics more closely than strict MVCC would.
func (tx *Txn) Sequence(dbi kv.RawDBI, incrementBy uint64) (uint64, error) {
	name, err := tx.env.nameFor(dbi)
	if err != nil {
		return 0, err
	}
	tx.env.seqMu.Lock()
	defer tx.env.seqMu.Unlock()
	cur := tx.env.seq[name]
	if incrementBy > 0 {
		tx.env.seq[name] = cur + incrementBy
	}
	return cur, nil
}

func (tx *Txn) Cursor(dbi kv.RawDBI) (kv.RawCursor, error) {
	t, err := tx.tableFor(dbi)
	if err != nil {
		return nil, err
	}
	return &Cursor{tx: tx, t: t}, nil
}

func (tx *Txn) Commit() error {
	if tx.done {
		return kv.NewEngineError("mdbx_txn_commit", kv.KindBadTxn, nil)
	}
	tx.done = true
	if tx.readOnly {
		return nil
	}
	if tx.parent != nil {
		tx.parent.tables = tx.tables
		return nil
	}
	tx.env.dataMu.Lock()
	tx.env.tables = tx.tables
	tx.env.dataMu.Unlock()
	tx.env.writerMu.Unlock()
	return nil
}

func (tx *Txn) Abort() {
	if tx.done {
		return
	}
	tx.done = true
	if !tx.readOnly && tx.parent == nil {
		tx.env.writerMu.Unlock()
	}
}

func nextTxnID(e *Env) uint64 { return atomic.AddUint64(&e.txnSeq, 1) }
