package mdbxkv

import "github.com/erigontech/mdbxkv/kv"

// advanceKey returns the lexicographically-next possible byte string after
// key, its strict successor: key with a zero byte appended. Range walks use
// it to turn an exclusive lower bound or an inclusive upper bound into a
// SeekGE target, and GetGreaterThan/GetLowerThanOrEqualTo seek with it.
func advanceKey(key []byte) []byte {
	out := append([]byte(nil), key...)
	return append(out, 0)
}

// retreatKey is advanceKey's inverse: decrement the last byte, or drop it
// if it is already zero. retreatKey(nil) is a caller bug (there is no byte
// string before the empty string) and panics, matching heed's debug_assert.
func retreatKey(key []byte) []byte {
	if len(key) == 0 {
		panic("mdbxkv: retreatKey of empty key")
	}
	out := append([]byte(nil), key...)
	last := len(out) - 1
	if out[last] == 0 {
		return out[:last]
	}
	out[last]--
	return out
}

// prefixUpperBound returns the exclusive upper bound on keys starting with
// prefix: prefix with its last non-0xFF byte incremented and everything
// after it truncated. Unlike advanceKey (the successor of one specific
// key, used to turn an inclusive bound exclusive), this is the successor
// of an entire prefix's keyspace — and when prefix is all 0xFF bytes (or
// empty) that keyspace has no finite upper bound, so the zero value
// (unset) is returned rather than advanceKey's appended zero byte, which
// would wrongly exclude the prefix's own 0xFF-tailed keys.
func prefixUpperBound(prefix []byte) bound {
	out := append([]byte(nil), prefix...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 0xFF {
			out[i]++
			return exclusiveBound(out[:i+1])
		}
	}
	return noBound()
}

// direction selects which way a cursor walk steps.
type direction int8

const (
	forward direction = iota
	reverse
)

// bound is an optional byte-string boundary; a nil bound means unbounded in
// that direction.
type bound struct {
	key       []byte
	inclusive bool
	set       bool
}

func noBound() bound { return bound{} }

func inclusiveBound(k []byte) bound { return bound{key: k, inclusive: true, set: true} }
func exclusiveBound(k []byte) bound { return bound{key: k, inclusive: false, set: true} }

// moveOperation selects how a walker's subsequent steps traverse a
// DupSort table's duplicate values, mirroring the engine's
// MoveOperation ∈ {NoDup, Dup, Any}. It has no effect on a non-DupSort table: NextNoDup/PrevNoDup
// behave identically to Next/Prev there.
type moveOperation int8

const (
	moveAny moveOperation = iota
	moveNoDup
)

// rawWalker is the single cursor-walk state machine every iterator shape in
// the façade (full, range, prefix; forward or reverse; over a RoTxn or
// RwTxn cursor) is built from.
type rawWalker struct {
	cur       kv.RawCursor
	dir       direction
	lowerOpen bound // first key allowed, walking forward
	upperOpen bound // first key disallowed, walking forward (exclusive)
	moveOp    moveOperation
	started   bool
	done      bool
}

func newRawWalker(cur kv.RawCursor, dir direction, lower, upper bound) *rawWalker {
	return &rawWalker{cur: cur, dir: dir, lowerOpen: lower, upperOpen: upper}
}

func (w *rawWalker) inBounds(key []byte) bool {
	if w.lowerOpen.set {
		cmp := compareBytes(key, w.lowerOpen.key)
		if w.lowerOpen.inclusive && cmp < 0 {
			return false
		}
		if !w.lowerOpen.inclusive && cmp <= 0 {
			return false
		}
	}
	if w.upperOpen.set {
		cmp := compareBytes(key, w.upperOpen.key)
		if w.upperOpen.inclusive && cmp > 0 {
			return false
		}
		if !w.upperOpen.inclusive && cmp >= 0 {
			return false
		}
	}
	return true
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Next advances the walker and returns the next (key, value) in bounds, or
// ok=false once the walk is exhausted.
func (w *rawWalker) Next() (k, v []byte, ok bool, err error) {
	if w.done {
		return nil, nil, false, nil
	}

	if !w.started {
		w.started = true
		k, v, ok, err = w.seekStart()
	} else if w.dir == forward {
		if w.moveOp == moveNoDup {
			k, v, ok, err = w.cur.NextNoDup()
		} else {
			k, v, ok, err = w.cur.Next()
		}
	} else {
		if w.moveOp == moveNoDup {
			k, v, ok, err = w.cur.PrevNoDup()
		} else {
			k, v, ok, err = w.cur.Prev()
		}
	}
	if err != nil || !ok {
		w.done = true
		return nil, nil, false, err
	}
	if !w.inBounds(k) {
		w.done = true
		return nil, nil, false, nil
	}
	return k, v, true, nil
}

// Last specializes the walk's terminal element without draining the rest of
// the sequence. On a not-yet-started walker it jumps straight to the
// terminal end (move_on_last for Fw,
// move_on_first for Rv) and applies the stop predicate. On an in-progress
// walker it captures the current key, jumps to the terminal end, and
// reports not-found if the two coincide (no further element exists beyond
// where the walk already was).
func (w *rawWalker) Last() (k, v []byte, ok bool, err error) {
	if w.done {
		return nil, nil, false, nil
	}

	var capturedKey []byte
	hadCaptured := false
	if w.started {
		ck, _, cok, cerr := w.cur.Current()
		if cerr != nil {
			w.done = true
			return nil, nil, false, cerr
		}
		if cok {
			capturedKey = append([]byte(nil), ck...)
			hadCaptured = true
		}
	}
	w.started = true

	if w.dir == forward {
		k, v, ok, err = w.cur.Last()
	} else {
		k, v, ok, err = w.cur.First()
	}
	if err != nil {
		w.done = true
		return nil, nil, false, err
	}
	if !ok {
		w.done = true
		return nil, nil, false, nil
	}
	if hadCaptured && compareBytes(k, capturedKey) == 0 {
		w.done = true
		return nil, nil, false, nil
	}
	w.done = true
	if !w.inBounds(k) {
		return nil, nil, false, nil
	}
	return k, v, true, nil
}

func (w *rawWalker) seekStart() (k, v []byte, ok bool, err error) {
	if w.dir == forward {
		if w.lowerOpen.set {
			seek := w.lowerOpen.key
			if !w.lowerOpen.inclusive {
				seek = advanceKey(seek)
			}
			return w.cur.SeekGE(seek)
		}
		return w.cur.First()
	}

	// reverse: position at the last key <= upper bound (or last overall).
	if w.upperOpen.set {
		seek := w.upperOpen.key
		if w.upperOpen.inclusive {
			seek = advanceKey(seek)
		}
		k, v, ok, err = w.cur.SeekGE(seek)
		if err != nil {
			return nil, nil, false, err
		}
		if ok {
			return w.cur.Prev()
		}
		return w.cur.Last()
	}
	return w.cur.Last()
}

func (w *rawWalker) Close() { w.cur.Close() }
