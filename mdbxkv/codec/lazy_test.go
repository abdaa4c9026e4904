package codec

import "testing"

// countingDecoder counts how many times Decode actually runs, so a test can
// observe that skipping Lazy.Decode() truly skips the decode work.
type countingDecoder struct {
	calls *int
	inner Codec[uint32]
}

func (d countingDecoder) EncodeTo(v uint32) ([]byte, error) { return d.inner.EncodeTo(v) }

func (d countingDecoder) Decode(b []byte) (uint32, error) {
	*d.calls++
	return d.inner.Decode(b)
}

// Scenario D: iterating with a Lazy-wrapped value yields a token without
// decoding; only calling .Decode() runs the wrapped decoder.
func TestLazy_DecodeIsSkippedUntilCalled(t *testing.T) {
	calls := 0
	counted := countingDecoder{calls: &calls, inner: U32{}}
	lc := LazyCodec[uint32]{Inner: counted}

	raw, err := U32{}.EncodeTo(42)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	lazy, err := lc.Decode(raw)
	if err != nil {
		t.Fatalf("lazy decode: %v", err)
	}
	if calls != 0 {
		t.Fatalf("wrapping in Lazy ran the decoder eagerly: calls=%d", calls)
	}

	v, err := lazy.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
	if calls != 1 {
		t.Fatalf("calls=%d, want exactly 1", calls)
	}
}

func TestLazy_RawReturnsUndecodedBytes(t *testing.T) {
	raw, _ := U32{}.EncodeTo(7)
	lazy := NewLazy[uint32](raw, U32{})
	got := lazy.Raw()
	if len(got) != 4 || got[3] != 7 {
		t.Fatalf("Raw() = %v, want encoding of 7", got)
	}
}

func TestLazy_RemapBindsDifferentDecoder(t *testing.T) {
	raw, _ := U32{}.EncodeTo(7)
	lazy := NewLazy[uint32](raw, U32{})
	remapped := Remap[uint32, uint32](lazy, U32{Order: LittleEndian})
	v, err := remapped.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v != 7<<24 {
		t.Fatalf("remapped decode under a different byte order should reinterpret the same bytes, got %d", v)
	}
}
