package codec

import (
	"bytes"
	"testing"
)

// I32's sign-flip trick exists so byte-lexicographic order (what the
// engine's default comparator uses) matches numeric order across the
// negative/positive boundary; this is the property worth testing, not a
// round-trip grid.
func TestI32_ByteOrderMatchesNumericOrder(t *testing.T) {
	c := I32{}
	neg, err := c.EncodeTo(-1)
	if err != nil {
		t.Fatal(err)
	}
	zero, err := c.EncodeTo(0)
	if err != nil {
		t.Fatal(err)
	}
	pos, err := c.EncodeTo(1)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Compare(neg, zero) >= 0 {
		t.Fatalf("encode(-1) must sort before encode(0): %x >= %x", neg, zero)
	}
	if bytes.Compare(zero, pos) >= 0 {
		t.Fatalf("encode(0) must sort before encode(1): %x >= %x", zero, pos)
	}

	minVal, _ := c.EncodeTo(MinInt32)
	maxVal, _ := c.EncodeTo(MaxInt32)
	if bytes.Compare(minVal, neg) >= 0 {
		t.Fatalf("encode(MinInt32) must sort before encode(-1)")
	}
	if bytes.Compare(pos, maxVal) >= 0 {
		t.Fatalf("encode(MaxInt32) must sort after encode(1)")
	}

	got, err := c.Decode(neg)
	if err != nil || got != -1 {
		t.Fatalf("decode(encode(-1)) = %d, %v, want -1, nil", got, err)
	}
}

func TestI64_ByteOrderMatchesNumericOrder(t *testing.T) {
	c := I64{}
	neg, _ := c.EncodeTo(-1)
	pos, _ := c.EncodeTo(1)
	if bytes.Compare(neg, pos) >= 0 {
		t.Fatalf("encode(-1) must sort before encode(1)")
	}
	got, err := c.Decode(pos)
	if err != nil || got != 1 {
		t.Fatalf("decode(encode(1)) = %d, %v, want 1, nil", got, err)
	}
}

func TestU32_RejectsWrongLength(t *testing.T) {
	if _, err := (U32{}).Decode([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error decoding 3 bytes as a U32")
	}
}

func TestU64_BigEndianSortsNumerically(t *testing.T) {
	c := U64{}
	small, _ := c.EncodeTo(1)
	big, _ := c.EncodeTo(1 << 40)
	if bytes.Compare(small, big) >= 0 {
		t.Fatalf("BigEndian U64 encoding must preserve numeric order")
	}
}

func TestFixedWidth_MatchesEncodedLength(t *testing.T) {
	u32, _ := U32{}.EncodeTo(1)
	u64, _ := U64{}.EncodeTo(1)
	i32, _ := I32{}.EncodeTo(-1)
	i64, _ := I64{}.EncodeTo(-1)
	for _, tc := range []struct {
		name string
		fw   interface{ FixedWidth() int }
		enc  []byte
	}{
		{"U32", U32{}, u32},
		{"U64", U64{}, u64},
		{"I32", I32{}, i32},
		{"I64", I64{}, i64},
	} {
		if got := tc.fw.FixedWidth(); got != len(tc.enc) {
			t.Fatalf("%s.FixedWidth() = %d, want encoded length %d", tc.name, got, len(tc.enc))
		}
	}
}
