package codec

import "testing"

func TestUnitCodec_RejectsNonEmptyBytes(t *testing.T) {
	if _, err := (UnitCodec{}).Decode([]byte{1}); err == nil {
		t.Fatal("expected a non-empty slice to be rejected")
	}
}

func TestDecodeIgnore_AcceptsAnything(t *testing.T) {
	if _, err := (DecodeIgnore{}).Decode([]byte{1, 2, 3}); err != nil {
		t.Fatalf("DecodeIgnore should never fail: %v", err)
	}
}
