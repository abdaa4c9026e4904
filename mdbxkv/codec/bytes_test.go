package codec

import "testing"

func TestBytes_DecodeAliasesInput(t *testing.T) {
	src := []byte{1, 2, 3}
	got, err := (Bytes{}).Decode(src)
	if err != nil {
		t.Fatal(err)
	}
	src[0] = 9
	if got[0] != 9 {
		t.Fatal("Bytes.Decode should alias its input, not copy it")
	}
}

func TestOwnedBytes_DecodeCopiesInput(t *testing.T) {
	src := []byte{1, 2, 3}
	got, err := (OwnedBytes{}).Decode(src)
	if err != nil {
		t.Fatal(err)
	}
	src[0] = 9
	if got[0] == 9 {
		t.Fatal("OwnedBytes.Decode should copy its input, not alias it")
	}
}
