package codec

import "testing"

func TestStr_RejectsInvalidUTF8(t *testing.T) {
	_, err := (Str{}).Decode([]byte{0xff, 0xfe})
	if err == nil {
		t.Fatal("expected invalid UTF-8 to be rejected")
	}
}

func TestStr_RoundTripsASCII(t *testing.T) {
	b, err := (Str{}).EncodeTo("hello")
	if err != nil {
		t.Fatal(err)
	}
	got, err := (Str{}).Decode(b)
	if err != nil || got != "hello" {
		t.Fatalf("got %q, %v, want %q, nil", got, err, "hello")
	}
}
