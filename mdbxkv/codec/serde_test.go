package codec

import "testing"

type widget struct {
	Name  string
	Count int
}

func TestCBOR_RoundTripsStruct(t *testing.T) {
	c := CBOR[widget]{}
	b, err := c.EncodeTo(widget{Name: "bolt", Count: 5})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(b)
	if err != nil || got != (widget{Name: "bolt", Count: 5}) {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestJSON_RoundTripsStruct(t *testing.T) {
	c := JSON[widget]{}
	b, err := c.EncodeTo(widget{Name: "nut", Count: 2})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(b)
	if err != nil || got != (widget{Name: "nut", Count: 2}) {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestJSON_RejectsMalformedInput(t *testing.T) {
	if _, err := (JSON[widget]{}).Decode([]byte("not json")); err == nil {
		t.Fatal("expected malformed JSON to be rejected")
	}
}
