package codec

import "testing"

type point struct{ X, Y int32 }

func TestPod_RoundTripsStruct(t *testing.T) {
	c := Pod[point]{}
	b, err := c.EncodeTo(point{X: 3, Y: -4})
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != c.FixedWidth() {
		t.Fatalf("encoded length %d != FixedWidth() %d", len(b), c.FixedWidth())
	}
	got, err := c.Decode(b)
	if err != nil || got != (point{X: 3, Y: -4}) {
		t.Fatalf("got %+v, %v, want {3 -4}, nil", got, err)
	}
}

func TestPodSlice_RoundTripsBackToBack(t *testing.T) {
	c := PodSlice[int32]{}
	b, err := c.EncodeTo([]int32{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(b)
	if err != nil || len(got) != 3 || got[2] != 3 {
		t.Fatalf("got %v, %v, want [1 2 3], nil", got, err)
	}
}

func TestPodSlice_RejectsMisalignedLength(t *testing.T) {
	c := PodSlice[int32]{}
	if _, err := c.Decode([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected a length not divisible by the element size to be rejected")
	}
}

func TestPodSlice_DecodeAliasesAlignedInput(t *testing.T) {
	c := PodSlice[int32]{}
	b, err := c.EncodeTo([]int32{1, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	b[0] = 9
	if got[0] != 9 {
		t.Fatal("PodSlice.Decode should alias an aligned buffer, not copy it")
	}
}
