package codec

import "fmt"

// Unit is a zero-byte marker value, for set-like databases whose keys carry
// all the information and whose value slot exists only because the engine
// requires one.
type Unit struct{}

// UnitCodec codes Unit as zero bytes, rejecting any non-empty slice on
// decode so a Database[K, Unit] can't silently accept stray data.
type UnitCodec struct{}

func (UnitCodec) EncodeTo(Unit) ([]byte, error) { return nil, nil }

func (UnitCodec) Decode(b []byte) (Unit, error) {
	if len(b) != 0 {
		return Unit{}, fmt.Errorf("codec: Unit: expected 0 bytes, got %d", len(b))
	}
	return Unit{}, nil
}

// DecodeIgnore decodes anything to Unit without inspecting it, for callers
// that only care whether a key exists (Database.Get against a
// Database[K, Unit] built with DecodeIgnore skips the cost of decoding a
// value they're about to discard).
type DecodeIgnore struct{}

func (DecodeIgnore) EncodeTo(Unit) ([]byte, error) { return nil, nil }
func (DecodeIgnore) Decode([]byte) (Unit, error)   { return Unit{}, nil }
