package codec

// Bytes is the identity codec: values pass through unchanged. Decode
// returns a slice that aliases the engine's buffer, so callers must copy it
// (via append([]byte(nil), v...)) before the owning transaction ends.
type Bytes struct{}

func (Bytes) EncodeTo(v []byte) ([]byte, error) { return v, nil }
func (Bytes) Decode(b []byte) ([]byte, error)   { return b, nil }

// OwnedBytes is Bytes but Decode always returns a fresh copy, for callers
// that want to retain the value past the transaction's lifetime without
// managing the copy themselves.
type OwnedBytes struct{}

func (OwnedBytes) EncodeTo(v []byte) ([]byte, error) { return v, nil }

func (OwnedBytes) Decode(b []byte) ([]byte, error) {
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
