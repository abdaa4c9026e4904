// Package codec holds the pluggable (en|de)coders Database[K, V] is
// parameterized over, the Go equivalent of heed's BytesEncode/BytesDecode
// trait pair. Every codec here returns a borrowed slice where possible;
// callers that need the bytes to outlive the owning transaction must copy
// them.
package codec

// Encoder turns a typed value into its on-disk byte representation.
type Encoder[T any] interface {
	EncodeTo(v T) ([]byte, error)
}

// Decoder turns a stored byte slice back into a typed value. The slice is
// only valid for the lifetime the caller's transaction guarantees; a
// Decoder must not retain it past the call unless it copies.
type Decoder[T any] interface {
	Decode(b []byte) (T, error)
}

// Codec is the full encode/decode pair Database[K, V] requires of both its
// key and value type parameters.
type Codec[T any] interface {
	Encoder[T]
	Decoder[T]
}
