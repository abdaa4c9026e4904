package codec

// Lazy retains a value's raw bytes without decoding them until Decode is
// called, for read paths that skip most of the rows they scan. The zero value is not useful; construct with NewLazy.
type Lazy[T any] struct {
	raw []byte
	dec Decoder[T]
}

func NewLazy[T any](raw []byte, dec Decoder[T]) Lazy[T] {
	return Lazy[T]{raw: raw, dec: dec}
}

// Raw returns the undecoded bytes, valid only for as long as the owning
// transaction's borrow would otherwise be.
func (l Lazy[T]) Raw() []byte { return l.raw }

// Decode runs the wrapped Decoder now.
func (l Lazy[T]) Decode() (T, error) { return l.dec.Decode(l.raw) }

// LazyCodec adapts an existing Decoder[T] (and, symmetrically, Encoder[T])
// into a Codec[Lazy[T]], so Database[K, Lazy[T]] can be used directly.
type LazyCodec[T any] struct {
	Inner Codec[T]
}

func (c LazyCodec[T]) EncodeTo(v Lazy[T]) ([]byte, error) {
	if v.raw != nil {
		return v.raw, nil
	}
	decoded, err := v.Decode()
	if err != nil {
		return nil, err
	}
	return c.Inner.EncodeTo(decoded)
}

func (c LazyCodec[T]) Decode(b []byte) (Lazy[T], error) {
	return NewLazy(b, c.Inner), nil
}

// Remap produces a Lazy value bound to a different decoder over the same
// raw bytes, the Go equivalent of heed's Lazy::remap::<NewCodec>().
func Remap[T, U any](l Lazy[T], dec Decoder[U]) Lazy[U] {
	return NewLazy(l.raw, dec)
}
