package codec

import (
	"encoding/binary"
	"fmt"
)

// BigEndian and LittleEndian select the byte order a fixed-width integer
// codec uses. Keys meant to sort numerically under the engine's default
// byte-lexicographic comparator must use BigEndian; LittleEndian is offered only for value columns.
type ByteOrder int

const (
	BigEndian ByteOrder = iota
	LittleEndian
)

func (o ByteOrder) impl() binary.ByteOrder {
	if o == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// U32 codes a uint32 in the given byte order, 4 bytes wide.
type U32 struct{ Order ByteOrder }

func (c U32) EncodeTo(v uint32) ([]byte, error) {
	buf := make([]byte, 4)
	c.Order.impl().PutUint32(buf, v)
	return buf, nil
}

func (c U32) Decode(b []byte) (uint32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("codec: U32: want 4 bytes, got %d", len(b))
	}
	return c.Order.impl().Uint32(b), nil
}

// U64 codes a uint64 in the given byte order, 8 bytes wide.
type U64 struct{ Order ByteOrder }

func (c U64) EncodeTo(v uint64) ([]byte, error) {
	buf := make([]byte, 8)
	c.Order.impl().PutUint64(buf, v)
	return buf, nil
}

func (c U64) Decode(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("codec: U64: want 8 bytes, got %d", len(b))
	}
	return c.Order.impl().Uint64(b), nil
}

// I32 codes an int32 as its two's-complement bit pattern with MinInt32
// added, so BigEndian byte-lexicographic order matches numeric order
// (heed's I32<BE> does the same sign-flip trick for db/integer_codec.rs).
type I32 struct{ Order ByteOrder }

func (c I32) EncodeTo(v int32) ([]byte, error) {
	buf := make([]byte, 4)
	c.Order.impl().PutUint32(buf, uint32(v)^0x8000_0000)
	return buf, nil
}

func (c I32) Decode(b []byte) (int32, error) {
	if len(b) != 4 {
		return 0, fmt.Errorf("codec: I32: want 4 bytes, got %d", len(b))
	}
	return int32(c.Order.impl().Uint32(b) ^ 0x8000_0000), nil
}

// I64 is I32's 8-byte counterpart.
type I64 struct{ Order ByteOrder }

func (c I64) EncodeTo(v int64) ([]byte, error) {
	buf := make([]byte, 8)
	c.Order.impl().PutUint64(buf, uint64(v)^0x8000_0000_0000_0000)
	return buf, nil
}

func (c I64) Decode(b []byte) (int64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("codec: I64: want 8 bytes, got %d", len(b))
	}
	return int64(c.Order.impl().Uint64(b) ^ 0x8000_0000_0000_0000), nil
}

// FixedWidth lets UniformDatabase[K, V] verify a codec always produces
// values of one known size without a per-put length check.
func (U32) FixedWidth() int { return 4 }
func (U64) FixedWidth() int { return 8 }
func (I32) FixedWidth() int { return 4 }
func (I64) FixedWidth() int { return 8 }
