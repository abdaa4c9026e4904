package codec

import (
	"fmt"
	"unsafe"
)

// Pod reinterprets a fixed-size, pointer-free value T as its raw memory
// representation with no copy on encode and no copy on decode when the
// engine's buffer happens to already be aligned for T; heed's
// UnalignedSlice/Pod codecs make the same trade for the same reason (page
// buffers are not guaranteed aligned, only byte-addressable).
//
// Callers are responsible for T being safe to reinterpret this way (no
// pointers, no padding that leaks uninitialized bytes across a process
// boundary). This mirrors the unsafe contract heed's own Pod-marker traits
// document but can't express as a Go type constraint.
type Pod[T any] struct{}

// EncodeTo aliases v's own backing memory instead of copying it into a
// fresh buffer: v escapes to the heap because the returned slice is derived
// from its address, but that is the same one allocation a copying
// implementation would also pay for the destination buffer, minus the
// copy() call.
func (Pod[T]) EncodeTo(v T) ([]byte, error) {
	size := int(unsafe.Sizeof(v))
	return unsafe.Slice((*byte)(unsafe.Pointer(&v)), size), nil
}

// Decode reinterprets b directly as a T when b's backing array already
// satisfies T's alignment, avoiding the copy into a local T entirely.
// Decoder[T] returns T by value, so this is the strongest borrowing
// Pod[T] can offer: the returned value is still a copy at the call-return
// boundary, but no intermediate buffer is allocated or filled. When b isn't
// aligned for T, a byte-by-byte copy is the only safe option (reading a
// misaligned *T directly faults on some architectures).
func (Pod[T]) Decode(b []byte) (T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(b) != size {
		return zero, fmt.Errorf("codec: Pod: want %d bytes, got %d", size, len(b))
	}
	if size == 0 {
		return zero, nil
	}
	if uintptr(unsafe.Pointer(&b[0]))%unsafe.Alignof(zero) == 0 {
		return *(*T)(unsafe.Pointer(&b[0])), nil
	}
	var out T
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&out)), size), b)
	return out, nil
}

func (Pod[T]) FixedWidth() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// PodSlice codes a []T of pod elements as their back-to-back byte
// representation, for UniformDatabase values that are small fixed arrays
// rather than scalars.
type PodSlice[T any] struct{}

// EncodeTo aliases v's backing array directly, the same way Bytes.EncodeTo
// does: v is already memory the caller owns, so there is nothing to copy.
func (PodSlice[T]) EncodeTo(v []T) ([]byte, error) {
	if len(v) == 0 {
		return nil, nil
	}
	elemSize := int(unsafe.Sizeof(v[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*elemSize), nil
}

// Decode reinterprets b as a []T in place when b's backing array is aligned
// for T, aliasing the engine's buffer the same way Bytes.Decode does (the
// same lifetime caveat applies: copy the result before the owning
// transaction ends if it must outlive it). Falls back to an element-by-
// element copy when alignment doesn't permit the direct cast.
func (PodSlice[T]) Decode(b []byte) ([]T, error) {
	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 || len(b)%elemSize != 0 {
		return nil, fmt.Errorf("codec: PodSlice: length %d is not a multiple of element size %d", len(b), elemSize)
	}
	n := len(b) / elemSize
	if n == 0 {
		return nil, nil
	}
	if uintptr(unsafe.Pointer(&b[0]))%unsafe.Alignof(zero) == 0 {
		return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n), nil
	}
	out := make([]T, n)
	copy(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(b)), b)
	return out, nil
}
