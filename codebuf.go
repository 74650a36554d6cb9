package jitload

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrValueOutOfRange is returned when a value does not fit the field
	// it is patched into.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrOffsetOutOfRange is returned when a 4-byte field would not lie
	// entirely inside the instruction prefix.
	ErrOffsetOutOfRange = errors.New("offset out of range")
)

const fieldSize = 4

// CodeBuffer is a fixed instruction prefix followed by a data payload. The
// payload length lives in a 4-byte little-endian field at PatchOffset inside
// the prefix.
//
// The prefix is trusted. CodeBuffer only does offset arithmetic and never
// looks at what the instructions mean.
type CodeBuffer struct {
	prefix      []byte
	patchOffset int
	payload     []byte
}

// NewCodeBuffer returns a buffer with a copy of prefix. The four bytes at
// patchOffset are reserved for the payload length.
func NewCodeBuffer(prefix []byte, patchOffset int) (*CodeBuffer, error) {
	if err := checkField(len(prefix), patchOffset); err != nil {
		return nil, err
	}

	b := &CodeBuffer{
		prefix:      make([]byte, len(prefix)),
		patchOffset: patchOffset,
	}
	copy(b.prefix, prefix)
	return b, nil
}

func checkField(prefixLen, offset int) error {
	if offset < 0 || offset > prefixLen-fieldSize {
		return fmt.Errorf("%w: field at %d does not fit a %d byte prefix", ErrOffsetOutOfRange, offset, prefixLen)
	}
	return nil
}

// PatchUint32 overwrites the four prefix bytes at offset with v, least
// significant byte first.
func (b *CodeBuffer) PatchUint32(offset int, v uint32) error {
	if err := checkField(len(b.prefix), offset); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b.prefix[offset:], v)
	return nil
}

// Uint32 reads the little-endian field at offset.
func (b *CodeBuffer) Uint32(offset int) (uint32, error) {
	if err := checkField(len(b.prefix), offset); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b.prefix[offset:]), nil
}

// SetPayload records len(payload) in the length field and replaces the
// payload with a copy of payload. Slices returned by earlier Payload calls
// keep the old payload. On error the buffer is unchanged.
func (b *CodeBuffer) SetPayload(payload []byte) error {
	if err := checkLength(len(payload)); err != nil {
		return err
	}

	b.payload = append([]byte(nil), payload...)
	return b.PatchUint32(b.patchOffset, uint32(len(payload)))
}

func checkLength(n int) error {
	if uint64(n) > math.MaxUint32 {
		return fmt.Errorf("%w: payload length %d exceeds %d", ErrValueOutOfRange, n, uint64(math.MaxUint32))
	}
	return nil
}

// Bytes returns the prefix followed by the payload in a new slice.
func (b *CodeBuffer) Bytes() []byte {
	code := make([]byte, 0, b.Len())
	code = append(code, b.prefix...)
	return append(code, b.payload...)
}

// Len is the total length of the code, prefix and payload.
func (b *CodeBuffer) Len() int { return len(b.prefix) + len(b.payload) }

// PrefixLen is the length of the instruction prefix, which is also the
// offset of the payload.
func (b *CodeBuffer) PrefixLen() int { return len(b.prefix) }

// PatchOffset is the offset of the payload length field.
func (b *CodeBuffer) PatchOffset() int { return b.patchOffset }

// Payload returns the current payload. The caller must not modify it.
func (b *CodeBuffer) Payload() []byte { return b.payload }
