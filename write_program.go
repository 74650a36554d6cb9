package jitload

import (
	"fmt"
	"math"
)

// Offsets of the patchable immediates in the write program.
const (
	WriteFDOffset     = 10
	WriteLengthOffset = 24
)

// writePrefix is x86-64 Linux code that writes the bytes following it to a
// file descriptor and returns:
//
//	mov rax, 1        ; SYS_write
//	mov rdi, <fd>
//	lea rsi, [rip+10] ; first byte after RET
//	mov rdx, <len>
//	syscall
//	ret
var writePrefix = [...]byte{
	0x48, 0xc7, 0xc0, 0x01, 0x00, 0x00, 0x00,
	0x48, 0xc7, 0xc7, 0x00, 0x00, 0x00, 0x00,
	0x48, 0x8d, 0x35, 0x0a, 0x00, 0x00, 0x00,
	0x48, 0xc7, 0xc2, 0x00, 0x00, 0x00, 0x00,
	0x0f, 0x05,
	0xc3,
}

// WriteProgram returns a buffer that, when run on x86-64 Linux, writes msg to
// fd with a single write system call. Short writes are not retried.
func WriteProgram(fd int, msg []byte) (*CodeBuffer, error) {
	// The immediate is sign-extended to 64 bits.
	if fd < 0 || fd > math.MaxInt32 {
		return nil, fmt.Errorf("%w: file descriptor %d", ErrValueOutOfRange, fd)
	}

	buf, err := NewCodeBuffer(writePrefix[:], WriteLengthOffset)
	if err != nil {
		return nil, err
	}

	err = buf.PatchUint32(WriteFDOffset, uint32(fd))
	if err != nil {
		return nil, err
	}

	err = buf.SetPayload(msg)
	if err != nil {
		return nil, err
	}

	return buf, nil
}
