package jitload

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// Disassemble returns an x86-64 listing of the instruction prefix, one
// instruction per line. The payload is data and is left out.
func (b *CodeBuffer) Disassemble() (string, error) {
	return disassemble(b.prefix)
}

func disassemble(code []byte) (string, error) {
	var buf bytes.Buffer

	for i := 0; i < len(code); {
		instruction, err := x86asm.Decode(code[i:], 64)
		if err != nil {
			return "", fmt.Errorf("decode error at offset %d: %w", i, err)
		}
		fmt.Fprintf(&buf, "0x%04x\t%-20s\t%s\n", i, hex.EncodeToString(code[i:i+instruction.Len]), x86asm.IntelSyntax(instruction, uint64(i), nil))

		i += instruction.Len
	}

	return buf.String(), nil
}
