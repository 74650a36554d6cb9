//go:build windows

package jitload

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func (p protection) flags() uint32 {
	switch p {
	case protRW:
		return windows.PAGE_READWRITE
	case protRX:
		return windows.PAGE_EXECUTE_READ
	default:
		return windows.PAGE_EXECUTE_READWRITE
	}
}

// osMapper commits private pages with VirtualAlloc.
type osMapper struct{}

func (osMapper) Map(size int, prot protection) ([]byte, error) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, prot.flags())
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), nil
}

func (osMapper) Protect(region []byte, prot protection) error {
	var oldFlags uint32
	return windows.VirtualProtect(regionAddr(region), uintptr(len(region)), prot.flags(), &oldFlags)
}

func (osMapper) Unmap(region []byte) error {
	// MEM_RELEASE requires a zero size and frees the whole reservation.
	return windows.VirtualFree(regionAddr(region), 0, windows.MEM_RELEASE)
}

func regionAddr(region []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(region)))
}
