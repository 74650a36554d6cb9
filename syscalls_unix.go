//go:build unix

package jitload

import "golang.org/x/sys/unix"

func (p protection) flags() int {
	switch p {
	case protRW:
		return unix.PROT_READ | unix.PROT_WRITE
	case protRX:
		return unix.PROT_READ | unix.PROT_EXEC
	default:
		return unix.PROT_READ | unix.PROT_WRITE | unix.PROT_EXEC
	}
}

// osMapper maps anonymous private memory with mmap.
type osMapper struct{}

func (osMapper) Map(size int, prot protection) ([]byte, error) {
	return unix.Mmap(-1, 0, size, prot.flags(), unix.MAP_PRIVATE|unix.MAP_ANON)
}

func (osMapper) Protect(region []byte, prot protection) error {
	return unix.Mprotect(region, prot.flags())
}

func (osMapper) Unmap(region []byte) error {
	return unix.Munmap(region)
}
