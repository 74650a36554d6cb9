//go:build amd64 || 386

package jitload

// x86 keeps instruction and data caches coherent, so there is nothing to do.
func cacheflush(buf []byte) {}
