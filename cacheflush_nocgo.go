//go:build !amd64 && !386 && !cgo

package jitload

// arm64, riscv64, ppc64 and loong64 need an explicit instruction cache flush
// before running code written to a region, and that needs a C compiler.
// Install one and build with CGO_ENABLED=1.
func cacheflush(buf []byte) {
	non_x86_requires_cgo_for_instruction_cache_flushing()
}
