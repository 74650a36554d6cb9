package jitload

import (
	"runtime"
	"unsafe"
)

// callRegion jumps to the first byte of code as if it were a func() and
// returns when the code executes RET. Faults inside the code are fatal to the
// process.
//
// code must live in executable memory owned by the caller for the duration
// of the call.
func callRegion(code []byte) {
	// A func value points at a word holding the entry address, so build
	// that word and convince Go it's really a func().
	entry := unsafe.SliceData(code)
	ref := &entry
	fn := *(*func())(unsafe.Pointer(&ref))

	fn()

	runtime.KeepAlive(ref)
}
