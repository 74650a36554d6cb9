// Load and run raw machine code
//
// A CodeBuffer holds an instruction prefix with a reserved little-endian
// length field followed by a data payload. A Loader maps a fresh page-aligned
// region, copies the buffer in, calls it as a func() and unmaps the region
// when it returns.
//
// Nothing about the bytes is checked. Bad code crashes the process.
//
// Limitations:
//   - WriteProgram only produces x86-64 Linux code
//   - Regions are read-write-execute unless WriteXorExecute is set
//   - The code must return normally with a plain RET
package jitload
