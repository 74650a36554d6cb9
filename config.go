package jitload

import (
	"os"
	"sync"
)

var systemPageSize = sync.OnceValue(os.Getpagesize)

// PageSize is the OS page size. It is queried once per process.
func PageSize() int {
	return systemPageSize()
}

// Config controls how a Loader prepares regions.
type Config struct {
	// PageSize is the allocation granularity. Zero means PageSize(), other
	// values are rounded up to a multiple of it.
	PageSize int `toml:"page_size"`

	// WriteXorExecute maps regions read-write, copies the code and then
	// switches them to read-execute before the call. Otherwise regions are
	// read-write-execute for their whole lifetime.
	WriteXorExecute bool `toml:"write_xor_execute"`
}

// DefaultConfig returns a read-write-execute configuration with the OS page
// size.
func DefaultConfig() Config {
	return Config{PageSize: PageSize()}
}
