package jitload

// RegionSize returns the smallest multiple of pageSize that can hold n bytes.
// A zero length still gets one page.
func RegionSize(n, pageSize int) int {
	if pageSize <= 0 {
		panic("BUG: RegionSize with non-positive page size")
	}
	if n < 0 {
		panic("BUG: RegionSize with negative length")
	}
	if n == 0 {
		return pageSize
	}

	// Example: n=4097 with pageSize=4096 becomes 8192.
	return (n + pageSize - 1) / pageSize * pageSize
}
