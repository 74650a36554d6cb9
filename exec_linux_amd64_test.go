package jitload

import (
	"bytes"
	"io"
	"os"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingMapper wraps the OS mapper to account for live regions.
type countingMapper struct {
	mapper
	live  int
	sizes []int
}

func (c *countingMapper) Map(size int, prot protection) ([]byte, error) {
	region, err := c.mapper.Map(size, prot)
	if err == nil {
		c.live++
		c.sizes = append(c.sizes, size)
	}
	return region, err
}

func (c *countingMapper) Unmap(region []byte) error {
	err := c.mapper.Unmap(region)
	if err == nil {
		c.live--
	}
	return err
}

func uintptrOf(region []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(region)))
}

// runWriteProgram runs the write program against a pipe and returns what
// it wrote.
func runWriteProgram(t *testing.T, l *Loader, msg []byte) []byte {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	buf, err := WriteProgram(int(w.Fd()), msg)
	require.NoError(t, err)

	err = l.Run(buf)
	w.Close()
	require.NoError(t, err)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return out
}

func TestExec_WriteProgram(t *testing.T) {
	cases := map[string]struct {
		opts []Option
		msg  []byte
	}{
		"rwx": {
			msg: []byte("asdf zuyt...?\n"),
		},
		"write xor execute": {
			opts: []Option{WithWriteXorExecute()},
			msg:  []byte("asdf zuyt...?\n"),
		},
		"empty payload": {
			msg: []byte{},
		},
		"payload spans pages": {
			msg: bytes.Repeat([]byte("0123456789abcdef"), 1000),
		},
		"binary payload": {
			msg: []byte{0, 1, 2, 0xc3, 0xcc, 0xff},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			counter := &countingMapper{mapper: osMapper{}}
			l := New(tc.opts...)
			l.mapper = counter

			out := runWriteProgram(t, l, tc.msg)
			assert.Equal(t, tc.msg, out)
			assert.Zero(t, counter.live)
		})
	}
}

func TestExec_UnalignedPageSize(t *testing.T) {
	assert := assert.New(t)

	counter := &countingMapper{mapper: osMapper{}}
	l := New(WithPageSize(6000))
	l.mapper = counter

	msg := []byte("aligned\n")
	assert.Equal(msg, runWriteProgram(t, l, msg))

	require.Len(t, counter.sizes, 1)
	assert.Zero(counter.sizes[0]%PageSize(), "mapped %d bytes", counter.sizes[0])
	assert.GreaterOrEqual(counter.sizes[0], 6000)
	assert.Zero(counter.live)
}

func TestExec_Repeated(t *testing.T) {
	l := New()

	for i := 0; i < 100; i++ {
		msg := bytes.Repeat([]byte{'a' + byte(i%26)}, i+1)
		assert.Equal(t, msg, runWriteProgram(t, l, msg))
	}
}

func TestExec_AllocationDenied(t *testing.T) {
	assert := assert.New(t)

	// No address space is large enough for a 4 PiB page.
	counter := &countingMapper{mapper: osMapper{}}
	l := New(WithPageSize(1 << 52))
	l.mapper = counter

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	buf, err := WriteProgram(int(w.Fd()), []byte("must not be written"))
	require.NoError(t, err)

	err = l.Run(buf)
	assert.ErrorIs(err, ErrAllocationFailed)
	assert.Zero(counter.live)

	w.Close()
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(out)
}

func TestOSMapper(t *testing.T) {
	assert := assert.New(t)

	var m osMapper
	size := RegionSize(1, PageSize())

	region, err := m.Map(size, protRW)
	require.NoError(t, err)
	assert.Len(region, size)
	assert.Zero(uintptrOf(region) % uintptr(PageSize()))

	copy(region, "data")
	assert.NoError(m.Protect(region, protRX))
	assert.Equal([]byte("data"), region[:4])

	assert.NoError(m.Unmap(region))
	assert.Error(m.Unmap(region), "double unmap should fail")
}
