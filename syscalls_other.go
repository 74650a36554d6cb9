//go:build !unix && !windows

package jitload

import "errors"

// osMapper has no executable memory to hand out on this platform.
type osMapper struct{}

func (osMapper) Map(int, protection) ([]byte, error) { return nil, errors.ErrUnsupported }

func (osMapper) Protect([]byte, protection) error { return errors.ErrUnsupported }

func (osMapper) Unmap([]byte) error { return errors.ErrUnsupported }
