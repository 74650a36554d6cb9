package jitload

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var (
	// ErrAllocationFailed is returned when the OS refuses to provide an
	// executable region. No code has run when it is returned.
	ErrAllocationFailed = errors.New("allocation failed")

	// ErrEmptyCode is returned for a zero-length buffer.
	ErrEmptyCode = errors.New("empty code")
)

type protection int

const (
	protRWX protection = iota
	protRW
	protRX
)

// mapper owns the OS side of a region.
type mapper interface {
	Map(size int, prot protection) ([]byte, error)
	Protect(region []byte, prot protection) error
	Unmap(region []byte) error
}

// Loader runs machine code in a fresh region per call. A Loader has no
// mutable state after New, so concurrent calls each get their own region.
type Loader struct {
	cfg    Config
	log    *zap.Logger
	mapper mapper
	call   func([]byte)
}

// Option configures a Loader.
type Option func(*Loader)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(l *Loader) {
		l.cfg = cfg
	}
}

// WithPageSize overrides the allocation granularity. New rounds it up to a
// multiple of the OS page size.
func WithPageSize(n int) Option {
	return func(l *Loader) {
		l.cfg.PageSize = n
	}
}

// WithWriteXorExecute never leaves a region writable and executable at the
// same time.
func WithWriteXorExecute() Option {
	return func(l *Loader) {
		l.cfg.WriteXorExecute = true
	}
}

// WithLogger logs every state of a load cycle at debug level.
func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}

// New returns a Loader using DefaultConfig unless options say otherwise.
func New(opts ...Option) *Loader {
	l := &Loader{
		cfg:    DefaultConfig(),
		log:    zap.NewNop(),
		mapper: osMapper{},
		call:   callRegion,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.cfg.PageSize = alignPageSize(l.cfg.PageSize, PageSize())
	return l
}

// alignPageSize returns the smallest multiple of osPage that is at least n.
// Anything else would map a different size than the region records.
func alignPageSize(n, osPage int) int {
	if n <= 0 {
		return osPage
	}
	return RegionSize(n, osPage)
}

// Config returns the configuration in effect.
func (l *Loader) Config() Config {
	return l.cfg
}

// Run executes buf. See Exec.
func (l *Loader) Run(buf *CodeBuffer) error {
	return l.Exec(buf.Bytes())
}

// Exec copies code into a new region, calls its first byte as a func() and
// unmaps the region once the call returns. The region is released on every
// path that allocated it, including panics.
//
// The code runs with the full privileges of the process and must end in a
// normal return. Exec cannot recover from a fault inside it.
func (l *Loader) Exec(code []byte) (err error) {
	if len(code) == 0 {
		return ErrEmptyCode
	}

	size := RegionSize(len(code), l.cfg.PageSize)
	log := l.log.With(zap.Int("code_len", len(code)), zap.Int("size", size))
	log.Debug("load cycle", zap.Stringer("state", stateSized))

	prot := protRWX
	if l.cfg.WriteXorExecute {
		prot = protRW
	}

	region, err := l.mapper.Map(size, prot)
	if err != nil {
		log.Warn("load cycle", zap.Stringer("state", stateFailed), zap.Error(err))
		return fmt.Errorf("%w: mapping %d bytes: %w", ErrAllocationFailed, size, err)
	}
	log.Debug("load cycle", zap.Stringer("state", stateAllocated))

	defer func() {
		uerr := l.mapper.Unmap(region)
		if uerr != nil {
			log.Warn("load cycle", zap.Stringer("state", stateFailed), zap.Error(uerr))
			err = multierr.Append(err, fmt.Errorf("releasing region: %w", uerr))
			return
		}
		log.Debug("load cycle", zap.Stringer("state", stateReleased))
	}()

	copy(region, code)

	if l.cfg.WriteXorExecute {
		err = l.mapper.Protect(region, protRX)
		if err != nil {
			log.Warn("load cycle", zap.Stringer("state", stateFailed), zap.Error(err))
			return fmt.Errorf("%w: protecting region: %w", ErrAllocationFailed, err)
		}
	}

	cacheflush(region[:len(code)])
	log.Debug("load cycle", zap.Stringer("state", statePopulated))

	log.Debug("load cycle", zap.Stringer("state", stateExecuting))
	l.call(region)

	return nil
}
