package nvcodec

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
)

// dynLib is one opened shared library.
type dynLib struct {
	id     libraryID
	path   string
	handle uintptr
}

// symbol binds an exported entry point to a pointer to a Go func.
// Optional symbols that cannot be resolved leave the func nil.
type symbol struct {
	name     string
	fn       any
	optional bool
}

// loadLibrary opens the first candidate path that loads. Every failed
// attempt is kept in the returned error.
func loadLibrary(id libraryID, cfg Config) (*dynLib, error) {
	var errs *multierror.Error
	for _, path := range libraryCandidates(id, cfg) {
		handle, err := openLibrary(path)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		return &dynLib{id: id, path: path, handle: handle}, nil
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, &LoadError{Library: id.String(), Err: err}
	}
	return nil, &LoadError{Library: id.String(), Err: errors.New("no candidate paths")}
}

func (l *dynLib) bind(symbols []symbol) error {
	for _, s := range symbols {
		addr, err := lookupSymbol(l.handle, s.name)
		if err != nil || addr == 0 {
			if s.optional {
				continue
			}
			return &LoadError{
				Library: l.id.String(),
				Err:     &EntryPointError{Library: l.id.String(), Symbol: s.name},
			}
		}
		purego.RegisterFunc(s.fn, addr)
	}
	return nil
}

func (l *dynLib) close() error {
	if l == nil || l.handle == 0 {
		return nil
	}
	err := closeLibrary(l.handle)
	l.handle = 0
	if err != nil {
		return fmt.Errorf("unable to unload %s: %w", l.path, err)
	}
	return nil
}

// library is the state every loader shares: the opened libraries, the
// diagnostic logger and a count of live resources that keep the libraries
// pinned.
type library struct {
	subsystem Subsystem
	log       logrus.FieldLogger
	libs      []*dynLib

	mu     sync.Mutex
	closed bool
	live   int
}

func newLibrary(s Subsystem, log logrus.FieldLogger, libs ...*dynLib) *library {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &library{
		subsystem: s,
		log:       log.WithField("subsystem", s.String()),
		libs:      libs,
	}
}

// acquire pins the library for a new resource.
func (l *library) acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrClosed
	}
	l.live++
	return nil
}

func (l *library) release() {
	l.mu.Lock()
	l.live--
	l.mu.Unlock()
}

// Close unloads the library. It fails with ErrLibraryInUse while any
// resource created through it is still open; closing twice is a no-op.
func (l *library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	if l.live > 0 {
		return fmt.Errorf("%w: %s has %d open resources", ErrLibraryInUse, l.subsystem, l.live)
	}
	l.closed = true

	var errs *multierror.Error
	for i := len(l.libs) - 1; i >= 0; i-- {
		errs = multierror.Append(errs, l.libs[i].close())
	}
	return errs.ErrorOrNil()
}

// unsupported reports an entry point that was not resolved.
func (l *library) unsupported(name string) error {
	return &EntryPointError{Library: l.subsystem.String(), Symbol: name}
}

func closeAll(libs []*dynLib) {
	for _, lib := range libs {
		_ = lib.close()
	}
}
