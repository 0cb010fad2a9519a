package manager

import (
	"errors"
	"fmt"
)

// ErrIO is wrapped by every IOError.
var ErrIO = errors.New("i/o error")

// mapNilErr is returned by Sync before any config has been loaded.
var mapNilErr = errors.New("no configuration loaded")

// IOError reports a filesystem failure while loading or saving a
// configuration file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}
