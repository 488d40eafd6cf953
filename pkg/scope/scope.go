// Package scope implements scoped acquisition: a resource is
// opened, handed to a body, and released on every exit path,
// whether the body returns normally, returns early with an
// error, or panics.
package scope

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// Opener opens a named resource for reading.
type Opener func(name string) (io.ReadCloser, error)

// OS opens files from the local filesystem.
func OS(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// With acquires a resource with open, runs body with it and
// releases it afterwards. A release error is reported only when
// the body itself succeeded.
func With[R io.Closer](
	open func() (R, error),
	body func(R) error,
) (err error) {
	r, err := open()
	if err != nil {
		return errors.Wrap(err, "acquire")
	}
	defer func() {
		if cerr := r.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "release")
		}
	}()
	return body(r)
}

// Use is With for bodies that produce a value.
func Use[R io.Closer, T any](
	open func() (R, error),
	body func(R) (T, error),
) (T, error) {
	var out T
	err := With(open, func(r R) error {
		var berr error
		out, berr = body(r)
		return berr
	})
	return out, err
}

// ReadFile opens name with opener and runs body against the
// open file.
func ReadFile(
	opener Opener,
	name string,
	body func(io.Reader) error,
) error {
	if opener == nil {
		opener = OS
	}
	return With(
		func() (io.ReadCloser, error) { return opener(name) },
		func(rc io.ReadCloser) error { return body(rc) },
	)
}

// FileContext is an explicit enter/exit manager for a file.
// Enter opens the file; Exit closes it. Callers pair them with
// defer so the file is released on every path.
type FileContext struct {
	name   string
	opener Opener
	file   io.ReadCloser
}

// NewFileContext creates a manager for name. A nil opener means
// OS.
func NewFileContext(name string, opener Opener) *FileContext {
	if opener == nil {
		opener = OS
	}
	return &FileContext{name: name, opener: opener}
}

// Enter opens the file and returns it.
func (fc *FileContext) Enter() (io.Reader, error) {
	if fc.file != nil {
		return nil, errors.Errorf("%s: already entered", fc.name)
	}
	f, err := fc.opener(fc.name)
	if err != nil {
		return nil, errors.Wrapf(err, "enter %s", fc.name)
	}
	fc.file = f
	return f, nil
}

// Exit closes the file if it is open. It is safe to call more
// than once and after a failed Enter.
func (fc *FileContext) Exit() error {
	if fc.file == nil {
		return nil
	}
	f := fc.file
	fc.file = nil
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "exit %s", fc.name)
	}
	return nil
}

// Do runs body inside the context: Enter, body, Exit.
func (fc *FileContext) Do(body func(io.Reader) error) (err error) {
	r, err := fc.Enter()
	if err != nil {
		return err
	}
	defer func() {
		if xerr := fc.Exit(); xerr != nil && err == nil {
			err = xerr
		}
	}()
	return body(r)
}
