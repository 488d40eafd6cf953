package koans

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"digital.vasic.koans/pkg/koan"
	"digital.vasic.koans/pkg/scope"
)

// TopicWithStatements is the topic of the WithStatements suite.
const TopicWithStatements = "with_statements"

var containsE = regexp.MustCompile("e")

// CountLines counts the lines of the named file. Release is
// written out by hand with defer.
func CountLines(opener scope.Opener, name string) (n int, err error) {
	f, err := opener(name)
	if err != nil {
		return 0, setupError(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			n, err = 0, setupError(fmt.Errorf("release: %w", cerr))
		}
	}()

	n, err = countLines(f)
	if err != nil {
		return 0, setupError(err)
	}
	return n, nil
}

// FindLine returns the first line of the named file that
// contains "e", including its trailing newline.
func FindLine(opener scope.Opener, name string) (string, bool, error) {
	return FindLineMatching(opener, name, containsE)
}

// FindLineMatching returns the first line matching re. Release
// is written out by hand with defer.
func FindLineMatching(
	opener scope.Opener,
	name string,
	re *regexp.Regexp,
) (line string, found bool, err error) {
	f, err := opener(name)
	if err != nil {
		return "", false, setupError(err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			line, found = "", false
			err = setupError(fmt.Errorf("release: %w", cerr))
		}
	}()

	line, found, err = firstMatch(f, re)
	if err != nil {
		return "", false, setupError(err)
	}
	return line, found, nil
}

// CountLines2 counts lines inside a FileContext.
func CountLines2(opener scope.Opener, name string) (int, error) {
	var n int
	err := scope.NewFileContext(name, opener).Do(func(r io.Reader) error {
		var err error
		n, err = countLines(r)
		return err
	})
	if err != nil {
		return 0, setupError(err)
	}
	return n, nil
}

// FindLine2 finds the first line containing "e" inside a
// FileContext, returning from the middle of the body.
func FindLine2(opener scope.Opener, name string) (string, bool, error) {
	var (
		line  string
		found bool
	)
	err := scope.NewFileContext(name, opener).Do(func(r io.Reader) error {
		var err error
		line, found, err = firstMatch(r, containsE)
		return err
	})
	if err != nil {
		return "", false, setupError(err)
	}
	return line, found, nil
}

// CountLines3 relies on scope.ReadFile, the built-in scoped
// acquisition for files.
func CountLines3(opener scope.Opener, name string) (int, error) {
	var n int
	err := scope.ReadFile(opener, name, func(r io.Reader) error {
		var err error
		n, err = countLines(r)
		return err
	})
	if err != nil {
		return 0, setupError(err)
	}
	return n, nil
}

// WithStatements returns the koans about scoped acquisition.
// Every case reads fixture through opener; a nil opener reads
// from the local filesystem.
func WithStatements(fixture string, opener scope.Opener) *koan.Suite {
	if opener == nil {
		opener = scope.OS
	}

	return koan.NewSuite(
		TopicWithStatements,
		"resources are released on every path",
	).MustAdd(
		koan.New("counting_lines", 4,
			func(context.Context) (any, error) {
				return CountLines(opener, fixture)
			},
		),
		koan.New("finding_lines", "test\n",
			func(context.Context) (any, error) {
				line, _, err := FindLine(opener, fixture)
				return line, err
			},
		),
		koan.New("counting_lines2", 4,
			func(context.Context) (any, error) {
				return CountLines2(opener, fixture)
			},
		),
		koan.New("finding_lines2", "test\n",
			func(context.Context) (any, error) {
				line, _, err := FindLine2(opener, fixture)
				return line, err
			},
		),
		koan.New("finding_lines2_finds_something", true,
			func(context.Context) (any, error) {
				_, found, err := FindLine2(opener, fixture)
				return found, err
			},
		),
		koan.New("open_already_has_its_own_scope", 4,
			func(context.Context) (any, error) {
				return CountLines3(opener, fixture)
			},
		),
	)
}

func countLines(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
	}
	return n, sc.Err()
}

func firstMatch(r io.Reader, re *regexp.Regexp) (string, bool, error) {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" && re.MatchString(line) {
			return line, true, nil
		}
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
	}
}

// setupError marks an I/O failure on a committed fixture.
func setupError(err error) error {
	return fmt.Errorf("%w: %w", koan.ErrSetup, err)
}
