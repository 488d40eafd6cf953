// Package koans holds the koan content: the suites a learner
// walks through, in the default order of the path to
// enlightenment.
package koans

import (
	"path/filepath"

	"digital.vasic.koans/pkg/koan"
	"digital.vasic.koans/pkg/registry"
	"digital.vasic.koans/pkg/scope"
)

// FixtureName is the input file of the scoped acquisition
// koans, relative to the fixtures directory.
const FixtureName = "example_file.txt"

// All returns every suite in the default order. Fixtures are
// read from fixturesDir through opener; a nil opener reads from
// the local filesystem.
func All(fixturesDir string, opener scope.Opener) []*koan.Suite {
	return []*koan.Suite{
		Sets(),
		WithStatements(filepath.Join(fixturesDir, FixtureName), opener),
	}
}

// Register adds every suite to reg in the default order.
func Register(
	reg registry.Registry,
	fixturesDir string,
	opener scope.Opener,
) error {
	for _, s := range All(fixturesDir, opener) {
		if err := reg.Register(s); err != nil {
			return err
		}
	}
	return nil
}
