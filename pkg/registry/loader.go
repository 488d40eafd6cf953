package registry

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"digital.vasic.koans/pkg/koan"
)

// PathFile is the on-disk path to enlightenment: the order in
// which topics are walked, and topics to leave out.
//
//	version: "1"
//	path:
//	  - sets
//	  - with_statements
//	skip:
//	  - with_statements
type PathFile struct {
	Version string   `yaml:"version"`
	Path    []string `yaml:"path"`
	Skip    []string `yaml:"skip"`
}

// LoadPath reads a YAML (or JSON) path file.
func LoadPath(path string) (*PathFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to read path file %s: %w", path, err,
		)
	}
	return ParsePath(data, path)
}

// ParsePath decodes a path file. Unknown keys are rejected so a
// typo does not silently reorder the path.
func ParsePath(data []byte, source string) (*PathFile, error) {
	var pf PathFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf(
			"failed to parse path file %s: %w", source, err,
		)
	}
	return &pf, nil
}

// Resolve returns the suites the path file selects. An empty
// path means every registered suite in registration order.
func Resolve(
	reg Registry,
	pf *PathFile,
) ([]*koan.Suite, error) {
	var suites []*koan.Suite
	if pf == nil || len(pf.Path) == 0 {
		suites = reg.List()
	} else {
		var err error
		suites, err = reg.Ordered(pf.Path)
		if err != nil {
			return nil, err
		}
	}
	if pf == nil || len(pf.Skip) == 0 {
		return suites, nil
	}

	skip := make(map[string]struct{}, len(pf.Skip))
	for _, topic := range pf.Skip {
		if _, err := reg.Get(topic); err != nil {
			return nil, fmt.Errorf("skip: %w", err)
		}
		skip[topic] = struct{}{}
	}

	out := suites[:0:0]
	for _, s := range suites {
		if _, skipped := skip[s.Topic]; !skipped {
			out = append(out, s)
		}
	}
	return out, nil
}

// LoadOrdered reads the path file at path and resolves it
// against reg. An empty path means registration order.
func LoadOrdered(reg Registry, path string) ([]*koan.Suite, error) {
	if path == "" {
		return reg.List(), nil
	}
	pf, err := LoadPath(path)
	if err != nil {
		return nil, err
	}
	return Resolve(reg, pf)
}
