package registry

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.koans/pkg/koan"
)

func newSuite(topic string) *koan.Suite {
	return koan.NewSuite(topic, "about "+topic).MustAdd(
		koan.New(topic+"_case", 1, koan.Value(1)),
	)
}

func topicsOf(suites []*koan.Suite) []string {
	out := make([]string, len(suites))
	for i, s := range suites {
		out[i] = s.Topic
	}
	return out
}

func setupRegistry(t *testing.T, topics ...string) *DefaultRegistry {
	t.Helper()
	reg := NewRegistry()
	for _, topic := range topics {
		require.NoError(t, reg.Register(newSuite(topic)))
	}
	return reg
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := setupRegistry(t, "sets")

	s, err := reg.Get("sets")
	require.NoError(t, err)
	assert.Equal(t, "sets", s.Topic)
	assert.Equal(t, 1, reg.Count())

	_, err = reg.Get("tuples")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "suite not found: tuples")
}

func TestRegistry_RegisterRejectsInvalid(t *testing.T) {
	reg := setupRegistry(t, "sets")

	assert.Error(t, reg.Register(nil))
	assert.Error(t, reg.Register(koan.NewSuite("", "")))

	err := reg.Register(newSuite("sets"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_ListKeepsRegistrationOrder(t *testing.T) {
	reg := setupRegistry(t, "with_statements", "sets", "asserts")

	assert.Equal(t,
		[]string{"with_statements", "sets", "asserts"},
		topicsOf(reg.List()),
	)
	assert.Equal(t,
		[]string{"with_statements", "sets", "asserts"},
		reg.Topics(),
	)
}

func TestRegistry_Ordered(t *testing.T) {
	reg := setupRegistry(t, "a", "b", "c")

	suites, err := reg.Ordered([]string{"c", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, topicsOf(suites))

	_, err = reg.Ordered([]string{"a", "zz"})
	assert.Error(t, err)

	_, err = reg.Ordered([]string{"a", "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listed twice")
}

func TestRegistry_Clear(t *testing.T) {
	reg := setupRegistry(t, "a", "b")
	reg.Clear()

	assert.Equal(t, 0, reg.Count())
	assert.Empty(t, reg.List())
	require.NoError(t, reg.Register(newSuite("a")))
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for _, topic := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			_ = reg.Register(newSuite(topic))
		}(topic)
	}
	wg.Wait()

	assert.Equal(t, 4, reg.Count())
	assert.Len(t, reg.Topics(), 4)
}

func writePathFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "path.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPath(t *testing.T) {
	path := writePathFile(t, `
version: "1"
path:
  - sets
  - with_statements
skip:
  - with_statements
`)

	pf, err := LoadPath(path)
	require.NoError(t, err)
	assert.Equal(t, "1", pf.Version)
	assert.Equal(t, []string{"sets", "with_statements"}, pf.Path)
	assert.Equal(t, []string{"with_statements"}, pf.Skip)
}

func TestLoadPath_JSON(t *testing.T) {
	path := writePathFile(t, `{"version": "1", "path": ["sets"]}`)

	pf, err := LoadPath(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"sets"}, pf.Path)
}

func TestLoadPath_Errors(t *testing.T) {
	_, err := LoadPath("/nonexistent/path.yaml")
	assert.Error(t, err)

	_, err = LoadPath(writePathFile(t, "pathh: [sets]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse path file")
}

func TestParsePath_Empty(t *testing.T) {
	pf, err := ParsePath(nil, "empty")
	require.NoError(t, err)
	assert.Empty(t, pf.Path)
}

func TestResolve(t *testing.T) {
	reg := setupRegistry(t, "sets", "with_statements", "tuples")

	tests := []struct {
		name string
		pf   *PathFile
		want []string
	}{
		{"nil means all", nil, []string{"sets", "with_statements", "tuples"}},
		{"explicit order", &PathFile{Path: []string{"tuples", "sets"}}, []string{"tuples", "sets"}},
		{"skip only", &PathFile{Skip: []string{"sets"}}, []string{"with_statements", "tuples"}},
		{"order and skip", &PathFile{
			Path: []string{"with_statements", "sets"},
			Skip: []string{"with_statements"},
		}, []string{"sets"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suites, err := Resolve(reg, tt.pf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, topicsOf(suites))
		})
	}

	// Resolve must not reorder the registry itself.
	assert.Equal(t,
		[]string{"sets", "with_statements", "tuples"},
		reg.Topics(),
	)
}

func TestResolve_UnknownSkip(t *testing.T) {
	reg := setupRegistry(t, "sets")

	_, err := Resolve(reg, &PathFile{Skip: []string{"nope"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skip: suite not found")
}

func TestLoadOrdered(t *testing.T) {
	reg := setupRegistry(t, "sets", "with_statements")

	suites, err := LoadOrdered(reg, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"sets", "with_statements"}, topicsOf(suites))

	path := writePathFile(t, "path: [with_statements, sets]\n")
	suites, err = LoadOrdered(reg, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"with_statements", "sets"}, topicsOf(suites))

	_, err = LoadOrdered(reg, "/nonexistent.yaml")
	assert.Error(t, err)
}
