package koans

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.koans/pkg/koan"
	"digital.vasic.koans/pkg/registry"
	"digital.vasic.koans/pkg/runner"
	"digital.vasic.koans/pkg/scope"
	"digital.vasic.koans/pkg/scope/scopetest"
	"digital.vasic.koans/pkg/set"
)

var fixture = filepath.Join("testdata", FixtureName)

func memory(content string) scope.Opener {
	return func(string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

func TestSets_AllPass(t *testing.T) {
	results, err := runner.NewRunner().Run(context.Background(), Sets())
	require.NoError(t, err)

	for _, r := range results {
		assert.True(t, r.Passed(), "%s: %s", r.Case, r.Message)
	}
}

func TestSets_UniqueHighlanders(t *testing.T) {
	got := set.FromSlice(highlanders)

	assert.Equal(t, 4, got.Len())
	assert.True(t, got.Equal(
		set.Of("Malcolm", "Matunas", "MacLeod", "Ramirez"),
	))
}

func TestSets_CaseLocationsPointAtDeclarations(t *testing.T) {
	for _, c := range Sets().Cases {
		assert.True(t,
			strings.HasPrefix(c.Location, "sets.go:"),
			"%s declared at %q", c.Name, c.Location,
		)
	}
}

func TestWithStatements_AllPass(t *testing.T) {
	tracker := scopetest.NewTracker(nil)

	results, err := runner.NewRunner().Run(
		context.Background(),
		WithStatements(fixture, tracker.Open),
	)
	require.NoError(t, err)

	for _, r := range results {
		assert.True(t, r.Passed(), "%s: %s", r.Case, r.Message)
	}
	assert.Equal(t, 6, tracker.Opened())
	assert.Zero(t, tracker.Leaked())
}

func TestHelpers_CountLines(t *testing.T) {
	counters := map[string]func(opener scope.Opener, name string) (int, error){
		"explicit defer": CountLines,
		"file context":   CountLines2,
		"read file":      CountLines3,
	}

	for name, count := range counters {
		t.Run(name, func(t *testing.T) {
			tracker := scopetest.NewTracker(nil)

			n, err := count(tracker.Open, fixture)
			require.NoError(t, err)
			assert.Equal(t, 4, n)
			assert.Equal(t, 1, tracker.Opened())
			assert.Zero(t, tracker.Leaked())
		})
	}
}

func TestHelpers_FindLine(t *testing.T) {
	finders := map[string]func(opener scope.Opener, name string) (string, bool, error){
		"explicit defer": FindLine,
		"file context":   FindLine2,
	}

	for name, find := range finders {
		t.Run(name, func(t *testing.T) {
			tracker := scopetest.NewTracker(nil)

			line, found, err := find(tracker.Open, fixture)
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, "test\n", line)
			assert.Zero(t, tracker.Leaked())
		})
	}
}

func TestHelpers_NoMatchStillReleases(t *testing.T) {
	tracker := scopetest.NewTracker(memory("this\nis\na\nfact"))

	line, found, err := FindLine(tracker.Open, "in-memory")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, line)

	line, found, err = FindLine2(tracker.Open, "in-memory")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, line)

	_, found, err = FindLineMatching(
		tracker.Open, fixture, regexp.MustCompile("z"),
	)
	require.NoError(t, err)
	assert.False(t, found)

	assert.Equal(t, 3, tracker.Opened())
	assert.Zero(t, tracker.Leaked())
}

func TestHelpers_LastLineWithoutNewline(t *testing.T) {
	opener := memory("abc\nxyz\nhere")

	n, err := CountLines(opener, "in-memory")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	line, found, err := FindLine(opener, "in-memory")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "here", line)
}

func TestHelpers_ReleaseErrorIsSetupFailure(t *testing.T) {
	helpers := map[string]func(scope.Opener) (any, error){
		"CountLines": func(o scope.Opener) (any, error) {
			return CountLines(o, fixture)
		},
		"CountLines2": func(o scope.Opener) (any, error) {
			return CountLines2(o, fixture)
		},
		"CountLines3": func(o scope.Opener) (any, error) {
			return CountLines3(o, fixture)
		},
		"FindLine": func(o scope.Opener) (any, error) {
			line, _, err := FindLine(o, fixture)
			return line, err
		},
		"FindLine2": func(o scope.Opener) (any, error) {
			line, _, err := FindLine2(o, fixture)
			return line, err
		},
	}

	for name, helper := range helpers {
		t.Run(name, func(t *testing.T) {
			tracker := scopetest.NewTracker(nil)
			tracker.FailClose(errors.New("disk on fire"))

			got, err := helper(tracker.Open)
			require.Error(t, err)
			assert.ErrorIs(t, err, koan.ErrSetup)
			assert.Contains(t, err.Error(), "disk on fire")
			assert.Empty(t, got)
			assert.Equal(t, 1, tracker.Opened())
			assert.Zero(t, tracker.Leaked())
		})
	}
}

func TestWithStatements_MissingFixtureIsSetupFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), FixtureName)

	results, err := runner.NewRunner().Run(
		context.Background(), WithStatements(missing, nil),
	)
	require.NoError(t, err)

	for _, r := range results {
		assert.Equal(t, koan.KindSetup, r.Kind, r.Case)
		assert.Contains(t, r.Error, "should never happen")
	}
}

func TestAll_DefaultOrder(t *testing.T) {
	suites := All("testdata", nil)
	require.Len(t, suites, 2)
	assert.Equal(t, TopicSets, suites[0].Topic)
	assert.Equal(t, TopicWithStatements, suites[1].Topic)

	out, err := runner.NewRunner().RunAll(context.Background(), suites)
	require.NoError(t, err)
	assert.Nil(t, koan.FirstFailure(out))
}

func TestRegister(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, Register(reg, "testdata", nil))
	assert.Equal(t,
		[]string{TopicSets, TopicWithStatements},
		reg.Topics(),
	)

	assert.Error(t, Register(reg, "testdata", nil))
}
