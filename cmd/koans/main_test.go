package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digital.vasic.koans/pkg/koans"
)

const fixturesDir = "../../fixtures"

// syncBuffer is a bytes.Buffer safe for the watcher goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut syncBuffer
	a := newApp(&out, &errOut)
	a.workDir = t.TempDir()

	code := a.execute(context.Background(), args)
	return code, out.String(), errOut.String()
}

func TestRun_AllKoansPass(t *testing.T) {
	code, out, _ := runCLI(t, "--fixtures-dir", fixturesDir)

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "sets: sets keep values unique\n")
	assert.Contains(t, out, "  PASS set_union\n")
	assert.Contains(t, out, "  PASS counting_lines\n")
	assert.Contains(t, out, "Enlightenment reached.")
	assert.Contains(t, out, "21 of 21 koans passed\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestRun_StopsAtFirstFailure(t *testing.T) {
	code, out, _ := runCLI(t,
		"run", "--fixtures-dir", filepath.Join(t.TempDir(), "missing"),
	)

	assert.Equal(t, 1, code)
	assert.Contains(t, out, "  FAIL counting_lines (with_statements.go:")
	assert.Contains(t, out, "setup defect: should never happen")
	assert.NotContains(t, out, "finding_lines")
	assert.Contains(t, out, "Meditate on with_statements/counting_lines")
	assert.Contains(t, out, "15 of 21 koans passed\n")
}

func TestRun_CollectsEveryFailure(t *testing.T) {
	code, out, _ := runCLI(t,
		"--fixtures-dir", filepath.Join(t.TempDir(), "missing"),
		"--stop-on-first-failure=false",
	)

	assert.Equal(t, 1, code)
	assert.Equal(t, 6, strings.Count(out, "  FAIL "))
	assert.Contains(t, out, "Meditate on with_statements/counting_lines")
	assert.Contains(t, out, "15 of 21 koans passed\n")
}

func TestRun_JSONFormat(t *testing.T) {
	code, out, _ := runCLI(t,
		"--fixtures-dir", fixturesDir, "--format", "json",
	)
	require.Equal(t, 0, code)

	var raw map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &raw))
	assert.Equal(t, float64(21), raw["total"])
	assert.Equal(t, float64(21), raw["passed"])
}

func TestRun_PathFileSkipsTopics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "path.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"path: [sets, with_statements]\nskip: [with_statements]\n",
	), 0o644))

	code, out, _ := runCLI(t,
		"--fixtures-dir", filepath.Join(t.TempDir(), "missing"),
		"--path-file", path,
	)

	assert.Equal(t, 0, code)
	assert.NotContains(t, out, "with_statements")
	assert.Contains(t, out, "15 of 15 koans passed\n")
}

func TestRun_WritesSummary(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "summaries")

	code, _, _ := runCLI(t,
		"--fixtures-dir", fixturesDir, "--summary-dir", dir,
	)
	require.Equal(t, 0, code)

	_, err := os.Lstat(filepath.Join(dir, "latest_summary.md"))
	assert.NoError(t, err)
}

func TestRun_ConfigFileAndEnv(t *testing.T) {
	var out, errOut syncBuffer
	a := newApp(&out, &errOut)
	a.workDir = t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(a.workDir, ".koans.yaml"),
		[]byte("format: yaml\n"), 0o644,
	))
	t.Setenv("KOANS_FIXTURES_DIR", fixturesDir)

	code := a.execute(context.Background(), nil)

	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "total: 21\n")
}

func TestRun_ExplicitConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "koans.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"fixtures_dir: "+fixturesDir+"\nformat: json\n",
	), 0o644))

	code, out, _ := runCLI(t, "--config", path)

	require.Equal(t, 0, code)
	assert.Contains(t, out, `"total": 21`)
}

func TestRun_MissingConfigFile(t *testing.T) {
	code, _, errOut := runCLI(t,
		"--config", filepath.Join(t.TempDir(), "nope.yaml"),
	)

	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "reading config from")
}

func TestRun_InvalidFormat(t *testing.T) {
	code, _, errOut := runCLI(t, "--format", "html")

	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "format must be text, json or yaml")
}

func TestRun_LogFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "koans.log")

	code, _, _ := runCLI(t,
		"--fixtures-dir", fixturesDir,
		"--log-level", "debug", "--log-file", logFile,
	)
	require.Equal(t, 0, code)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"koan_passed"`)
}

func TestList(t *testing.T) {
	code, out, _ := runCLI(t, "list", "--cases")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "sets (15 koans)\n")
	assert.Contains(t, out, "with_statements (6 koans)\n")
	assert.Contains(t, out, "  set_symmetric_difference\n")
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version")

	assert.Equal(t, 0, code)
	assert.Equal(t, "koans version dev\n", out)
}

func TestWatch_HelpNamesCompiledKoans(t *testing.T) {
	code, out, _ := runCLI(t, "watch", "--help")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "compiled into this binary")
}

func TestWatch_RerunsOnChange(t *testing.T) {
	dir := t.TempDir()
	fixture := filepath.Join(dir, koans.FixtureName)
	require.NoError(t, os.WriteFile(fixture, []byte("this\nis\na\ntest\n"), 0o644))

	var out, errOut syncBuffer
	a := newApp(&out, &errOut)
	a.workDir = t.TempDir()
	a.watchReady = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan int, 1)
	go func() {
		done <- a.execute(ctx, []string{
			"watch", "--fixtures-dir", dir, "--debounce", "20ms",
		})
	}()

	select {
	case <-a.watchReady:
	case <-time.After(5 * time.Second):
		t.Fatal("watch mode did not start")
	}
	assert.Equal(t, 1, strings.Count(out.String(), "21 of 21 koans passed"))

	require.NoError(t, os.WriteFile(fixture, []byte("only\none\n"), 0o644))

	assert.Eventually(t, func() bool {
		return strings.Count(out.String(), "koans passed") >= 2
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "Meditate on with_statements/counting_lines")
	assert.GreaterOrEqual(t, a.metrics.RunTotal(), 2)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, 0, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watch mode did not stop")
	}
}
