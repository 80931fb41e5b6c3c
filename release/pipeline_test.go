package release

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExecutor struct {
	calls [][]string
	codes map[string]int
	err   error
}

func (f *fakeExecutor) Run(ctx context.Context, args ...string) (int, error) {
	f.calls = append(f.calls, args)
	if f.err != nil {
		return -1, f.err
	}
	return f.codes[args[0]], nil
}

func project(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "js/version.js", "const HARDGLITCH_VERSION = \"v2.3.4\";\n")
	writeFile(t, root, "js/main.js", "main")
	writeFile(t, root, "images/a.png", "a")
	writeFile(t, root, "index.html", "<html>")

	c := DefaultConfig()
	c.Root = root
	c.Files = []string{"js/", "images/", "index.html"}
	return c
}

func TestPipelineRun(t *testing.T) {
	c := project(t)
	exec := &fakeExecutor{}
	var logs bytes.Buffer

	p := &Pipeline{Config: c, Executor: exec, Logger: log.New(&logs, "", 0)}
	r, err := p.Run(context.Background())
	require.NoError(t, err)

	archive := filepath.Join(c.Root, "hardglitch-v2.3.4.zip")
	assert.Equal(t, "v2.3.4", r.Version)
	assert.Equal(t, "klaim/hardglitch:web", r.Target)
	assert.Equal(t, archive, r.Archive.Path)
	assert.Equal(t, []string{"js/main.js", "js/version.js", "images/a.png", "index.html"}, r.Archive.Members)

	assert.Equal(t, [][]string{
		{"push", archive, "klaim/hardglitch:web", "--userversion", "v2.3.4"},
		{"status", "klaim/hardglitch:web"},
	}, exec.calls)

	_, err = os.Stat(archive)
	assert.NoError(t, err)
	assert.Contains(t, logs.String(), "version: v2.3.4")
	assert.Contains(t, logs.String(), "archiving: images/a.png")
	assert.Contains(t, logs.String(), "push command: butler push "+archive)
	assert.Contains(t, logs.String(), "all done!")
}

func TestPipelineOutputDir(t *testing.T) {
	c := project(t)
	c.OutputDir = "dist"
	require.NoError(t, os.Mkdir(filepath.Join(c.Root, "dist"), 0755))

	p := &Pipeline{Config: c, Executor: &fakeExecutor{}}
	r, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(c.Root, "dist", "hardglitch-v2.3.4.zip"), r.Archive.Path)
}

func TestPipelineLenientContinues(t *testing.T) {
	c := project(t)
	exec := &fakeExecutor{codes: map[string]int{"push": 1}}

	p := &Pipeline{Config: c, Executor: exec}
	r, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, r.PushCode)
	assert.Equal(t, 0, r.StatusCode)
	require.Len(t, exec.calls, 2)
	assert.Equal(t, "status", exec.calls[1][0])
}

func TestPipelineStrictStops(t *testing.T) {
	c := project(t)
	c.Strict = true
	exec := &fakeExecutor{codes: map[string]int{"push": 2}}

	p := &Pipeline{Config: c, Executor: exec}
	r, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExternalTool))
	assert.Equal(t, 2, r.PushCode)
	assert.Equal(t, NotRun, r.StatusCode)
	assert.Len(t, exec.calls, 1)
}

func TestPipelineStrictRecordsSkippedStatus(t *testing.T) {
	c := project(t)
	c.Strict = true
	l, err := OpenLedger(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer l.Close()

	p := &Pipeline{Config: c, Executor: &fakeExecutor{codes: map[string]int{"push": 1}}, Ledger: l}
	_, err = p.Run(context.Background())
	require.True(t, errors.Is(err, ErrExternalTool))

	records, err := l.History("hardglitch")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].PushCode)
	assert.Equal(t, NotRun, records[0].StatusCode)
}

func TestPipelineStrictStatusFailure(t *testing.T) {
	c := project(t)
	c.Strict = true

	p := &Pipeline{Config: c, Executor: &fakeExecutor{codes: map[string]int{"status": 1}}}
	_, err := p.Run(context.Background())
	assert.True(t, errors.Is(err, ErrExternalTool))
}

func TestPipelineToolMissing(t *testing.T) {
	c := project(t)
	exec := &fakeExecutor{err: errors.New("executable file not found")}

	p := &Pipeline{Config: c, Executor: exec}
	_, err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "release: push:"))
	assert.Len(t, exec.calls, 1)
}

func TestPipelineVersionNotFound(t *testing.T) {
	c := project(t)
	writeFile(t, c.Root, "js/version.js", "// nothing yet\n")
	exec := &fakeExecutor{}

	p := &Pipeline{Config: c, Executor: exec}
	_, err := p.Run(context.Background())
	assert.True(t, errors.Is(err, ErrVersionNotFound))
	assert.Empty(t, exec.calls)

	matches, err := filepath.Glob(filepath.Join(c.Root, "*.zip"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPipelineMissingResource(t *testing.T) {
	c := project(t)
	c.Files = append(c.Files, "fonts/")
	exec := &fakeExecutor{}

	p := &Pipeline{Config: c, Executor: exec}
	_, err := p.Run(context.Background())
	assert.True(t, errors.Is(err, ErrMissingResource))
	assert.Empty(t, exec.calls)

	_, err = os.Stat(filepath.Join(c.Root, "hardglitch-v2.3.4.zip"))
	assert.True(t, os.IsNotExist(err))
}

func TestPipelineInvalidConfig(t *testing.T) {
	c := project(t)
	c.Project = ""

	p := &Pipeline{Config: c, Executor: &fakeExecutor{}}
	_, err := p.Run(context.Background())
	assert.Error(t, err)
}

func TestPipelineRecordsLedger(t *testing.T) {
	c := project(t)
	l, err := OpenLedger(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	defer l.Close()

	p := &Pipeline{Config: c, Executor: &fakeExecutor{codes: map[string]int{"push": 1}}, Ledger: l}
	r, err := p.Run(context.Background())
	require.NoError(t, err)

	records, err := l.History("hardglitch")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "v2.3.4", records[0].Version)
	assert.Equal(t, r.Archive.SHA1, records[0].SHA1)
	assert.Equal(t, 4, records[0].Members)
	assert.Equal(t, 1, records[0].PushCode)
}

func TestExecExecutor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}

	var out bytes.Buffer
	e := &ExecExecutor{Tool: "sh", Stdout: &out}

	code, err := e.Run(context.Background(), "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello\n", out.String())

	code, err = e.Run(context.Background(), "-c", "exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, code)

	e.Tool = filepath.Join(t.TempDir(), "no-such-tool")
	code, err = e.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, -1, code)
}
