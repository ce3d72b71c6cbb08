package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/paramhints/internal/debug"
	"github.com/standardbeagle/paramhints/internal/frontend"
	"github.com/standardbeagle/paramhints/internal/mcp"
	"github.com/standardbeagle/paramhints/internal/version"
	"github.com/standardbeagle/paramhints/internal/watch"
)

const appJava = `class App {
    void resize(int width, int height) {}
    void run() { resize(640, 480); }
}
`

// setupTestProject creates a project with one Java file under src/ and
// points HOME at an empty directory so no user config is picked up.
func setupTestProject(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "App.java"), []byte(appJava), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# demo\n"), 0o644))
	return root
}

func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.Run(append([]string{"paramhints"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestHintsCommand_Text(t *testing.T) {
	root := setupTestProject(t)
	file := filepath.Join(root, "src", "App.java")

	stdout, _, err := runApp(t, "--root", root, "hints", file)
	require.NoError(t, err)
	assert.Equal(t, "src/App.java:3:25: width\nsrc/App.java:3:30: height\n", stdout)
}

func TestHintsCommand_JSON(t *testing.T) {
	root := setupTestProject(t)
	file := filepath.Join(root, "src", "App.java")

	stdout, _, err := runApp(t, "--root", root, "--format", "json", "h", file)
	require.NoError(t, err)

	var got []frontend.FileResult
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "src/App.java", got[0].Path)
	assert.Equal(t, "java", got[0].Language)
	require.Len(t, got[0].Hints, 2)
	assert.Equal(t, frontend.Hint{Label: "width", Offset: 78, Line: 3, Column: 25}, got[0].Hints[0])
}

func TestHintsCommand_GoFile(t *testing.T) {
	root := setupTestProject(t)
	file := filepath.Join(root, "demo.go")
	src := "package demo\n\nfunc wait(seconds int) {}\n\nfunc run() { wait(30) }\n"
	require.NoError(t, os.WriteFile(file, []byte(src), 0o644))

	stdout, _, err := runApp(t, "--root", root, "hints", file)
	require.NoError(t, err)
	assert.Equal(t, "demo.go:5:19: seconds\n", stdout)
}

func TestHintsCommand_Errors(t *testing.T) {
	root := setupTestProject(t)

	_, _, err := runApp(t, "--root", root, "hints")
	assert.ErrorContains(t, err, "at least one file")

	stdout, stderr, err := runApp(t, "--root", root, "hints", filepath.Join(root, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, stderr, "skipping")
	assert.Empty(t, stdout)

	_, _, err = runApp(t, "--root", root, "hints", filepath.Join(root, "Missing.java"))
	assert.ErrorContains(t, err, "Missing.java")

	_, _, err = runApp(t, "--root", root, "--format", "yaml", "hints", filepath.Join(root, "src", "App.java"))
	assert.ErrorContains(t, err, "yaml")

	blob := filepath.Join(root, "src", "Blob.java")
	require.NoError(t, os.WriteFile(blob, []byte("class \x00\x00\x00"), 0o644))
	stdout, _, err = runApp(t, "--root", root, "hints", blob, filepath.Join(root, "src", "App.java"))
	assert.ErrorContains(t, err, "binary")
	assert.Contains(t, stdout, "src/App.java:3:25: width")
}

func TestScanCommand(t *testing.T) {
	root := setupTestProject(t)

	stdout, _, err := runApp(t, "--root", root, "scan")
	require.NoError(t, err)
	assert.Equal(t, "src/App.java:3:25: width\nsrc/App.java:3:30: height\n", stdout)

	stdout, _, err = runApp(t, "--root", root, "--exclude", "src/**", "scan")
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestScanCommand_JSON(t *testing.T) {
	root := setupTestProject(t)

	stdout, _, err := runApp(t, "-r", root, "-f", "json", "--workers", "2", "scan")
	require.NoError(t, err)

	var got mcp.ScanHintsResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, root, got.Root)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "src/App.java", got.Files[0].Path)
	assert.Empty(t, got.Errors)
}

func TestScanCommand_ConfigFile(t *testing.T) {
	root := setupTestProject(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "Other.java"), []byte(appJava), 0o644))
	cfgPath := filepath.Join(root, "custom.kdl")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`include "src/**"`+"\n"), 0o644))

	stdout, _, err := runApp(t, "--root", root, "--config", cfgPath, "scan")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "Other.java")
	assert.Contains(t, stdout, "src/App.java:3:25: width")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := runApp(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.FullInfo()+"\n", stdout)
}

func TestDebugStartupLine(t *testing.T) {
	t.Setenv("DEBUG", "1")
	var buf bytes.Buffer
	debug.SetDebugOutput(&buf)
	t.Cleanup(func() { debug.SetDebugOutput(nil) })

	_, _, err := runApp(t, "version")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[DEBUG] "+version.FullInfo())
	assert.Contains(t, buf.String(), `args=["version"]`)
}

func TestPrinterEvent(t *testing.T) {
	result := &frontend.FileResult{
		Path:     "src/App.java",
		Language: "java",
		Hints:    []frontend.Hint{{Label: "width", Offset: 78, Line: 3, Column: 25}},
	}

	var buf bytes.Buffer
	p := newPrinter(&buf, "text")
	p.event(watch.Event{Path: "src/App.java", Result: result})
	p.event(watch.Event{Path: "src/Old.java", Removed: true})
	p.event(watch.Event{Path: "src/Bad.java", Err: errors.New("boom")})
	assert.Equal(t, "src/App.java:3:25: width\nsrc/Old.java: removed\nsrc/Bad.java: error: boom\n", buf.String())

	buf.Reset()
	p = newPrinter(&buf, "json")
	p.event(watch.Event{Path: "src/App.java", Result: result})
	p.event(watch.Event{Path: "src/Old.java", Removed: true})

	dec := json.NewDecoder(strings.NewReader(buf.String()))
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "src/App.java", first["path"])
	assert.Len(t, first["hints"], 1)
	assert.Equal(t, true, second["removed"])
}
