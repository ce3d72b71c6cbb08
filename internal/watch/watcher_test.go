package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/paramhints/internal/config"
	"github.com/standardbeagle/paramhints/internal/frontend"
	"github.com/standardbeagle/paramhints/internal/scan"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	twoArgs = `class App {
    void resize(int width, int height) {}
    void run() { resize(640, 480); }
}
`
	oneArg = `class App {
    void scale(double factor) {}
    void run() { scale(2.0); }
}
`
)

func startWatcher(t *testing.T, root string) (*Watcher, <-chan Event) {
	t.Helper()
	cfg := config.Default(root)
	cfg.Languages = []string{"java"}
	require.NoError(t, config.ValidateConfig(cfg))
	registry, err := frontend.NewRegistry(cfg.Languages...)
	require.NoError(t, err)

	events := make(chan Event, 16)
	w, err := New(scan.New(cfg, registry), 20*time.Millisecond, func(ev Event) { events <- ev })
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(func() { assert.NoError(t, w.Stop()) })
	return w, events
}

func nextEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watch event")
		return Event{}
	}
}

func labels(res *frontend.FileResult) []string {
	var out []string
	for _, h := range res.Hints {
		out = append(out, h.Label)
	}
	return out
}

func TestWatcher_ReanalyzesChangedFiles(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "App.java")
	require.NoError(t, os.WriteFile(path, []byte(twoArgs), 0o644))
	_, events := startWatcher(t, root)

	// Same content as when the watcher started: no event.
	require.NoError(t, os.WriteFile(path, []byte(twoArgs), 0o644))
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(oneArg), 0o644))
	ev := nextEvent(t, events)
	require.NoError(t, ev.Err)
	assert.Equal(t, "App.java", ev.Path)
	require.NotNil(t, ev.Result)
	assert.Equal(t, []string{"factor"}, labels(ev.Result))

	require.NoError(t, os.Remove(path))
	ev = nextEvent(t, events)
	assert.Equal(t, "App.java", ev.Path)
	assert.True(t, ev.Removed)
	assert.Nil(t, ev.Result)
}

func TestWatcher_NewDirectoriesAndFilters(t *testing.T) {
	root := t.TempDir()
	_, events := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("resize(1, 2)"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "vendor"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "Lib.java"), []byte(oneArg), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "app"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "app", "App.java"), []byte(twoArgs), 0o644))

	ev := nextEvent(t, events)
	require.NoError(t, ev.Err)
	assert.Equal(t, "src/app/App.java", ev.Path)
	assert.Equal(t, []string{"width", "height"}, labels(ev.Result))

	select {
	case ev := <-events:
		t.Fatalf("unexpected event for %s", ev.Path)
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, _ := startWatcher(t, t.TempDir())
	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestEventDebouncer_KeepsLatestEvent(t *testing.T) {
	d := newEventDebouncer(time.Millisecond)
	d.addEvent("a.java", eventChange)
	d.addEvent("a.java", eventRemove)
	d.addEvent("b.java", eventChange)

	assert.Equal(t, map[string]eventType{"a.java": eventRemove, "b.java": eventChange}, d.events)
	assert.Len(t, d.kick, 1)
}
