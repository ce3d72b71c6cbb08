package main

import (
	"fmt"
	"log"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/paramhints/internal/scan"
	"github.com/standardbeagle/paramhints/internal/watch"
)

// watchEvent is the JSON form of a watch event, one object per line.
type watchEvent struct {
	Path    string `json:"path"`
	Removed bool   `json:"removed,omitempty"`
	Error   string `json:"error,omitempty"`
	Hints   any    `json:"hints,omitempty"`
}

func (p *printer) event(ev watch.Event) {
	if p.json {
		out := watchEvent{Path: ev.Path, Removed: ev.Removed}
		switch {
		case ev.Err != nil:
			out.Error = ev.Err.Error()
		case ev.Result != nil:
			out.Hints = ev.Result.Hints
		}
		if err := p.encode(out); err != nil {
			log.Printf("watch: failed to encode event for %s: %v", ev.Path, err)
		}
		return
	}

	switch {
	case ev.Removed:
		fmt.Fprintf(p.w, "%s: removed\n", ev.Path)
	case ev.Err != nil:
		fmt.Fprintf(p.w, "%s: error: %v\n", ev.Path, ev.Err)
	case ev.Result != nil:
		if len(ev.Result.Hints) == 0 {
			fmt.Fprintf(p.w, "%s: no hints\n", ev.Path)
		}
		p.file(ev.Result)
	}
}

func watchCommand(c *cli.Context) error {
	cfg, registry, err := setup(c)
	if err != nil {
		return err
	}

	p := newPrinter(c.App.Writer, cfg.Output.Format)
	debounce := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
	w, err := watch.New(scan.New(cfg, registry), debounce, p.event)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	fmt.Fprintf(c.App.ErrWriter, "Watching %s (Ctrl+C to stop)\n", cfg.Project.Root)
	<-ctx.Done()
	return w.Stop()
}
