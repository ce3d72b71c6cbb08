package main

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/paramhints/internal/errors"
	"github.com/standardbeagle/paramhints/internal/frontend"
	"github.com/standardbeagle/paramhints/internal/mcp"
	"github.com/standardbeagle/paramhints/internal/scan"
	"github.com/standardbeagle/paramhints/internal/security"
	"github.com/standardbeagle/paramhints/pkg/pathutil"
)

// printer writes hints as `path:line:col: label` lines or as JSON shaped
// like the MCP tool payloads.
type printer struct {
	w    io.Writer
	json bool
}

func newPrinter(w io.Writer, format string) *printer {
	return &printer{w: w, json: format == "json"}
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) file(res *frontend.FileResult) {
	for _, h := range res.Hints {
		fmt.Fprintf(p.w, "%s:%d:%d: %s\n", res.Path, h.Line, h.Column, h.Label)
	}
}

func (p *printer) files(results []*frontend.FileResult) error {
	if p.json {
		return p.encode(results)
	}
	for _, res := range results {
		p.file(res)
	}
	return nil
}

func hintsCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("hints: at least one file is required")
	}
	cfg, registry, err := setup(c)
	if err != nil {
		return err
	}

	var (
		results   []*frontend.FileResult
		errs      []error
		validator = security.NewFileValidator(security.DefaultThresholdKB)
	)
	for _, path := range c.Args().Slice() {
		if !registry.Supports(path) {
			fmt.Fprintf(c.App.ErrWriter, "skipping %s: no front end for this file type\n", path)
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, errors.NewFileError("stat", path, err))
			continue
		}
		if info.Size() > cfg.Analysis.MaxFileSize {
			errs = append(errs, errors.NewFileTooLargeError(path, info.Size(), cfg.Analysis.MaxFileSize))
			continue
		}
		if err := validator.ValidateFile(path); err != nil {
			errs = append(errs, err)
			continue
		}
		src, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, errors.NewFileError("read", path, err))
			continue
		}
		res, err := registry.AnalyzeFile(c.Context, path, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}

	if results == nil {
		results = []*frontend.FileResult{}
	}
	results = pathutil.ToRelativeResults(results, cfg.Project.Root)
	if err := newPrinter(c.App.Writer, cfg.Output.Format).files(results); err != nil {
		return err
	}
	return errors.NewMultiError(errs).ErrOrNil()
}

func scanCommand(c *cli.Context) error {
	cfg, registry, err := setup(c)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(c)
	defer cancel()

	result, err := scan.New(cfg, registry).Scan(ctx)
	if result == nil {
		return err
	}

	p := newPrinter(c.App.Writer, cfg.Output.Format)
	if p.json {
		response := mcp.ScanHintsResponse{Result: result}
		var multi *errors.MultiError
		if stderrors.As(err, &multi) {
			for _, e := range multi.Errors {
				response.Errors = append(response.Errors, e.Error())
			}
		}
		if encErr := p.encode(response); encErr != nil {
			return encErr
		}
		return err
	}

	for _, res := range result.Files {
		p.file(res)
	}
	for _, path := range result.Skipped {
		fmt.Fprintf(c.App.ErrWriter, "skipped %s: larger than %d bytes\n", path, cfg.Analysis.MaxFileSize)
	}
	return err
}
