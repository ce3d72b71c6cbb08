package mcp

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/paramhints/internal/config"
	"github.com/standardbeagle/paramhints/internal/errors"
	"github.com/standardbeagle/paramhints/internal/frontend"
	"github.com/standardbeagle/paramhints/internal/scan"
	"github.com/standardbeagle/paramhints/internal/version"
	"github.com/standardbeagle/paramhints/pkg/pathutil"
)

type ParameterHintsParams struct {
	Path     string `json:"path,omitempty"`
	Source   string `json:"source,omitempty"`
	Language string `json:"language,omitempty"`
	Name     string `json:"name,omitempty"`
}

type ScanHintsParams struct {
	Root    string   `json:"root,omitempty"`
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// ScanHintsResponse is a scan result plus the files that failed.
type ScanHintsResponse struct {
	*scan.Result
	Errors []string `json:"errors,omitempty"`
}

// decodeArgs unmarshals tool arguments; a call without arguments leaves v untouched.
func decodeArgs(req *mcp.CallToolRequest, v any) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func (s *Server) handleInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return createJSONResponse(map[string]interface{}{
		"server_name":    serverName,
		"server_version": version.FullInfo(),
		"build_id":       version.BuildID(),
		"go_version":     runtime.Version(),
		"platform":       runtime.GOOS + "/" + runtime.GOARCH,
		"project_root":   s.cfg.Project.Root,
		"languages":      frontend.Languages(),
		"tools": map[string]string{
			"parameter_hints": `{"path": "src/App.java"} or {"source": "...", "language": "java"}`,
			"scan_hints":      `{"root": "src", "include": ["**/*.go"], "exclude": ["**/gen/**"]}`,
			"info":            "{}",
		},
	})
}

func (s *Server) handleParameterHints(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params ParameterHintsParams
	if err := decodeArgs(req, &params); err != nil {
		return createErrorResponse("parameter_hints", err)
	}

	var (
		res *frontend.FileResult
		err error
	)
	switch {
	case params.Path != "" && params.Source != "":
		return createErrorResponse("parameter_hints", stderrors.New("pass either path or source, not both"))
	case params.Path != "":
		res, err = s.hintsForPath(ctx, params.Path)
	case params.Source != "":
		if params.Language == "" {
			return createErrorResponse("parameter_hints", stderrors.New("language is required with source"))
		}
		name := params.Name
		if name == "" {
			name = "input"
		}
		res, err = s.registry.AnalyzeSource(ctx, strings.ToLower(params.Language), name, []byte(params.Source))
	default:
		return createErrorResponse("parameter_hints", stderrors.New("path or source is required"))
	}
	if err != nil {
		return createErrorResponse("parameter_hints", err)
	}
	if res.Hints == nil {
		res.Hints = []frontend.Hint{}
	}
	return createJSONResponse(res)
}

func (s *Server) hintsForPath(ctx context.Context, path string) (*frontend.FileResult, error) {
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.cfg.Project.Root, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewFileError("stat", path, err)
	}
	if info.IsDir() {
		return nil, errors.NewFileError("read", path, fmt.Errorf("%s is a directory; use scan_hints", path))
	}
	if info.Size() > s.cfg.Analysis.MaxFileSize {
		return nil, errors.NewFileTooLargeError(path, info.Size(), s.cfg.Analysis.MaxFileSize)
	}
	if err := s.validator.ValidateFile(path); err != nil {
		return nil, err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewFileError("read", path, err)
	}
	res, err := s.registry.AnalyzeFile(ctx, path, src)
	if err != nil {
		return nil, err
	}
	res.Path = pathutil.ToRelative(res.Path, s.cfg.Project.Root)
	return res, nil
}

func (s *Server) handleScanHints(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params ScanHintsParams
	if err := decodeArgs(req, &params); err != nil {
		return createErrorResponse("scan_hints", err)
	}

	cfg := *s.cfg
	root := params.Root
	if root != "" && !filepath.IsAbs(root) {
		root = filepath.Join(s.cfg.Project.Root, root)
	}
	cfg.ApplyOverrides(config.Overrides{
		Root:    root,
		Include: params.Include,
		Exclude: params.Exclude,
	})
	if err := config.ValidateConfig(&cfg); err != nil {
		return createErrorResponse("scan_hints", err)
	}

	result, err := scan.New(&cfg, s.registry).Scan(ctx)
	if result == nil {
		return createErrorResponse("scan_hints", err)
	}

	response := ScanHintsResponse{Result: result}
	var multi *errors.MultiError
	if stderrors.As(err, &multi) {
		for _, e := range multi.Errors {
			response.Errors = append(response.Errors, e.Error())
		}
	}
	return createJSONResponse(response)
}
