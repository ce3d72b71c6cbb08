package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/paramhints/internal/errors"
)

// LoadKDL attempts to load configuration from the .paramhints.kdl file in projectRoot.
// A missing file is not an error; it returns a nil config.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, FileName)

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	return LoadKDLFile(kdlPath, projectRoot)
}

// LoadKDLFile loads an explicit config file. A relative project root inside
// the file is resolved against projectRoot.
func LoadKDLFile(kdlPath, projectRoot string) (*Config, error) {
	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, errors.NewFileError("read config", kdlPath, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, errors.NewConfigError("file", kdlPath, err)
	}

	if cfg.Project.Root != "" && cfg.Project.Root != "." {
		root := cfg.Project.Root
		if !filepath.IsAbs(root) {
			root = filepath.Join(projectRoot, root)
		}
		cfg.Project.Root = filepath.Clean(root)
	} else {
		cfg.Project.Root = absOrSelf(projectRoot)
	}

	return cfg, nil
}

func parseKDL(content string) (*Config, error) {
	cfg := Default("")

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "version":
			if v, ok := firstIntArg(n); ok {
				cfg.Version = v
			}
		case "project":
			for _, cn := range n.Children { // project { root "." name "foo" }
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "languages":
			cfg.Languages = collectStringArgs(n)
		case "include":
			cfg.Include = collectStringArgs(n)
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		case "analysis":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						sz, err := parseSize(s)
						if err != nil {
							return nil, fmt.Errorf("invalid max_file_size %q: %w", s, err)
						}
						cfg.Analysis.MaxFileSize = sz
					}
				case "workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.Analysis.Workers = v
					}
				default:
					log.Printf("WARNING: unknown analysis setting '%s' in KDL config", nodeName(cn))
				}
			}
		case "output":
			for _, cn := range n.Children {
				assignSimpleString(cn, "format", func(v string) { cfg.Output.Format = strings.ToLower(v) })
			}
		case "watch":
			for _, cn := range n.Children {
				if nodeName(cn) != "debounce_ms" {
					continue
				}
				if v, ok := firstIntArg(cn); ok {
					cfg.Watch.DebounceMs = v
				} else if b, ok := firstBoolArg(cn); ok && !b {
					cfg.Watch.DebounceMs = 0
				}
			}
		default:
			log.Printf("WARNING: unknown section '%s' in KDL config", nodeName(n))
		}
	}

	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}
func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}
func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block form: exclude { "pattern" } stores each string as a child node name.
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}
func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB"
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}

func getDefaultExclusions() []string {
	return []string{
		// Hidden directories
		"**/.*/**",

		// Dependencies
		"**/vendor/**",
		"**/node_modules/**",

		// Build output
		"**/build/**",
		"**/target/**",
		"**/out/**",
		"**/bin/**",

		// Generated sources
		"**/*.pb.go",
		"**/*_generated.go",
	}
}
