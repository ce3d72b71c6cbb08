package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/paramhints/internal/config"
	"github.com/standardbeagle/paramhints/internal/debug"
	"github.com/standardbeagle/paramhints/internal/frontend"
	"github.com/standardbeagle/paramhints/internal/mcp"
	"github.com/standardbeagle/paramhints/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "paramhints: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "paramhints",
		Usage:                  "Parameter name hints for Java and Go call sites",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: <root>/" + config.FileName + ")",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Only analyze files matching glob patterns (e.g., --include 'src/**/*.java')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Skip files matching glob patterns (e.g., --exclude '**/testdata/**')",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text or json",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of files analyzed in parallel",
			},
			&cli.BoolFlag{
				Name:   "debug-log",
				Usage:  "With DEBUG=1, write debug output to a file under the temp dir",
				Hidden: true,
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug-log") && debug.IsDebugEnabled() {
				path, err := debug.InitDebugLogFile()
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.ErrWriter, "Debug log: %s\n", path)
			}
			debug.Printf("%s args=%q\n", version.FullInfo(), c.Args().Slice())
			return nil
		},
		After: func(c *cli.Context) error {
			return debug.CloseDebugLog()
		},
		Commands: []*cli.Command{
			{
				Name:      "hints",
				Aliases:   []string{"h"},
				Usage:     "Print parameter hints for the given files",
				ArgsUsage: "<files...>",
				Action:    hintsCommand,
			},
			{
				Name:   "scan",
				Usage:  "Print parameter hints for every supported file under the project root",
				Action: scanCommand,
			},
			{
				Name:   "watch",
				Usage:  "Re-print hints whenever a file under the project root changes",
				Action: watchCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Serve parameter hints over MCP on stdin/stdout",
				Action: mcpCommand,
			},
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, version.FullInfo())
					return nil
				},
			},
		},
	}
}

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadWithRoot(c.String("config"), c.String("root"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		Include: c.StringSlice("include"),
		Exclude: c.StringSlice("exclude"),
		Format:  c.String("format"),
		Workers: c.Int("workers"),
	})
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	debug.LogScan("config: root=%s languages=%v workers=%d\n", cfg.Project.Root, cfg.Languages, cfg.Analysis.Workers)
	return cfg, nil
}

func setup(c *cli.Context) (*config.Config, *frontend.Registry, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, nil, err
	}
	registry, err := frontend.NewRegistry(cfg.Languages...)
	if err != nil {
		return nil, nil, err
	}
	return cfg, registry, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func mcpCommand(c *cli.Context) error {
	// stdout carries the protocol
	debug.SetMCPMode(true)

	cfg, registry, err := setup(c)
	if err != nil {
		return err
	}

	server, err := mcp.NewServer(cfg, registry)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}
	defer server.Close()

	ctx, cancel := signalContext(c)
	defer cancel()

	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server error: %w", err)
	}
	return nil
}
