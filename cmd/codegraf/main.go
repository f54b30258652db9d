package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/codegraf/codegraf/internal/config"
	"github.com/codegraf/codegraf/internal/indexing"
	"github.com/codegraf/codegraf/internal/metrics"
	"github.com/codegraf/codegraf/internal/obslog"
	"github.com/codegraf/codegraf/internal/store"
)

var Version = "dev"

// loadConfigWithOverrides loads .codegraf.kdl from root (or the default
// config when none is present) and layers CLI flag overrides on top.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}

	cfg, err := config.LoadKDL(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if dsn := c.String("db"); dsn != "" {
		cfg.Store.DSN = dsn
	}
	if c.Bool("verbose") {
		obslog.SetVerbose(true)
	}

	return cfg, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	dsn := cfg.Store.DSN
	if dsn == "" {
		dsn = filepath.Join(cfg.Project.Root, ".codegraf", "index.db")
	}
	return store.Open(dsn, cfg.Store.Debug)
}

func main() {
	app := &cli.App{
		Name:                   "codegraf",
		Usage:                  "Pattern-aware, multi-language source-code indexer",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to index (overrides config)",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the symbol-graph database (overrides config)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Show debug-level logging",
			},
		},
		Commands: []*cli.Command{
			indexCommand(),
			statsCommand(),
			watchCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "codegraf: %v\n", err)
		os.Exit(1)
	}
}

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Run a full or incremental indexing pass over the project",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics on this address while indexing (e.g. :9090)",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			rec := metrics.New()
			if addr := c.String("metrics-addr"); addr != "" {
				go serveMetrics(addr, rec)
			}

			pipeline, err := indexing.NewPipeline(cfg, st, rec)
			if err != nil {
				return fmt.Errorf("failed to build pipeline: %w", err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			result, err := pipeline.Run(ctx, c.Args().Slice())
			if err != nil {
				return fmt.Errorf("indexing run failed: %w", err)
			}

			printResult(result)
			return nil
		},
	}
}

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Report symbol, relationship, and pattern counts from the current index",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			return printStats(st)
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch the project root and re-index on file changes",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "debounce-ms",
				Usage: "Debounce window for batching change events",
				Value: 500,
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfigWithOverrides(c)
			if err != nil {
				return err
			}
			cfg.Index.WatchMode = true
			if ms := c.Int("debounce-ms"); ms > 0 {
				cfg.Index.WatchDebounceMs = ms
			}

			st, err := openStore(cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer st.Close()

			rec := metrics.New()
			pipeline, err := indexing.NewPipeline(cfg, st, rec)
			if err != nil {
				return fmt.Errorf("failed to build pipeline: %w", err)
			}

			ctx, cancel := signalContext()
			defer cancel()

			obslog.Indexing("running initial full index before watching", "root", cfg.Project.Root)
			if result, err := pipeline.Run(ctx, nil); err != nil {
				return fmt.Errorf("initial indexing run failed: %w", err)
			} else {
				printResult(result)
			}

			watcher := indexing.NewWatcher(cfg, pipeline)
			return watcher.Run(ctx)
		},
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()
	return ctx, cancel
}

func printResult(r *indexing.Result) {
	fmt.Printf("run %s\n", r.RunID)
	fmt.Printf("  files considered: %d\n", r.FilesConsidered)
	fmt.Printf("  files indexed:    %d\n", r.FilesIndexed)
	fmt.Printf("  files failed:     %d\n", r.FilesFailed)
	fmt.Printf("  symbols:          %d\n", r.Symbols)
	fmt.Printf("  relationships:    %d\n", r.Relationships)
	fmt.Printf("  patterns:         %d (%d anti-patterns)\n", r.Patterns, r.AntiPatterns)
	for phase, d := range r.PhaseTime {
		fmt.Printf("  phase %-14s %s\n", phase, d.Round(time.Millisecond))
	}
	for _, f := range r.Failed {
		fmt.Fprintf(os.Stderr, "  failed: %s: %s\n", f.Path, f.Reason)
	}
}
