// Package cli implements the cartogen command-line interface.
//
// # Commands
//
//   - generalize: run the pipeline of a feature class over a GeoJSON file
//   - network: write the classified line network as DOT or SVG
//   - thresholds: print the thresholds resolved for a class and scale
//   - cache: manage the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every pipeline stage with its feature counts.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cartogen/pkg/buildinfo"
	"github.com/matzehuels/cartogen/pkg/cache"
	"github.com/matzehuels/cartogen/pkg/observability"
	"github.com/matzehuels/cartogen/pkg/pipeline"
	"github.com/matzehuels/cartogen/pkg/thresholds"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "cartogen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level, pipeline and
// cache events are reported through the observability hooks as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "cartogen generalizes map features for smaller scales",
		Long:         `cartogen derives simplified, valid feature geometries for a coarser map scale from lakes, seas, islands, watercourses, roads and railroads captured at a finer scale.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generalizeCommand())
	root.AddCommand(c.networkCommand())
	root.AddCommand(c.thresholdsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// runFlags are the flags shared by commands that run the pipeline.
type runFlags struct {
	class      string
	scale      float64
	thresholds string
	outlets    []string
	noCache    bool
	refresh    bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.class, "class", "c", "", "feature class (lakes, seas, islands, watercourses, roads, railroads)")
	cmd.Flags().Float64VarP(&f.scale, "scale", "s", 50000, "target scale denominator")
	cmd.Flags().StringVarP(&f.thresholds, "thresholds", "t", "", "TOML file overriding the default threshold table")
	cmd.Flags().StringSliceVar(&f.outlets, "outlet", nil, "outlet node as x,y (repeatable)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute and overwrite cached results")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.RegisterFlagCompletionFunc("class", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return pipeline.Classes(), cobra.ShellCompDirectiveNoFileComp
	})
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(f *runFlags) (*pipeline.Runner, error) {
	table, err := loadTable(f.thresholds)
	if err != nil {
		return nil, err
	}
	ch, err := newCache(f.noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.Options.Thresholds = table
	r.Options.Outlets = f.outlets
	r.Options.Refresh = f.refresh
	return r, nil
}

func loadTable(path string) (*thresholds.Table, error) {
	if path == "" {
		return thresholds.DefaultTable(), nil
	}
	return thresholds.LoadFile(path)
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/cartogen/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
