// Package cli implements the folder command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/aanbieding/folder/pkg/buildinfo"
	"github.com/aanbieding/folder/pkg/cache"
	"github.com/aanbieding/folder/pkg/config"
	"github.com/aanbieding/folder/pkg/jobs"
	"github.com/aanbieding/folder/pkg/pipeline"
	"github.com/aanbieding/folder/pkg/writer"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "folder"

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

	// ConfigPath is set by --config; empty means the default location.
	ConfigPath string

	out  io.Writer
	errw io.Writer
	cfg  *config.Config
}

// New creates a new CLI instance with a default logger. Command output
// that is not logging goes to out.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logw, level),
		out:    out,
		errw:   logw,
	}
}

// errOut is where transient progress output goes.
func (c *CLI) errOut() io.Writer { return c.errw }

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Folder lays out product catalogs as printable documents",
		Long: `Folder turns a list of pages and products into a paginated catalog
("folder") and writes it as PDF, SVG, PNG or a JSON render plan.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.out)
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.jobsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration once per invocation.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Log.Level == "debug" {
		c.SetLogLevel(LogDebug)
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. An empty backend uses
// the configured writer.
func (c *CLI) newRunner(ctx context.Context, backend string, noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	if backend == "" {
		backend = cfg.Writer.Backend
	}
	w, err := writer.New(writer.Format(backend), c.Logger)
	if err != nil {
		return nil, err
	}

	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, cfg.Keyer(), w, c.Logger)
	r.PlanTTL = cfg.Cache.PlanTTL.Duration
	r.ArtifactTTL = cfg.Cache.ArtifactTTL.Duration
	return r, nil
}

// newCache opens the configured cache. A cache that cannot be reached is
// logged and replaced by a null cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		if errors.Is(err, cache.ErrUnavailable) {
			c.Logger.Warn("cache unavailable, continuing without", "err", err)
			return cache.NewNullCache(), nil
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return ch, nil
}

// openJobs opens the configured job registry.
func (c *CLI) openJobs(ctx context.Context) (jobs.Registry, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	return jobs.Open(ctx, cfg.JobsOptions())
}
