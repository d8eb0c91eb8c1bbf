// Package cli implements the simplegraph command-line interface.
//
// Every command generates a graph from the configuration, builds its scene
// and drives the frame loop with a different host:
//   - run: animate in the terminal, with pointer selection
//   - snapshot: tick headless, then write one frame to a file
//   - serve: tick on a timer and serve frames, status and metrics over HTTP
//
// Options come from an optional TOML file (--config) and are overridden by
// any flag given explicitly.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/TFMV/simplegraph/config"
	"github.com/TFMV/simplegraph/host"
	"github.com/TFMV/simplegraph/render"
	"github.com/TFMV/simplegraph/server"
)

var version = "dev"

// SetVersion sets the version displayed by --version.
func SetVersion(v string) {
	version = v
}

// optionFlags mirror the configuration keys.
type optionFlags struct {
	configPath string
	layout     string
	width      float64
	height     float64
	iterations int
	noise      float64
	showStats  bool
	showInfo   bool
	showLabels bool
	selection  bool
	limit      int
	numNodes   int
	numEdges   int
	seed       int64
}

// NewRootCommand builds the command tree. Logs go to logw.
func NewRootCommand(logw io.Writer) *cobra.Command {
	var verbose bool
	flags := &optionFlags{}

	root := &cobra.Command{
		Use:          "simplegraph",
		Short:        "simplegraph grows a random graph and animates its force-directed layout",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(logw, level)))
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVarP(&flags.configPath, "config", "c", "", "path to a TOML config file")
	pf.StringVar(&flags.layout, "layout", config.DefaultLayout, "layout mode: 2d or 3d")
	pf.Float64Var(&flags.width, "layout-width", config.DefaultWidth, "layout area width")
	pf.Float64Var(&flags.height, "layout-height", config.DefaultHeight, "layout area height")
	pf.IntVar(&flags.iterations, "iterations", config.DefaultIterations, "layout iteration budget")
	pf.Float64Var(&flags.noise, "noise", 0, "surreal noise intensity (0.0-1.0)")
	pf.BoolVar(&flags.showStats, "stats", false, "collect frame statistics")
	pf.BoolVar(&flags.showInfo, "info", false, "show the status overlay")
	pf.BoolVar(&flags.showLabels, "labels", false, "show node labels")
	pf.BoolVar(&flags.selection, "selection", false, "enable pointer selection")
	pf.IntVar(&flags.limit, "limit", config.DefaultLimit, "number of node skins")
	pf.IntVar(&flags.numNodes, "nodes", config.DefaultNumNodes, "expansion step budget")
	pf.IntVar(&flags.numEdges, "edges", config.DefaultNumEdges, "maximum fan-out per step")
	pf.Int64Var(&flags.seed, "seed", 0, "random seed (0 seeds from the clock)")

	root.AddCommand(newRunCmd(flags))
	root.AddCommand(newSnapshotCmd(flags))
	root.AddCommand(newServeCmd(flags))
	return root
}

// load reads the config file, if any, and applies the flags set on cmd.
func (f *optionFlags) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Defaults()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return config.Config{}, err
		}
	}

	changed := cmd.Flags().Changed
	if changed("layout") {
		cfg.Layout = f.layout
		cfg.GraphLayout.Layout = f.layout
	}
	if changed("layout-width") {
		cfg.GraphLayout.Width = f.width
	}
	if changed("layout-height") {
		cfg.GraphLayout.Height = f.height
	}
	if changed("iterations") {
		cfg.GraphLayout.Iterations = f.iterations
	}
	if changed("noise") {
		cfg.GraphLayout.Noise = f.noise
	}
	if changed("stats") {
		cfg.ShowStats = f.showStats
	}
	if changed("info") {
		cfg.ShowInfo = f.showInfo
	}
	if changed("labels") {
		cfg.ShowLabels = f.showLabels
	}
	if changed("selection") {
		cfg.Selection = f.selection
	}
	if changed("limit") {
		cfg.Limit = f.limit
	}
	if changed("nodes") {
		cfg.NumNodes = f.numNodes
	}
	if changed("edges") {
		cfg.NumEdges = f.numEdges
	}
	if changed("seed") {
		cfg.Seed = f.seed
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newRunCmd(flags *optionFlags) *cobra.Command {
	var fps int
	var logFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Animate the layout in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if fps <= 0 {
				return fmt.Errorf("fps must be positive, got %d", fps)
			}

			// Logging to the terminal would corrupt the frame.
			logger := log.New(io.Discard)
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logger = newLogger(f, loggerFromContext(cmd.Context()).GetLevel())
			}

			ascii := render.NewASCII(80, 24, cfg.ShowLabels)
			s, err := host.NewSession(cfg, ascii, logger)
			if err != nil {
				return err
			}
			err = host.RunTerminal(cmd.Context(), s, ascii, time.Second/time.Duration(fps))
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&fps, "fps", 60, "frames per second")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file")
	return cmd
}

func newSnapshotCmd(flags *optionFlags) *cobra.Command {
	var (
		ticks  int
		format string
		output string
		width  float64
		height float64
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Run the layout headless and write the final frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}

			opts := render.NewDefaultOptions()
			opts.Width, opts.Height = width, height
			opts.ShowLabels = cfg.ShowLabels
			opts.Palette = cfg.Palette()
			renderer, err := render.New(format, opts)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			s, err := host.NewSession(cfg, nil, logger)
			if err != nil {
				return err
			}
			n, err := host.NewTicker(s, 0).RunTicks(ctx, ticks)
			if err != nil {
				return err
			}
			prog.done("layout finished", "ticks", n, "state", s.Frame.State())

			if err := renderer.Render(s.Scene, s.Frame.Viewpoint()); err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			if output == "" {
				output = "graph." + strings.ToLower(format)
			}
			if err := writeOutput(cmd, output, renderer.Frame()); err != nil {
				return err
			}
			logger.Info("snapshot written", "output", output, "format", format)
			return nil
		},
	}
	cmd.Flags().IntVar(&ticks, "ticks", 0, "ticks to run (0 runs until converged)")
	cmd.Flags().StringVarP(&format, "format", "f", render.FormatSVG, "output format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default graph.<format>)")
	cmd.Flags().Float64Var(&width, "width", 800, "output width")
	cmd.Flags().Float64Var(&height, "height", 600, "output height")
	return cmd
}

func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func newServeCmd(flags *optionFlags) *cobra.Command {
	var (
		addr string
		fps  int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the animated layout over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			cfg, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if fps <= 0 {
				return fmt.Errorf("fps must be positive, got %d", fps)
			}

			s, err := host.NewSession(cfg, nil, logger)
			if err != nil {
				return err
			}
			srv := server.New(s, server.Config{
				Addr:     addr,
				Interval: time.Second / time.Duration(fps),
			}, logger)
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&fps, "fps", 60, "ticks per second")
	return cmd
}
