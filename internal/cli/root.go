// Package cli implements the cardstencil command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/xob0t/CardStencil/pkg/config"
	"github.com/xob0t/CardStencil/pkg/logging"
)

// These variables are injected at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

type app struct {
	cfgFile string
	verbose bool
	cfg     *config.Config
}

// NewRootCommand builds the command tree. Logs go to the command's stderr.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "cardstencil",
		Short: "Render ID cards from a template and a CSV",
		Long: `CardStencil composites a photo and stacked text fields onto a background
template, one card per CSV row.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.installLogger(cmd.ErrOrStderr())
			if cmd.Name() == "init" || cmd.Name() == "version" {
				return nil
			}
			return a.loadConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: "+config.DefaultConfigFile+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.generateCommand(),
		a.renderCommand(),
		a.initCommand(),
		a.layoutCommand(),
		a.serveCommand(),
		versionCommand(),
	)
	return root
}

func (a *app) installLogger(w io.Writer) {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	a.cfg = cfg
	return nil
}

// validate reports warnings and fails on unusable settings. It runs after
// flag overrides are applied.
func (a *app) validate() error {
	warnings, err := config.Validate(a.cfg)
	for _, w := range warnings {
		logging.Logger().Warn("config", "warning", w)
	}
	return err
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "cardstencil %s (%s)\n", Version, Commit)
			return nil
		},
	}
}

// Execute runs the root command until it finishes or is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
