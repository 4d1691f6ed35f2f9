// Package cmd implements the docweaver command line.
package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/drblury/docweaver/config"
)

type rootOptions struct {
	configFile string
}

// NewRootCommand assembles the docweaver command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "docweaver",
		Short: "Serve API documentation assembled from registered fragments",
		Long: `docweaver mounts an API documentation registry on an HTTP server.

Version 1 documents list each registered API and serve its file from a
route below the base path. Version 2 documents are streamed as one
Swagger 2.0 document stitched together from fragments on disk or in
MongoDB.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (.toml, .yaml or .yml); defaults apply when empty")

	root.AddCommand(
		newServeCommand(opts),
		newRenderCommand(opts),
		newCheckCommand(opts),
	)
	return root
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configFile == "" {
		return config.Default(), nil
	}
	return config.Load(o.configFile)
}

func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, err
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	switch cfg.Log.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
}
