package cmd

import (
	"bufio"

	"github.com/spf13/cobra"

	"github.com/drblury/docweaver/apidoc"
)

func newRenderCommand(root *rootOptions) *cobra.Command {
	var (
		host     string
		protocol string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the assembled document to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = a.close(cmd.Context()) }()

			out := bufio.NewWriter(cmd.OutOrStdout())
			if err := a.doc.Render(cmd.Context(), out, apidoc.Origin{Host: host, Protocol: protocol}); err != nil {
				return err
			}
			return out.Flush()
		},
	}
	cmd.Flags().StringVar(&host, "host", "localhost:10000", "host written into the document when none is configured")
	cmd.Flags().StringVar(&protocol, "protocol", "http", "protocol substituted for {{Protocol}} placeholders")
	return cmd
}
