package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newHistoryCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List saved estimates, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts, cliIdentity(opts))
			if err != nil {
				return err
			}
			defer a.Close()

			if opts.User == "" {
				a.logger.Warn("no --user given, history is empty")
			}
			list, err := a.store.List(ctx)
			if err != nil {
				return fmt.Errorf("fetch saved estimates: %w", err)
			}
			return render(cmd.OutOrStdout(), opts.Output, list, func(w io.Writer) error {
				return printHistory(w, list)
			})
		},
	}
}
