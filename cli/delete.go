package cli

import (
	"github.com/spf13/cobra"

	"cost-seer/service"
)

func newDeleteCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts, cliIdentity(opts))
			if err != nil {
				return err
			}
			defer a.Close()

			controller := service.NewSessionController(
				a.engine,
				a.store,
				service.WriterNotifier{W: cmd.OutOrStdout()},
				a.logger,
			)
			return controller.Delete(ctx, args[0])
		},
	}
}
