package cli

import (
	"io"

	"github.com/spf13/cobra"

	"cost-seer/service"
)

func newLanguagesCommand(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the language categories and their codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			options := service.NewEstimationEngine(nil).LanguageOptions()
			return render(cmd.OutOrStdout(), opts.Output, options, func(w io.Writer) error {
				return printLanguages(w, options)
			})
		},
	}
}
