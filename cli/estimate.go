package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cost-seer/domain"
	"cost-seer/service"
)

func bindParameterFlags(cmd *cobra.Command, v *domain.ParameterVector) {
	d := service.DefaultParameters()
	cmd.Flags().Float64Var(&v.TeamExp, "team-exp", d.TeamExp, "Team experience in years")
	cmd.Flags().Float64Var(&v.ManagerExp, "manager-exp", d.ManagerExp, "Manager experience in years")
	cmd.Flags().Float64Var(&v.Length, "length", d.Length, "Project length in months")
	cmd.Flags().Float64Var(&v.Transactions, "transactions", d.Transactions, "Number of user transactions")
	cmd.Flags().Float64Var(&v.Entities, "entities", d.Entities, "Number of data entities")
	cmd.Flags().Float64Var(&v.PointsAdjust, "points-adjust", d.PointsAdjust, "Adjusted function points")
	cmd.Flags().IntVar(&v.Language, "language", d.Language, "Language category code (see 'costseer languages')")
}

func newEstimateCommand(opts *Options) *cobra.Command {
	var (
		params domain.ParameterVector
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the cost of a project and optionally save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts, cliIdentity(opts))
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			notify := io.Discard
			if opts.Output == outputText {
				notify = out
			}
			controller := service.NewSessionController(
				a.engine,
				a.store,
				service.WriterNotifier{W: notify},
				a.logger,
			)

			// La comparación usa el historial previo
			if err := controller.Refresh(ctx); err != nil {
				return err
			}

			estimate, err := controller.Submit(params)
			if err != nil {
				return err
			}
			report := newEstimateReport(estimate, controller.Saved())
			if err := render(out, opts.Output, report, func(w io.Writer) error {
				return printEstimate(w, report)
			}); err != nil {
				return err
			}

			if !save {
				return nil
			}
			saved, err := controller.Save(ctx)
			if err != nil {
				return err
			}
			if saved == nil {
				return errors.New("cannot save without --user")
			}
			if opts.Output == outputText {
				fmt.Fprintf(out, "Saved as %s\n", saved.ID)
			}
			return nil
		},
	}

	bindParameterFlags(cmd, &params)
	cmd.Flags().BoolVar(&save, "save", false, "Save the estimate to the user's history")
	return cmd
}
