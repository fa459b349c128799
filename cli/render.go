package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"cost-seer/domain"
	"cost-seer/service"
)

// render writes v as JSON or YAML, or calls text for the human format.
func render(w io.Writer, format string, v any, text func(io.Writer) error) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return text(w)
	}
}

func printLanguages(w io.Writer, options []domain.LanguageOption) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tLANGUAGE")
	for _, opt := range options {
		fmt.Fprintf(tw, "%d\t%s\n", opt.Code, opt.Label)
	}
	return tw.Flush()
}

func printHistory(w io.Writer, list []domain.SavedEstimate) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No saved estimates.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tCOST\tTEAM\tMGR\tMONTHS\tTX\tENTITIES\tFP\tLANG")
	for _, saved := range list {
		p := saved.Parameters
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%g\t%g\t%g\t%g\t%g\t%d\n",
			saved.ID,
			saved.CreatedAt.Local().Format("2006-01-02 15:04"),
			service.FormatCurrency(saved.Amount),
			p.TeamExp, p.ManagerExp, p.Length, p.Transactions, p.Entities, p.PointsAdjust, p.Language,
		)
	}
	return tw.Flush()
}

// estimateReport is the structured form of an estimate printed by the CLI.
type estimateReport struct {
	Estimate   domain.Estimate              `json:"estimate" yaml:"estimate"`
	Formatted  string                       `json:"formatted" yaml:"formatted"`
	Factors    []service.FactorContribution `json:"factors" yaml:"factors"`
	Comparison []service.ComparisonPoint    `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

func newEstimateReport(estimate domain.Estimate, previous []domain.SavedEstimate) estimateReport {
	return estimateReport{
		Estimate:   estimate,
		Formatted:  service.FormatCurrency(estimate.Amount),
		Factors:    service.FactorContributions(estimate.Parameters),
		Comparison: service.CompareWithPrevious(estimate, previous),
	}
}

func printEstimate(w io.Writer, r estimateReport) error {
	p := r.Estimate.Parameters
	fmt.Fprintf(w, "Your Software Cost Estimate: %s\n\n", r.Formatted)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Team Experience:\t%g years\n", p.TeamExp)
	fmt.Fprintf(tw, "Manager Experience:\t%g years\n", p.ManagerExp)
	fmt.Fprintf(tw, "Project Duration:\t%g months\n", p.Length)
	fmt.Fprintf(tw, "User Transactions:\t%g\n", p.Transactions)
	fmt.Fprintf(tw, "Data Entities:\t%g\n", p.Entities)
	fmt.Fprintf(tw, "Adjusted Function Points:\t%g\n", p.PointsAdjust)
	fmt.Fprintf(tw, "Language Type:\tType %d\n", p.Language)
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "\nCost Factor Contribution:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range r.Factors {
		fmt.Fprintf(tw, "  %s\t%s\n", f.Name, service.FormatCurrency(int64(f.Value)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(r.Comparison) > 1 {
		fmt.Fprintln(w, "\nCompare with Previous Estimates:")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, c := range r.Comparison {
			fmt.Fprintf(tw, "  %s\t%s\n", c.Name, service.FormatCurrency(c.Cost))
		}
		return tw.Flush()
	}
	return nil
}
