package service

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"cost-seer/domain"
)

// comparisonWindow is how many previous estimates are charted next to the
// current one.
const comparisonWindow = 3

type FactorContribution struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

type ComparisonPoint struct {
	Name string `json:"name" yaml:"name"`
	Cost int64  `json:"cost" yaml:"cost"`
}

var currencyPrinter = message.NewPrinter(language.AmericanEnglish)

// FactorContributions weights each parameter for the contribution chart.
func FactorContributions(v domain.ParameterVector) []FactorContribution {
	return []FactorContribution{
		{Name: "Team Exp", Value: v.TeamExp * 10000},
		{Name: "Manager Exp", Value: v.ManagerExp * 8000},
		{Name: "Duration", Value: v.Length * 15000},
		{Name: "Transactions", Value: v.Transactions * 500},
		{Name: "Entities", Value: v.Entities * 1000},
		{Name: "Function Points", Value: v.PointsAdjust * 100},
	}
}

// CompareWithPrevious charts the last entries of previous followed by
// current. It returns nil when there is nothing to compare against.
func CompareWithPrevious(current domain.Estimate, previous []domain.SavedEstimate) []ComparisonPoint {
	if len(previous) == 0 {
		return nil
	}

	start := len(previous) - comparisonWindow
	if start < 0 {
		start = 0
	}
	recent := previous[start:]

	points := make([]ComparisonPoint, 0, len(recent)+1)
	for i, saved := range recent {
		points = append(points, ComparisonPoint{
			Name: fmt.Sprintf("Estimate %d", i+1),
			Cost: saved.Amount,
		})
	}
	return append(points, ComparisonPoint{Name: "Current", Cost: current.Amount})
}

// FormatCurrency renders amount as whole US dollars, e.g. "$33,878".
func FormatCurrency(amount int64) string {
	if amount < 0 {
		return currencyPrinter.Sprintf("-$%d", -amount)
	}
	return currencyPrinter.Sprintf("$%d", amount)
}
