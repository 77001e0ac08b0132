package analysis

import (
	"encoding/json"
	"fmt"
)

// Dimensions lists the 15 scoring dimensions in canonical order.
// The set is fixed: the model must return all of them and the viewer
// iterates them in this order.
var Dimensions = []string{
	"problem_definition",
	"solution_clarity",
	"market_sizing",
	"competitive_analysis",
	"business_model",
	"unit_economics",
	"go_to_market",
	"product_roadmap",
	"team_composition",
	"founder_market_fit",
	"financial_projections",
	"traction",
	"funding_justification",
	"risk_assessment",
	"use_of_funds",
}

// Report is the JSON contract between the enrichment worker and the
// viewer. Keys mirror the model's output verbatim.
type Report struct {
	OverallScore                 int               `json:"overall_score"`
	DimensionalScores            map[string]int    `json:"dimensional_scores"`
	Strengths                    []Strength        `json:"strengths"`
	Gaps                         []Gap             `json:"gaps"`
	Recommendations              Recommendations   `json:"recommendations"`
	FinancialAnalysis            FinancialAnalysis `json:"financial_analysis"`
	MarketAnalysis               MarketAnalysis    `json:"market_analysis"`
	InvestorFeedbackSimulation   string            `json:"investor_feedback_simulation"`
	EstimatedTimeToInvestorReady string            `json:"estimated_time_to_investor_ready"`
}

// ValidationError describes why a model response was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid report: %s: %s", e.Field, e.Reason)
}

// ParseReport decodes and shape-checks a model response. Malformed or
// out-of-range output yields a typed error instead of being persisted
// as-is.
func ParseReport(raw []byte) (*Report, error) {
	var rep Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, &ValidationError{Field: "report", Reason: err.Error()}
	}
	if rep.OverallScore < 0 || rep.OverallScore > 100 {
		return nil, &ValidationError{Field: "overall_score", Reason: fmt.Sprintf("out of range: %d", rep.OverallScore)}
	}
	if rep.DimensionalScores == nil {
		return nil, &ValidationError{Field: "dimensional_scores", Reason: "missing"}
	}
	for _, dim := range Dimensions {
		score, ok := rep.DimensionalScores[dim]
		if !ok {
			return nil, &ValidationError{Field: "dimensional_scores." + dim, Reason: "missing"}
		}
		if score < 0 || score > 10 {
			return nil, &ValidationError{Field: "dimensional_scores." + dim, Reason: fmt.Sprintf("out of range: %d", score)}
		}
	}
	for i, g := range rep.Gaps {
		switch g.Severity {
		case SeverityCritical, SeverityImportant, SeverityNiceToHave:
		default:
			return nil, &ValidationError{
				Field:  fmt.Sprintf("gaps[%d].severity", i),
				Reason: fmt.Sprintf("unknown value %q", g.Severity),
			}
		}
	}
	return &rep, nil
}
