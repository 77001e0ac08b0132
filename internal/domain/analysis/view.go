package analysis

import "strings"

// Tier classifies a 0-10 score for rendering. The thresholds are a
// presentation contract shared with the dashboard: >=8 strong,
// >=6 moderate, otherwise weak.
type Tier string

const (
	TierStrong   Tier = "strong"
	TierModerate Tier = "moderate"
	TierWeak     Tier = "weak"
)

// ScoreTier maps a 0-10 score to its tier.
func ScoreTier(score int) Tier {
	if score >= 8 {
		return TierStrong
	}
	if score >= 6 {
		return TierModerate
	}
	return TierWeak
}

// View is the projected read model for one record: a processing
// placeholder, or the five report sections once completed. Pure
// projection, no aggregation or sorting beyond stored order.
type View struct {
	ID       AnalysisID `json:"id"`
	FileName string     `json:"file_name"`
	State    Status     `json:"state"`

	OverallScore *int   `json:"overall_score,omitempty"`
	Verdict      string `json:"verdict,omitempty"`

	Overview   []DimensionRow     `json:"overview,omitempty"`
	Strengths  []StrengthRow      `json:"strengths,omitempty"`
	Gaps       []GapRow           `json:"gaps,omitempty"`
	Financial  *FinancialAnalysis `json:"financial,omitempty"`
	ActionPlan *Recommendations   `json:"action_plan,omitempty"`
}

// DimensionRow is one overview line: label, bar percentage and tier.
type DimensionRow struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Score   int    `json:"score"`
	Percent int    `json:"percent"`
	Tier    Tier   `json:"tier"`
}

type StrengthRow struct {
	Strength
	Tier Tier `json:"tier"`
}

type GapRow struct {
	Gap
	Tier Tier `json:"tier"`
}

// BuildView projects a record into its view. Records still processing
// (or failed) carry only identity and state.
func BuildView(rec *Record) View {
	v := View{ID: rec.ID, FileName: rec.FileName, State: rec.Status}
	if rec.Status != StatusCompleted {
		return v
	}

	v.OverallScore = rec.OverallScore
	if rec.OverallScore != nil {
		v.Verdict = verdict(*rec.OverallScore)
	}

	for _, dim := range Dimensions {
		score, ok := rec.DimensionalScores[dim]
		if !ok {
			continue
		}
		v.Overview = append(v.Overview, DimensionRow{
			Key:     dim,
			Label:   strings.ReplaceAll(dim, "_", " "),
			Score:   score,
			Percent: score * 10,
			Tier:    ScoreTier(score),
		})
	}
	for _, s := range rec.Strengths {
		v.Strengths = append(v.Strengths, StrengthRow{Strength: s, Tier: ScoreTier(s.Score)})
	}
	for _, g := range rec.Gaps {
		v.Gaps = append(v.Gaps, GapRow{Gap: g, Tier: ScoreTier(g.Score)})
	}
	v.Financial = rec.FinancialAnalysis
	v.ActionPlan = rec.Recommendations
	return v
}

func verdict(overall int) string {
	switch {
	case overall >= 80:
		return "Investor-ready with minor refinements"
	case overall >= 60:
		return "Solid foundation, needs improvement"
	default:
		return "Requires significant development"
	}
}
