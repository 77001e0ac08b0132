package analysis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReportJSON(t *testing.T, mutate func(m map[string]any)) []byte {
	t.Helper()
	scores := map[string]any{}
	for _, dim := range Dimensions {
		scores[dim] = 7
	}
	m := map[string]any{
		"overall_score":      70,
		"dimensional_scores": scores,
		"strengths": []any{
			map[string]any{"title": "Clear problem", "score": 8, "description": "d", "details": "x"},
		},
		"gaps": []any{
			map[string]any{
				"title": "No traction data", "severity": "critical", "score": 2,
				"issue": "i", "impact": "p", "missing_elements": []any{"retention"},
				"time_to_fix": "2 weeks", "priority": "high",
			},
		},
		"recommendations": map[string]any{
			"this_week":      []any{"a"},
			"next_week":      []any{"b"},
			"following_week": []any{"c"},
		},
		"financial_analysis": map[string]any{
			"overall_score": 6, "strengths": []any{}, "concerns": []any{},
		},
		"market_analysis": map[string]any{
			"score": 7, "strengths": []any{}, "concerns": []any{},
		},
		"investor_feedback_simulation":     "fine",
		"estimated_time_to_investor_ready": "3 months",
	}
	if mutate != nil {
		mutate(m)
	}
	b, err := json.Marshal(m)
	require.NoError(t, err)
	return b
}

func TestParseReport(t *testing.T) {
	t.Run("valid report passes", func(t *testing.T) {
		rep, err := ParseReport(validReportJSON(t, nil))
		require.NoError(t, err)
		assert.Equal(t, 70, rep.OverallScore)
		assert.Len(t, rep.DimensionalScores, len(Dimensions))
		assert.Equal(t, SeverityCritical, rep.Gaps[0].Severity)
	})

	t.Run("malformed JSON rejected", func(t *testing.T) {
		_, err := ParseReport([]byte(`{"overall_score": `))
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "report", verr.Field)
	})

	t.Run("overall score out of range", func(t *testing.T) {
		_, err := ParseReport(validReportJSON(t, func(m map[string]any) {
			m["overall_score"] = 101
		}))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "overall_score", verr.Field)
	})

	t.Run("missing dimension rejected", func(t *testing.T) {
		_, err := ParseReport(validReportJSON(t, func(m map[string]any) {
			delete(m["dimensional_scores"].(map[string]any), "traction")
		}))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "dimensional_scores.traction", verr.Field)
	})

	t.Run("dimension score out of range", func(t *testing.T) {
		_, err := ParseReport(validReportJSON(t, func(m map[string]any) {
			m["dimensional_scores"].(map[string]any)["traction"] = 11
		}))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "dimensional_scores.traction", verr.Field)
	})

	t.Run("unknown gap severity rejected", func(t *testing.T) {
		_, err := ParseReport(validReportJSON(t, func(m map[string]any) {
			m["gaps"].([]any)[0].(map[string]any)["severity"] = "catastrophic"
		}))
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "gaps[0].severity", verr.Field)
	})

	t.Run("missing dimensional_scores rejected", func(t *testing.T) {
		_, err := ParseReport(validReportJSON(t, func(m map[string]any) {
			delete(m, "dimensional_scores")
		}))
		require.Error(t, err)
	})
}
