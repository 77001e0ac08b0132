package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreTier(t *testing.T) {
	assert.Equal(t, TierStrong, ScoreTier(9))
	assert.Equal(t, TierStrong, ScoreTier(8))
	assert.Equal(t, TierModerate, ScoreTier(7))
	assert.Equal(t, TierModerate, ScoreTier(6))
	assert.Equal(t, TierWeak, ScoreTier(5))
	assert.Equal(t, TierWeak, ScoreTier(4))
	assert.Equal(t, TierWeak, ScoreTier(0))
}

func TestBuildView(t *testing.T) {
	t.Run("processing record carries identity only", func(t *testing.T) {
		rec := &Record{ID: "a1", FileName: "plan.txt", Status: StatusProcessing}
		v := BuildView(rec)
		assert.Equal(t, StatusProcessing, v.State)
		assert.Nil(t, v.OverallScore)
		assert.Empty(t, v.Overview)
		assert.Empty(t, v.Verdict)
	})

	t.Run("completed record renders all sections", func(t *testing.T) {
		rep, err := ParseReport(validReportJSON(t, func(m map[string]any) {
			m["overall_score"] = 85
			m["dimensional_scores"].(map[string]any)["traction"] = 4
			m["dimensional_scores"].(map[string]any)["team_composition"] = 9
		}))
		require.NoError(t, err)

		rec := &Record{ID: "a1", FileName: "plan.txt", Status: StatusProcessing}
		rec.Complete(rep, []byte("{}"), time.Now())

		v := BuildView(rec)
		assert.Equal(t, StatusCompleted, v.State)
		require.NotNil(t, v.OverallScore)
		assert.Equal(t, 85, *v.OverallScore)
		assert.Equal(t, "Investor-ready with minor refinements", v.Verdict)

		require.Len(t, v.Overview, len(Dimensions))
		// Stored canonical order, not map order
		assert.Equal(t, "problem_definition", v.Overview[0].Key)
		assert.Equal(t, "problem definition", v.Overview[0].Label)

		byKey := map[string]DimensionRow{}
		for _, row := range v.Overview {
			byKey[row.Key] = row
		}
		assert.Equal(t, TierWeak, byKey["traction"].Tier)
		assert.Equal(t, 40, byKey["traction"].Percent)
		assert.Equal(t, TierStrong, byKey["team_composition"].Tier)

		require.Len(t, v.Strengths, 1)
		assert.Equal(t, TierStrong, v.Strengths[0].Tier)
		require.Len(t, v.Gaps, 1)
		assert.Equal(t, TierWeak, v.Gaps[0].Tier)
		assert.NotNil(t, v.Financial)
		assert.NotNil(t, v.ActionPlan)
	})

	t.Run("verdict thresholds", func(t *testing.T) {
		cases := []struct {
			overall int
			want    string
		}{
			{80, "Investor-ready with minor refinements"},
			{79, "Solid foundation, needs improvement"},
			{60, "Solid foundation, needs improvement"},
			{59, "Requires significant development"},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.want, verdict(tc.overall), "overall=%d", tc.overall)
		}
	})
}
