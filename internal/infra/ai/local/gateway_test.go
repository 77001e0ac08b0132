package local

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iterativai/empathic-venture-forge/internal/domain/ai"
	"github.com/iterativai/empathic-venture-forge/internal/domain/analysis"
)

func TestGatewayAnalyzeJSON(t *testing.T) {
	t.Run("output always passes report validation", func(t *testing.T) {
		g := New()
		for _, plan := range []string{
			"",
			"We solve X for Y",
			"Our TAM is 3 billion. The team has deep domain experience. Revenue model is SaaS subscription with strong unit economics, CAC and LTV tracked.",
		} {
			raw, err := g.AnalyzeJSON(context.Background(), "", plan)
			require.NoError(t, err)

			rep, err := analysis.ParseReport([]byte(raw))
			require.NoError(t, err, "plan=%q", plan)
			assert.Len(t, rep.DimensionalScores, len(analysis.Dimensions))
			assert.GreaterOrEqual(t, rep.OverallScore, 0)
			assert.LessOrEqual(t, rep.OverallScore, 100)
		}
	})

	t.Run("keyword evidence raises dimension scores", func(t *testing.T) {
		g := New()
		bare, err := g.AnalyzeJSON(context.Background(), "", "nothing relevant here")
		require.NoError(t, err)
		rich, err := g.AnalyzeJSON(context.Background(), "", "Our TAM and SAM show a billion dollar market size")
		require.NoError(t, err)

		repBare, err := analysis.ParseReport([]byte(bare))
		require.NoError(t, err)
		repRich, err := analysis.ParseReport([]byte(rich))
		require.NoError(t, err)

		assert.Greater(t,
			repRich.DimensionalScores["market_sizing"],
			repBare.DimensionalScores["market_sizing"],
		)
	})

	t.Run("unsupported dimensions become gaps", func(t *testing.T) {
		g := New()
		raw, err := g.AnalyzeJSON(context.Background(), "", "nothing relevant here")
		require.NoError(t, err)

		rep, err := analysis.ParseReport([]byte(raw))
		require.NoError(t, err)
		assert.NotEmpty(t, rep.Gaps)
		for _, gap := range rep.Gaps {
			assert.Less(t, gap.Score, 6)
		}
	})

	t.Run("deterministic for the same input", func(t *testing.T) {
		g := New()
		a, err := g.AnalyzeJSON(context.Background(), "", "We solve X for Y")
		require.NoError(t, err)
		b, err := g.AnalyzeJSON(context.Background(), "", "We solve X for Y")
		require.NoError(t, err)
		assert.JSONEq(t, a, b)
	})
}

func TestGatewayChat(t *testing.T) {
	g := New()

	_, err := g.Chat(context.Background(), "", nil)
	assert.Error(t, err)

	reply, err := g.Chat(context.Background(), "", []ai.Message{
		{Role: "user", Content: "How big should my seed round be?"},
	})
	require.NoError(t, err)
	assert.Contains(t, reply, "How big should my seed round be?")
}
