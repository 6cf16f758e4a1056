package dao_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrier-engagement/dao"
	"carrier-engagement/model"
)

func analytics(outcome, sentiment string) *model.CallAnalytics {
	return &model.CallAnalytics{
		CallID:            "call",
		EventID:           "evt",
		AnalysisTimestamp: "2026-03-01T12:00:00Z",
		CallOutcome:       &model.OutcomeClassification{PrimaryOutcome: outcome},
		CarrierSentiment:  &model.SentimentClassification{OverallSentiment: sentiment},
		Summary:           model.AnalyticsSummary{AnalysisComplete: true},
	}
}

func TestAnalyticsRepository_Aggregates(t *testing.T) {
	repo := dao.NewAnalyticsRepository(openTestDB(t))
	ctx := context.Background()

	last, err := repo.LastCreated(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	for _, a := range []*model.CallAnalytics{
		analytics(model.OutcomeSuccess, model.SentimentPositive),
		analytics(model.OutcomeSuccess, model.SentimentNeutral),
		analytics(model.OutcomeAbandoned, model.SentimentNegative),
		{CallID: "failed", Summary: model.AnalyticsSummary{Error: "boom"}},
	} {
		id, err := repo.Insert(ctx, a)
		require.NoError(t, err)
		assert.Equal(t, a.ID, id)
	}

	outcomes, err := repo.OutcomeCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{model.OutcomeSuccess: 2, model.OutcomeAbandoned: 1, "": 1}, outcomes)

	sentiments, err := repo.SentimentCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sentiments[model.SentimentPositive])
	assert.Equal(t, 1, sentiments[model.SentimentNegative])

	last, err = repo.LastCreated(ctx)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.NotEmpty(t, *last)
}
