package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"carrier-engagement/model"
)

// AnalyticsStore persists extracted call analytics.
type AnalyticsStore interface {
	Insert(ctx context.Context, a *model.CallAnalytics) (string, error)
}

type AnalyticsUsecase struct {
	store AnalyticsStore
	now   func() time.Time

	extractOffer      func(*model.CallData, time.Time) model.OfferData
	classifyOutcome   func(*model.CallData, time.Time) model.OutcomeClassification
	classifySentiment func(*model.CallData, time.Time) model.SentimentClassification
}

func NewAnalyticsUsecase(store AnalyticsStore) *AnalyticsUsecase {
	return &AnalyticsUsecase{
		store:             store,
		now:               func() time.Time { return time.Now().UTC() },
		extractOffer:      ExtractOfferData,
		classifyOutcome:   ClassifyOutcome,
		classifySentiment: ClassifySentiment,
	}
}

// Extract runs offer extraction, outcome and sentiment classification over a
// finished call. A failure inside any step is reported in the summary rather
// than returned.
func (u *AnalyticsUsecase) Extract(ctx context.Context, eventID string, cd *model.CallData) *model.CallAnalytics {
	now := u.now()
	a := &model.CallAnalytics{
		CallID:            "unknown",
		EventID:           eventID,
		AnalysisTimestamp: now.Format(time.RFC3339Nano),
	}
	if cd.CallID != nil && *cd.CallID != "" {
		a.CallID = *cd.CallID
	}

	if err := u.classify(a, cd, now); err != nil {
		slog.ErrorContext(ctx, "failed to extract analytics", "call_id", a.CallID, "error", err)
		a.Summary = model.AnalyticsSummary{AnalysisComplete: false, Error: err.Error()}
		return a
	}
	slog.InfoContext(ctx, "analytics extracted",
		"call_id", a.CallID,
		"outcome", a.CallOutcome.PrimaryOutcome,
		"sentiment", a.CarrierSentiment.OverallSentiment)
	return a
}

func (u *AnalyticsUsecase) classify(a *model.CallAnalytics, cd *model.CallData, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analytics panic: %v", r)
		}
	}()

	offer := u.extractOffer(cd, now)
	outcome := u.classifyOutcome(cd, now)
	sentiment := u.classifySentiment(cd, now)

	a.OfferData = &offer
	a.CallOutcome = &outcome
	a.CarrierSentiment = &sentiment
	a.Summary = model.AnalyticsSummary{
		DataQuality:         offer.OfferSummary.DataCompleteness,
		OutcomeConfidence:   outcome.OutcomeConfidence,
		SentimentConfidence: sentiment.SentimentConfidence,
		AnalysisComplete:    true,
	}
	return nil
}

// Store persists the analytics and returns its id, or nil when the write
// failed.
func (u *AnalyticsUsecase) Store(ctx context.Context, a *model.CallAnalytics) *string {
	id, err := u.store.Insert(ctx, a)
	if err != nil {
		slog.ErrorContext(ctx, "failed to store call analytics", "call_id", a.CallID, "error", err)
		return nil
	}
	return &id
}
