package usecase

import (
	"context"
	"fmt"

	"carrier-engagement/model"
)

// AnalyticsReader aggregates stored call analytics.
type AnalyticsReader interface {
	OutcomeCounts(ctx context.Context) (map[string]int, error)
	SentimentCounts(ctx context.Context) (map[string]int, error)
	LastCreated(ctx context.Context) (*string, error)
}

// NegotiationStatsReader aggregates stored negotiation records.
type NegotiationStatsReader interface {
	Stats(ctx context.Context) (*model.NegotiationMetrics, error)
}

// EventCounter counts received webhook events.
type EventCounter interface {
	CountByType(ctx context.Context) (map[model.EventType]int, error)
}

type DashboardUsecase struct {
	analytics    AnalyticsReader
	negotiations NegotiationStatsReader
	events       EventCounter
}

func NewDashboardUsecase(analytics AnalyticsReader, negotiations NegotiationStatsReader, events EventCounter) *DashboardUsecase {
	return &DashboardUsecase{analytics: analytics, negotiations: negotiations, events: events}
}

// successOutcomes count towards successful calls. "transferred" is not
// produced by the classifier but may exist in older rows.
var successOutcomes = []string{model.OutcomeSuccess, "transferred", model.OutcomePartialSuccess}

func (u *DashboardUsecase) Summary(ctx context.Context) (*model.AnalyticsSummaryReport, error) {
	outcomes, err := u.analytics.OutcomeCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("outcome counts: %w", err)
	}
	sentiments, err := u.analytics.SentimentCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("sentiment counts: %w", err)
	}
	stats, err := u.negotiations.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("negotiation stats: %w", err)
	}
	last, err := u.analytics.LastCreated(ctx)
	if err != nil {
		return nil, fmt.Errorf("last analytics: %w", err)
	}

	total := 0
	for _, n := range outcomes {
		total += n
	}
	successful := 0
	for _, o := range successOutcomes {
		successful += outcomes[o]
	}
	complete := outcomes[model.OutcomeSuccess]
	rate := roundPercent(successful, total)

	return &model.AnalyticsSummaryReport{
		TotalCalls:      total,
		SuccessfulCalls: successful,
		SuccessRate:     rate,
		SuccessBreakdown: model.SuccessBreakdown{
			CompleteSuccess:        complete,
			PartialSuccess:         outcomes[model.OutcomePartialSuccess],
			AISuccessRate:          rate,
			OperationalSuccessRate: roundPercent(complete, total),
		},
		SentimentBreakdown: sentiments,
		NegotiationMetrics: *stats,
		LastUpdated:        last,
	}, nil
}

type DataPoints struct {
	TotalCalls        int                     `json:"total_calls"`
	TotalNegotiations int                     `json:"total_negotiations"`
	TotalEvents       int                     `json:"total_events"`
	EventsByType      map[model.EventType]int `json:"events_by_type"`
}

type DashboardStatus struct {
	Status              string     `json:"status"`
	AnalyticsCollection string     `json:"analytics_collection"`
	DataPoints          DataPoints `json:"data_points"`
	LastActivity        string     `json:"last_activity"`
	SystemHealth        string     `json:"system_health"`
}

func (u *DashboardUsecase) Status(ctx context.Context) (*DashboardStatus, error) {
	s, err := u.Summary(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := u.events.CountByType(ctx)
	if err != nil {
		return nil, fmt.Errorf("event counts: %w", err)
	}
	events := 0
	for _, n := range byType {
		events += n
	}
	last := "No data yet"
	if s.LastUpdated != nil {
		last = *s.LastUpdated
	}
	return &DashboardStatus{
		Status:              "operational",
		AnalyticsCollection: "active",
		DataPoints: DataPoints{
			TotalCalls:        s.TotalCalls,
			TotalNegotiations: s.NegotiationMetrics.TotalNegotiations,
			TotalEvents:       events,
			EventsByType:      byType,
		},
		LastActivity: last,
		SystemHealth: "healthy",
	}, nil
}
