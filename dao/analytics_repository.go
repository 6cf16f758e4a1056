package dao

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"carrier-engagement/model"
)

type AnalyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) Insert(ctx context.Context, a *model.CallAnalytics) (string, error) {
	if a.ID == "" {
		a.ID = NewID()
	}

	var primary, sentiment string
	if a.CallOutcome != nil {
		primary = a.CallOutcome.PrimaryOutcome
	}
	if a.CarrierSentiment != nil {
		sentiment = a.CarrierSentiment.OverallSentiment
	}

	blobs := make([]string, 0, 4)
	for _, v := range []any{a.OfferData, a.CallOutcome, a.CarrierSentiment, a.Summary} {
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("marshal analytics: %w", err)
		}
		blobs = append(blobs, string(b))
	}

	query := `INSERT INTO call_analytics (id, call_id, event_id, analysis_timestamp, primary_outcome, overall_sentiment, offer_data, call_outcome, carrier_sentiment, summary_metrics, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.CallID, a.EventID, a.AnalysisTimestamp, primary, sentiment,
		blobs[0], blobs[1], blobs[2], blobs[3], formatTime(time.Now()),
	)
	if err != nil {
		return "", fmt.Errorf("insert call analytics: %w", err)
	}
	return a.ID, nil
}

// OutcomeCounts returns the number of analysed calls per primary outcome.
func (r *AnalyticsRepository) OutcomeCounts(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `SELECT primary_outcome, COUNT(*) FROM call_analytics GROUP BY primary_outcome`)
}

// SentimentCounts returns the number of analysed calls per overall sentiment.
func (r *AnalyticsRepository) SentimentCounts(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `SELECT overall_sentiment, COUNT(*) FROM call_analytics GROUP BY overall_sentiment`)
}

// LastCreated returns the newest created_at, or nil when nothing was stored yet.
func (r *AnalyticsRepository) LastCreated(ctx context.Context) (*string, error) {
	var last sql.NullString
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(created_at) FROM call_analytics`).Scan(&last); err != nil {
		return nil, err
	}
	if !last.Valid {
		return nil, nil
	}
	return &last.String, nil
}

func (r *AnalyticsRepository) groupCount(ctx context.Context, query string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key sql.NullString
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		counts[key.String] += n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
