package dao

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"carrier-engagement/model"
)

type NegotiationRepository struct {
	db *sql.DB
}

func NewNegotiationRepository(db *sql.DB) *NegotiationRepository {
	return &NegotiationRepository{db: db}
}

func (r *NegotiationRepository) Insert(ctx context.Context, n *model.NegotiationRecord) (string, error) {
	if n.ID == "" {
		n.ID = NewID()
	}
	now := time.Now()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.IsZero() {
		n.UpdatedAt = now
	}
	history, err := json.Marshal(n.History)
	if err != nil {
		return "", fmt.Errorf("marshal negotiation history: %w", err)
	}

	query := `INSERT INTO negotiations (id, load_id, carrier_mc, original_rate, offered_rate, max_acceptable_rate, counter_offer_count, status, negotiation_history, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		n.ID, n.LoadID, n.CarrierMC, n.OriginalRate, n.OfferedRate, n.MaxAcceptableRate,
		n.CounterOfferCount, string(n.Status), string(history), formatTime(n.CreatedAt), formatTime(n.UpdatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("insert negotiation: %w", err)
	}
	return n.ID, nil
}

// ListByKey returns every record written for a negotiation, oldest first.
func (r *NegotiationRepository) ListByKey(ctx context.Context, key model.NegotiationKey) ([]model.NegotiationRecord, error) {
	query := `
		SELECT id, load_id, carrier_mc, original_rate, offered_rate, max_acceptable_rate, counter_offer_count, status, negotiation_history, created_at, updated_at
		FROM negotiations
		WHERE load_id = ? AND carrier_mc = ?
		ORDER BY id ASC
	`
	rows, err := r.db.QueryContext(ctx, query, key.LoadID, key.CarrierMC)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.NegotiationRecord
	for rows.Next() {
		var n model.NegotiationRecord
		var status, history, createdAt, updatedAt string
		if err := rows.Scan(&n.ID, &n.LoadID, &n.CarrierMC, &n.OriginalRate, &n.OfferedRate, &n.MaxAcceptableRate,
			&n.CounterOfferCount, &status, &history, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		n.Status = model.NegotiationStatus(status)
		if history != "" {
			if err := json.Unmarshal([]byte(history), &n.History); err != nil {
				return nil, fmt.Errorf("decode negotiation history %s: %w", n.ID, err)
			}
		}
		n.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		n.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		records = append(records, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Stats aggregates rounds and rate movement across all stored negotiations.
func (r *NegotiationRepository) Stats(ctx context.Context) (*model.NegotiationMetrics, error) {
	var total int
	var avgRounds, avgDiff sql.NullFloat64
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*), AVG(counter_offer_count), AVG(offered_rate - original_rate) FROM negotiations`)
	if err := row.Scan(&total, &avgRounds, &avgDiff); err != nil {
		return nil, fmt.Errorf("negotiation stats: %w", err)
	}
	m := &model.NegotiationMetrics{TotalNegotiations: total}
	if avgRounds.Valid {
		m.AverageRounds = avgRounds.Float64
	}
	if avgDiff.Valid {
		m.AverageRateDifference = avgDiff.Float64
	}
	return m, nil
}
