package dao

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"carrier-engagement/model"
)

type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Insert appends a webhook event to the call_events log and returns its row id.
func (r *EventRepository) Insert(ctx context.Context, ev *model.CallEventRecord) (string, error) {
	if ev.ID == "" {
		ev.ID = NewID()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return "", fmt.Errorf("marshal call event: %w", err)
	}
	query := `INSERT INTO call_events (id, event_id, event_type, call_id, carrier_mc, load_id, event_data, received_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, ev.ID, ev.EventID, string(ev.EventType), ev.CallID, ev.CarrierMC, ev.LoadID, string(data), ev.ReceivedAt)
	if err != nil {
		return "", fmt.Errorf("insert call event: %w", err)
	}
	return ev.ID, nil
}

func (r *EventRepository) CountByType(ctx context.Context) (map[model.EventType]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT event_type, COUNT(*) FROM call_events GROUP BY event_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.EventType]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[model.EventType(t)] = n
	}
	return counts, rows.Err()
}
