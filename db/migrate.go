package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"carrier-engagement/dao"
	"carrier-engagement/model"
)

// Statements are kept to types both MySQL and SQLite accept.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS call_events (
		id CHAR(26) PRIMARY KEY,
		event_id VARCHAR(64),
		event_type VARCHAR(64),
		call_id VARCHAR(128),
		carrier_mc VARCHAR(32),
		load_id VARCHAR(64),
		event_data TEXT,
		received_at VARCHAR(64)
	)`,
	`CREATE TABLE IF NOT EXISTS negotiations (
		id CHAR(26) PRIMARY KEY,
		load_id VARCHAR(64),
		carrier_mc VARCHAR(32),
		original_rate DOUBLE,
		offered_rate DOUBLE,
		max_acceptable_rate DOUBLE,
		counter_offer_count INT,
		status VARCHAR(32),
		negotiation_history TEXT,
		created_at VARCHAR(64),
		updated_at VARCHAR(64)
	)`,
	`CREATE TABLE IF NOT EXISTS call_analytics (
		id CHAR(26) PRIMARY KEY,
		call_id VARCHAR(128),
		event_id VARCHAR(64),
		analysis_timestamp VARCHAR(64),
		primary_outcome VARCHAR(32),
		overall_sentiment VARCHAR(32),
		offer_data TEXT,
		call_outcome TEXT,
		carrier_sentiment TEXT,
		summary_metrics TEXT,
		created_at VARCHAR(64)
	)`,
	`CREATE TABLE IF NOT EXISTS loads (
		load_id VARCHAR(64) PRIMARY KEY,
		origin VARCHAR(255) NOT NULL,
		destination VARCHAR(255) NOT NULL,
		pickup_datetime VARCHAR(64),
		delivery_datetime VARCHAR(64),
		equipment_type VARCHAR(64) NOT NULL,
		loadboard_rate DOUBLE NOT NULL,
		notes TEXT,
		weight DOUBLE,
		commodity_type VARCHAR(128),
		num_of_pieces INT,
		miles DOUBLE,
		dimensions VARCHAR(128),
		created_at VARCHAR(64)
	)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for _, q := range schema {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	slog.Info("database initialized", "tables", len(schema))
	return nil
}

// SampleLoads returns the demo freight posted at startup, dated relative to now.
func SampleLoads(now time.Time) []model.Load {
	str := func(s string) *string { return &s }
	num := func(f float64) *float64 { return &f }
	one := 1
	day := 24 * time.Hour

	return []model.Load{
		{
			LoadID:           "LOAD001",
			Origin:           "Chicago, IL",
			Destination:      "Atlanta, GA",
			PickupDatetime:   now.Add(day + 9*time.Hour),
			DeliveryDatetime: now.Add(3*day + 17*time.Hour),
			EquipmentType:    "Dry Van",
			LoadboardRate:    2500.0,
			Notes:            str("Standard delivery, dock high"),
			Weight:           num(25000.0),
			CommodityType:    str("Electronics"),
			NumOfPieces:      &one,
			Miles:            num(717.0),
			Dimensions:       str("53ft trailer"),
		},
		{
			LoadID:           "LOAD002",
			Origin:           "Los Angeles, CA",
			Destination:      "Denver, CO",
			PickupDatetime:   now.Add(2*day + 8*time.Hour),
			DeliveryDatetime: now.Add(4*day + 16*time.Hour),
			EquipmentType:    "Reefer",
			LoadboardRate:    3200.0,
			Notes:            str("Temperature controlled: 34-38°F"),
			Weight:           num(32000.0),
			CommodityType:    str("Fresh Produce"),
			NumOfPieces:      &one,
			Miles:            num(1015.0),
			Dimensions:       str("53ft reefer trailer"),
		},
	}
}

// Seed posts the sample loads that are not already present.
func Seed(ctx context.Context, loads *dao.LoadRepository, now time.Time) (int, error) {
	inserted := 0
	for _, l := range SampleLoads(now) {
		existing, err := loads.GetByID(ctx, l.LoadID)
		if err != nil {
			return inserted, err
		}
		if existing != nil {
			continue
		}
		if err := loads.Insert(ctx, &l); err != nil {
			return inserted, err
		}
		inserted++
	}
	slog.Info("sample loads initialized", "inserted", inserted)
	return inserted, nil
}
