package dao

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"carrier-engagement/model"
)

type LoadRepository struct {
	db *sql.DB
}

func NewLoadRepository(db *sql.DB) *LoadRepository {
	return &LoadRepository{db: db}
}

const loadColumns = `load_id, origin, destination, pickup_datetime, delivery_datetime, equipment_type, loadboard_rate, notes, weight, commodity_type, num_of_pieces, miles, dimensions`

func (r *LoadRepository) GetAll(ctx context.Context) ([]model.Load, error) {
	query := `SELECT ` + loadColumns + ` FROM loads ORDER BY created_at ASC, load_id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loads []model.Load
	for rows.Next() {
		load, err := scanLoad(rows)
		if err != nil {
			return nil, err
		}
		loads = append(loads, *load)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return loads, nil
}

// GetByID returns nil, nil when the load does not exist.
func (r *LoadRepository) GetByID(ctx context.Context, id string) (*model.Load, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+loadColumns+` FROM loads WHERE load_id = ?`, id)
	load, err := scanLoad(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}
	return load, nil
}

// Search applies case-insensitive substring filters, keeping posting order.
func (r *LoadRepository) Search(ctx context.Context, c model.LoadCriteria) ([]model.Load, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]model.Load, 0, len(all))
	for _, l := range all {
		if !containsFold(l.Origin, c.Origin) ||
			!containsFold(l.Destination, c.Destination) ||
			!containsFold(l.EquipmentType, c.EquipmentType) {
			continue
		}
		results = append(results, l)
	}
	return results, nil
}

func (r *LoadRepository) Insert(ctx context.Context, l *model.Load) error {
	query := `INSERT INTO loads (` + loadColumns + `, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		l.LoadID, l.Origin, l.Destination, formatTime(l.PickupDatetime), formatTime(l.DeliveryDatetime),
		l.EquipmentType, l.LoadboardRate, l.Notes, l.Weight, l.CommodityType, l.NumOfPieces, l.Miles, l.Dimensions,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("insert load %s: %w", l.LoadID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLoad(s rowScanner) (*model.Load, error) {
	var l model.Load
	var pickup, delivery string
	var notes, commodity, dimensions sql.NullString
	var weight, miles sql.NullFloat64
	var pieces sql.NullInt64

	if err := s.Scan(&l.LoadID, &l.Origin, &l.Destination, &pickup, &delivery, &l.EquipmentType, &l.LoadboardRate,
		&notes, &weight, &commodity, &pieces, &miles, &dimensions); err != nil {
		return nil, err
	}

	l.PickupDatetime, _ = time.Parse(time.RFC3339Nano, pickup)
	l.DeliveryDatetime, _ = time.Parse(time.RFC3339Nano, delivery)
	if notes.Valid {
		l.Notes = &notes.String
	}
	if commodity.Valid {
		l.CommodityType = &commodity.String
	}
	if dimensions.Valid {
		l.Dimensions = &dimensions.String
	}
	if weight.Valid {
		l.Weight = &weight.Float64
	}
	if miles.Valid {
		l.Miles = &miles.Float64
	}
	if pieces.Valid {
		val := int(pieces.Int64)
		l.NumOfPieces = &val
	}
	return &l, nil
}

func containsFold(s, sub string) bool {
	return sub == "" || strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
