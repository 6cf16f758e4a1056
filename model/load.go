package model

import "time"

type Load struct {
	LoadID           string    `json:"load_id"`
	Origin           string    `json:"origin"`
	Destination      string    `json:"destination"`
	PickupDatetime   time.Time `json:"pickup_datetime"`
	DeliveryDatetime time.Time `json:"delivery_datetime"`
	EquipmentType    string    `json:"equipment_type"`
	LoadboardRate    float64   `json:"loadboard_rate"`
	Notes            *string   `json:"notes,omitempty"` // Nullable
	Weight           *float64  `json:"weight,omitempty"`
	CommodityType    *string   `json:"commodity_type,omitempty"`
	NumOfPieces      *int      `json:"num_of_pieces,omitempty"`
	Miles            *float64  `json:"miles,omitempty"`
	Dimensions       *string   `json:"dimensions,omitempty"`
}

// LoadCriteria filters a load search. Empty fields match everything.
type LoadCriteria struct {
	Origin        string
	Destination   string
	EquipmentType string
}
