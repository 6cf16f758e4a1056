package model

type CarrierInfo struct {
	MCNumber           string  `json:"mc_number"`
	CompanyName        *string `json:"company_name,omitempty"`
	PhoneNumber        *string `json:"phone_number,omitempty"`
	Email              *string `json:"email,omitempty"`
	IsVerified         bool    `json:"is_verified,omitempty"`
	PreferredEquipment *string `json:"preferred_equipment,omitempty"`
}

// CarrierVerification is a point-in-time eligibility snapshot for an MC number.
type CarrierVerification struct {
	MCNumber         string         `json:"mc_number,omitempty"`
	CompanyName      string         `json:"company_name,omitempty"`
	Status           string         `json:"status,omitempty"`
	IsEligible       bool           `json:"is_eligible"`
	VerificationDate string         `json:"verification_date,omitempty"`
	OutOfService     *bool          `json:"out_of_service,omitempty"`
	EquipmentTypes   []string       `json:"equipment_types,omitempty"`
	ServiceAreas     []string       `json:"service_areas,omitempty"`
	RawFMCSAData     map[string]any `json:"raw_fmcsa_data,omitempty"`
	Error            string         `json:"error,omitempty"`
}
