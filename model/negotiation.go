package model

import "time"

type NegotiationStatus string

const (
	NegotiationNegotiating  NegotiationStatus = "negotiating"
	NegotiationRecorded     NegotiationStatus = "recorded"
	NegotiationOverLimit    NegotiationStatus = "over_limit"
	NegotiationLimitReached NegotiationStatus = "limit_reached"
	NegotiationCompleted    NegotiationStatus = "completed"
)

// Terminal reports whether no further offers may be recorded.
func (s NegotiationStatus) Terminal() bool {
	return s == NegotiationLimitReached || s == NegotiationCompleted
}

const (
	OutcomeAgreement               = "agreement"
	OutcomeNoAgreement             = "no_agreement"
	OutcomeAgreementTransferFailed = "agreement_transfer_failed"
)

// NegotiationKey identifies one negotiation: a carrier bidding on a load.
type NegotiationKey struct {
	LoadID    string
	CarrierMC string
}

type RoundRecord struct {
	Round       int       `json:"round"`
	OfferedRate float64   `json:"offered_rate"`
	Timestamp   time.Time `json:"timestamp"`
}

// NegotiationState is the live ledger entry for a NegotiationKey.
type NegotiationState struct {
	LoadID       string            `json:"load_id"`
	CarrierMC    string            `json:"carrier_mc"`
	OriginalRate float64           `json:"original_rate"`
	CurrentOffer float64           `json:"current_offer"`
	Rounds       int               `json:"rounds"`
	Ceiling      float64           `json:"ceiling"`
	Status       NegotiationStatus `json:"status"`
	History      []RoundRecord     `json:"history"`
}

// HistoryEntry is one element of a persisted negotiation's history. Round
// records fill OfferedRate; reconciliation summaries fill the final fields.
type HistoryEntry struct {
	Round        int      `json:"round"`
	OfferedRate  *float64 `json:"offered_rate,omitempty"`
	FinalRate    *float64 `json:"final_rate,omitempty"`
	OriginalRate *float64 `json:"original_rate,omitempty"`
	Outcome      string   `json:"outcome,omitempty"`
	Timestamp    string   `json:"timestamp"`
}

// NegotiationRecord is the append-only row written to the negotiations table.
type NegotiationRecord struct {
	ID                string            `json:"id"`
	LoadID            string            `json:"load_id"`
	CarrierMC         string            `json:"carrier_mc"`
	OriginalRate      float64           `json:"original_rate"`
	OfferedRate       float64           `json:"offered_rate"`
	MaxAcceptableRate float64           `json:"max_acceptable_rate"`
	CounterOfferCount int               `json:"counter_offer_count"`
	Status            NegotiationStatus `json:"status"`
	History           []HistoryEntry    `json:"negotiation_history"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type NegotiationResult struct {
	LoadID        string    `json:"load_id"`
	CarrierMC     string    `json:"carrier_mc"`
	OriginalRate  float64   `json:"original_rate"`
	FinalRate     *float64  `json:"final_rate"` // Nullable
	TotalRounds   int       `json:"total_rounds"`
	Outcome       string    `json:"outcome"`
	OutcomeReason string    `json:"outcome_reason"`
	CompletedAt   time.Time `json:"completed_at"`
}

type RateAnalysis struct {
	OriginalRate    *float64 `json:"original_rate"`
	CarrierOffer    float64  `json:"carrier_offer"`
	MaxAcceptable   float64  `json:"max_acceptable"`
	CurrentRound    int      `json:"current_round"`
	RoundsRemaining int      `json:"rounds_remaining"`
}

// NegotiationDecision is the engine's answer to a single carrier offer.
type NegotiationDecision struct {
	Status       NegotiationStatus `json:"negotiation_status"`
	Message      string            `json:"message"`
	NextAction   string            `json:"next_action"`
	FinalOffer   *float64          `json:"final_offer,omitempty"`
	CounterOffer *float64          `json:"counter_offer,omitempty"`
	RateAnalysis RateAnalysis      `json:"rate_analysis"`
}
