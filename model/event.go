package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"
)

type EventType string

const (
	EventCarrierCallInitiated  EventType = "carrier_call_initiated"
	EventLoadInterestExpressed EventType = "load_interest_expressed"
	EventNegotiationOffer      EventType = "negotiation_offer"
	EventAgreementReached      EventType = "agreement_reached"
	EventNegotiationDeclined   EventType = "negotiation_declined"
	EventCarrierNotInterested  EventType = "carrier_not_interested"
	EventTransferFailed        EventType = "transfer_failed"
	EventCallEnded             EventType = "call_ended"
)

var ErrMissingMCNumber = errors.New("carrier_info.mc_number is required")

// WebhookPayload is the wire shape posted by the voice platform.
type WebhookPayload struct {
	EventType   EventType    `json:"event_type" binding:"required"`
	CarrierInfo *CarrierInfo `json:"carrier_info,omitempty"`
	LoadInfo    *Load        `json:"load_info,omitempty"`
	CallData    *CallData    `json:"call_data,omitempty"`
	Timestamp   *time.Time   `json:"timestamp,omitempty"`
}

// Count is an integer field that also accepts JSON floats and numeric strings.
// Fractions round up, so any positive value counts as at least one.
type Count int

func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*c = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid count %q: %w", b, err)
	}
	*c = Count(math.Ceil(f))
	return nil
}

type CallEvent struct {
	Type      string `json:"type"`
	Timestamp any    `json:"timestamp,omitempty"`
}

// CallData carries the loosely populated call metadata. Absent keys decode
// to zero values; pointer fields distinguish "absent" where the rules care.
type CallData struct {
	CallID                *string `json:"call_id,omitempty"`
	LoadID                *string `json:"load_id,omitempty"`
	Outcome               string  `json:"outcome,omitempty"`
	TransferFailureReason *string `json:"transfer_failure_reason,omitempty"`
	CarrierSentiment      string  `json:"carrier_sentiment,omitempty"`

	OfferedRate        *float64 `json:"offered_rate,omitempty"`
	OriginalRate       *float64 `json:"original_rate,omitempty"`
	FinalRate          *float64 `json:"final_rate,omitempty"`
	CarrierOfferedRate *float64 `json:"carrier_offered_rate,omitempty"`

	CounterOfferCount Count `json:"counter_offer_count,omitempty"`
	TotalRounds       Count `json:"total_rounds,omitempty"`
	NegotiationRounds Count `json:"negotiation_rounds,omitempty"`
	QuestionsAsked    Count `json:"questions_asked,omitempty"`

	Duration            *float64 `json:"duration,omitempty"`
	CallDurationSeconds *float64 `json:"call_duration_seconds,omitempty"`
	DurationSeconds     *float64 `json:"duration_seconds,omitempty"`

	CarrierInterested        bool `json:"carrier_interested,omitempty"`
	AgreementReached         bool `json:"agreement_reached,omitempty"`
	NegotiationOccurred      bool `json:"negotiation_occurred,omitempty"`
	MultipleLoadsDiscussed   bool `json:"multiple_loads_discussed,omitempty"`
	CarrierRequestedCallback bool `json:"carrier_requested_callback,omitempty"`

	NegotiationData json.RawMessage `json:"negotiation_data,omitempty"`
	CallEvents      []CallEvent     `json:"call_events,omitempty"`

	CarrierInfo *CarrierInfo `json:"carrier_info,omitempty"`
	LoadInfo    *Load        `json:"load_info,omitempty"`
}

// CallSeconds is the call length used by the sentiment and conversation
// heuristics.
func (c *CallData) CallSeconds() float64 {
	switch {
	case c.CallDurationSeconds != nil:
		return *c.CallDurationSeconds
	case c.DurationSeconds != nil:
		return *c.DurationSeconds
	}
	return 0
}

// AnyDuration prefers the generic duration key before CallSeconds.
func (c *CallData) AnyDuration() float64 {
	if c.Duration != nil {
		return *c.Duration
	}
	return c.CallSeconds()
}

// HasNegotiationData reports whether a negotiation snapshot should be extracted.
func (c *CallData) HasNegotiationData() bool {
	return len(c.NegotiationData) > 0 || c.NegotiationOccurred
}

func (c *CallData) callID() *string {
	if c == nil {
		return nil
	}
	return c.CallID
}

func (c *CallData) loadID() *string {
	if c == nil {
		return nil
	}
	return c.LoadID
}

// Event is one decoded webhook event. Each recognized event type has its own
// variant; anything else decodes to UnknownEvent.
type Event interface {
	Type() EventType
	Base() *EventBase
}

// EventBase holds what every variant shares and what the event log records.
type EventBase struct {
	EventType   EventType
	CarrierInfo *CarrierInfo
	LoadInfo    *Load
	CallData    *CallData
	Timestamp   time.Time
}

func (b *EventBase) Type() EventType  { return b.EventType }
func (b *EventBase) Base() *EventBase { return b }

// CarrierMC returns the carrier's MC number or "unknown".
func (b *EventBase) CarrierMC() string {
	if b.CarrierInfo == nil || b.CarrierInfo.MCNumber == "" {
		return "unknown"
	}
	return b.CarrierInfo.MCNumber
}

func (b *EventBase) CallID() *string { return b.CallData.callID() }
func (b *EventBase) LoadID() *string { return b.CallData.loadID() }

type CallInitiatedEvent struct{ EventBase }

type LoadInterestEvent struct{ EventBase }

type CarrierNotInterestedEvent struct{ EventBase }

type UnknownEvent struct{ EventBase }

// OfferTerms is one carrier counter-offer as submitted to the engine.
type OfferTerms struct {
	LoadID       string
	OfferedRate  float64
	OriginalRate *float64
	CurrentRound int
}

type NegotiationOfferEvent struct {
	EventBase
	// Offer is nil when the call data carries no offered_rate.
	Offer *OfferTerms
}

// SettlementTerms are the facts a terminal negotiation event reports.
type SettlementTerms struct {
	LoadID                string
	OriginalRate          float64
	FinalRate             *float64
	TotalRounds           int
	TransferFailureReason string
}

type AgreementReachedEvent struct {
	EventBase
	Settlement *SettlementTerms
}

type NegotiationDeclinedEvent struct {
	EventBase
	Settlement *SettlementTerms
}

type TransferFailedEvent struct {
	EventBase
	Settlement *SettlementTerms
}

type CallEndedEvent struct{ EventBase }

// DecodeEvent turns the wire payload into its event variant.
func DecodeEvent(p *WebhookPayload) (Event, error) {
	if p.CarrierInfo != nil && p.CarrierInfo.MCNumber == "" {
		return nil, ErrMissingMCNumber
	}
	base := EventBase{
		EventType:   p.EventType,
		CarrierInfo: p.CarrierInfo,
		LoadInfo:    p.LoadInfo,
		CallData:    p.CallData,
		Timestamp:   time.Now().UTC(),
	}
	if p.Timestamp != nil {
		base.Timestamp = *p.Timestamp
	}

	switch p.EventType {
	case EventCarrierCallInitiated:
		return &CallInitiatedEvent{base}, nil
	case EventLoadInterestExpressed:
		return &LoadInterestEvent{base}, nil
	case EventCarrierNotInterested:
		return &CarrierNotInterestedEvent{base}, nil
	case EventCallEnded:
		return &CallEndedEvent{base}, nil
	case EventNegotiationOffer:
		return &NegotiationOfferEvent{EventBase: base, Offer: offerTerms(p.CallData)}, nil
	case EventAgreementReached:
		return &AgreementReachedEvent{EventBase: base, Settlement: settlementTerms(p.CallData)}, nil
	case EventNegotiationDeclined:
		return &NegotiationDeclinedEvent{EventBase: base, Settlement: settlementTerms(p.CallData)}, nil
	case EventTransferFailed:
		return &TransferFailedEvent{EventBase: base, Settlement: settlementTerms(p.CallData)}, nil
	default:
		return &UnknownEvent{base}, nil
	}
}

func offerTerms(cd *CallData) *OfferTerms {
	if cd == nil || cd.OfferedRate == nil {
		return nil
	}
	t := &OfferTerms{
		OfferedRate:  *cd.OfferedRate,
		OriginalRate: cd.OriginalRate,
		CurrentRound: int(cd.CounterOfferCount),
	}
	if cd.LoadID != nil {
		t.LoadID = *cd.LoadID
	}
	return t
}

func settlementTerms(cd *CallData) *SettlementTerms {
	if cd == nil {
		return nil
	}
	t := &SettlementTerms{
		FinalRate:             cd.FinalRate,
		TotalRounds:           int(cd.TotalRounds),
		TransferFailureReason: "transfer_technical_failure",
	}
	if cd.LoadID != nil {
		t.LoadID = *cd.LoadID
	}
	if cd.OriginalRate != nil {
		t.OriginalRate = *cd.OriginalRate
	}
	if cd.TransferFailureReason != nil {
		t.TransferFailureReason = *cd.TransferFailureReason
	}
	return t
}

// EventResponse is the dispatcher's answer. The envelope fields are always
// set; the rest depend on the event type.
type EventResponse struct {
	EventID    string    `json:"event_id"`
	ReceivedAt string    `json:"received_at"`
	EventType  EventType `json:"event_type"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
	NextAction string    `json:"next_action,omitempty"`

	CarrierVerification *CarrierVerification `json:"carrier_verification,omitempty"`
	AvailableLoads      []Load               `json:"available_loads,omitempty"`

	NegotiationStatus NegotiationStatus `json:"negotiation_status,omitempty"`
	FinalOffer        *float64          `json:"final_offer,omitempty"`
	CounterOffer      *float64          `json:"counter_offer,omitempty"`
	RateAnalysis      *RateAnalysis     `json:"rate_analysis,omitempty"`

	NegotiationResult *NegotiationResult `json:"negotiation_result,omitempty"`
	RequiresFollowUp  bool               `json:"requires_follow_up,omitempty"`
	FailureType       string             `json:"failure_type,omitempty"`

	Analytics   *CallAnalytics `json:"analytics,omitempty"`
	AnalyticsID *string        `json:"analytics_id,omitempty"`
}

// CallEventRecord is the row appended to call_events for every webhook.
type CallEventRecord struct {
	ID         string    `json:"id"`
	EventID    string    `json:"event_id"`
	EventType  EventType `json:"event_type"`
	CallID     *string   `json:"call_id"`
	CarrierMC  *string   `json:"carrier_mc"`
	LoadID     *string   `json:"load_id"`
	ReceivedAt string    `json:"received_at"`
}
