package model

// Primary call outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomePartialSuccess = "partial_success"
	OutcomeUnqualified    = "unqualified"
	OutcomeNoInterest     = "no_interest"
	OutcomeAbandoned      = "abandoned"
	OutcomeQualifiedLead  = "qualified_lead"
	OutcomeInterested     = "interested"
	OutcomeFailed         = "failed"
	OutcomeUnknown        = "unknown"
)

// Sentiment categories, in tie-break order.
const (
	SentimentPositive   = "positive"
	SentimentNeutral    = "neutral"
	SentimentNegative   = "negative"
	SentimentInterested = "interested"
	SentimentFrustrated = "frustrated"
)

var SentimentCategories = [...]string{
	SentimentPositive,
	SentimentNeutral,
	SentimentNegative,
	SentimentInterested,
	SentimentFrustrated,
}

type CarrierSnapshot struct {
	MCNumber      *string `json:"mc_number"`
	CompanyName   *string `json:"company_name"`
	IsVerified    bool    `json:"is_verified"`
	EquipmentType *string `json:"equipment_type"`
}

type LoadSnapshot struct {
	LoadID        string   `json:"load_id"`
	Origin        string   `json:"origin"`
	Destination   string   `json:"destination"`
	OriginalRate  *float64 `json:"original_rate"`
	Miles         *float64 `json:"miles"`
	EquipmentType string   `json:"equipment_type"`
	PickupDate    string   `json:"pickup_date,omitempty"`
	DeliveryDate  string   `json:"delivery_date,omitempty"`
}

type NegotiationSnapshot struct {
	OriginalRate       *float64 `json:"original_rate"`
	CarrierOfferedRate *float64 `json:"carrier_offered_rate"`
	FinalAgreedRate    *float64 `json:"final_agreed_rate"`
	NegotiationRounds  int      `json:"negotiation_rounds"`
	RateDifference     *float64 `json:"rate_difference"`
	NegotiationSuccess bool     `json:"negotiation_success"`
}

type OfferSummary struct {
	HasCarrierInfo      bool    `json:"has_carrier_info"`
	HasLoadDetails      bool    `json:"has_load_details"`
	NegotiationOccurred bool    `json:"negotiation_occurred"`
	DealClosed          bool    `json:"deal_closed"`
	DataCompleteness    float64 `json:"data_completeness"`
}

// OfferData is the actionable freight data pulled out of a call for sales
// follow-up. Absent sections are nil.
type OfferData struct {
	ExtractedAt     string               `json:"extracted_at"`
	CarrierInfo     *CarrierSnapshot     `json:"carrier_info"`
	LoadDetails     *LoadSnapshot        `json:"load_details"`
	NegotiationData *NegotiationSnapshot `json:"negotiation_data"`
	OfferSummary    OfferSummary         `json:"offer_summary"`
}

// OutcomeDetails are the per-branch flags sales tooling reads. Only the flags
// a branch sets are emitted.
type OutcomeDetails struct {
	DealClosed        bool   `json:"deal_closed,omitempty"`
	TransferCompleted bool   `json:"transfer_completed,omitempty"`
	AwaitingTransfer  bool   `json:"awaiting_transfer,omitempty"`
	TransferFailed    bool   `json:"transfer_failed,omitempty"`
	FollowUpRequired  bool   `json:"follow_up_required,omitempty"`
	FollowUpNeeded    bool   `json:"follow_up_needed,omitempty"`
	FailureType       string `json:"failure_type,omitempty"`
	TransferReason    string `json:"transfer_reason,omitempty"`
	RejectionReason   string `json:"rejection_reason,omitempty"`
	AbandonmentReason string `json:"abandonment_reason,omitempty"`
}

type OutcomeClassification struct {
	ClassifiedAt      string         `json:"classified_at"`
	PrimaryOutcome    string         `json:"primary_outcome"`
	SecondaryOutcomes []string       `json:"secondary_outcomes"`
	OutcomeConfidence float64        `json:"outcome_confidence"`
	OutcomeDetails    OutcomeDetails `json:"outcome_details"`
}

type SentimentPoint struct {
	Timestamp any    `json:"timestamp"`
	EventType string `json:"event_type"`
	Sentiment string `json:"sentiment"`
}

type SentimentDetails struct {
	EngagementLevel        string  `json:"engagement_level"`
	NegotiationWillingness bool    `json:"negotiation_willingness"`
	FrustrationIndicators  bool    `json:"frustration_indicators"`
	PositiveIndicators     float64 `json:"positive_indicators"`
	NegativeIndicators     float64 `json:"negative_indicators"`
}

type SentimentClassification struct {
	ClassifiedAt         string           `json:"classified_at"`
	OverallSentiment     string           `json:"overall_sentiment"`
	SentimentConfidence  float64          `json:"sentiment_confidence"`
	SentimentProgression []SentimentPoint `json:"sentiment_progression"`
	SentimentDetails     SentimentDetails `json:"sentiment_details"`
}

type AnalyticsSummary struct {
	DataQuality         float64 `json:"data_quality"`
	OutcomeConfidence   float64 `json:"outcome_confidence"`
	SentimentConfidence float64 `json:"sentiment_confidence"`
	AnalysisComplete    bool    `json:"analysis_complete"`
	Error               string  `json:"error,omitempty"`
}

type CallAnalytics struct {
	ID                string                   `json:"-"`
	CallID            string                   `json:"call_id"`
	EventID           string                   `json:"event_id"`
	AnalysisTimestamp string                   `json:"analysis_timestamp"`
	OfferData         *OfferData               `json:"offer_data,omitempty"`
	CallOutcome       *OutcomeClassification   `json:"call_outcome,omitempty"`
	CarrierSentiment  *SentimentClassification `json:"carrier_sentiment,omitempty"`
	Summary           AnalyticsSummary         `json:"summary"`
}

type SuccessBreakdown struct {
	CompleteSuccess        int     `json:"complete_success"`
	PartialSuccess         int     `json:"partial_success"`
	AISuccessRate          float64 `json:"ai_success_rate"`
	OperationalSuccessRate float64 `json:"operational_success_rate"`
}

type NegotiationMetrics struct {
	AverageRounds         float64 `json:"average_rounds"`
	AverageRateDifference float64 `json:"average_rate_difference"`
	TotalNegotiations     int     `json:"total_negotiations"`
}

type AnalyticsSummaryReport struct {
	TotalCalls         int                `json:"total_calls"`
	SuccessfulCalls    int                `json:"successful_calls"`
	SuccessRate        float64            `json:"success_rate"`
	SuccessBreakdown   SuccessBreakdown   `json:"success_breakdown"`
	SentimentBreakdown map[string]int     `json:"sentiment_breakdown"`
	NegotiationMetrics NegotiationMetrics `json:"negotiation_metrics"`
	LastUpdated        *string            `json:"last_updated"`
}
