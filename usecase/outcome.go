package usecase

import (
	"strings"
	"time"

	"carrier-engagement/model"
)

// ClassifyOutcome maps a call's reported outcome and metadata onto the fixed
// outcome taxonomy. Explicit outcome strings win over the duration and
// interest rules, which win over the conversation-pattern fallback.
func ClassifyOutcome(cd *model.CallData, now time.Time) model.OutcomeClassification {
	oc := model.OutcomeClassification{
		ClassifiedAt:      now.Format(time.RFC3339Nano),
		PrimaryOutcome:    model.OutcomeUnknown,
		SecondaryOutcomes: []string{},
	}
	d := &oc.OutcomeDetails

	switch outcome := strings.ToLower(cd.Outcome); {
	case outcome == "load_assigned" || outcome == "deal_closed":
		oc.PrimaryOutcome, oc.OutcomeConfidence = model.OutcomeSuccess, 0.95
		d.DealClosed = true
		d.TransferCompleted = true

	case outcome == "agreement_reached":
		oc.PrimaryOutcome, oc.OutcomeConfidence = model.OutcomeSuccess, 0.90
		d.DealClosed = true
		d.AwaitingTransfer = true

	case outcome == "agreement_transfer_failed":
		oc.PrimaryOutcome, oc.OutcomeConfidence = model.OutcomePartialSuccess, 0.85
		d.DealClosed = true
		d.TransferFailed = true
		d.FollowUpRequired = true
		d.FailureType = "operational"

	case outcome == "transferred_to_sales" || outcome == "sales_transfer":
		oc.PrimaryOutcome, oc.OutcomeConfidence = model.OutcomeSuccess, 0.95
		d.DealClosed = true
		d.TransferCompleted = true
		d.TransferReason = "qualified_lead"

	case outcome == "carrier_not_eligible" || outcome == "verification_failed":
		oc.PrimaryOutcome, oc.OutcomeConfidence = model.OutcomeUnqualified, 0.85
		d.RejectionReason = "carrier_verification_failed"

	case outcome == "carrier_not_interested" || outcome == "no_interest":
		oc.PrimaryOutcome, oc.OutcomeConfidence = model.OutcomeNoInterest, 0.80
		d.RejectionReason = "carrier_declined_loads"

	case cd.AnyDuration() < 30:
		oc.PrimaryOutcome, oc.OutcomeConfidence = model.OutcomeAbandoned, 0.80
		d.AbandonmentReason = "short_call"

	case cd.CarrierInterested && !cd.AgreementReached:
		oc.PrimaryOutcome, oc.OutcomeConfidence = model.OutcomeQualifiedLead, 0.75
		d.FollowUpNeeded = true

	default:
		oc.PrimaryOutcome, oc.OutcomeConfidence = conversationPattern(cd)
	}

	if cd.NegotiationOccurred {
		oc.SecondaryOutcomes = append(oc.SecondaryOutcomes, "negotiation_attempted")
	}
	if cd.MultipleLoadsDiscussed {
		oc.SecondaryOutcomes = append(oc.SecondaryOutcomes, "multiple_opportunities")
	}
	return oc
}

// conversationPattern guesses an outcome when nothing explicit was reported.
func conversationPattern(cd *model.CallData) (string, float64) {
	switch {
	case cd.QuestionsAsked > 3:
		return model.OutcomeQualifiedLead, 0.7
	case cd.CallSeconds() > 180:
		return model.OutcomeInterested, 0.6
	default:
		return model.OutcomeFailed, 0.6
	}
}
