package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"carrier-engagement/model"
)

// initialLoadCount is how many loads an eligible carrier is offered when the
// call starts.
const initialLoadCount = 5

// EventStore appends received webhook events.
type EventStore interface {
	Insert(ctx context.Context, ev *model.CallEventRecord) (string, error)
}

// CarrierVerifier is satisfied by CarrierUsecase.
type CarrierVerifier interface {
	Verify(ctx context.Context, mc string) *model.CarrierVerification
}

// LoadSearcher is satisfied by LoadUsecase.
type LoadSearcher interface {
	Search(ctx context.Context, c model.LoadCriteria) ([]model.Load, error)
}

type EventUsecase struct {
	events       EventStore
	carriers     CarrierVerifier
	loads        LoadSearcher
	negotiations *NegotiationUsecase
	analytics    *AnalyticsUsecase
	now          func() time.Time
}

func NewEventUsecase(events EventStore, carriers CarrierVerifier, loads LoadSearcher, negotiations *NegotiationUsecase, analytics *AnalyticsUsecase) *EventUsecase {
	return &EventUsecase{
		events:       events,
		carriers:     carriers,
		loads:        loads,
		negotiations: negotiations,
		analytics:    analytics,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Process handles one decoded webhook event. Only failures the caller must
// see are returned; storage errors are logged and the response still built.
func (u *EventUsecase) Process(ctx context.Context, ev model.Event) (*model.EventResponse, error) {
	base := ev.Base()
	resp := &model.EventResponse{
		EventID:    uuid.NewString(),
		ReceivedAt: u.now().Format(time.RFC3339Nano),
		EventType:  ev.Type(),
		Status:     "processed",
	}
	slog.InfoContext(ctx, "processing webhook event", "event_id", resp.EventID, "event_type", resp.EventType)

	u.record(ctx, resp, base)

	switch e := ev.(type) {
	case *model.CallInitiatedEvent:
		u.callInitiated(ctx, resp, e)

	case *model.LoadInterestEvent:
		resp.Message = "Load interest recorded - providing detailed information"
		resp.NextAction = "present_load_details"

	case *model.NegotiationOfferEvent:
		if e.Offer != nil {
			d := u.negotiations.EvaluateOffer(ctx, e.CarrierMC(), *e.Offer)
			resp.NegotiationStatus = d.Status
			resp.Message = d.Message
			resp.NextAction = d.NextAction
			resp.FinalOffer = d.FinalOffer
			resp.CounterOffer = d.CounterOffer
			resp.RateAnalysis = &d.RateAnalysis
		}

	case *model.AgreementReachedEvent:
		if e.Settlement != nil {
			resp.NegotiationResult = u.negotiations.Settle(e.CarrierMC(), e.Settlement, model.OutcomeAgreement)
		}
		resp.Message = "Agreement reached - transferring to sales rep"
		resp.NextAction = "transfer_call"

	case *model.NegotiationDeclinedEvent:
		if e.Settlement != nil {
			resp.NegotiationResult = u.negotiations.Settle(e.CarrierMC(), e.Settlement, model.OutcomeNoAgreement)
		}
		resp.Message = "Negotiation declined by carrier"
		resp.NextAction = "offer_other_loads"

	case *model.CarrierNotInterestedEvent:
		resp.Message = "Carrier not interested in available loads"
		resp.NextAction = "end_call"

	case *model.TransferFailedEvent:
		if e.Settlement != nil {
			resp.NegotiationResult = u.negotiations.Settle(e.CarrierMC(), e.Settlement, model.OutcomeAgreementTransferFailed)
		}
		resp.Message = "Agreement reached but transfer to sales failed - follow-up required"
		resp.NextAction = "schedule_callback"
		resp.RequiresFollowUp = true
		resp.FailureType = "operational"

	case *model.CallEndedEvent:
		u.callEnded(ctx, resp, e)

	case *model.UnknownEvent:
		slog.InfoContext(ctx, "unrecognized event type", "event_type", e.EventType)

	default:
		return nil, fmt.Errorf("unhandled event variant %T", ev)
	}
	return resp, nil
}

func (u *EventUsecase) record(ctx context.Context, resp *model.EventResponse, base *model.EventBase) {
	rec := &model.CallEventRecord{
		EventID:    resp.EventID,
		EventType:  resp.EventType,
		CallID:     base.CallID(),
		LoadID:     base.LoadID(),
		ReceivedAt: resp.ReceivedAt,
	}
	if base.CarrierInfo != nil {
		mc := base.CarrierInfo.MCNumber
		rec.CarrierMC = &mc
	}
	if _, err := u.events.Insert(ctx, rec); err != nil {
		slog.ErrorContext(ctx, "failed to store call event", "event_id", resp.EventID, "error", err)
	}
}

func (u *EventUsecase) callInitiated(ctx context.Context, resp *model.EventResponse, e *model.CallInitiatedEvent) {
	if e.CarrierInfo == nil {
		return
	}
	v := u.carriers.Verify(ctx, e.CarrierInfo.MCNumber)
	resp.CarrierVerification = v
	if !v.IsEligible {
		resp.Message = "Carrier verification failed"
		return
	}

	resp.Message = "Carrier verified - presenting available loads"
	loads, err := u.loads.Search(ctx, model.LoadCriteria{})
	if err != nil {
		slog.ErrorContext(ctx, "failed to search loads", "mc_number", v.MCNumber, "error", err)
		resp.AvailableLoads = []model.Load{}
		return
	}
	resp.AvailableLoads = loads[:min(initialLoadCount, len(loads))]
}

func (u *EventUsecase) callEnded(ctx context.Context, resp *model.EventResponse, e *model.CallEndedEvent) {
	var cd model.CallData
	if e.CallData != nil {
		cd = *e.CallData
	}
	if e.CarrierInfo != nil {
		cd.CarrierInfo = e.CarrierInfo
	}
	if e.LoadInfo != nil {
		cd.LoadInfo = e.LoadInfo
	}

	a := u.analytics.Extract(ctx, resp.EventID, &cd)
	resp.Analytics = a
	resp.AnalyticsID = u.analytics.Store(ctx, a)

	if cd.NegotiationRounds > 0 {
		id, err := u.negotiations.Reconcile(ctx, e.CarrierMC(), &cd)
		if err != nil {
			slog.ErrorContext(ctx, "failed to store negotiation summary", "call_id", a.CallID, "error", err)
		} else {
			slog.InfoContext(ctx, "negotiation summary stored", "call_id", a.CallID, "negotiation_id", id)
		}
	}
	resp.Message = "Call analytics extracted: offer data, outcome classification, and sentiment analysis"
}
