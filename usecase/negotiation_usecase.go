package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"carrier-engagement/dao"
	"carrier-engagement/model"
)

// NegotiationStore persists negotiation records.
type NegotiationStore interface {
	Insert(ctx context.Context, n *model.NegotiationRecord) (string, error)
	ListByKey(ctx context.Context, key model.NegotiationKey) ([]model.NegotiationRecord, error)
}

type NegotiationUsecase struct {
	ledger *dao.NegotiationLedger
	store  NegotiationStore
	locks  *keyedMutex
	now    func() time.Time
}

func NewNegotiationUsecase(ledger *dao.NegotiationLedger, store NegotiationStore) *NegotiationUsecase {
	return &NegotiationUsecase{
		ledger: ledger,
		store:  store,
		locks:  newKeyedMutex(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// EvaluateOffer applies the round limit and the rate ceiling to one carrier
// offer. Only offers inside both limits are recorded as a new round.
func (u *NegotiationUsecase) EvaluateOffer(ctx context.Context, carrierMC string, t model.OfferTerms) model.NegotiationDecision {
	key := model.NegotiationKey{LoadID: t.LoadID, CarrierMC: carrierMC}
	unlock := u.locks.Lock(key)
	defer unlock()

	state := u.open(key, t)
	ceiling := state.Ceiling
	if ceiling == 0 {
		ceiling = CeilingRate(nil, t.OfferedRate)
	}

	// The ledger's own count wins when the payload lags behind it.
	current := max(t.CurrentRound, state.Rounds)
	round := current + 1
	decision := model.NegotiationDecision{
		RateAnalysis: model.RateAnalysis{
			OriginalRate:    t.OriginalRate,
			CarrierOffer:    t.OfferedRate,
			MaxAcceptable:   ceiling,
			CurrentRound:    round,
			RoundsRemaining: max(0, MaxRounds-round),
		},
	}

	switch {
	case current >= MaxRounds || state.Status.Terminal():
		final := minRate(t.OfferedRate, ceiling)
		decision.Status = model.NegotiationLimitReached
		decision.Message = "Maximum negotiation rounds reached. Final offer stands."
		decision.NextAction = "final_decision"
		decision.FinalOffer = &final
		decision.RateAnalysis.RoundsRemaining = 0
		u.ledger.MarkStatus(key, model.NegotiationLimitReached)

	case exceeds(t.OfferedRate, ceiling):
		counter := ceiling
		decision.Status = model.NegotiationOverLimit
		decision.Message = fmt.Sprintf("Offer exceeds maximum acceptable rate. Best we can do is $%.2f", ceiling)
		decision.NextAction = "counter_offer"
		decision.CounterOffer = &counter
		u.ledger.MarkStatus(key, model.NegotiationOverLimit)

	default:
		now := u.now()
		st, _ := u.ledger.RecordRound(key, model.RoundRecord{OfferedRate: t.OfferedRate, Timestamp: now})

		offered := t.OfferedRate
		rec := &model.NegotiationRecord{
			LoadID:            t.LoadID,
			CarrierMC:         carrierMC,
			OfferedRate:       t.OfferedRate,
			MaxAcceptableRate: ceiling,
			CounterOfferCount: st.Rounds,
			Status:            model.NegotiationNegotiating,
			History: []model.HistoryEntry{{
				Round:       st.Rounds,
				OfferedRate: &offered,
				Timestamp:   now.Format(time.RFC3339Nano),
			}},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if t.OriginalRate != nil {
			rec.OriginalRate = *t.OriginalRate
		}
		if _, err := u.store.Insert(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "failed to store negotiation", "load_id", t.LoadID, "carrier_mc", carrierMC, "error", err)
		}

		decision.Status = model.NegotiationRecorded
		decision.Message = "Counter offer recorded and within acceptable range"
		decision.NextAction = "continue_negotiation"
	}

	slog.InfoContext(ctx, "negotiation offer evaluated",
		"load_id", t.LoadID, "carrier_mc", carrierMC, "offer", t.OfferedRate,
		"ceiling", ceiling, "round", round, "status", decision.Status)
	return decision
}

// open fetches the ledger entry, fixing its ceiling the first time an
// original rate is known.
func (u *NegotiationUsecase) open(key model.NegotiationKey, t model.OfferTerms) model.NegotiationState {
	var original, ceiling float64
	if t.OriginalRate != nil && *t.OriginalRate != 0 {
		original = *t.OriginalRate
		ceiling = CeilingRate(t.OriginalRate, t.OfferedRate)
	}
	return u.ledger.Open(key, original, ceiling)
}

// State returns the live ledger entry for a negotiation.
func (u *NegotiationUsecase) State(key model.NegotiationKey) (model.NegotiationState, bool) {
	return u.ledger.Get(key)
}

// History returns the stored records for a negotiation, oldest first.
func (u *NegotiationUsecase) History(ctx context.Context, key model.NegotiationKey) ([]model.NegotiationRecord, error) {
	records, err := u.store.ListByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("list negotiations: %w", err)
	}
	if records == nil {
		records = []model.NegotiationRecord{}
	}
	return records, nil
}

// Settle builds the terminal result for an agreement, decline or failed
// transfer. It does not touch the ledger.
func (u *NegotiationUsecase) Settle(carrierMC string, t *model.SettlementTerms, outcome string) *model.NegotiationResult {
	res := &model.NegotiationResult{
		LoadID:       t.LoadID,
		CarrierMC:    carrierMC,
		OriginalRate: t.OriginalRate,
		TotalRounds:  t.TotalRounds,
		Outcome:      outcome,
		CompletedAt:  u.now(),
	}
	switch outcome {
	case model.OutcomeAgreement:
		res.FinalRate = t.FinalRate
		res.OutcomeReason = "price_agreed"
	case model.OutcomeNoAgreement:
		res.OutcomeReason = "carrier_declined"
	case model.OutcomeAgreementTransferFailed:
		res.FinalRate = t.FinalRate
		res.OutcomeReason = t.TransferFailureReason
	}
	return res
}

// Reconcile stores a completed summary for a call that reported negotiation
// rounds. It is separate from the live ledger.
func (u *NegotiationUsecase) Reconcile(ctx context.Context, carrierMC string, cd *model.CallData) (string, error) {
	now := u.now()
	var original float64
	if cd.OriginalRate != nil {
		original = *cd.OriginalRate
	}
	offered := original
	if cd.FinalRate != nil {
		offered = *cd.FinalRate
	}
	var ceiling float64
	if original != 0 {
		ceiling = CeilingRate(&original, offered)
	}
	loadID := "unknown"
	if cd.LoadID != nil {
		loadID = *cd.LoadID
	}
	outcome := cd.Outcome
	if outcome == "" {
		outcome = "unknown"
	}
	finalRate := 0.0
	if cd.FinalRate != nil {
		finalRate = *cd.FinalRate
	}

	rec := &model.NegotiationRecord{
		LoadID:            loadID,
		CarrierMC:         carrierMC,
		OriginalRate:      original,
		OfferedRate:       offered,
		MaxAcceptableRate: ceiling,
		CounterOfferCount: int(cd.NegotiationRounds),
		Status:            model.NegotiationCompleted,
		History: []model.HistoryEntry{{
			Round:        int(cd.NegotiationRounds),
			FinalRate:    &finalRate,
			OriginalRate: &original,
			Outcome:      outcome,
			Timestamp:    now.Format(time.RFC3339Nano),
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return u.store.Insert(ctx, rec)
}
