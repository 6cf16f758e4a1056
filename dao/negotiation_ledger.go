package dao

import (
	"sync"

	"carrier-engagement/model"
)

// NegotiationLedger holds live negotiation state per (load, carrier). Entries
// are created on the first offer and never removed.
type NegotiationLedger struct {
	mu      sync.RWMutex
	entries map[model.NegotiationKey]*model.NegotiationState
}

func NewNegotiationLedger() *NegotiationLedger {
	return &NegotiationLedger{entries: make(map[model.NegotiationKey]*model.NegotiationState)}
}

// Open returns the state for key, creating it with the given rates if absent.
// A zero ceiling means the original rate is not known yet; once set, the
// ceiling is never changed.
func (l *NegotiationLedger) Open(key model.NegotiationKey, originalRate, ceiling float64) model.NegotiationState {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.entries[key]
	if !ok {
		st = &model.NegotiationState{
			LoadID:       key.LoadID,
			CarrierMC:    key.CarrierMC,
			OriginalRate: originalRate,
			Ceiling:      ceiling,
			Status:       model.NegotiationNegotiating,
		}
		l.entries[key] = st
	} else if st.Ceiling == 0 && ceiling != 0 {
		st.OriginalRate = originalRate
		st.Ceiling = ceiling
	}
	return copyState(st)
}

// RecordRound appends an accepted round, numbering it one past the last.
// A terminal negotiation takes no more rounds; ok is false then.
func (l *NegotiationLedger) RecordRound(key model.NegotiationKey, rec model.RoundRecord) (model.NegotiationState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.entries[key]
	if !ok {
		return model.NegotiationState{}, false
	}
	if st.Status.Terminal() {
		return copyState(st), false
	}
	st.Rounds++
	rec.Round = st.Rounds
	st.History = append(st.History, rec)
	st.CurrentOffer = rec.OfferedRate
	st.Status = model.NegotiationRecorded
	return copyState(st), true
}

// MarkStatus sets the status unless the negotiation is already terminal.
func (l *NegotiationLedger) MarkStatus(key model.NegotiationKey, status model.NegotiationStatus) (model.NegotiationState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.entries[key]
	if !ok {
		return model.NegotiationState{}, false
	}
	if !st.Status.Terminal() {
		st.Status = status
	}
	return copyState(st), true
}

func (l *NegotiationLedger) Get(key model.NegotiationKey) (model.NegotiationState, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st, ok := l.entries[key]
	if !ok {
		return model.NegotiationState{}, false
	}
	return copyState(st), true
}

func copyState(st *model.NegotiationState) model.NegotiationState {
	out := *st
	out.History = append([]model.RoundRecord(nil), st.History...)
	return out
}
