package usecase

import (
	"context"
	"errors"
	"sync"

	"carrier-engagement/model"
	"carrier-engagement/pkg/fmcsa"
)

var errStore = errors.New("store unavailable")

type fakeNegotiationStore struct {
	mu      sync.Mutex
	records []model.NegotiationRecord
	fail    bool
}

func (s *fakeNegotiationStore) Insert(_ context.Context, n *model.NegotiationRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return "", errStore
	}
	n.ID = "neg-" + n.LoadID
	s.records = append(s.records, *n)
	return n.ID, nil
}

func (s *fakeNegotiationStore) ListByKey(_ context.Context, key model.NegotiationKey) ([]model.NegotiationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.NegotiationRecord
	for _, r := range s.records {
		if r.LoadID == key.LoadID && r.CarrierMC == key.CarrierMC {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeNegotiationStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

type fakeAnalyticsStore struct {
	stored []*model.CallAnalytics
	fail   bool
}

func (s *fakeAnalyticsStore) Insert(_ context.Context, a *model.CallAnalytics) (string, error) {
	if s.fail {
		return "", errStore
	}
	a.ID = "analytics-1"
	s.stored = append(s.stored, a)
	return a.ID, nil
}

type fakeEventStore struct {
	events []model.CallEventRecord
	fail   bool
}

func (s *fakeEventStore) Insert(_ context.Context, ev *model.CallEventRecord) (string, error) {
	if s.fail {
		return "", errStore
	}
	s.events = append(s.events, *ev)
	return "event-row", nil
}

type fakeRegistry struct {
	configured bool
	carrier    *fmcsa.Carrier
	err        error
	calls      int
}

func (r *fakeRegistry) Configured() bool { return r.configured }

func (r *fakeRegistry) GetCarrier(_ context.Context, _ string) (*fmcsa.Carrier, error) {
	r.calls++
	return r.carrier, r.err
}

type fakeCache struct {
	entries map[string]*model.CarrierVerification
}

func (c *fakeCache) Get(_ context.Context, mc string) (*model.CarrierVerification, error) {
	return c.entries[mc], nil
}

func (c *fakeCache) Set(_ context.Context, v *model.CarrierVerification) error {
	c.entries[v.MCNumber] = v
	return nil
}

type fakeLoadStore struct {
	loads []model.Load
	err   error
}

func (s *fakeLoadStore) Search(_ context.Context, _ model.LoadCriteria) ([]model.Load, error) {
	return s.loads, s.err
}

func (s *fakeLoadStore) GetByID(_ context.Context, id string) (*model.Load, error) {
	for i := range s.loads {
		if s.loads[i].LoadID == id {
			return &s.loads[i], nil
		}
	}
	return nil, s.err
}

func ptr[T any](v T) *T { return &v }
