package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"carrier-engagement/model"
	"carrier-engagement/pkg/fmcsa"
)

// CarrierRegistry looks up carriers by MC number.
type CarrierRegistry interface {
	Configured() bool
	GetCarrier(ctx context.Context, mcNumber string) (*fmcsa.Carrier, error)
}

// VerificationCache is an optional store of recent verification results.
type VerificationCache interface {
	Get(ctx context.Context, mc string) (*model.CarrierVerification, error)
	Set(ctx context.Context, v *model.CarrierVerification) error
}

type CarrierUsecase struct {
	registry CarrierRegistry
	cache    VerificationCache
	group    singleflight.Group
	now      func() time.Time
}

// NewCarrierUsecase builds the verifier. cache may be nil.
func NewCarrierUsecase(registry CarrierRegistry, cache VerificationCache) *CarrierUsecase {
	return &CarrierUsecase{
		registry: registry,
		cache:    cache,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func testCarrier(mc string, now time.Time) (*model.CarrierVerification, bool) {
	date := now.Format(time.RFC3339Nano)
	switch mc {
	case "123456":
		return &model.CarrierVerification{
			MCNumber:         "123456",
			CompanyName:      "Test Carrier LLC",
			Status:           "ACTIVE",
			IsEligible:       true,
			VerificationDate: date,
			EquipmentTypes:   []string{"Dry Van", "Reefer"},
			ServiceAreas:     []string{"Midwest", "Southeast"},
		}, true
	case "999999":
		return &model.CarrierVerification{
			MCNumber:         "999999",
			CompanyName:      "Inactive Carrier Inc",
			Status:           "INACTIVE",
			IsEligible:       false,
			VerificationDate: date,
			EquipmentTypes:   []string{"Dry Van"},
			ServiceAreas:     []string{"Northeast"},
		}, true
	}
	return nil, false
}

// Verify checks whether a carrier may haul freight. Registry failures come
// back as an ineligible result carrying an error string, never as an error.
func (u *CarrierUsecase) Verify(ctx context.Context, mc string) *model.CarrierVerification {
	if v, ok := testCarrier(mc, u.now()); ok {
		slog.InfoContext(ctx, "using built-in carrier record", "mc_number", mc)
		return v
	}
	if !u.registry.Configured() {
		slog.WarnContext(ctx, "FMCSA API key not configured")
		return &model.CarrierVerification{IsEligible: false, Error: "FMCSA API key not configured"}
	}

	if u.cache != nil {
		cached, err := u.cache.Get(ctx, mc)
		if err != nil {
			slog.WarnContext(ctx, "verification cache read failed", "mc_number", mc, "error", err)
		} else if cached != nil {
			return cached
		}
	}

	// The shared lookup outlives any single caller; the client timeout bounds it.
	shared := context.WithoutCancel(ctx)
	ch := u.group.DoChan(mc, func() (any, error) {
		return u.lookup(shared, mc), nil
	})
	var v *model.CarrierVerification
	select {
	case res := <-ch:
		v = res.Val.(*model.CarrierVerification)
	case <-ctx.Done():
		return &model.CarrierVerification{
			MCNumber:         mc,
			IsEligible:       false,
			VerificationDate: u.now().Format(time.RFC3339Nano),
			Error:            fmt.Sprintf("Verification error: %v", ctx.Err()),
		}
	}

	if u.cache != nil && v.Error == "" {
		if err := u.cache.Set(ctx, v); err != nil {
			slog.WarnContext(ctx, "verification cache write failed", "mc_number", mc, "error", err)
		}
	}
	// Callers sharing a singleflight result must not alias it.
	out := *v
	return &out
}

func (u *CarrierUsecase) lookup(ctx context.Context, mc string) *model.CarrierVerification {
	slog.InfoContext(ctx, "verifying MC number", "mc_number", mc)
	now := u.now().Format(time.RFC3339Nano)

	c, err := u.registry.GetCarrier(ctx, mc)
	if err != nil {
		v := &model.CarrierVerification{MCNumber: mc, IsEligible: false, VerificationDate: now}
		var se *fmcsa.StatusError
		switch {
		case errors.Is(err, fmcsa.ErrNotFound):
			v.Error = "Carrier not found in FMCSA database"
		case errors.As(err, &se):
			v.Error = se.Error()
		case errors.Is(err, fmcsa.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
			v.Error = "Verification timeout"
		default:
			v.Error = fmt.Sprintf("Verification error: %v", err)
		}
		slog.ErrorContext(ctx, "carrier verification failed", "mc_number", mc, "error", err)
		return v
	}

	status := c.Status
	if status == "" {
		status = "UNKNOWN"
	}
	name := c.LegalName
	if name == "" {
		name = "Unknown"
	}
	oos := c.OutOfService
	return &model.CarrierVerification{
		MCNumber:         mc,
		CompanyName:      name,
		Status:           status,
		IsEligible:       strings.EqualFold(c.Status, "ACTIVE") && !oos,
		VerificationDate: now,
		OutOfService:     &oos,
		RawFMCSAData:     c.Raw,
	}
}
