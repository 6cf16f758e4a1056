package usecase

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrier-engagement/model"
)

func TestExtractOfferData_Full(t *testing.T) {
	pickup := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	cd := &model.CallData{
		CarrierInfo: &model.CarrierInfo{
			MCNumber:           "123456",
			CompanyName:        ptr("Test Carrier LLC"),
			IsVerified:         true,
			PreferredEquipment: ptr("Dry Van"),
		},
		LoadInfo: &model.Load{
			LoadID:           "LOAD001",
			Origin:           "Chicago, IL",
			Destination:      "Atlanta, GA",
			PickupDatetime:   pickup,
			DeliveryDatetime: pickup.Add(48 * time.Hour),
			EquipmentType:    "Dry Van",
			LoadboardRate:    2500,
			Miles:            ptr(717.0),
		},
		NegotiationData:    json.RawMessage(`{}`),
		OriginalRate:       ptr(2500.0),
		CarrierOfferedRate: ptr(2700.0),
		NegotiationRounds:  2,
		AgreementReached:   true,
	}

	od := ExtractOfferData(cd, time.Now())

	require.NotNil(t, od.CarrierInfo)
	assert.Equal(t, "123456", *od.CarrierInfo.MCNumber)
	assert.Equal(t, "Dry Van", *od.CarrierInfo.EquipmentType)

	require.NotNil(t, od.LoadDetails)
	assert.Equal(t, "2026-03-02", od.LoadDetails.PickupDate)
	assert.Equal(t, "2026-03-04", od.LoadDetails.DeliveryDate)
	assert.Equal(t, 2500.0, *od.LoadDetails.OriginalRate)

	require.NotNil(t, od.NegotiationData)
	assert.Equal(t, 2700.0, *od.NegotiationData.FinalAgreedRate, "falls back to the carrier's offered rate")
	assert.Equal(t, 200.0, *od.NegotiationData.RateDifference)
	assert.True(t, od.NegotiationData.NegotiationSuccess)

	assert.Equal(t, model.OfferSummary{
		HasCarrierInfo:      true,
		HasLoadDetails:      true,
		NegotiationOccurred: true,
		DealClosed:          true,
		DataCompleteness:    1.0,
	}, od.OfferSummary)
}

func TestExtractOfferData_Empty(t *testing.T) {
	od := ExtractOfferData(&model.CallData{}, time.Now())

	assert.Nil(t, od.CarrierInfo)
	assert.Nil(t, od.LoadDetails)
	assert.Nil(t, od.NegotiationData)
	assert.Zero(t, od.OfferSummary.DataCompleteness)
	assert.False(t, od.OfferSummary.HasCarrierInfo)
}

func TestExtractOfferData_NegotiationWithoutRates(t *testing.T) {
	od := ExtractOfferData(&model.CallData{NegotiationOccurred: true}, time.Now())

	require.NotNil(t, od.NegotiationData)
	assert.Nil(t, od.NegotiationData.FinalAgreedRate)
	assert.Nil(t, od.NegotiationData.RateDifference)
	assert.True(t, od.OfferSummary.NegotiationOccurred)
}

func TestDataCompleteness(t *testing.T) {
	carrier := &model.CarrierSnapshot{MCNumber: ptr("123456"), CompanyName: ptr("")}
	load := &model.LoadSnapshot{LoadID: "LOAD001", Origin: "Chicago, IL"}
	neg := &model.NegotiationSnapshot{OriginalRate: ptr(0.0), FinalAgreedRate: ptr(2300.0), NegotiationRounds: 1}

	assert.InDelta(t, 5.0/9, DataCompleteness(carrier, load, neg), 1e-12)
	assert.Zero(t, DataCompleteness(nil, nil, nil))
}

func TestDataCompletenessProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("completeness is populated fields over nine", prop.ForAll(
		func(mask int) bool {
			set := func(bit int) bool { return mask&(1<<bit) != 0 }
			str := func(bit int, v string) *string {
				if set(bit) {
					return &v
				}
				return nil
			}
			rate := func(bit int) *float64 {
				if set(bit) {
					return ptr(1000.0)
				}
				return nil
			}
			c := &model.CarrierSnapshot{MCNumber: str(0, "123456"), CompanyName: str(1, "Co"), IsVerified: set(2)}
			l := &model.LoadSnapshot{}
			if set(3) {
				l.LoadID = "L"
			}
			if set(4) {
				l.Origin = "A"
			}
			if set(5) {
				l.Destination = "B"
			}
			n := &model.NegotiationSnapshot{OriginalRate: rate(6), FinalAgreedRate: rate(7)}
			if set(8) {
				n.NegotiationRounds = 2
			}

			populated := 0
			for bit := range 9 {
				if set(bit) {
					populated++
				}
			}
			got := DataCompleteness(c, l, n)
			return got == float64(populated)/9 && got >= 0 && got <= 1
		},
		gen.IntRange(0, 1<<9-1),
	))

	properties.TestingRun(t)
}
