package usecase

import (
	"strings"
	"time"

	"carrier-engagement/model"
)

const completenessFields = 9

// ExtractOfferData pulls the carrier, load and negotiation snapshots a sales
// rep needs to follow up on the call.
func ExtractOfferData(cd *model.CallData, now time.Time) model.OfferData {
	od := model.OfferData{ExtractedAt: now.Format(time.RFC3339Nano)}

	if c := cd.CarrierInfo; c != nil {
		mc := c.MCNumber
		od.CarrierInfo = &model.CarrierSnapshot{
			MCNumber:      &mc,
			CompanyName:   c.CompanyName,
			IsVerified:    c.IsVerified,
			EquipmentType: c.PreferredEquipment,
		}
	}

	if l := cd.LoadInfo; l != nil {
		snap := &model.LoadSnapshot{
			LoadID:        l.LoadID,
			Origin:        l.Origin,
			Destination:   l.Destination,
			Miles:         l.Miles,
			EquipmentType: l.EquipmentType,
		}
		if l.LoadboardRate != 0 {
			rate := l.LoadboardRate
			snap.OriginalRate = &rate
		}
		if !l.PickupDatetime.IsZero() {
			snap.PickupDate = l.PickupDatetime.Format(time.DateOnly)
		}
		if !l.DeliveryDatetime.IsZero() {
			snap.DeliveryDate = l.DeliveryDatetime.Format(time.DateOnly)
		}
		od.LoadDetails = snap
	}

	if cd.HasNegotiationData() {
		final := cd.FinalRate
		if final == nil || *final == 0 {
			final = cd.CarrierOfferedRate
		}
		snap := &model.NegotiationSnapshot{
			OriginalRate:       cd.OriginalRate,
			CarrierOfferedRate: cd.CarrierOfferedRate,
			FinalAgreedRate:    final,
			NegotiationRounds:  int(cd.NegotiationRounds),
			NegotiationSuccess: cd.AgreementReached,
		}
		if nonZero(final) && nonZero(cd.OriginalRate) {
			diff := rateDifference(*final, *cd.OriginalRate)
			snap.RateDifference = &diff
		}
		od.NegotiationData = snap
	}

	od.OfferSummary = model.OfferSummary{
		HasCarrierInfo:      od.CarrierInfo != nil,
		HasLoadDetails:      od.LoadDetails != nil,
		NegotiationOccurred: od.NegotiationData != nil,
		DealClosed:          cd.AgreementReached,
		DataCompleteness:    DataCompleteness(od.CarrierInfo, od.LoadDetails, od.NegotiationData),
	}
	return od
}

// DataCompleteness is the fraction of the nine tracked fields that are
// populated: mc_number, company_name, is_verified; load_id, origin,
// destination; original_rate, final_agreed_rate, negotiation_rounds.
func DataCompleteness(c *model.CarrierSnapshot, l *model.LoadSnapshot, n *model.NegotiationSnapshot) float64 {
	populated := 0
	count := func(ok bool) {
		if ok {
			populated++
		}
	}

	if c != nil {
		count(nonEmpty(c.MCNumber))
		count(nonEmpty(c.CompanyName))
		count(c.IsVerified)
	}
	if l != nil {
		count(l.LoadID != "")
		count(l.Origin != "")
		count(l.Destination != "")
	}
	if n != nil {
		count(nonZero(n.OriginalRate))
		count(nonZero(n.FinalAgreedRate))
		count(n.NegotiationRounds != 0)
	}
	return float64(populated) / completenessFields
}

func nonEmpty(s *string) bool { return s != nil && *s != "" }

func nonZero(f *float64) bool { return f != nil && *f != 0 }

func lowerTrim(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
