package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"carrier-engagement/model"
)

const DefaultVoiceLimit = 3

// LoadStore reads posted loads.
type LoadStore interface {
	Search(ctx context.Context, c model.LoadCriteria) ([]model.Load, error)
	GetByID(ctx context.Context, id string) (*model.Load, error)
}

type LoadUsecase struct {
	loads LoadStore
}

func NewLoadUsecase(loads LoadStore) *LoadUsecase {
	return &LoadUsecase{loads: loads}
}

func (u *LoadUsecase) Search(ctx context.Context, c model.LoadCriteria) ([]model.Load, error) {
	return u.loads.Search(ctx, c)
}

type VoiceLoad struct {
	LoadID       string   `json:"load_id"`
	Route        string   `json:"route"`
	Rate         float64  `json:"rate"`
	Equipment    string   `json:"equipment"`
	Miles        *float64 `json:"miles"`
	VoiceSummary string   `json:"voice_summary"`
}

type VoiceLoadList struct {
	Available    bool        `json:"available"`
	Count        int         `json:"count"`
	Showing      int         `json:"showing,omitempty"`
	VoiceMessage string      `json:"voice_message"`
	Loads        []VoiceLoad `json:"loads"`
	NextAction   string      `json:"next_action,omitempty"`
}

type VoiceLoadDetail struct {
	Found         bool        `json:"found"`
	LoadID        string      `json:"load_id,omitempty"`
	Rate          float64     `json:"rate,omitempty"`
	Miles         *float64    `json:"miles,omitempty"`
	EquipmentType string      `json:"equipment_type,omitempty"`
	VoiceMessage  string      `json:"voice_message"`
	NextAction    string      `json:"next_action"`
	FullDetails   *model.Load `json:"full_details,omitempty"`
}

var printer = message.NewPrinter(language.AmericanEnglish)

// dollars renders a whole-dollar amount with thousands separators.
func dollars(v float64) string {
	return printer.Sprintf("$%.0f", v)
}

func milesText(m *float64) string {
	if m == nil {
		return "unknown"
	}
	return fmt.Sprint(*m)
}

// ForVoiceAgent returns at most limit loads phrased for a voice agent to read
// out. A limit of zero or less means DefaultVoiceLimit.
func (u *LoadUsecase) ForVoiceAgent(ctx context.Context, c model.LoadCriteria, limit int) (*VoiceLoadList, error) {
	if limit <= 0 {
		limit = DefaultVoiceLimit
	}
	loads, err := u.loads.Search(ctx, c)
	if err != nil {
		return nil, err
	}

	if len(loads) == 0 {
		var b strings.Builder
		b.WriteString("Sorry, I don't have any loads available right now")
		if c.Origin != "" {
			b.WriteString(" from " + c.Origin)
		}
		if c.Destination != "" {
			b.WriteString(" to " + c.Destination)
		}
		if c.EquipmentType != "" {
			b.WriteString(" for " + c.EquipmentType)
		}
		b.WriteString(".")
		return &VoiceLoadList{VoiceMessage: b.String(), Loads: []VoiceLoad{}}, nil
	}

	shown := loads[:min(limit, len(loads))]
	voice := make([]VoiceLoad, 0, len(shown))
	summaries := make([]string, 0, len(shown))
	for _, l := range shown {
		summary := fmt.Sprintf("Load %s: %s to %s, %s, %s, %s miles",
			l.LoadID, l.Origin, l.Destination, l.EquipmentType, dollars(l.LoadboardRate), milesText(l.Miles))
		voice = append(voice, VoiceLoad{
			LoadID:       l.LoadID,
			Route:        l.Origin + " to " + l.Destination,
			Rate:         l.LoadboardRate,
			Equipment:    l.EquipmentType,
			Miles:        l.Miles,
			VoiceSummary: summary,
		})
		summaries = append(summaries, summary)
	}

	var msg string
	switch {
	case len(loads) == 1:
		msg = "I have 1 load available: " + summaries[0]
	case len(loads) <= limit:
		msg = fmt.Sprintf("I have %d loads available: %s", len(loads), strings.Join(summaries, "; "))
	default:
		msg = fmt.Sprintf("I have %d loads total. Here are the top %d: %s", len(loads), limit, strings.Join(summaries, "; "))
	}

	return &VoiceLoadList{
		Available:    true,
		Count:        len(loads),
		Showing:      len(voice),
		VoiceMessage: msg,
		Loads:        voice,
		NextAction:   "carrier_response",
	}, nil
}

// DetailForVoiceAgent describes one load, or says it was not found.
func (u *LoadUsecase) DetailForVoiceAgent(ctx context.Context, id string) (*VoiceLoadDetail, error) {
	l, err := u.loads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return &VoiceLoadDetail{
			Found:        false,
			VoiceMessage: fmt.Sprintf("Sorry, I couldn't find load %s.", id),
			NextAction:   "ask_for_different_load",
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Load %s: Pickup from %s on %s, ", l.LoadID, l.Origin, l.PickupDatetime.Format("January 02"))
	fmt.Fprintf(&b, "delivery to %s by %s. ", l.Destination, l.DeliveryDatetime.Format("January 02"))
	fmt.Fprintf(&b, "Equipment needed: %s. ", l.EquipmentType)
	fmt.Fprintf(&b, "Rate: %s for %s miles. ", dollars(l.LoadboardRate), milesText(l.Miles))
	if l.Weight != nil && *l.Weight != 0 {
		b.WriteString(printer.Sprintf("Weight: %.0f pounds. ", *l.Weight))
	}
	if l.CommodityType != nil && *l.CommodityType != "" {
		fmt.Fprintf(&b, "Commodity: %s. ", *l.CommodityType)
	}
	if l.Notes != nil && *l.Notes != "" {
		fmt.Fprintf(&b, "Special notes: %s", *l.Notes)
	}

	return &VoiceLoadDetail{
		Found:         true,
		LoadID:        l.LoadID,
		Rate:          l.LoadboardRate,
		Miles:         l.Miles,
		EquipmentType: l.EquipmentType,
		VoiceMessage:  b.String(),
		NextAction:    "carrier_decision",
		FullDetails:   l,
	}, nil
}
