package usecase

import (
	"iter"
	"slices"
	"time"

	"carrier-engagement/model"
)

// SentimentScores are indexed in model.SentimentCategories order.
type SentimentScores [len(model.SentimentCategories)]float64

const (
	idxPositive = iota
	idxNeutral
	idxNegative
	idxInterested
	idxFrustrated
)

// ScoreSentiment accumulates the weighted signals present in the call data.
func ScoreSentiment(cd *model.CallData) SentimentScores {
	var s SentimentScores

	switch lowerTrim(cd.CarrierSentiment) {
	case "positive", "interested", "enthusiastic":
		s[idxPositive] += 0.8
		s[idxInterested] += 0.7
	case "negative", "frustrated", "angry":
		s[idxNegative] += 0.8
		s[idxFrustrated] += 0.7
	case "neutral", "indifferent":
		s[idxNeutral] += 0.6
	}

	if cd.QuestionsAsked > 3 {
		s[idxInterested] += 0.6
	}
	if cd.NegotiationOccurred {
		s[idxInterested] += 0.5
	}

	secs := cd.CallSeconds()
	if secs < 60 {
		s[idxNegative] += 0.4
	}
	if cd.CarrierRequestedCallback {
		s[idxPositive] += 0.6
	}
	if secs > 300 {
		s[idxInterested] += min(0.5, (secs-300)/600)
	}

	if rounds := int(cd.NegotiationRounds); rounds > 0 {
		s[idxInterested] += min(0.4, float64(rounds)*0.1)
		if rounds > 5 {
			s[idxFrustrated] += 0.3
		}
	}
	return s
}

// Dominant returns the highest scoring category. Ties go to the category that
// comes first in model.SentimentCategories.
func (s SentimentScores) Dominant() (string, float64) {
	best := 0
	for i := 1; i < len(s); i++ {
		if s[i] > s[best] {
			best = i
		}
	}
	return model.SentimentCategories[best], s[best]
}

func ClassifySentiment(cd *model.CallData, now time.Time) model.SentimentClassification {
	scores := ScoreSentiment(cd)
	overall, score := scores.Dominant()

	sc := model.SentimentClassification{
		ClassifiedAt:         now.Format(time.RFC3339Nano),
		OverallSentiment:     overall,
		SentimentConfidence:  min(1.0, score),
		SentimentProgression: []model.SentimentPoint{},
		SentimentDetails: model.SentimentDetails{
			EngagementLevel:        engagementLevel(scores[idxInterested]),
			NegotiationWillingness: cd.NegotiationOccurred,
			FrustrationIndicators:  scores[idxFrustrated] > 0.3,
			PositiveIndicators:     scores[idxPositive],
			NegativeIndicators:     scores[idxNegative],
		},
	}
	sc.SentimentProgression = slices.AppendSeq(sc.SentimentProgression, SentimentTrace(cd.CallEvents))
	return sc
}

func engagementLevel(interested float64) string {
	switch {
	case interested > 0.5:
		return "high"
	case interested > 0.2:
		return "medium"
	default:
		return "low"
	}
}

// SentimentTrace tags each call event in order. The sequence can be ranged
// over any number of times.
func SentimentTrace(events []model.CallEvent) iter.Seq[model.SentimentPoint] {
	return func(yield func(model.SentimentPoint) bool) {
		for _, ev := range events {
			p := model.SentimentPoint{
				Timestamp: ev.Timestamp,
				EventType: ev.Type,
				Sentiment: model.SentimentNeutral,
			}
			switch ev.Type {
			case "question_asked", "interest_expressed":
				p.Sentiment = model.SentimentPositive
			case "objection_raised", "call_terminated_early":
				p.Sentiment = model.SentimentNegative
			}
			if !yield(p) {
				return
			}
		}
	}
}
