// internal/models/sentiment.go
package models

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentMixed    SentimentLabel = "mixed"
)

// AllSentimentLabels lists every label the analyzer may return.
var AllSentimentLabels = []SentimentLabel{
	SentimentPositive,
	SentimentNegative,
	SentimentNeutral,
	SentimentMixed,
}

func (l SentimentLabel) Valid() bool {
	for _, label := range AllSentimentLabels {
		if l == label {
			return true
		}
	}
	return false
}

// SentimentResult is the structured output of a sentiment analysis call.
// Score runs from -1 (strongly negative) to 1 (strongly positive).
type SentimentResult struct {
	Label      SentimentLabel `json:"label"`
	Score      float64        `json:"score"`
	Confidence float64        `json:"confidence"`
}
