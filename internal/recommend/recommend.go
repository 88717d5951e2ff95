package recommend

import "fmt"

// Band names a confidence range.
type Band string

const (
	LowConfidence      Band = "low_confidence"
	ModerateConfidence Band = "moderate_confidence"
	HighConfidence     Band = "high_confidence"
)

// Patient carries optional metadata from the request. It does not affect
// the recommendation.
type Patient struct {
	Age    float64 `json:"age"`
	Weight float64 `json:"weight"`
}

// Recommendation is the advisory attached to a prediction.
type Recommendation struct {
	Level      Band     `json:"level"`
	Message    string   `json:"message"`
	Urgency    string   `json:"urgency"`
	NextSteps  []string `json:"next_steps"`
	Disclaimer string   `json:"disclaimer,omitempty"`
}

type policy struct {
	Band       Band
	Min        float64 // inclusive lower bound
	Urgency    string
	Message    func(disease string, confidence float64) string
	NextSteps  []string
	Disclaimer string
}

// policies is ordered by descending lower bound; the last entry catches
// everything below 30.
var policies = []policy{
	{
		Band:    HighConfidence,
		Min:     60,
		Urgency: "medium",
		Message: func(disease string, confidence float64) string {
			return fmt.Sprintf("High confidence prediction (%.1f%%) indicates %s. Please consult a healthcare professional for proper diagnosis and treatment.", confidence, disease)
		},
		NextSteps: []string{
			"Consult healthcare provider for confirmation",
			"Discuss treatment options",
			"Follow medical advice",
		},
		Disclaimer: "This is an AI prediction and should not replace professional medical diagnosis",
	},
	{
		Band:    ModerateConfidence,
		Min:     30,
		Urgency: "medium",
		Message: func(disease string, confidence float64) string {
			return fmt.Sprintf("Moderate confidence prediction (%.1f%%) suggests %s. This requires professional medical evaluation for confirmation.", confidence, disease)
		},
		NextSteps: []string{
			"Schedule appointment with healthcare provider",
			"Monitor symptoms closely",
			"Note any symptom changes",
		},
	},
	{
		Band:    LowConfidence,
		Urgency: "high",
		Message: func(_ string, confidence float64) string {
			return fmt.Sprintf("Very low confidence prediction (%.1f%%). This indicates insufficient symptom information or a rare condition. Please consult a healthcare professional immediately for proper diagnosis.", confidence)
		},
		NextSteps: []string{
			"Consult a healthcare provider",
			"Provide more detailed symptom information",
			"Consider if symptoms have worsened",
		},
	},
}

func lookup(confidence float64) policy {
	for _, p := range policies[:len(policies)-1] {
		if confidence >= p.Min {
			return p
		}
	}
	return policies[len(policies)-1]
}

// BandFor maps a confidence percentage to its band: below 30 is low, below
// 60 is moderate, anything else is high.
func BandFor(confidence float64) Band {
	return lookup(confidence).Band
}

// Recommend builds the advisory for a predicted disease.
func Recommend(disease string, confidence float64, _ Patient) Recommendation {
	p := lookup(confidence)
	return Recommendation{
		Level:      p.Band,
		Message:    p.Message(disease, confidence),
		Urgency:    p.Urgency,
		NextSteps:  append([]string(nil), p.NextSteps...),
		Disclaimer: p.Disclaimer,
	}
}
