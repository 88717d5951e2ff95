package recommend

import (
	"strings"
	"testing"
)

func TestBandBoundaries(t *testing.T) {
	cases := []struct {
		confidence float64
		want       Band
	}{
		{0, LowConfidence},
		{29.999, LowConfidence},
		{30, ModerateConfidence},
		{45, ModerateConfidence},
		{59.999, ModerateConfidence},
		{60, HighConfidence},
		{100, HighConfidence},
	}

	for _, tc := range cases {
		if got := BandFor(tc.confidence); got != tc.want {
			t.Errorf("BandFor(%v) = %s, want %s", tc.confidence, got, tc.want)
		}
	}
}

func TestBandIsTotalOnRange(t *testing.T) {
	prev := BandFor(0)
	transitions := 0
	for c := 0.0; c <= 100; c += 0.001 {
		b := BandFor(c)
		if b == "" {
			t.Fatalf("no band for %v", c)
		}
		if b != prev {
			transitions++
			prev = b
		}
	}
	if transitions != 2 {
		t.Fatalf("expected 2 band transitions across [0,100], got %d", transitions)
	}
}

func TestRecommendPayloads(t *testing.T) {
	low := Recommend("Flu", 12.34, Patient{Age: 25, Weight: 70})
	if low.Level != LowConfidence || low.Urgency != "high" {
		t.Fatalf("unexpected low recommendation: %+v", low)
	}
	if !strings.Contains(low.Message, "12.3%") || !strings.Contains(low.Message, "immediately") {
		t.Fatalf("unexpected low message: %s", low.Message)
	}
	if low.Disclaimer != "" {
		t.Fatalf("low band should not carry a disclaimer, got %q", low.Disclaimer)
	}

	moderate := Recommend("Flu", 45, Patient{})
	if moderate.Level != ModerateConfidence || moderate.Urgency != "medium" {
		t.Fatalf("unexpected moderate recommendation: %+v", moderate)
	}
	if !strings.Contains(moderate.Message, "suggests Flu") {
		t.Fatalf("moderate message should name the disease: %s", moderate.Message)
	}

	high := Recommend("Flu", 88.8, Patient{})
	if high.Level != HighConfidence || high.Urgency != "medium" {
		t.Fatalf("unexpected high recommendation: %+v", high)
	}
	if !strings.Contains(high.Message, "indicates Flu") || high.Disclaimer == "" {
		t.Fatalf("high recommendation should name the disease and carry a disclaimer: %+v", high)
	}

	if len(low.NextSteps) != 3 || low.NextSteps[0] == moderate.NextSteps[0] || moderate.NextSteps[0] == high.NextSteps[0] {
		t.Fatal("each band should have its own next steps")
	}
}

func TestRecommendIgnoresPatient(t *testing.T) {
	a := Recommend("Cold", 50, Patient{Age: 5, Weight: 20})
	b := Recommend("Cold", 50, Patient{Age: 90, Weight: 120})
	if a.Message != b.Message || a.Level != b.Level {
		t.Fatal("patient metadata should not change the recommendation")
	}
}

func TestRecommendNextStepsAreCopies(t *testing.T) {
	r := Recommend("Cold", 70, Patient{})
	r.NextSteps[0] = "changed"
	if Recommend("Cold", 70, Patient{}).NextSteps[0] == "changed" {
		t.Fatal("next steps should not alias the policy table")
	}
}
