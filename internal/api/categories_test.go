package api

import (
	"reflect"
	"testing"
)

func TestCategorize(t *testing.T) {
	symptoms := []string{
		"High Fever",
		"chest pain",
		"stomach ache",
		"shortness of breath",
		"headache",
		"itching",
		"blurred vision",
		"swollen knee",
	}

	got := categorize(symptoms)
	want := map[string][]string{
		"general":      {"High Fever"},
		"pain":         {"chest pain", "stomach ache", "headache"},
		"digestive":    {"stomach ache"},
		"respiratory":  {"chest pain", "shortness of breath"},
		"neurological": {"headache", "blurred vision"},
		"skin":         {"itching", "blurred vision"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected categories:\n got %v\nwant %v", got, want)
	}
}

func TestCategorizeDeterministic(t *testing.T) {
	symptoms := []string{"rash", "cough", "fatigue", "nausea"}
	first := categorize(symptoms)
	for i := 0; i < 10; i++ {
		if !reflect.DeepEqual(first, categorize(symptoms)) {
			t.Fatal("categorize should be deterministic")
		}
	}
}

func TestCategorizeEmptyVocabulary(t *testing.T) {
	got := categorize(nil)
	if len(got) != len(categoryKeywords) {
		t.Fatalf("expected every category, got %v", got)
	}
	for name, list := range got {
		if list == nil || len(list) != 0 {
			t.Fatalf("category %s should be an empty non-nil list, got %#v", name, list)
		}
	}
}
