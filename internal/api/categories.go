package api

import "strings"

// categoryKeywords groups symptoms for display. A symptom lands in every
// category whose keyword it contains.
var categoryKeywords = []struct {
	Name     string
	Keywords []string
}{
	{Name: "general", Keywords: []string{"fever", "fatigue", "weakness", "tired"}},
	{Name: "pain", Keywords: []string{"pain", "ache"}},
	{Name: "digestive", Keywords: []string{"nausea", "vomit", "stomach", "diarrhea", "bloating"}},
	{Name: "respiratory", Keywords: []string{"cough", "breath", "throat", "chest"}},
	{Name: "neurological", Keywords: []string{"headache", "dizziness", "confusion", "vision"}},
	{Name: "skin", Keywords: []string{"rash", "skin", "itch", "red"}},
}

// categorize partitions symptoms by lowercase substring match. Every
// category is present in the result, empty or not, and keeps vocabulary order.
func categorize(symptoms []string) map[string][]string {
	out := make(map[string][]string, len(categoryKeywords))
	for _, c := range categoryKeywords {
		matched := []string{}
		for _, s := range symptoms {
			lower := strings.ToLower(s)
			for _, kw := range c.Keywords {
				if strings.Contains(lower, kw) {
					matched = append(matched, s)
					break
				}
			}
		}
		out[c.Name] = matched
	}
	return out
}
