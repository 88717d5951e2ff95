package predictor

import "strings"

// normalize folds a symptom name to the form used for matching.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// vocabulary is the ordered symptom list that defines the input features.
type vocabulary struct {
	names      []string
	normalized []string
}

func newVocabulary(names []string) *vocabulary {
	v := &vocabulary{
		names:      append([]string(nil), names...),
		normalized: make([]string, len(names)),
	}
	for i, n := range names {
		v.normalized[i] = normalize(n)
	}
	return v
}

func (v *vocabulary) Len() int {
	return len(v.names)
}

// match returns the vocabulary indices, in vocabulary order, whose
// normalized name appears in the normalized input.
func (v *vocabulary) match(input []string) []int {
	wanted := make(map[string]struct{}, len(input))
	for _, s := range input {
		wanted[normalize(s)] = struct{}{}
	}

	matched := []int{}
	for i, n := range v.normalized {
		if _, ok := wanted[n]; ok {
			matched = append(matched, i)
		}
	}
	return matched
}

// labelSet maps disease names to contiguous class indices in first-seen order.
type labelSet struct {
	names []string
	index map[string]int
}

func newLabelSet(labels []string) *labelSet {
	l := &labelSet{index: map[string]int{}}
	for _, name := range labels {
		if _, ok := l.index[name]; ok {
			continue
		}
		l.index[name] = len(l.names)
		l.names = append(l.names, name)
	}
	return l
}

func (l *labelSet) Len() int {
	return len(l.names)
}
