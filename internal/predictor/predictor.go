package predictor

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// TopK is the number of ranked diseases returned with every prediction.
const TopK = 3

var (
	ErrInsufficientInput  = errors.New("no symptoms provided")
	ErrNoMatchingSymptoms = errors.New("no matching symptoms found")
)

// Ranked is one disease with its probability expressed as a percentage.
type Ranked struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
}

// Prediction is the result of one forward pass.
type Prediction struct {
	Primary Ranked
	Top     []Ranked
	// Matched holds the normalized vocabulary names that were present,
	// in vocabulary order.
	Matched []string
	// Probabilities is indexed by disease index and sums to 100.
	Probabilities []float64
}

// MatchCount is the number of vocabulary entries found in the input.
func (p *Prediction) MatchCount() int {
	return len(p.Matched)
}

func (p *Prediction) clone() *Prediction {
	return &Prediction{
		Primary:       p.Primary,
		Top:           slices.Clone(p.Top),
		Matched:       slices.Clone(p.Matched),
		Probabilities: slices.Clone(p.Probabilities),
	}
}

// Predictor holds a trained network with the vocabulary and labels it was
// trained against. It is never mutated after construction and is safe for
// concurrent use.
type Predictor struct {
	vocab  *vocabulary
	labels *labelSet
	net    *Network
}

func newPredictor(vocab *vocabulary, labels *labelSet, net *Network) (*Predictor, error) {
	if net.Inputs() != vocab.Len() {
		return nil, fmt.Errorf("network expects %d inputs but vocabulary has %d symptoms", net.Inputs(), vocab.Len())
	}
	if net.Outputs() != labels.Len() {
		return nil, fmt.Errorf("network scores %d classes but label set has %d diseases", net.Outputs(), labels.Len())
	}
	return &Predictor{vocab: vocab, labels: labels, net: net}, nil
}

// Symptoms returns the vocabulary in feature order.
func (p *Predictor) Symptoms() []string {
	return slices.Clone(p.vocab.names)
}

// Diseases returns the disease names in class index order.
func (p *Predictor) Diseases() []string {
	return slices.Clone(p.labels.names)
}

// Match resolves free-form symptom names to vocabulary indices. Names that
// are not in the vocabulary are ignored.
func (p *Predictor) Match(symptoms []string) ([]int, error) {
	if len(symptoms) == 0 {
		return nil, ErrInsufficientInput
	}
	matched := p.vocab.match(symptoms)
	if len(matched) == 0 {
		return nil, ErrNoMatchingSymptoms
	}
	return matched, nil
}

// Infer scores the feature vector with ones at the given vocabulary indices.
func (p *Predictor) Infer(matched []int) *Prediction {
	x := mat.NewVecDense(p.vocab.Len(), nil)
	names := make([]string, 0, len(matched))
	for _, i := range matched {
		x.SetVec(i, 1)
		names = append(names, p.vocab.normalized[i])
	}

	probs := forward(p.net, x.T(), nil).logits.RawRowView(0)
	softmax(probs)

	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
		probs[i] *= 100
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(probs[b], probs[a])
	})

	k := min(TopK, len(order))
	top := make([]Ranked, k)
	for i := 0; i < k; i++ {
		top[i] = Ranked{Disease: p.labels.names[order[i]], Confidence: probs[order[i]]}
	}

	return &Prediction{
		Primary:       top[0],
		Top:           top,
		Matched:       names,
		Probabilities: probs,
	}
}

// Predict matches symptoms against the vocabulary and runs the network.
func (p *Predictor) Predict(symptoms []string) (*Prediction, error) {
	matched, err := p.Match(symptoms)
	if err != nil {
		return nil, err
	}
	return p.Infer(matched), nil
}
