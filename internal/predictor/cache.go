package predictor

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes predictions by matched feature set. Inference is
// deterministic, so two inputs that match the same vocabulary entries
// always share a result.
type Cache struct {
	predictor *Predictor
	entries   *lru.Cache[string, *Prediction]
}

// NewCache wraps p with an LRU of the given size.
func NewCache(p *Predictor, size int) (*Cache, error) {
	entries, err := lru.New[string, *Prediction](size)
	if err != nil {
		return nil, fmt.Errorf("create prediction cache: %w", err)
	}
	return &Cache{predictor: p, entries: entries}, nil
}

func (c *Cache) Symptoms() []string {
	return c.predictor.Symptoms()
}

func (c *Cache) Diseases() []string {
	return c.predictor.Diseases()
}

// Len reports the number of cached predictions.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Predict behaves like Predictor.Predict. Callers get their own copy of
// the result.
func (c *Cache) Predict(symptoms []string) (*Prediction, error) {
	matched, err := c.predictor.Match(symptoms)
	if err != nil {
		return nil, err
	}

	key := matchKey(matched)
	if hit, ok := c.entries.Get(key); ok {
		return hit.clone(), nil
	}

	pred := c.predictor.Infer(matched)
	c.entries.Add(key, pred)
	return pred.clone(), nil
}

func matchKey(matched []int) string {
	parts := make([]string, len(matched))
	for i, idx := range matched {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}
