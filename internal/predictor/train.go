package predictor

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Skufu/GoDiagnose/internal/dataset"
)

// TrainConfig controls the startup training run.
type TrainConfig struct {
	Epochs       int
	LearningRate float64
	Dropout      float64
	Seed         int64
	// LogEvery is the epoch interval between loss log lines. Zero disables them.
	LogEvery int
}

// DefaultTrainConfig returns the settings used when nothing is configured.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		Epochs:       1000,
		LearningRate: 0.001,
		Dropout:      0.3,
		Seed:         42,
		LogEvery:     100,
	}
}

func (c TrainConfig) validate() error {
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	}
	if c.LearningRate <= 0 || math.IsNaN(c.LearningRate) || math.IsInf(c.LearningRate, 0) {
		return fmt.Errorf("learning rate must be positive, got %v", c.LearningRate)
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("dropout must be in [0, 1), got %v", c.Dropout)
	}
	return nil
}

var errEmptyLabels = errors.New("dataset has no disease labels")

// Train derives the vocabulary and label set from ds and fits a fresh
// network with full-batch Adam on mean cross-entropy. It blocks until
// every epoch has run.
func Train(ds *dataset.Dataset, cfg TrainConfig) (*Predictor, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("train config: %w", err)
	}
	if ds == nil || len(ds.Symptoms) == 0 {
		return nil, dataset.ErrNoSymptoms
	}
	if ds.Len() == 0 {
		return nil, dataset.ErrNoRows
	}
	if len(ds.Labels) != len(ds.Features) {
		return nil, fmt.Errorf("dataset has %d labels for %d rows", len(ds.Labels), len(ds.Features))
	}

	vocab := newVocabulary(ds.Symptoms)
	labels := newLabelSet(ds.Labels)
	if labels.Len() == 0 {
		return nil, errEmptyLabels
	}

	rows, cols := ds.Len(), vocab.Len()
	x := mat.NewDense(rows, cols, nil)
	y := make([]int, rows)
	for i, row := range ds.Features {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d features, want %d", i+1, len(row), cols)
		}
		x.SetRow(i, row)
		y[i] = labels.index[ds.Labels[i]]
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	net := newNetwork(cols, labels.Len(), rng)
	opt := newAdam(cfg.LearningRate, net.params())

	logrus.WithFields(logrus.Fields{
		"rows":     rows,
		"symptoms": cols,
		"diseases": labels.Len(),
		"epochs":   cfg.Epochs,
	}).Info("training model")

	start := time.Now()
	var loss float64
	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		mask := dropoutMask(rows, hiddenSize1, cfg.Dropout, rng)
		act := forward(net, x, mask)

		var grads *Network
		loss, grads = backward(net, x, y, act, mask)
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, fmt.Errorf("training diverged at epoch %d", epoch)
		}
		opt.step(net.params(), grads.params())

		if cfg.LogEvery > 0 && epoch%cfg.LogEvery == 0 {
			logrus.Infof("Epoch [%d/%d], Loss: %.4f", epoch, cfg.Epochs, loss)
		}
	}

	p, err := newPredictor(vocab, labels, net)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"loss":     loss,
		"accuracy": accuracy(net, x, y),
		"elapsed":  time.Since(start).Round(time.Millisecond).String(),
	}).Info("model trained")

	return p, nil
}

// accuracy is the fraction of rows whose argmax class equals the label.
func accuracy(net *Network, x *mat.Dense, y []int) float64 {
	logits := forward(net, x, nil).logits
	var right int
	for i, label := range y {
		if floats.MaxIdx(logits.RawRowView(i)) == label {
			right++
		}
	}
	return float64(right) / float64(len(y))
}
