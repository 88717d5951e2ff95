package predictor

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	hiddenSize1 = 128
	hiddenSize2 = 64
)

// Network is a three layer perceptron. Weight matrices are stored
// input-major so that a batch X, one example per row, maps to X·W1.
type Network struct {
	W1 *mat.Dense
	B1 []float64
	W2 *mat.Dense
	B2 []float64
	W3 *mat.Dense
	B3 []float64
}

// newNetwork initializes weights and biases uniformly in
// [-1/sqrt(fanIn), 1/sqrt(fanIn)].
func newNetwork(inputs, outputs int, rng *rand.Rand) *Network {
	w1, b1 := newLayer(inputs, hiddenSize1, rng)
	w2, b2 := newLayer(hiddenSize1, hiddenSize2, rng)
	w3, b3 := newLayer(hiddenSize2, outputs, rng)
	return &Network{W1: w1, B1: b1, W2: w2, B2: b2, W3: w3, B3: b3}
}

func newLayer(fanIn, fanOut int, rng *rand.Rand) (*mat.Dense, []float64) {
	bound := 1 / math.Sqrt(float64(fanIn))
	uniform := func() float64 { return (2*rng.Float64() - 1) * bound }

	data := make([]float64, fanIn*fanOut)
	for i := range data {
		data[i] = uniform()
	}
	bias := make([]float64, fanOut)
	for i := range bias {
		bias[i] = uniform()
	}
	return mat.NewDense(fanIn, fanOut, data), bias
}

// Inputs is the feature width the network accepts.
func (n *Network) Inputs() int {
	r, _ := n.W1.Dims()
	return r
}

// Outputs is the number of classes the network scores.
func (n *Network) Outputs() int {
	_, c := n.W3.Dims()
	return c
}

// params lists the trainable slices in a fixed order shared with gradients.
func (n *Network) params() [][]float64 {
	return [][]float64{
		n.W1.RawMatrix().Data, n.B1,
		n.W2.RawMatrix().Data, n.B2,
		n.W3.RawMatrix().Data, n.B3,
	}
}

type activations struct {
	z1, h1 *mat.Dense
	z2, h2 *mat.Dense
	logits *mat.Dense
}

// forward runs a batch through the network. mask, when non-nil, is the
// pre-scaled dropout mask applied to the first hidden layer.
func forward(n *Network, x mat.Matrix, mask *mat.Dense) *activations {
	z1 := affine(x, n.W1, n.B1)
	h1 := relu(z1)
	if mask != nil {
		h1.MulElem(h1, mask)
	}
	z2 := affine(h1, n.W2, n.B2)
	h2 := relu(z2)
	return &activations{
		z1: z1, h1: h1,
		z2: z2, h2: h2,
		logits: affine(h2, n.W3, n.B3),
	}
}

// backward returns the mean cross-entropy of act against labels y and the
// gradient of that loss with respect to every parameter of n.
func backward(n *Network, x mat.Matrix, y []int, act *activations, mask *mat.Dense) (float64, *Network) {
	rows, _ := x.Dims()
	scale := 1 / float64(rows)

	dz3 := softmaxRows(act.logits)
	var loss float64
	for i := 0; i < rows; i++ {
		row := dz3.RawRowView(i)
		loss -= math.Log(math.Max(row[y[i]], 1e-300))
		row[y[i]] -= 1
	}
	dz3.Scale(scale, dz3)

	g := &Network{W1: &mat.Dense{}, W2: &mat.Dense{}, W3: &mat.Dense{}}

	g.W3.Mul(act.h2.T(), dz3)
	g.B3 = columnSums(dz3)

	var dh2 mat.Dense
	dh2.Mul(dz3, n.W3.T())
	reluGrad(&dh2, act.z2)
	g.W2.Mul(act.h1.T(), &dh2)
	g.B2 = columnSums(&dh2)

	var dh1 mat.Dense
	dh1.Mul(&dh2, n.W2.T())
	if mask != nil {
		dh1.MulElem(&dh1, mask)
	}
	reluGrad(&dh1, act.z1)
	g.W1.Mul(x.T(), &dh1)
	g.B1 = columnSums(&dh1)

	return loss * scale, g
}

// dropoutMask keeps each unit with probability 1-p and scales kept units
// by 1/(1-p). It returns nil when p is zero.
func dropoutMask(rows, cols int, p float64, rng *rand.Rand) *mat.Dense {
	if p <= 0 {
		return nil
	}
	keep := 1 / (1 - p)
	data := make([]float64, rows*cols)
	for i := range data {
		if rng.Float64() >= p {
			data[i] = keep
		}
	}
	return mat.NewDense(rows, cols, data)
}

func affine(x mat.Matrix, w *mat.Dense, b []float64) *mat.Dense {
	var z mat.Dense
	z.Mul(x, w)
	r, _ := z.Dims()
	for i := 0; i < r; i++ {
		floats.Add(z.RawRowView(i), b)
	}
	return &z
}

func relu(z *mat.Dense) *mat.Dense {
	var h mat.Dense
	h.Apply(func(_, _ int, v float64) float64 {
		return math.Max(0, v)
	}, z)
	return &h
}

// reluGrad zeroes the entries of grad whose pre-activation was not positive.
func reluGrad(grad, z *mat.Dense) {
	r, _ := grad.Dims()
	for i := 0; i < r; i++ {
		g, zr := grad.RawRowView(i), z.RawRowView(i)
		for j := range g {
			if zr[j] <= 0 {
				g[j] = 0
			}
		}
	}
}

func columnSums(m *mat.Dense) []float64 {
	r, c := m.Dims()
	sums := make([]float64, c)
	for i := 0; i < r; i++ {
		floats.Add(sums, m.RawRowView(i))
	}
	return sums
}

// softmaxRows returns a new matrix holding the softmax of every row of m.
func softmaxRows(m *mat.Dense) *mat.Dense {
	out := mat.DenseCopyOf(m)
	r, _ := out.Dims()
	for i := 0; i < r; i++ {
		softmax(out.RawRowView(i))
	}
	return out
}

// softmax replaces v with its normalized exponential.
func softmax(v []float64) {
	peak := floats.Max(v)
	var sum float64
	for i, x := range v {
		v[i] = math.Exp(x - peak)
		sum += v[i]
	}
	floats.Scale(1/sum, v)
}
