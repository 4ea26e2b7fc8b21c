// Package rbm implements a binary-binary restricted Boltzmann machine, the
// energy model underlying QuGo's wavefunction representations.
//
// The RBM assigns each visible configuration v an effective energy
//
//	E(v) = -v·b - Σ_j softplus(c_j + (Wv)_j)
//
// from which unnormalized probabilities p(v) = exp(-E(v)) and wavefunction
// amplitudes exp(-E(v)/2) are derived. All gradients are closed-form; no
// autodiff is involved.
package rbm

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/qugo/core/model"
	"github.com/YuminosukeSato/qugo/core/parallel"
	"github.com/YuminosukeSato/qugo/pkg/errors"
)

// Row counts below this threshold are processed sequentially.
const parallelThreshold = 256

// BinaryRBM is a restricted Boltzmann machine with binary visible and hidden
// units. Weights has one row per hidden unit and one column per visible unit.
type BinaryRBM struct {
	NumVisible int
	NumHidden  int

	Weights     *mat.Dense    // NumHidden x NumVisible
	VisibleBias *mat.VecDense // length NumVisible
	HiddenBias  *mat.VecDense // length NumHidden

	device Device
	rng    *rand.Rand
}

// New creates a BinaryRBM with the given layer sizes. Weights are initialized
// from N(0, 1/numVisible) and biases to zero. A seed of 0 selects a
// time-based seed. GPU device requests resolve to CPU with a warning.
func New(numVisible, numHidden int, device Device, seed int64) (*BinaryRBM, error) {
	if numVisible <= 0 {
		return nil, errors.NewValidationError("num_visible", "must be a positive integer", numVisible)
	}
	if numHidden <= 0 {
		return nil, errors.NewValidationError("num_hidden", "must be a positive integer", numHidden)
	}

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	weights := mat.NewDense(numHidden, numVisible, nil)
	scale := 1.0 / math.Sqrt(float64(numVisible))
	for j := 0; j < numHidden; j++ {
		for i := 0; i < numVisible; i++ {
			weights.Set(j, i, rng.NormFloat64()*scale)
		}
	}

	return &BinaryRBM{
		NumVisible:  numVisible,
		NumHidden:   numHidden,
		Weights:     weights,
		VisibleBias: mat.NewVecDense(numVisible, nil),
		HiddenBias:  mat.NewVecDense(numHidden, nil),
		device:      device.Resolve(),
		rng:         rng,
	}, nil
}

// Device returns the device the model parameters live on.
func (r *BinaryRBM) Device() Device {
	return r.device
}

// NumPars returns the total number of trainable parameters.
func (r *BinaryRBM) NumPars() int {
	return r.NumVisible*r.NumHidden + r.NumVisible + r.NumHidden
}

// checkBatch validates a [batch, NumVisible] input.
func (r *BinaryRBM) checkBatch(op string, v mat.Matrix) (rows int, err error) {
	rows, cols := v.Dims()
	if rows == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if cols != r.NumVisible {
		return 0, errors.NewDimensionError(op, r.NumVisible, cols, 1)
	}
	return rows, nil
}

// softplus computes log(1 + exp(x)) in a numerically stable way.
func softplus(x float64) float64 {
	if x > 0 {
		return x + math.Log1p(math.Exp(-x))
	}
	return math.Log1p(math.Exp(x))
}

// sigmoid computes 1 / (1 + exp(-x)).
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1.0 / (1.0 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1.0 + e)
}

// preActivation returns c_j + Σ_i W_ji v_i for every hidden unit j of one
// visible row.
func (r *BinaryRBM) preActivation(v mat.Matrix, row, j int) float64 {
	s := r.HiddenBias.AtVec(j)
	for i := 0; i < r.NumVisible; i++ {
		s += r.Weights.At(j, i) * v.At(row, i)
	}
	return s
}

// EffectiveEnergy computes E(v) for every row of a [batch, NumVisible] input.
func (r *BinaryRBM) EffectiveEnergy(v mat.Matrix) (*mat.VecDense, error) {
	rows, err := r.checkBatch("BinaryRBM.EffectiveEnergy", v)
	if err != nil {
		return nil, err
	}

	energies := mat.NewVecDense(rows, nil)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for row := start; row < end; row++ {
			var visible float64
			for i := 0; i < r.NumVisible; i++ {
				visible += v.At(row, i) * r.VisibleBias.AtVec(i)
			}

			var hidden float64
			for j := 0; j < r.NumHidden; j++ {
				hidden += softplus(r.preActivation(v, row, j))
			}

			energies.SetVec(row, -visible-hidden)
		}
	})
	return energies, nil
}

// EffectiveEnergyGradient computes the gradient of the effective energy with
// respect to all parameters, summed over the batch. The layout is the flat
// parameter layout of Parameters: weights row-major, then visible bias, then
// hidden bias.
func (r *BinaryRBM) EffectiveEnergyGradient(v mat.Matrix) (*mat.VecDense, error) {
	rows, err := r.checkBatch("BinaryRBM.EffectiveEnergyGradient", v)
	if err != nil {
		return nil, err
	}

	grad := make([]float64, r.NumPars())
	wOff := 0
	bOff := r.NumHidden * r.NumVisible
	cOff := bOff + r.NumVisible

	for row := 0; row < rows; row++ {
		for j := 0; j < r.NumHidden; j++ {
			ph := sigmoid(r.preActivation(v, row, j))
			for i := 0; i < r.NumVisible; i++ {
				grad[wOff+j*r.NumVisible+i] -= ph * v.At(row, i)
			}
			grad[cOff+j] -= ph
		}
		for i := 0; i < r.NumVisible; i++ {
			grad[bOff+i] -= v.At(row, i)
		}
	}

	return mat.NewVecDense(len(grad), grad), nil
}

// ProbHGivenV returns the Bernoulli means p(h_j = 1 | v) for every row.
func (r *BinaryRBM) ProbHGivenV(v mat.Matrix) (*mat.Dense, error) {
	rows, err := r.checkBatch("BinaryRBM.ProbHGivenV", v)
	if err != nil {
		return nil, err
	}

	probs := mat.NewDense(rows, r.NumHidden, nil)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for row := start; row < end; row++ {
			for j := 0; j < r.NumHidden; j++ {
				probs.Set(row, j, sigmoid(r.preActivation(v, row, j)))
			}
		}
	})
	return probs, nil
}

// ProbVGivenH returns the Bernoulli means p(v_i = 1 | h) for every row of a
// [batch, NumHidden] input.
func (r *BinaryRBM) ProbVGivenH(h mat.Matrix) (*mat.Dense, error) {
	rows, cols := h.Dims()
	if rows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "BinaryRBM.ProbVGivenH")
	}
	if cols != r.NumHidden {
		return nil, errors.NewDimensionError("BinaryRBM.ProbVGivenH", r.NumHidden, cols, 1)
	}

	probs := mat.NewDense(rows, r.NumVisible, nil)
	parallel.ParallelizeWithThreshold(rows, parallelThreshold, func(start, end int) {
		for row := start; row < end; row++ {
			for i := 0; i < r.NumVisible; i++ {
				s := r.VisibleBias.AtVec(i)
				for j := 0; j < r.NumHidden; j++ {
					s += r.Weights.At(j, i) * h.At(row, j)
				}
				probs.Set(row, i, sigmoid(s))
			}
		}
	})
	return probs, nil
}

// SampleHGivenV draws hidden configurations from p(h | v).
func (r *BinaryRBM) SampleHGivenV(v mat.Matrix) (*mat.Dense, error) {
	probs, err := r.ProbHGivenV(v)
	if err != nil {
		return nil, err
	}
	return r.bernoulli(probs), nil
}

// SampleVGivenH draws visible configurations from p(v | h).
func (r *BinaryRBM) SampleVGivenH(h mat.Matrix) (*mat.Dense, error) {
	probs, err := r.ProbVGivenH(h)
	if err != nil {
		return nil, err
	}
	return r.bernoulli(probs), nil
}

// bernoulli draws one sample per entry of a probability matrix. The shared
// RNG keeps runs reproducible, so this loop stays sequential.
func (r *BinaryRBM) bernoulli(probs *mat.Dense) *mat.Dense {
	rows, cols := probs.Dims()
	out := mat.NewDense(rows, cols, nil)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if r.rng.Float64() < probs.At(row, col) {
				out.Set(row, col, 1)
			}
		}
	}
	return out
}

// Gibbs performs k alternating block-Gibbs sweeps starting from the visible
// configurations v0 and returns the resulting visible samples.
func (r *BinaryRBM) Gibbs(k int, v0 mat.Matrix) (*mat.Dense, error) {
	if k < 0 {
		return nil, errors.NewValidationError("k", "must be non-negative", k)
	}
	rows, err := r.checkBatch("BinaryRBM.Gibbs", v0)
	if err != nil {
		return nil, err
	}

	v := mat.NewDense(rows, r.NumVisible, nil)
	v.Copy(v0)
	for step := 0; step < k; step++ {
		h, err := r.SampleHGivenV(v)
		if err != nil {
			return nil, err
		}
		v, err = r.SampleVGivenH(h)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// RandomVisible draws numSamples uniformly random visible configurations,
// used to seed Gibbs chains.
func (r *BinaryRBM) RandomVisible(numSamples int) (*mat.Dense, error) {
	if numSamples <= 0 {
		return nil, errors.NewValidationError("num_samples", "must be a positive integer", numSamples)
	}
	v := mat.NewDense(numSamples, r.NumVisible, nil)
	for row := 0; row < numSamples; row++ {
		for i := 0; i < r.NumVisible; i++ {
			if r.rng.Float64() < 0.5 {
				v.Set(row, i, 1)
			}
		}
	}
	return v, nil
}

// PartitionFunction computes Σ_σ exp(-E(σ)) over an enumerated visible
// state space.
func (r *BinaryRBM) PartitionFunction(space mat.Matrix) (float64, error) {
	energies, err := r.EffectiveEnergy(space)
	if err != nil {
		return 0, err
	}

	n := energies.Len()
	z := parallel.Sum(n, parallelThreshold, func(start, end int) float64 {
		var partial float64
		for i := start; i < end; i++ {
			partial += math.Exp(-energies.AtVec(i))
		}
		return partial
	})
	return z, nil
}

// Parameters returns all trainable parameters as one flat vector: weights
// row-major, then visible bias, then hidden bias.
func (r *BinaryRBM) Parameters() []float64 {
	pars := make([]float64, 0, r.NumPars())
	for j := 0; j < r.NumHidden; j++ {
		for i := 0; i < r.NumVisible; i++ {
			pars = append(pars, r.Weights.At(j, i))
		}
	}
	for i := 0; i < r.NumVisible; i++ {
		pars = append(pars, r.VisibleBias.AtVec(i))
	}
	for j := 0; j < r.NumHidden; j++ {
		pars = append(pars, r.HiddenBias.AtVec(j))
	}
	return pars
}

// SetParameters overwrites all trainable parameters from a flat vector in
// the layout of Parameters.
func (r *BinaryRBM) SetParameters(pars []float64) error {
	if len(pars) != r.NumPars() {
		return errors.NewDimensionError("BinaryRBM.SetParameters", r.NumPars(), len(pars), 0)
	}

	idx := 0
	for j := 0; j < r.NumHidden; j++ {
		for i := 0; i < r.NumVisible; i++ {
			r.Weights.Set(j, i, pars[idx])
			idx++
		}
	}
	for i := 0; i < r.NumVisible; i++ {
		r.VisibleBias.SetVec(i, pars[idx])
		idx++
	}
	for j := 0; j < r.NumHidden; j++ {
		r.HiddenBias.SetVec(j, pars[idx])
		idx++
	}
	return nil
}

// State snapshots the named parameters for persistence.
func (r *BinaryRBM) State() model.NetworkState {
	weights := make([]float64, 0, r.NumHidden*r.NumVisible)
	for j := 0; j < r.NumHidden; j++ {
		for i := 0; i < r.NumVisible; i++ {
			weights = append(weights, r.Weights.At(j, i))
		}
	}

	visibleBias := make([]float64, r.NumVisible)
	for i := 0; i < r.NumVisible; i++ {
		visibleBias[i] = r.VisibleBias.AtVec(i)
	}
	hiddenBias := make([]float64, r.NumHidden)
	for j := 0; j < r.NumHidden; j++ {
		hiddenBias[j] = r.HiddenBias.AtVec(j)
	}

	return model.NetworkState{
		NumVisible:  r.NumVisible,
		NumHidden:   r.NumHidden,
		Weights:     weights,
		VisibleBias: visibleBias,
		HiddenBias:  hiddenBias,
	}
}

// LoadState restores parameters from a snapshot. The snapshot sizes must
// match the model's layer sizes.
func (r *BinaryRBM) LoadState(ns model.NetworkState) error {
	if ns.NumVisible != r.NumVisible {
		return errors.NewDimensionError("BinaryRBM.LoadState", r.NumVisible, ns.NumVisible, 1)
	}
	if ns.NumHidden != r.NumHidden {
		return errors.NewDimensionError("BinaryRBM.LoadState", r.NumHidden, ns.NumHidden, 1)
	}
	if err := ns.Validate("rbm"); err != nil {
		return err
	}

	for j := 0; j < r.NumHidden; j++ {
		for i := 0; i < r.NumVisible; i++ {
			r.Weights.Set(j, i, ns.Weights[j*r.NumVisible+i])
		}
	}
	for i := 0; i < r.NumVisible; i++ {
		r.VisibleBias.SetVec(i, ns.VisibleBias[i])
	}
	for j := 0; j < r.NumHidden; j++ {
		r.HiddenBias.SetVec(j, ns.HiddenBias[j])
	}
	return nil
}
