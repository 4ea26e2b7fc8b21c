package nnstates

import (
	"math"

	"gonum.org/v1/gonum/mat"

	coremodel "github.com/YuminosukeSato/qugo/core/model"
	"github.com/YuminosukeSato/qugo/pkg/errors"
	"github.com/YuminosukeSato/qugo/rbm"
)

// AmplitudeNetwork is the name of the energy model that represents the
// amplitude of a wavefunction, both in Networks listings and in checkpoints.
const AmplitudeNetwork = "rbm_am"

// PositiveWavefunction learns wavefunctions with no phase: the state is
// purely real and non-negative, so a single RBM modelling the amplitude is
// enough. This holds for ground states of stoquastic Hamiltonians such as
// the transverse-field Ising model.
type PositiveWavefunction struct {
	coremodel.BaseEstimator

	numVisible int
	numHidden  int
	rbmAm      *rbm.BinaryRBM
	device     Device
}

var _ Wavefunction = (*PositiveWavefunction)(nil)

// NewPositiveWavefunction creates a positive wavefunction over numVisible
// physical units. A numHidden of 0 (or negative) defaults to numVisible.
func NewPositiveWavefunction(numVisible, numHidden int, device Device) (*PositiveWavefunction, error) {
	if numVisible <= 0 {
		return nil, errors.NewValidationError("num_visible", "must be a positive integer", numVisible)
	}
	if numHidden <= 0 {
		numHidden = numVisible
	}

	rbmAm, err := rbm.New(numVisible, numHidden, device, 0)
	if err != nil {
		return nil, err
	}

	return &PositiveWavefunction{
		numVisible: numVisible,
		numHidden:  numHidden,
		rbmAm:      rbmAm,
		device:     rbmAm.Device(),
	}, nil
}

// NumVisible returns the size of the physical system.
func (p *PositiveWavefunction) NumVisible() int { return p.numVisible }

// NumHidden returns the number of hidden units in the amplitude RBM.
func (p *PositiveWavefunction) NumHidden() int { return p.numHidden }

// Networks lists the trainable sub-models. A positive wavefunction has a
// single amplitude network.
func (p *PositiveWavefunction) Networks() []string {
	return []string{AmplitudeNetwork}
}

// Network returns the named sub-model, or nil if the name is unknown.
func (p *PositiveWavefunction) Network(name string) *rbm.BinaryRBM {
	if name == AmplitudeNetwork {
		return p.rbmAm
	}
	return nil
}

// RBMAm returns the owned amplitude model.
func (p *PositiveWavefunction) RBMAm() *rbm.BinaryRBM { return p.rbmAm }

// SetRBMAm replaces the owned amplitude model, keeping the device in sync.
// It is intended for deserialization, before any concurrent use.
func (p *PositiveWavefunction) SetRBMAm(r *rbm.BinaryRBM) {
	p.rbmAm = r
	p.device = r.Device()
}

// Device returns the compute device; it always equals the amplitude model's.
func (p *PositiveWavefunction) Device() Device { return p.device }

// Amplitude computes the unnormalized amplitude of every row of a
// visible-state batch:
//
//	amplitude(σ) = |ψ(σ)| = exp(-E(σ)/2)
func (p *PositiveWavefunction) Amplitude(v mat.Matrix) (*mat.VecDense, error) {
	energies, err := p.rbmAm.EffectiveEnergy(v)
	if err != nil {
		return nil, err
	}
	amps := mat.NewVecDense(energies.Len(), nil)
	for i := 0; i < energies.Len(); i++ {
		amps.SetVec(i, math.Exp(-energies.AtVec(i)/2))
	}
	return amps, nil
}

// Phase computes the phase of every row of a visible-state batch. For a
// positive wavefunction the phase is identically zero; the returned vector
// has one entry per batch row.
func (p *PositiveWavefunction) Phase(v mat.Matrix) (*mat.VecDense, error) {
	rows, cols := v.Dims()
	if rows == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "PositiveWavefunction.Phase")
	}
	if cols != p.numVisible {
		return nil, errors.NewDimensionError("PositiveWavefunction.Phase", p.numVisible, cols, 1)
	}
	return mat.NewVecDense(rows, nil), nil
}

// Psi computes the unnormalized wavefunction value of a single visible
// state. The real part is the amplitude; the imaginary part is exactly zero.
//
// Unlike Amplitude and Phase, Psi takes a single state rather than a batch.
func (p *PositiveWavefunction) Psi(v *mat.VecDense) (complex128, error) {
	if v.Len() != p.numVisible {
		return 0, errors.NewDimensionError("PositiveWavefunction.Psi", p.numVisible, v.Len(), 1)
	}

	row := mat.NewDense(1, p.numVisible, nil)
	for i := 0; i < p.numVisible; i++ {
		row.Set(0, i, v.AtVec(i))
	}
	amps, err := p.Amplitude(row)
	if err != nil {
		return 0, err
	}
	return complex(amps.AtVec(0), 0), nil
}

// Gradient computes the gradient of the effective energy with respect to
// all amplitude-model parameters, summed over the batch.
func (p *PositiveWavefunction) Gradient(v mat.Matrix) (*mat.VecDense, error) {
	return p.rbmAm.EffectiveEnergyGradient(v)
}

// ComputeBatchGradients estimates the parameter gradient with k-step
// contrastive divergence:
//
//	grad = ∇E(pos)/|pos| - ∇E(Gibbs_k(neg))/|neg|
//
// samplesBatch supplies the data (positive) phase; negBatch seeds the Gibbs
// chains of the model (negative) phase.
func (p *PositiveWavefunction) ComputeBatchGradients(k int, samplesBatch, negBatch mat.Matrix) (map[string]*mat.VecDense, error) {
	posRows, _ := samplesBatch.Dims()
	negRows, _ := negBatch.Dims()

	posGrad, err := p.Gradient(samplesBatch)
	if err != nil {
		return nil, err
	}

	vk, err := p.rbmAm.Gibbs(k, negBatch)
	if err != nil {
		return nil, err
	}
	negGrad, err := p.Gradient(vk)
	if err != nil {
		return nil, err
	}

	grad := mat.NewVecDense(posGrad.Len(), nil)
	grad.AddScaledVec(grad, 1/float64(posRows), posGrad)
	grad.AddScaledVec(grad, -1/float64(negRows), negGrad)

	return map[string]*mat.VecDense{AmplitudeNetwork: grad}, nil
}

// Fit trains the wavefunction on a matrix of measurement samples, one
// projective measurement per row. It delegates to the shared training loop;
// see FitConfig for the hyperparameter surface.
func (p *PositiveWavefunction) Fit(data mat.Matrix, cfg FitConfig) error {
	if err := Train(p, data, cfg); err != nil {
		return err
	}
	p.SetFitted()
	return nil
}

// ComputeNormalization computes the normalization constant of the
// wavefunction by summing the unnormalized probabilities over the full
// enumerated visible state space:
//
//	Z = Σ_σ |ψ(σ)|² = Σ_σ exp(-E(σ))
func (p *PositiveWavefunction) ComputeNormalization(space mat.Matrix) (float64, error) {
	return p.rbmAm.PartitionFunction(space)
}

// Sample draws numSamples visible configurations from the model
// distribution by running k Gibbs steps from uniformly random states.
func (p *PositiveWavefunction) Sample(numSamples, k int) (*mat.Dense, error) {
	v0, err := p.rbmAm.RandomVisible(numSamples)
	if err != nil {
		return nil, err
	}
	return p.rbmAm.Gibbs(k, v0)
}

// Save persists the parameter dictionary to location.
func (p *PositiveWavefunction) Save(location string) error {
	return Save(p, location)
}

// Load restores the parameter dictionary from location. The stored sizes
// must match this instance's.
func (p *PositiveWavefunction) Load(location string) error {
	return LoadInto(p, location)
}

// AutoloadPositive reconstructs a PositiveWavefunction from a checkpoint,
// inferring the layer sizes from the lengths of the stored bias vectors
// under the amplitude network key.
func AutoloadPositive(location string, device Device) (*PositiveWavefunction, error) {
	cp, err := coremodel.LoadCheckpoint(location)
	if err != nil {
		return nil, err
	}
	ns, err := cp.Network(AmplitudeNetwork)
	if err != nil {
		return nil, err
	}

	wvfn, err := NewPositiveWavefunction(len(ns.VisibleBias), len(ns.HiddenBias), device)
	if err != nil {
		return nil, err
	}
	if err := wvfn.rbmAm.LoadState(ns); err != nil {
		return nil, err
	}
	return wvfn, nil
}
