// Package nnstates provides neural-network representations of quantum
// many-body states and the machinery to train them on projective
// measurement data.
//
// Each state representation implements the Wavefunction interface; shared
// behavior (training, checkpointing, state space enumeration) lives in
// standalone package functions rather than in a base type.
package nnstates

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/qugo/core/model"
	"github.com/YuminosukeSato/qugo/core/parallel"
	"github.com/YuminosukeSato/qugo/pkg/errors"
	"github.com/YuminosukeSato/qugo/rbm"
)

// MaxHilbertSpaceBits caps the size of systems whose visible state space may
// be enumerated exhaustively. 2^24 rows is already ~1.3 GiB of float64s.
const MaxHilbertSpaceBits = 24

// Wavefunction is the capability interface implemented by every phase
// variant of a learnable quantum state.
//
// Batched inputs are [batch, NumVisible] matrices with entries in {0, 1}.
type Wavefunction interface {
	// NumVisible returns the size of the physical system.
	NumVisible() int

	// NumHidden returns the number of hidden units in the amplitude RBM.
	NumHidden() int

	// Networks lists the names of the trainable sub-models.
	Networks() []string

	// Network returns the named sub-model, or nil if the name is unknown.
	Network(name string) *rbm.BinaryRBM

	// Device returns the compute device of the underlying energy model.
	Device() Device

	// Amplitude computes the unnormalized amplitude exp(-E(v)/2) of every
	// row of a visible-state batch.
	Amplitude(v mat.Matrix) (*mat.VecDense, error)

	// Phase computes the phase of every row of a visible-state batch.
	Phase(v mat.Matrix) (*mat.VecDense, error)

	// Psi computes the unnormalized complex wavefunction value of a single
	// visible state.
	Psi(v *mat.VecDense) (complex128, error)

	// Gradient computes the gradient of the effective energy with respect
	// to all amplitude-model parameters, summed over the batch.
	Gradient(v mat.Matrix) (*mat.VecDense, error)

	// ComputeBatchGradients estimates parameter gradients per network with
	// k-step contrastive divergence, using samplesBatch for the data phase
	// and negBatch to seed the model phase.
	ComputeBatchGradients(k int, samplesBatch, negBatch mat.Matrix) (map[string]*mat.VecDense, error)

	// ComputeNormalization sums the unnormalized probabilities over an
	// enumerated visible state space.
	ComputeNormalization(space mat.Matrix) (float64, error)
}

// GenerateHilbertSpace enumerates all 2^numVisible visible configurations in
// lexicographic order (row 0 is all zeros). Fails for systems larger than
// MaxHilbertSpaceBits.
func GenerateHilbertSpace(numVisible int) (*mat.Dense, error) {
	if numVisible <= 0 {
		return nil, errors.NewValidationError("num_visible", "must be a positive integer", numVisible)
	}
	if numVisible > MaxHilbertSpaceBits {
		return nil, errors.Wrapf(errors.ErrSpaceTooLarge,
			"num_visible %d exceeds %d bits", numVisible, MaxHilbertSpaceBits)
	}

	size := 1 << uint(numVisible)
	space := mat.NewDense(size, numVisible, nil)
	parallel.ParallelizeWithThreshold(size, 1024, func(start, end int) {
		for idx := start; idx < end; idx++ {
			for i := 0; i < numVisible; i++ {
				bit := (idx >> uint(numVisible-1-i)) & 1
				space.Set(idx, i, float64(bit))
			}
		}
	})
	return space, nil
}

// CheckpointOf snapshots all trainable networks of a wavefunction into the
// persistence format.
func CheckpointOf(wf Wavefunction) *model.Checkpoint {
	cp := &model.Checkpoint{Networks: make(map[string]model.NetworkState)}
	for _, name := range wf.Networks() {
		if net := wf.Network(name); net != nil {
			cp.Networks[name] = net.State()
		}
	}
	return cp
}

// Save persists a wavefunction's parameter dictionary to location.
func Save(wf Wavefunction, location string) error {
	return model.SaveCheckpoint(CheckpointOf(wf), location)
}

// LoadInto restores a wavefunction's parameters from a checkpoint at
// location. The stored network sizes must match the receiver's.
func LoadInto(wf Wavefunction, location string) error {
	cp, err := model.LoadCheckpoint(location)
	if err != nil {
		return err
	}
	for _, name := range wf.Networks() {
		ns, err := cp.Network(name)
		if err != nil {
			return err
		}
		net := wf.Network(name)
		if net == nil {
			return errors.NewCheckpointError("LoadInto", location, "wavefunction has no network "+name, nil)
		}
		if err := net.LoadState(ns); err != nil {
			return err
		}
	}
	return nil
}
