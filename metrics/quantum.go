// Package metrics provides reconstruction quality metrics for trained
// wavefunctions, computed against an exhaustively enumerated visible state
// space. They are exact (not sampled) and therefore only practical for small
// systems; see nnstates.GenerateHilbertSpace for the size cap.
package metrics

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/qugo/nnstates"
	"github.com/YuminosukeSato/qugo/pkg/errors"
)

// normalizedPsi evaluates the normalized wavefunction on every row of space.
func normalizedPsi(wf nnstates.Wavefunction, space mat.Matrix) ([]complex128, error) {
	z, err := wf.ComputeNormalization(space)
	if err != nil {
		return nil, err
	}
	if err := errors.CheckScalar("normalization", z, 0); err != nil {
		return nil, err
	}
	if z <= 0 {
		return nil, errors.NewValueError("metrics.normalizedPsi", "normalization constant is not positive")
	}

	amps, err := wf.Amplitude(space)
	if err != nil {
		return nil, err
	}
	phases, err := wf.Phase(space)
	if err != nil {
		return nil, err
	}

	sqrtZ := math.Sqrt(z)
	psi := make([]complex128, amps.Len())
	for i := range psi {
		psi[i] = cmplx.Rect(amps.AtVec(i)/sqrtZ, phases.AtVec(i))
	}
	return psi, nil
}

// Fidelity computes |⟨target|ψ⟩|² between the normalized model state and a
// target state given as amplitudes over the rows of space. The target is
// normalized internally. A fidelity of 1 means the states coincide up to a
// global phase.
func Fidelity(wf nnstates.Wavefunction, target []complex128, space mat.Matrix) (float64, error) {
	rows, _ := space.Dims()
	if len(target) != rows {
		return 0, errors.NewDimensionError("metrics.Fidelity", rows, len(target), 0)
	}

	psi, err := normalizedPsi(wf, space)
	if err != nil {
		return 0, err
	}

	var targetNorm float64
	var overlap complex128
	for i, t := range target {
		targetNorm += real(t)*real(t) + imag(t)*imag(t)
		overlap += cmplx.Conj(t) * psi[i]
	}
	if targetNorm == 0 {
		return 0, errors.NewValueError("metrics.Fidelity", "target state has zero norm")
	}

	return (real(overlap)*real(overlap) + imag(overlap)*imag(overlap)) / targetNorm, nil
}

// KLDivergence computes KL(target ‖ model) in nats between a target
// probability distribution over the rows of space and the model
// distribution |ψ|²/Z. Terms with zero target probability contribute
// nothing.
func KLDivergence(wf nnstates.Wavefunction, targetProbs []float64, space mat.Matrix) (float64, error) {
	rows, _ := space.Dims()
	if len(targetProbs) != rows {
		return 0, errors.NewDimensionError("metrics.KLDivergence", rows, len(targetProbs), 0)
	}

	z, err := wf.ComputeNormalization(space)
	if err != nil {
		return 0, err
	}
	amps, err := wf.Amplitude(space)
	if err != nil {
		return 0, err
	}

	var kl float64
	for i, p := range targetProbs {
		if p <= 0 {
			continue
		}
		q := amps.AtVec(i) * amps.AtVec(i) / z
		if q <= 0 {
			return 0, errors.NewValueError("metrics.KLDivergence",
				"model assigns zero probability to a state with non-zero target probability")
		}
		kl += p * math.Log(p/q)
	}
	return kl, nil
}

// NLL computes the mean negative log likelihood of a set of measurement
// samples under the model distribution.
func NLL(wf nnstates.Wavefunction, samples mat.Matrix, space mat.Matrix) (float64, error) {
	rows, _ := samples.Dims()
	if rows == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, "metrics.NLL")
	}

	z, err := wf.ComputeNormalization(space)
	if err != nil {
		return 0, err
	}
	amps, err := wf.Amplitude(samples)
	if err != nil {
		return 0, err
	}

	logZ := math.Log(z)
	var nll float64
	for i := 0; i < amps.Len(); i++ {
		nll -= 2*math.Log(amps.AtVec(i)) - logZ
	}
	return nll / float64(rows), nil
}
