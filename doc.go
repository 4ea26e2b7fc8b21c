// Package qugo provides neural-network quantum state reconstruction for Go,
// designed for reproducible simulation and analysis pipelines.
//
// QuGo learns a representation of a quantum many-body wavefunction from
// projective measurement data, using a restricted Boltzmann machine (RBM)
// as the underlying generative model. The API follows the estimator style
// familiar from scikit-learn-like libraries: construct, Fit, evaluate,
// persist.
//
// # Features
//
// - Positive (zero-phase) wavefunction reconstruction via contrastive divergence
// - Closed-form RBM gradients, no autodiff dependency
// - CPU-parallel batched energy and sampling loops
// - Robust Error Handling: structured errors with stack traces
// - Checkpointing with network size inference on reload
//
// # Quick Start
//
// Reconstructing a state from binary measurement samples:
//
//	package main
//
//	import (
//	    "log"
//
//	    "github.com/YuminosukeSato/qugo/nnstates"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    // Each row is one projective measurement of a 4-spin system.
//	    data := mat.NewDense(3, 4, []float64{
//	        0, 0, 0, 0,
//	        1, 0, 1, 0,
//	        0, 0, 0, 0,
//	    })
//
//	    wvfn, err := nnstates.NewPositiveWavefunction(4, 0, nnstates.DeviceCPU)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    if err := wvfn.Fit(data, nnstates.FitConfig{Epochs: 50, K: 10}); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - nnstates: wavefunction representations, training loop, callbacks, optimizers
//   - rbm: the binary restricted Boltzmann machine energy model
//   - metrics: reconstruction quality metrics (fidelity, KL divergence, NLL)
//   - observables: physical observables estimated from sampled configurations
//   - datasets: measurement data and target state loaders
//   - core/model: checkpoint persistence and estimator state
//   - core/parallel: parallel processing utilities
//
// # Contributing
//
// Contributions are welcome! Please see our GitHub repository:
// https://github.com/YuminosukeSato/qugo
//
// # License
//
// QuGo is released under the MIT License.
package qugo
