package nnstates

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/qugo/pkg/errors"
	"github.com/YuminosukeSato/qugo/pkg/log"
)

// FitConfig holds the training hyperparameters. The zero value is usable;
// every field has a documented default.
type FitConfig struct {
	// Epochs is the number of full passes through the dataset (default 100).
	Epochs int

	// PosBatchSize is the batch size of the positive (data) phase
	// (default 100).
	PosBatchSize int

	// NegBatchSize is the batch size of the negative (model) phase.
	// Defaults to PosBatchSize.
	NegBatchSize int

	// K is the number of contrastive divergence steps (default 1).
	K int

	// LR is the learning rate (default 1e-3).
	LR float64

	// Optimizer constructs the parameter optimizer (default plain SGD).
	Optimizer OptimizerFactory

	// Callbacks run synchronously after every epoch.
	Callbacks []Callback

	// Progbar prints per-epoch progress to stderr.
	Progbar bool

	// LogTiming logs the wall-clock duration of every epoch.
	LogTiming bool

	// MaxGradNorm rescales gradients whose L2 norm exceeds it. Zero
	// disables clipping.
	MaxGradNorm float64

	// Seed seeds batch shuffling and negative-batch selection. Zero
	// selects a time-based seed.
	Seed int64
}

func (cfg FitConfig) withDefaults() FitConfig {
	if cfg.Epochs <= 0 {
		cfg.Epochs = 100
	}
	if cfg.PosBatchSize <= 0 {
		cfg.PosBatchSize = 100
	}
	if cfg.NegBatchSize <= 0 {
		cfg.NegBatchSize = cfg.PosBatchSize
	}
	if cfg.K <= 0 {
		cfg.K = 1
	}
	if cfg.LR == 0 {
		cfg.LR = 1e-3
	}
	if cfg.Optimizer == nil {
		cfg.Optimizer = NewSGD()
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg
}

// Train fits a wavefunction to measurement data with contrastive
// divergence. One row of data is one projective measurement in the
// computational basis.
//
// Train is a long-running blocking call. Callbacks are invoked
// synchronously within the loop; a callback may stop training early or
// adjust optimizer learning rates through the environment it receives.
func Train(wf Wavefunction, data mat.Matrix, cfg FitConfig) error {
	rows, cols := data.Dims()
	if rows == 0 {
		return errors.Wrap(errors.ErrEmptyData, "Train")
	}
	if cols != wf.NumVisible() {
		return errors.NewDimensionError("Train", wf.NumVisible(), cols, 1)
	}

	cfg = cfg.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))

	optimizers := make(map[string]Optimizer, len(wf.Networks()))
	for _, name := range wf.Networks() {
		optimizers[name] = cfg.Optimizer(cfg.LR)
	}

	callbacks := newCallbackList(cfg.Callbacks, wf, optimizers)

	logger := log.GetLoggerWithName("nnstates.trainer")
	logger.Info("Training started",
		log.OperationKey, "fit",
		log.SamplesKey, rows,
		log.VisibleUnitsKey, wf.NumVisible(),
		log.HiddenUnitsKey, wf.NumHidden(),
		log.DeviceKey, wf.Device().String(),
		log.EpochsKey, cfg.Epochs,
		log.PosBatchSizeKey, cfg.PosBatchSize,
		log.NegBatchSizeKey, cfg.NegBatchSize,
		log.CDStepsKey, cfg.K,
		log.LearningRateKey, cfg.LR,
	)
	start := time.Now()

	for epoch := 1; epoch <= cfg.Epochs; epoch++ {
		epochStart := time.Now()
		callbacks.BeginEpoch(epoch)

		perm := rng.Perm(rows)
		for batchStart := 0; batchStart < rows; batchStart += cfg.PosBatchSize {
			batchEnd := batchStart + cfg.PosBatchSize
			if batchEnd > rows {
				batchEnd = rows
			}

			posBatch := gatherRows(data, perm[batchStart:batchEnd])
			negBatch := sampleRows(data, cfg.NegBatchSize, rng)

			grads, err := wf.ComputeBatchGradients(cfg.K, posBatch, negBatch)
			if err != nil {
				return err
			}

			for name, opt := range optimizers {
				gradVec, ok := grads[name]
				if !ok {
					continue
				}
				grad := gradVec.RawVector().Data

				if cfg.MaxGradNorm > 0 {
					errors.ClipGradient(grad, cfg.MaxGradNorm)
				}
				if err := errors.CheckNumericalStability("gradient_update", grad, epoch); err != nil {
					return err
				}

				net := wf.Network(name)
				params := net.Parameters()
				opt.Step(params, grad)
				if err := net.SetParameters(params); err != nil {
					return err
				}
			}
		}

		if err := callbacks.AfterEpoch(epoch); err != nil {
			return errors.Wrapf(err, "callback error at epoch %d", epoch)
		}

		if cfg.Progbar {
			fmt.Fprintf(os.Stderr, "epoch %d/%d\r", epoch, cfg.Epochs)
		}
		if cfg.LogTiming {
			logger.Debug("Epoch finished",
				log.EpochKey, epoch,
				log.DurationMsKey, time.Since(epochStart).Milliseconds(),
			)
		}
		if callbacks.ShouldStop() {
			logger.Info("Training stopped by callback", log.EpochKey, epoch)
			break
		}
	}

	if cfg.Progbar {
		fmt.Fprintln(os.Stderr)
	}
	logger.Info("Training finished",
		log.OperationKey, "fit",
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

// gatherRows copies the given rows of data into a new matrix.
func gatherRows(data mat.Matrix, idx []int) *mat.Dense {
	_, cols := data.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	for i, row := range idx {
		for j := 0; j < cols; j++ {
			out.Set(i, j, data.At(row, j))
		}
	}
	return out
}

// sampleRows draws n rows of data uniformly with replacement.
func sampleRows(data mat.Matrix, n int, rng *rand.Rand) *mat.Dense {
	rows, cols := data.Dims()
	out := mat.NewDense(n, cols, nil)
	for i := 0; i < n; i++ {
		row := rng.Intn(rows)
		for j := 0; j < cols; j++ {
			out.Set(i, j, data.At(row, j))
		}
	}
	return out
}
