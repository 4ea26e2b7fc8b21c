// Package log defines standard attribute keys for reconstruction operations.
//
// Using these keys consistently enables filtering and analysis of training
// logs across all QuGo components. Keys follow a hierarchical naming
// convention (e.g. "model.name", "train.epoch").

package log

// Model and operation context.
const (
	// ModelNameKey identifies the wavefunction or model type.
	// Examples: "PositiveWavefunction", "BinaryRBM"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "sample", "amplitude", "autoload"
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	// Examples: "nnstates", "rbm", "metrics"
	ComponentKey = "ml.component"
)

// Data shape and physical system characteristics.
const (
	// SamplesKey indicates the number of measurement samples (rows).
	SamplesKey = "data.samples"

	// VisibleUnitsKey indicates the number of visible units, i.e. the
	// size of the physical system being learned.
	VisibleUnitsKey = "data.visible_units"

	// HiddenUnitsKey indicates the number of hidden units in the RBM.
	HiddenUnitsKey = "data.hidden_units"

	// DeviceKey names the compute device in use ("cpu", "gpu").
	DeviceKey = "data.device"
)

// Training hyperparameters and progress.
const (
	// EpochKey is the current training epoch (1-based).
	EpochKey = "train.epoch"

	// EpochsKey is the total number of training epochs requested.
	EpochsKey = "train.epochs"

	// PosBatchSizeKey is the positive-phase batch size.
	PosBatchSizeKey = "train.pos_batch_size"

	// NegBatchSizeKey is the negative-phase batch size.
	NegBatchSizeKey = "train.neg_batch_size"

	// CDStepsKey is the number of contrastive divergence steps (k).
	CDStepsKey = "train.cd_steps"

	// LearningRateKey is the current learning rate.
	LearningRateKey = "train.lr"

	// GradNormKey is the L2 norm of the last parameter gradient.
	GradNormKey = "train.grad_norm"
)

// Performance metrics.
const (
	// DurationMsKey is the wall-clock duration of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
