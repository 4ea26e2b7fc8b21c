package nnstates

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/YuminosukeSato/qugo/pkg/errors"
)

// CallbackEnv is the environment passed to callbacks during training.
type CallbackEnv struct {
	Wavefunction Wavefunction
	Epoch        int
	BeginTime    time.Time
	EndTime      time.Time
	EvalResults  map[string]float64
	Optimizers   map[string]Optimizer
	StopTraining bool
}

// Callback is a function invoked after every training epoch. Callbacks run
// synchronously in registration order; a callback that fills EvalResults
// (such as MetricEvaluator) should be registered before the callbacks that
// consume them.
type Callback func(env *CallbackEnv) error

// MetricEvaluator computes user metrics after each epoch and publishes them
// to EvalResults. Typical metrics close over an enumerated state space and a
// known target state; see the metrics package.
func MetricEvaluator(metrics map[string]func(wf Wavefunction) float64) Callback {
	return func(env *CallbackEnv) error {
		for name, fn := range metrics {
			env.EvalResults[name] = fn(env.Wavefunction)
		}
		return nil
	}
}

// PrintEvaluation prints evaluation results every period epochs.
func PrintEvaluation(period int) Callback {
	return func(env *CallbackEnv) error {
		if env.Epoch%period != 0 {
			return nil
		}
		fmt.Printf("[%d] ", env.Epoch)
		names := make([]string, 0, len(env.EvalResults))
		for name := range env.EvalResults {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s: %.6f ", name, env.EvalResults[name])
		}
		fmt.Println()
		return nil
	}
}

// RecordEvaluation records evaluation history across epochs.
func RecordEvaluation(history *map[string][]float64) Callback {
	return func(env *CallbackEnv) error {
		if *history == nil {
			*history = make(map[string][]float64)
		}
		for name, value := range env.EvalResults {
			(*history)[name] = append((*history)[name], value)
		}
		return nil
	}
}

// EarlyStopping stops training when metric has not improved for rounds
// epochs. It emits a ConvergenceWarning when it fires, since the final
// parameters may not be the best seen.
func EarlyStopping(rounds int, metric string, minimize bool) Callback {
	bestScore := math.Inf(1)
	if !minimize {
		bestScore = math.Inf(-1)
	}
	bestEpoch := 0
	roundsNoImprove := 0

	return func(env *CallbackEnv) error {
		value, exists := env.EvalResults[metric]
		if !exists {
			return nil
		}

		improved := value < bestScore
		if !minimize {
			improved = value > bestScore
		}

		if improved {
			bestScore = value
			bestEpoch = env.Epoch
			roundsNoImprove = 0
		} else {
			roundsNoImprove++
		}

		if roundsNoImprove >= rounds {
			errors.Warn(errors.NewConvergenceWarning("contrastive divergence", env.Epoch,
				fmt.Sprintf("early stopping: %s did not improve for %d epochs, best epoch was %d with %.6f",
					metric, rounds, bestEpoch, bestScore)))
			env.StopTraining = true
		}
		return nil
	}
}

// TimeLimit stops training after a specified duration.
func TimeLimit(maxDuration time.Duration) Callback {
	startTime := time.Now()
	return func(env *CallbackEnv) error {
		if time.Since(startTime) > maxDuration {
			env.StopTraining = true
		}
		return nil
	}
}

// LearningRateSchedule multiplies all optimizer learning rates by decayRate
// every decaySteps epochs.
func LearningRateSchedule(decayRate float64, decaySteps int) Callback {
	return func(env *CallbackEnv) error {
		if env.Epoch == 0 || env.Epoch%decaySteps != 0 {
			return nil
		}
		for _, opt := range env.Optimizers {
			opt.SetLR(opt.LR() * decayRate)
		}
		return nil
	}
}

// ModelCheckpoint saves the wavefunction parameters every period epochs.
func ModelCheckpoint(pathPrefix string, period int) Callback {
	return func(env *CallbackEnv) error {
		if env.Epoch%period != 0 {
			return nil
		}
		location := fmt.Sprintf("%s_epoch_%d.gob", pathPrefix, env.Epoch)
		if err := Save(env.Wavefunction, location); err != nil {
			return errors.Wrap(err, "failed to save checkpoint")
		}
		return nil
	}
}

// callbackList runs registered callbacks around each epoch, shielding the
// training loop from callback panics.
type callbackList struct {
	callbacks []Callback
	env       *CallbackEnv
}

func newCallbackList(callbacks []Callback, wf Wavefunction, optimizers map[string]Optimizer) *callbackList {
	return &callbackList{
		callbacks: callbacks,
		env: &CallbackEnv{
			Wavefunction: wf,
			EvalResults:  make(map[string]float64),
			Optimizers:   optimizers,
		},
	}
}

// BeginEpoch records the start of an epoch in the environment.
func (cl *callbackList) BeginEpoch(epoch int) {
	cl.env.Epoch = epoch
	cl.env.BeginTime = time.Now()
}

// AfterEpoch invokes callbacks at the end of an epoch.
func (cl *callbackList) AfterEpoch(epoch int) error {
	cl.env.Epoch = epoch
	cl.env.EndTime = time.Now()
	return cl.run()
}

func (cl *callbackList) run() error {
	for _, cb := range cl.callbacks {
		cb := cb
		err := errors.SafeExecute("callback", func() error {
			return cb(cl.env)
		})
		if err != nil {
			return err
		}
		if cl.env.StopTraining {
			break
		}
	}
	return nil
}

// ShouldStop reports whether a callback requested to stop training.
func (cl *callbackList) ShouldStop() bool {
	return cl.env.StopTraining
}
