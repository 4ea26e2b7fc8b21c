package nnstates

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Optimizer applies gradient updates to a flat parameter vector. Step
// mutates params in place; params and grads must have the same length.
type Optimizer interface {
	Step(params, grads []float64)

	// LR returns the current learning rate.
	LR() float64

	// SetLR changes the learning rate, e.g. from a schedule callback.
	SetLR(lr float64)
}

// OptimizerFactory constructs an optimizer for a given learning rate. The
// training loop creates one optimizer per trainable network.
type OptimizerFactory func(lr float64) Optimizer

// SGD implements stochastic gradient descent with optional momentum and
// L2 weight decay.
type SGD struct {
	lr          float64
	momentum    float64
	weightDecay float64
	velocity    []float64
}

// NewSGD returns an OptimizerFactory for plain SGD.
func NewSGD() OptimizerFactory {
	return NewSGDWithOptions(0, 0)
}

// NewSGDWithOptions returns an OptimizerFactory for SGD with momentum and
// weight decay.
func NewSGDWithOptions(momentum, weightDecay float64) OptimizerFactory {
	return func(lr float64) Optimizer {
		return &SGD{lr: lr, momentum: momentum, weightDecay: weightDecay}
	}
}

// Step applies one SGD update.
func (o *SGD) Step(params, grads []float64) {
	if o.weightDecay != 0 {
		// grad <- grad + weightDecay * param
		floats.AddScaled(grads, o.weightDecay, params)
	}

	if o.momentum == 0 {
		floats.AddScaled(params, -o.lr, grads)
		return
	}

	if o.velocity == nil {
		o.velocity = make([]float64, len(params))
	}
	for i := range params {
		o.velocity[i] = o.momentum*o.velocity[i] + grads[i]
		params[i] -= o.lr * o.velocity[i]
	}
}

func (o *SGD) LR() float64      { return o.lr }
func (o *SGD) SetLR(lr float64) { o.lr = lr }

// Adam implements the Adam optimizer with bias-corrected first and second
// moment estimates.
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014).
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	eps   float64
	t     int
	m     []float64
	v     []float64
}

// NewAdam returns an OptimizerFactory for Adam with the standard
// hyperparameters (betas 0.9/0.999, eps 1e-8).
func NewAdam() OptimizerFactory {
	return NewAdamWithOptions(0.9, 0.999, 1e-8)
}

// NewAdamWithOptions returns an OptimizerFactory for Adam with explicit
// moment coefficients and epsilon.
func NewAdamWithOptions(beta1, beta2, eps float64) OptimizerFactory {
	return func(lr float64) Optimizer {
		return &Adam{lr: lr, beta1: beta1, beta2: beta2, eps: eps}
	}
}

// Step applies one Adam update.
func (o *Adam) Step(params, grads []float64) {
	if o.m == nil {
		o.m = make([]float64, len(params))
		o.v = make([]float64, len(params))
	}
	o.t++

	c1 := 1 - math.Pow(o.beta1, float64(o.t))
	c2 := 1 - math.Pow(o.beta2, float64(o.t))
	for i := range params {
		g := grads[i]
		o.m[i] = o.beta1*o.m[i] + (1-o.beta1)*g
		o.v[i] = o.beta2*o.v[i] + (1-o.beta2)*g*g

		mHat := o.m[i] / c1
		vHat := o.v[i] / c2
		params[i] -= o.lr * mHat / (math.Sqrt(vHat) + o.eps)
	}
}

func (o *Adam) LR() float64      { return o.lr }
func (o *Adam) SetLR(lr float64) { o.lr = lr }

// Adagrad implements the Adagrad optimizer, accumulating squared gradients
// to scale per-parameter learning rates.
type Adagrad struct {
	lr    float64
	eps   float64
	accum []float64
}

// NewAdagrad returns an OptimizerFactory for Adagrad.
func NewAdagrad() OptimizerFactory {
	return func(lr float64) Optimizer {
		return &Adagrad{lr: lr, eps: 1e-10}
	}
}

// Step applies one Adagrad update.
func (o *Adagrad) Step(params, grads []float64) {
	if o.accum == nil {
		o.accum = make([]float64, len(params))
	}
	for i := range params {
		g := grads[i]
		o.accum[i] += g * g
		params[i] -= o.lr * g / (math.Sqrt(o.accum[i]) + o.eps)
	}
}

func (o *Adagrad) LR() float64      { return o.lr }
func (o *Adagrad) SetLR(lr float64) { o.lr = lr }
