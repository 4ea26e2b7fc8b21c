package errors

import (
	"math"
	"testing"
)

func TestCheckNumericalStability(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantErr bool
	}{
		{name: "finite values", values: []float64{1.0, -2.5, 0}, wantErr: false},
		{name: "contains NaN", values: []float64{1.0, math.NaN()}, wantErr: true},
		{name: "contains +Inf", values: []float64{math.Inf(1)}, wantErr: true},
		{name: "contains -Inf", values: []float64{math.Inf(-1)}, wantErr: true},
		{name: "empty", values: nil, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckNumericalStability("test_op", tt.values, 1)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckNumericalStability() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckScalar(t *testing.T) {
	if err := CheckScalar("z", 42.0, 0); err != nil {
		t.Errorf("CheckScalar() error = %v for finite value", err)
	}
	if err := CheckScalar("z", math.NaN(), 0); err == nil {
		t.Error("CheckScalar() expected error for NaN")
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(6, 2); got != 3 {
		t.Errorf("SafeDivide(6, 2) = %v, want 3", got)
	}
	if got := SafeDivide(1, 0); got != 0 {
		t.Errorf("SafeDivide(1, 0) = %v, want 0", got)
	}
	if got := SafeDivide(1, 1e-300); got != 0 {
		t.Errorf("SafeDivide(1, 1e-300) = %v, want 0", got)
	}
}

func TestClipGradient(t *testing.T) {
	grad := []float64{3, 4} // norm 5
	norm := ClipGradient(grad, 1)

	if norm != 5 {
		t.Errorf("ClipGradient() returned norm %v, want 5", norm)
	}
	if math.Abs(grad[0]-0.6) > 1e-12 || math.Abs(grad[1]-0.8) > 1e-12 {
		t.Errorf("clipped gradient = %v, want [0.6 0.8]", grad)
	}

	// Below the threshold the gradient is untouched.
	grad = []float64{0.3, 0.4}
	ClipGradient(grad, 1)
	if grad[0] != 0.3 || grad[1] != 0.4 {
		t.Errorf("gradient below max norm was modified: %v", grad)
	}
}
