package rbm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/qugo/pkg/errors"
)

func newTestRBM(t *testing.T, numVisible, numHidden int) *BinaryRBM {
	t.Helper()
	r, err := New(numVisible, numHidden, DeviceCPU, 42)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name       string
		numVisible int
		numHidden  int
		wantErr    bool
	}{
		{name: "valid", numVisible: 4, numHidden: 8, wantErr: false},
		{name: "zero visible", numVisible: 0, numHidden: 4, wantErr: true},
		{name: "negative hidden", numVisible: 4, numHidden: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.numVisible, tt.numHidden, DeviceCPU, 1)
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveEnergy_ZeroWeights(t *testing.T) {
	// With zero weights, E(v) = -v.b - sum_j softplus(c_j).
	r := newTestRBM(t, 2, 3)
	r.Weights.Zero()
	r.VisibleBias.SetVec(0, 0.5)
	r.VisibleBias.SetVec(1, -0.25)
	for j := 0; j < 3; j++ {
		r.HiddenBias.SetVec(j, 0.1*float64(j))
	}

	var hidden float64
	for j := 0; j < 3; j++ {
		hidden += math.Log1p(math.Exp(0.1 * float64(j)))
	}

	v := mat.NewDense(2, 2, []float64{
		0, 0,
		1, 1,
	})
	energies, err := r.EffectiveEnergy(v)
	if err != nil {
		t.Fatalf("EffectiveEnergy() error = %v", err)
	}

	want := []float64{-hidden, -(0.5 - 0.25) - hidden}
	for i, w := range want {
		if math.Abs(energies.AtVec(i)-w) > 1e-12 {
			t.Errorf("EffectiveEnergy()[%d] = %v, want %v", i, energies.AtVec(i), w)
		}
	}
}

func TestEffectiveEnergy_DimensionMismatch(t *testing.T) {
	r := newTestRBM(t, 3, 3)
	v := mat.NewDense(1, 2, []float64{0, 1})

	if _, err := r.EffectiveEnergy(v); err == nil {
		t.Fatal("EffectiveEnergy() expected dimension error, got nil")
	}
}

// TestEffectiveEnergyGradient_FiniteDifference verifies the closed-form
// gradient against a central finite difference of the summed energy.
func TestEffectiveEnergyGradient_FiniteDifference(t *testing.T) {
	r := newTestRBM(t, 3, 2)
	v := mat.NewDense(2, 3, []float64{
		1, 0, 1,
		0, 1, 1,
	})

	grad, err := r.EffectiveEnergyGradient(v)
	if err != nil {
		t.Fatalf("EffectiveEnergyGradient() error = %v", err)
	}

	const eps = 1e-6
	pars := r.Parameters()
	sumEnergy := func() float64 {
		energies, err := r.EffectiveEnergy(v)
		if err != nil {
			t.Fatalf("EffectiveEnergy() error = %v", err)
		}
		var s float64
		for i := 0; i < energies.Len(); i++ {
			s += energies.AtVec(i)
		}
		return s
	}

	for idx := range pars {
		orig := pars[idx]

		pars[idx] = orig + eps
		if err := r.SetParameters(pars); err != nil {
			t.Fatalf("SetParameters() error = %v", err)
		}
		plus := sumEnergy()

		pars[idx] = orig - eps
		if err := r.SetParameters(pars); err != nil {
			t.Fatalf("SetParameters() error = %v", err)
		}
		minus := sumEnergy()

		pars[idx] = orig
		if err := r.SetParameters(pars); err != nil {
			t.Fatalf("SetParameters() error = %v", err)
		}

		numeric := (plus - minus) / (2 * eps)
		if math.Abs(grad.AtVec(idx)-numeric) > 1e-4 {
			t.Errorf("gradient[%d] = %v, finite difference %v", idx, grad.AtVec(idx), numeric)
		}
	}
}

func TestProbHGivenV_Range(t *testing.T) {
	r := newTestRBM(t, 4, 5)
	v := mat.NewDense(3, 4, []float64{
		0, 1, 0, 1,
		1, 1, 1, 1,
		0, 0, 0, 0,
	})

	probs, err := r.ProbHGivenV(v)
	if err != nil {
		t.Fatalf("ProbHGivenV() error = %v", err)
	}

	rows, cols := probs.Dims()
	if rows != 3 || cols != 5 {
		t.Fatalf("ProbHGivenV() dims = (%d, %d), want (3, 5)", rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			p := probs.At(i, j)
			if p <= 0 || p >= 1 {
				t.Errorf("ProbHGivenV()[%d,%d] = %v, want in (0, 1)", i, j, p)
			}
		}
	}
}

func TestGibbs_ShapeAndBinarity(t *testing.T) {
	r := newTestRBM(t, 4, 4)
	v0 := mat.NewDense(5, 4, nil)

	v, err := r.Gibbs(3, v0)
	if err != nil {
		t.Fatalf("Gibbs() error = %v", err)
	}

	rows, cols := v.Dims()
	if rows != 5 || cols != 4 {
		t.Fatalf("Gibbs() dims = (%d, %d), want (5, 4)", rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if got := v.At(i, j); got != 0 && got != 1 {
				t.Errorf("Gibbs()[%d,%d] = %v, want 0 or 1", i, j, got)
			}
		}
	}
}

func TestGibbs_ZeroStepsIsIdentity(t *testing.T) {
	r := newTestRBM(t, 3, 3)
	v0 := mat.NewDense(2, 3, []float64{
		1, 0, 1,
		0, 1, 0,
	})

	v, err := r.Gibbs(0, v0)
	if err != nil {
		t.Fatalf("Gibbs() error = %v", err)
	}
	if !mat.Equal(v, v0) {
		t.Error("Gibbs(0, v0) changed the input configurations")
	}
}

func TestPartitionFunction_ZeroWeightsAnalytic(t *testing.T) {
	// With zero weights the RBM factorizes:
	// Z = prod_i (1 + e^{b_i}) * prod_j (1 + e^{c_j}).
	r := newTestRBM(t, 2, 2)
	r.Weights.Zero()
	r.VisibleBias.SetVec(0, 0.3)
	r.VisibleBias.SetVec(1, -0.7)
	r.HiddenBias.SetVec(0, 0.2)
	r.HiddenBias.SetVec(1, 1.1)

	space := mat.NewDense(4, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
	})
	z, err := r.PartitionFunction(space)
	if err != nil {
		t.Fatalf("PartitionFunction() error = %v", err)
	}

	want := (1 + math.Exp(0.3)) * (1 + math.Exp(-0.7)) *
		(1 + math.Exp(0.2)) * (1 + math.Exp(1.1))
	if math.Abs(z-want) > 1e-9*want {
		t.Errorf("PartitionFunction() = %v, want %v", z, want)
	}
}

func TestParameters_RoundTrip(t *testing.T) {
	r := newTestRBM(t, 3, 2)
	pars := r.Parameters()
	if len(pars) != r.NumPars() {
		t.Fatalf("Parameters() length = %d, want %d", len(pars), r.NumPars())
	}

	for i := range pars {
		pars[i] = float64(i) / 10
	}
	if err := r.SetParameters(pars); err != nil {
		t.Fatalf("SetParameters() error = %v", err)
	}

	got := r.Parameters()
	for i := range pars {
		if got[i] != pars[i] {
			t.Errorf("Parameters()[%d] = %v, want %v", i, got[i], pars[i])
		}
	}

	if err := r.SetParameters(pars[:len(pars)-1]); err == nil {
		t.Error("SetParameters() with short vector expected error, got nil")
	}
}

func TestState_RoundTrip(t *testing.T) {
	src := newTestRBM(t, 4, 3)
	dst := newTestRBM(t, 4, 3)

	if err := dst.LoadState(src.State()); err != nil {
		t.Fatalf("LoadState() error = %v", err)
	}
	if !mat.EqualApprox(src.Weights, dst.Weights, 0) {
		t.Error("LoadState() did not restore weights")
	}
	if !mat.EqualApprox(src.VisibleBias, dst.VisibleBias, 0) {
		t.Error("LoadState() did not restore visible bias")
	}
	if !mat.EqualApprox(src.HiddenBias, dst.HiddenBias, 0) {
		t.Error("LoadState() did not restore hidden bias")
	}

	other := newTestRBM(t, 5, 3)
	if err := other.LoadState(src.State()); err == nil {
		t.Error("LoadState() with mismatched sizes expected error, got nil")
	}
}

func TestDevice_GPUFallsBackToCPU(t *testing.T) {
	var captured error
	errors.SetZerologWarnFunc(func(w error) { captured = w })
	defer errors.SetZerologWarnFunc(nil)

	r, err := New(2, 2, DeviceGPU, 1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if r.Device() != DeviceCPU {
		t.Errorf("Device() = %v, want %v", r.Device(), DeviceCPU)
	}
	if captured == nil {
		t.Fatal("expected a device fallback warning")
	}
	var fallback *errors.DeviceFallbackWarning
	if !errors.As(captured, &fallback) {
		t.Errorf("warning type = %T, want *DeviceFallbackWarning", captured)
	}
}
