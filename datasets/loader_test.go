package datasets

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadSamplesFromReader(t *testing.T) {
	input := "0 1 0\n1 1 1\n\n0 0 1\n"
	samples, err := LoadSamplesFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadSamplesFromReader() error = %v", err)
	}

	rows, cols := samples.Dims()
	if rows != 3 || cols != 3 {
		t.Fatalf("dims = (%d, %d), want (3, 3)", rows, cols)
	}
	want := [][]float64{{0, 1, 0}, {1, 1, 1}, {0, 0, 1}}
	for i := range want {
		for j := range want[i] {
			if samples.At(i, j) != want[i][j] {
				t.Errorf("samples[%d,%d] = %v, want %v", i, j, samples.At(i, j), want[i][j])
			}
		}
	}
}

func TestLoadSamplesFromReader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "blank lines only", input: "\n\n"},
		{name: "non-binary entry", input: "0 1\n0 2\n"},
		{name: "non-numeric entry", input: "0 x\n"},
		{name: "ragged rows", input: "0 1 0\n1 1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSamplesFromReader(strings.NewReader(tt.input)); err == nil {
				t.Error("LoadSamplesFromReader() expected error, got nil")
			}
		})
	}
}

func TestLoadSamples_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "samples.txt")
	if err := os.WriteFile(path, []byte("1 0\n0 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	samples, err := LoadSamples(path)
	if err != nil {
		t.Fatalf("LoadSamples() error = %v", err)
	}
	rows, cols := samples.Dims()
	if rows != 2 || cols != 2 {
		t.Errorf("dims = (%d, %d), want (2, 2)", rows, cols)
	}
}

func TestLoadSamples_MissingFile(t *testing.T) {
	if _, err := LoadSamples(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("LoadSamples() expected error, got nil")
	}
}

func TestLoadTargetStateFromReader_RealOnly(t *testing.T) {
	input := "0.5\n-0.5\n0.70710678\n"
	state, err := LoadTargetStateFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadTargetStateFromReader() error = %v", err)
	}

	want := []float64{0.5, -0.5, 0.70710678}
	if len(state) != len(want) {
		t.Fatalf("len = %d, want %d", len(state), len(want))
	}
	for i, w := range want {
		if math.Abs(real(state[i])-w) > 1e-12 || imag(state[i]) != 0 {
			t.Errorf("state[%d] = %v, want (%v+0i)", i, state[i], w)
		}
	}
}

func TestLoadTargetStateFromReader_Complex(t *testing.T) {
	input := "0.5 0.1\n0.0 -0.25\n"
	state, err := LoadTargetStateFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadTargetStateFromReader() error = %v", err)
	}

	if state[0] != complex(0.5, 0.1) {
		t.Errorf("state[0] = %v, want (0.5+0.1i)", state[0])
	}
	if state[1] != complex(0, -0.25) {
		t.Errorf("state[1] = %v, want (0-0.25i)", state[1])
	}
}

func TestLoadTargetStateFromReader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "too many columns", input: "0.1 0.2 0.3\n"},
		{name: "bad real part", input: "x\n"},
		{name: "bad imaginary part", input: "0.1 y\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTargetStateFromReader(strings.NewReader(tt.input)); err == nil {
				t.Error("LoadTargetStateFromReader() expected error, got nil")
			}
		})
	}
}
