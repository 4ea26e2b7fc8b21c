// Package datasets loads measurement data and target states from
// whitespace-separated text files, the interchange format commonly produced
// by simulation pipelines.
package datasets

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/qugo/pkg/errors"
)

// LoadSamples reads a matrix of binary measurement samples, one sample per
// line, entries separated by whitespace. Every entry must be 0 or 1 and
// every line must have the same number of entries.
func LoadSamples(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open samples file %s", path)
	}
	defer file.Close()

	samples, err := LoadSamplesFromReader(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse samples file %s", path)
	}
	return samples, nil
}

// LoadSamplesFromReader reads binary measurement samples from r.
func LoadSamplesFromReader(r io.Reader) (*mat.Dense, error) {
	var data []float64
	cols := -1
	line := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if cols < 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, errors.NewDimensionError("datasets.LoadSamples", cols, len(fields), 1)
		}

		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid entry %q on line %d", f, line)
			}
			if v != 0 && v != 1 {
				return nil, errors.NewValidationError("samples",
					"entries must be 0 or 1", v)
			}
			data = append(data, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read error")
	}
	if cols <= 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "datasets.LoadSamples")
	}

	return mat.NewDense(len(data)/cols, cols, data), nil
}

// LoadTargetState reads a target wavefunction, one basis state amplitude
// per line. Lines may have one column (real amplitude) or two columns
// (real and imaginary parts).
func LoadTargetState(path string) ([]complex128, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open target state file %s", path)
	}
	defer file.Close()

	state, err := LoadTargetStateFromReader(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse target state file %s", path)
	}
	return state, nil
}

// LoadTargetStateFromReader reads a target wavefunction from r.
func LoadTargetStateFromReader(r io.Reader) ([]complex128, error) {
	var state []complex128
	line := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) > 2 {
			return nil, errors.NewDimensionError("datasets.LoadTargetState", 2, len(fields), 1)
		}

		re, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid real part %q on line %d", fields[0], line)
		}
		var im float64
		if len(fields) == 2 {
			im, err = strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid imaginary part %q on line %d", fields[1], line)
			}
		}
		state = append(state, complex(re, im))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read error")
	}
	if len(state) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "datasets.LoadTargetState")
	}
	return state, nil
}
