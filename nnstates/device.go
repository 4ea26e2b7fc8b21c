package nnstates

import (
	"github.com/YuminosukeSato/qugo/rbm"
)

// Device re-exports the energy model's device type. The wavefunction always
// mirrors the device of the RBM it owns.
type Device = rbm.Device

const (
	// DeviceCPU executes on the host CPU.
	DeviceCPU = rbm.DeviceCPU
	// DeviceGPU requests the default GPU device; resolves to CPU with a
	// warning when no GPU backend is present.
	DeviceGPU = rbm.DeviceGPU
)
