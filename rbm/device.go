package rbm

import (
	"github.com/YuminosukeSato/qugo/pkg/errors"
)

// Device identifies the compute device parameters live on.
// Device placement is an explicit construction-time choice, not implicit
// global state.
type Device int

const (
	// DeviceCPU executes all tensor operations on the host CPU.
	DeviceCPU Device = iota
	// DeviceGPU requests the default GPU device.
	DeviceGPU
)

// String returns the device name.
func (d Device) String() string {
	switch d {
	case DeviceCPU:
		return "cpu"
	case DeviceGPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// Resolve maps a requested device to the device actually used. There is no
// GPU backend in this module, so GPU requests fall back to the CPU with a
// warning rather than failing.
func (d Device) Resolve() Device {
	if d == DeviceGPU {
		errors.Warn(errors.NewDeviceFallbackWarning(
			DeviceGPU.String(), DeviceCPU.String(), "no GPU backend available"))
		return DeviceCPU
	}
	return d
}
