package native

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// plainProvider implements gpucontext.DeviceProvider without HAL access.
type plainProvider struct{}

func (plainProvider) Device() gpucontext.Device   { return nil }
func (plainProvider) Queue() gpucontext.Queue     { return nil }
func (plainProvider) Adapter() gpucontext.Adapter { return nil }
func (plainProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}
func (plainProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

// halDeviceProvider also exposes HAL objects, as gogpu does.
type halDeviceProvider struct {
	plainProvider
	device any
	queue  any
}

func (p halDeviceProvider) HalDevice() any { return p.device }
func (p halDeviceProvider) HalQueue() any  { return p.queue }

func TestNewFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	e, err := NewFromProvider(halDeviceProvider{device: device, queue: queue})
	if err != nil {
		t.Fatalf("NewFromProvider() error = %v", err)
	}
	defer e.Close()

	if e.Device() != device || e.Queue() != queue {
		t.Error("NewFromProvider() did not adopt the provider's device and queue")
	}
	if !e.external {
		t.Error("NewFromProvider() executor owns the provider's device")
	}
}

func TestNewFromProviderInvalid(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		wantErr  error
	}{
		{"nil", nil, ErrNilProvider},
		{"no HAL accessors", plainProvider{}, ErrNoHAL},
		{"wrong device type", halDeviceProvider{device: "device", queue: queue}, ErrNoHAL},
		{"wrong queue type", halDeviceProvider{device: device, queue: 42}, ErrNoHAL},
		{"nil device", halDeviceProvider{queue: queue}, ErrNoHAL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewFromProvider(tt.provider)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewFromProvider() error = %v, want %v", err, tt.wantErr)
			}
			if e != nil {
				t.Error("NewFromProvider() returned an executor on error")
			}
		})
	}
}

// Compile-time check that the test provider satisfies the interface.
var _ gpucontext.DeviceProvider = halDeviceProvider{}

