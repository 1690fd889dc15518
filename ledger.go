package gfxbuf

import (
	"fmt"
	"sync/atomic"
)

// MemoryStatus is a running total of bytes allocated for buffer resources.
//
// Two memory classes are tracked independently: device allocations made
// through an executor, and host shadow copies. Only Buffer lifecycle
// operations (Initialize, Resize, Destroy) mutate a MemoryStatus, and every
// increment has a matching decrement, so the totals return to zero once all
// buffers are destroyed.
//
// Reading a MemoryStatus is safe from any goroutine.
type MemoryStatus struct {
	deviceBytes atomic.Int64
	hostBytes   atomic.Int64
	buffers     atomic.Int64
}

// processMemory is the process-wide ledger used by devices that were not
// given their own.
var processMemory MemoryStatus

// Memory returns the process-wide memory ledger.
func Memory() *MemoryStatus {
	return &processMemory
}

// BufferSize returns the total bytes allocated for buffers, device and host.
func (m *MemoryStatus) BufferSize() int64 {
	return m.deviceBytes.Load() + m.hostBytes.Load()
}

// DeviceBytes returns the bytes of device memory allocated for buffers.
func (m *MemoryStatus) DeviceBytes() int64 {
	return m.deviceBytes.Load()
}

// HostBytes returns the bytes held by host shadow copies.
func (m *MemoryStatus) HostBytes() int64 {
	return m.hostBytes.Load()
}

// LiveBuffers returns the number of buffers owning device memory.
// Views are not counted.
func (m *MemoryStatus) LiveBuffers() int64 {
	return m.buffers.Load()
}

// Snapshot returns the current totals.
func (m *MemoryStatus) Snapshot() MemoryStats {
	device := m.deviceBytes.Load()
	host := m.hostBytes.Load()
	return MemoryStats{
		DeviceBytes: device,
		HostBytes:   host,
		TotalBytes:  device + host,
		Buffers:     m.buffers.Load(),
	}
}

func (m *MemoryStatus) addDevice(delta int64) { m.deviceBytes.Add(delta) }
func (m *MemoryStatus) addHost(delta int64)   { m.hostBytes.Add(delta) }
func (m *MemoryStatus) addBuffer(delta int64) { m.buffers.Add(delta) }

// MemoryStats is a point-in-time copy of a MemoryStatus.
type MemoryStats struct {
	// DeviceBytes is the device memory allocated for buffers.
	DeviceBytes int64

	// HostBytes is the memory held by shadow copies.
	HostBytes int64

	// TotalBytes is DeviceBytes + HostBytes.
	TotalBytes int64

	// Buffers is the number of live non-view buffers.
	Buffers int64
}

// String returns a human-readable string of memory stats.
func (s MemoryStats) String() string {
	return fmt.Sprintf("BufferMemory[%d buffers, %d bytes (device %d, host %d)]",
		s.Buffers, s.TotalBytes, s.DeviceBytes, s.HostBytes)
}
