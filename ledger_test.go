package gfxbuf

import (
	"sync"
	"testing"
)

func TestMemoryStatusZero(t *testing.T) {
	var m MemoryStatus
	if got := m.Snapshot(); got != (MemoryStats{}) {
		t.Errorf("zero MemoryStatus snapshot = %v", got)
	}
}

func TestMemoryStatusClasses(t *testing.T) {
	var m MemoryStatus
	m.addDevice(1024)
	m.addHost(256)
	m.addBuffer(2)

	if m.DeviceBytes() != 1024 {
		t.Errorf("DeviceBytes = %d, want 1024", m.DeviceBytes())
	}
	if m.HostBytes() != 256 {
		t.Errorf("HostBytes = %d, want 256", m.HostBytes())
	}
	if m.BufferSize() != 1280 {
		t.Errorf("BufferSize = %d, want 1280", m.BufferSize())
	}
	want := MemoryStats{DeviceBytes: 1024, HostBytes: 256, TotalBytes: 1280, Buffers: 2}
	if got := m.Snapshot(); got != want {
		t.Errorf("Snapshot = %+v, want %+v", got, want)
	}

	m.addDevice(-1024)
	m.addHost(-256)
	m.addBuffer(-2)
	if got := m.Snapshot(); got != (MemoryStats{}) {
		t.Errorf("after paired decrements = %v, want zero", got)
	}
}

func TestMemoryStatsString(t *testing.T) {
	s := MemoryStats{DeviceBytes: 100, HostBytes: 28, TotalBytes: 128, Buffers: 3}
	want := "BufferMemory[3 buffers, 128 bytes (device 100, host 28)]"
	if got := s.String(); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}

func TestMemoryProcessWide(t *testing.T) {
	if Memory() != Memory() {
		t.Error("Memory returned different ledgers")
	}
}

func TestMemoryStatusConcurrentReaders(t *testing.T) {
	var m MemoryStatus
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 1000 {
			m.addDevice(4)
			m.addDevice(-4)
		}
	}()
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				if s := m.Snapshot(); s.DeviceBytes < 0 || s.DeviceBytes > 4 {
					t.Errorf("DeviceBytes = %d out of [0, 4]", s.DeviceBytes)
					return
				}
			}
		}()
	}
	wg.Wait()

	if m.DeviceBytes() != 0 {
		t.Errorf("DeviceBytes = %d, want 0", m.DeviceBytes())
	}
}
