// Package native provides a Pure Go buffer executor using gogpu/wgpu.
//
// The executor talks to the wgpu HAL directly: buffers are hal.Buffer
// objects, uploads go through hal.Queue.WriteBuffer, and resize and
// read-back record buffer copies that are submitted and polled until the
// queue reports them complete. Read-back maps a staging buffer with
// hal.Device.MapBuffer.
//
// # Device Sources
//
//   - Open: a private Vulkan device, registered as backend "native"
//   - New: an existing hal.Device and hal.Queue
//   - NewFromProvider: the device of a gpucontext.DeviceProvider
//
// # Texture Readback
//
// CopyTextureToBuffers copies mip levels of a texture into host buffers,
// stripping the 256-byte row pitch of the staging copy. It is the device
// side of host-visible readback workflows such as environment-map capture.
package native
