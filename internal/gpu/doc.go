// Package gpu owns the GPU side of breeze: the HAL device, the two shader
// programs and the mesh and material assets created on them.
//
// # Device
//
// A Device is opened headless on the wgpu noop backend (OpenHeadless),
// wrapped around a caller's HAL device and queue (Wrap), or taken from a
// gpucontext.DeviceProvider such as a gogpu window (FromProvider). Only
// devices opened by this package are destroyed by Close.
//
// # Store
//
// Store allocates assets and tracks them in generational arenas:
//
//   - Meshes: vertex and index buffers uploaded from mesh.Data
//   - Materials: a uniform buffer holding color and texture handle, bound
//     to the unlit (2D) or lit (3D) shader
//
// MeshID and MaterialID are stale-safe. Releasing an ID twice, or an ID
// whose slot has been reused, is a no-op that reports false. Stats counts
// allocations and releases so callers can check that every asset is
// released exactly once.
//
// # Shaders
//
// The WGSL sources in shaders/ are embedded and compiled to SPIR-V with
// naga when the store is created.
package gpu
