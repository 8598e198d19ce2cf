// Package vectors draws 2D vector shapes on the GPU.
//
// Scenes are built by appending shapes to an [encoding.Encoding], a flat
// stream of 32-bit words plus one bounding-box record per draw. A
// [renderer.Renderer] turns an encoding into a [renderer.Recording] of
// device commands: it keeps growable device buffers for the records and the
// op codes, a small globals block, and the bind group that ties them
// together, and it records a single tiled render pass. The wgpu_engine
// package executes recordings on a honnef.co/go/wgpu device.
//
// This package only holds the logger shared by all sub-packages.
//
// [encoding.Encoding]: github.com/tiaanl/wgpu-vectors/encoding.Encoding
// [renderer.Renderer]: github.com/tiaanl/wgpu-vectors/renderer.Renderer
// [renderer.Recording]: github.com/tiaanl/wgpu-vectors/renderer.Recording
package vectors
