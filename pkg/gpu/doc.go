// Package gpu drives the viewer's window surface with WebGPU.
//
// [Device] owns the instance, surface, adapter, device and queue.
// [WGPUAdapter] implements gpucore.Adapter on top of a Device so the
// camera can allocate and update its uniform without knowing about wgpu.
// [Renderer] draws a fullscreen quad with the Mandelbrot shader each frame.
//
// All types in this package must be used from the goroutine that created
// the Device.
package gpu
