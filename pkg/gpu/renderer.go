package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/gpucore"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/shader"
)

// ErrSurfaceUnavailable is returned by [Renderer.Render] when no surface
// texture could be acquired, typically because the surface is outdated
// after a resize or was lost. Reconfigure and retry on the next frame.
var ErrSurfaceUnavailable = errors.New("surface unavailable")

// two triangles covering clip space
var quad = [...]float32{
	-1, -1, 0,
	1, -1, 0,
	1, 1, 0,
	-1, -1, 0,
	1, 1, 0,
	-1, 1, 0,
}

const (
	vertexStride = 3 * 4
	vertexCount  = len(quad) / 3
)

// Renderer draws the fullscreen quad with one bind group at group 0.
type Renderer struct {
	device  *Device
	adapter *WGPUAdapter

	vertices gpucore.BufferID
	module   *wgpu.ShaderModule
	layout   *wgpu.PipelineLayout
	pipeline *wgpu.RenderPipeline
}

// NewRenderer builds the pipeline for WGSL src, whose group 0 must match
// the bind group layout behind group.
func NewRenderer(d *Device, a *WGPUAdapter, src string, group gpucore.BindGroupLayoutID) (*Renderer, error) {
	r := &Renderer{device: d, adapter: a}

	var err error
	r.vertices, err = a.CreateBuffer("quad_vertices", len(quad)*4, gpucore.BufferUsageVertex|gpucore.BufferUsageCopyDst)
	if err != nil {
		return nil, err
	}
	a.WriteBuffer(r.vertices, 0, quadBytes())

	bgl := a.BindGroupLayout(group)
	if bgl == nil {
		r.Release()
		return nil, fmt.Errorf("unknown bind group layout %d", group)
	}

	r.module, err = d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "mandelbrot_shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: src,
		},
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to create shader module: %w", err)
	}

	r.layout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "render_pipeline_layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	r.pipeline, err = d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "render_pipeline",
		Layout: r.layout,
		Vertex: wgpu.VertexState{
			Module:     r.module,
			EntryPoint: shader.VertexEntryPoint,
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: vertexStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{{
					Format:         wgpu.VertexFormatFloat32x3,
					Offset:         0,
					ShaderLocation: 0,
				}},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     r.module,
			EntryPoint: shader.FragmentEntryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    d.Format(),
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("failed to create render pipeline: %w", err)
	}
	return r, nil
}

// Render clears the surface, draws the quad with group bound at index 0
// and presents. A failure to acquire the surface texture wraps
// [ErrSurfaceUnavailable]; any other error is fatal for the device.
func (r *Renderer) Render(group gpucore.BindGroupID) error {
	bg := r.adapter.BindGroup(group)
	if bg == nil {
		return fmt.Errorf("unknown bind group %d", group)
	}

	surfaceTexture, err := r.device.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}
	defer surfaceTexture.Release()

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create surface view: %w", err)
	}
	defer view.Release()

	encoder, err := r.device.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "render_pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.SetVertexBuffer(0, r.adapter.Buffer(r.vertices), 0, wgpu.WholeSize)
	pass.Draw(uint32(vertexCount), 1, 0, 0)
	pass.End()
	pass.Release()

	commands, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("failed to finish commands: %w", err)
	}
	defer commands.Release()

	r.device.queue.Submit(commands)
	r.device.surface.Present()
	return nil
}

// Release frees the pipeline objects and the vertex buffer.
func (r *Renderer) Release() {
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.layout != nil {
		r.layout.Release()
		r.layout = nil
	}
	if r.module != nil {
		r.module.Release()
		r.module = nil
	}
	if r.vertices != gpucore.InvalidID {
		r.adapter.DestroyBuffer(r.vertices)
		r.vertices = gpucore.InvalidID
	}
}

func quadBytes() []byte {
	buf := make([]byte, 0, len(quad)*4)
	for _, f := range quad {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
	}
	return buf
}
