package gpu

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/gpucore"
)

// WGPUAdapter implements gpucore.Adapter with cogentcore/webgpu. It maps
// opaque gpucore IDs to wgpu objects.
type WGPUAdapter struct {
	mu     sync.RWMutex
	device *wgpu.Device
	queue  *wgpu.Queue

	// ID generation
	nextID atomic.Uint64

	buffers          map[gpucore.BufferID]*wgpu.Buffer
	bindGroupLayouts map[gpucore.BindGroupLayoutID]*wgpu.BindGroupLayout
	bindGroups       map[gpucore.BindGroupID]*wgpu.BindGroup
}

var _ gpucore.Adapter = (*WGPUAdapter)(nil)

// NewAdapter wraps the device and queue of d.
func NewAdapter(d *Device) *WGPUAdapter {
	a := &WGPUAdapter{
		device:           d.device,
		queue:            d.queue,
		buffers:          make(map[gpucore.BufferID]*wgpu.Buffer),
		bindGroupLayouts: make(map[gpucore.BindGroupLayoutID]*wgpu.BindGroupLayout),
		bindGroups:       make(map[gpucore.BindGroupID]*wgpu.BindGroup),
	}

	// 0 is InvalidID
	a.nextID.Store(1)
	return a
}

func (a *WGPUAdapter) newID() uint64 {
	return a.nextID.Add(1) - 1
}

// === Buffers ===

func (a *WGPUAdapter) CreateBuffer(label string, size int, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	if size <= 0 {
		return gpucore.InvalidID, fmt.Errorf("invalid buffer size %d", size)
	}

	buf, err := a.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(size),
		Usage: bufferUsage(usage),
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("failed to create buffer %q: %w", label, err)
	}

	id := gpucore.BufferID(a.newID())

	a.mu.Lock()
	a.buffers[id] = buf
	a.mu.Unlock()

	return id, nil
}

func (a *WGPUAdapter) DestroyBuffer(id gpucore.BufferID) {
	a.mu.Lock()
	buf, ok := a.buffers[id]
	if ok {
		delete(a.buffers, id)
	}
	a.mu.Unlock()

	if ok {
		buf.Release()
	}
}

// WriteBuffer queues an upload. Unknown IDs are ignored.
func (a *WGPUAdapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) {
	a.mu.RLock()
	buf, ok := a.buffers[id]
	a.mu.RUnlock()

	if !ok {
		return
	}
	a.queue.WriteBuffer(buf, offset, data)
}

// Buffer returns the wgpu buffer behind id, or nil.
func (a *WGPUAdapter) Buffer(id gpucore.BufferID) *wgpu.Buffer {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.buffers[id]
}

// === Bind groups ===

func (a *WGPUAdapter) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	entries := make([]wgpu.BindGroupLayoutEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		if e.Type != gpucore.BindingTypeUniformBuffer {
			return gpucore.InvalidID, fmt.Errorf("binding %d: unsupported binding type %d", e.Binding, e.Type)
		}
		entries[i] = wgpu.BindGroupLayoutEntry{
			Binding:    e.Binding,
			Visibility: shaderStage(e.Visibility),
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: e.MinBindingSize,
			},
		}
	}

	layout, err := a.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: entries,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("failed to create bind group layout %q: %w", desc.Label, err)
	}

	id := gpucore.BindGroupLayoutID(a.newID())

	a.mu.Lock()
	a.bindGroupLayouts[id] = layout
	a.mu.Unlock()

	return id, nil
}

func (a *WGPUAdapter) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	a.mu.Lock()
	layout, ok := a.bindGroupLayouts[id]
	if ok {
		delete(a.bindGroupLayouts, id)
	}
	a.mu.Unlock()

	if ok {
		layout.Release()
	}
}

// BindGroupLayout returns the wgpu layout behind id, or nil.
func (a *WGPUAdapter) BindGroupLayout(id gpucore.BindGroupLayoutID) *wgpu.BindGroupLayout {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bindGroupLayouts[id]
}

func (a *WGPUAdapter) CreateBindGroup(desc *gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	a.mu.RLock()
	layout, ok := a.bindGroupLayouts[desc.Layout]
	if !ok {
		a.mu.RUnlock()
		return gpucore.InvalidID, fmt.Errorf("bind group %q: unknown layout %d", desc.Label, desc.Layout)
	}
	entries := make([]wgpu.BindGroupEntry, len(desc.Entries))
	for i, e := range desc.Entries {
		buf, ok := a.buffers[e.Buffer]
		if !ok {
			a.mu.RUnlock()
			return gpucore.InvalidID, fmt.Errorf("bind group %q: unknown buffer %d", desc.Label, e.Buffer)
		}
		size := e.Size
		if size == 0 {
			size = wgpu.WholeSize
		}
		entries[i] = wgpu.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  buf,
			Offset:  e.Offset,
			Size:    size,
		}
	}
	a.mu.RUnlock()

	group, err := a.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return gpucore.InvalidID, fmt.Errorf("failed to create bind group %q: %w", desc.Label, err)
	}

	id := gpucore.BindGroupID(a.newID())

	a.mu.Lock()
	a.bindGroups[id] = group
	a.mu.Unlock()

	return id, nil
}

func (a *WGPUAdapter) DestroyBindGroup(id gpucore.BindGroupID) {
	a.mu.Lock()
	group, ok := a.bindGroups[id]
	if ok {
		delete(a.bindGroups, id)
	}
	a.mu.Unlock()

	if ok {
		group.Release()
	}
}

// BindGroup returns the wgpu bind group behind id, or nil.
func (a *WGPUAdapter) BindGroup(id gpucore.BindGroupID) *wgpu.BindGroup {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bindGroups[id]
}

// Release frees every resource still tracked. Call it after the owners
// (camera, renderer) are closed.
func (a *WGPUAdapter) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for id, g := range a.bindGroups {
		g.Release()
		delete(a.bindGroups, id)
	}
	for id, l := range a.bindGroupLayouts {
		l.Release()
		delete(a.bindGroupLayouts, id)
	}
	for id, b := range a.buffers {
		b.Release()
		delete(a.buffers, id)
	}
}

// === Conversion ===

func bufferUsage(u gpucore.BufferUsage) wgpu.BufferUsage {
	var out wgpu.BufferUsage
	if u&gpucore.BufferUsageCopySrc != 0 {
		out |= wgpu.BufferUsageCopySrc
	}
	if u&gpucore.BufferUsageCopyDst != 0 {
		out |= wgpu.BufferUsageCopyDst
	}
	if u&gpucore.BufferUsageVertex != 0 {
		out |= wgpu.BufferUsageVertex
	}
	if u&gpucore.BufferUsageUniform != 0 {
		out |= wgpu.BufferUsageUniform
	}
	return out
}

func shaderStage(s gpucore.ShaderStage) wgpu.ShaderStage {
	var out wgpu.ShaderStage
	if s&gpucore.ShaderStageVertex != 0 {
		out |= wgpu.ShaderStageVertex
	}
	if s&gpucore.ShaderStageFragment != 0 {
		out |= wgpu.ShaderStageFragment
	}
	return out
}
