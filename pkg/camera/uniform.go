package camera

import (
	"fmt"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/gpucore"
)

// Uniform owns the GPU copy of a [State]: a uniform buffer of exactly
// [StateSize] bytes plus the bind group layout and bind group around it.
type Uniform struct {
	adapter gpucore.Adapter
	buffer  gpucore.BufferID
	layout  gpucore.BindGroupLayoutID
	group   gpucore.BindGroupID
}

// NewUniform allocates the buffer and uploads s as its initial contents.
// The upload does not clear s's dirty flag.
func NewUniform(a gpucore.Adapter, s *State) (*Uniform, error) {
	u := &Uniform{adapter: a}

	var err error
	u.buffer, err = a.CreateBuffer("camera_buffer", StateSize, gpucore.BufferUsageUniform|gpucore.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("camera buffer: %w", err)
	}
	a.WriteBuffer(u.buffer, 0, s.Marshal())

	u.layout, err = a.CreateBindGroupLayout(&gpucore.BindGroupLayoutDesc{
		Label: "camera_bind_group_layout",
		Entries: []gpucore.BindGroupLayoutEntry{{
			Binding:        0,
			Visibility:     gpucore.ShaderStageFragment,
			Type:           gpucore.BindingTypeUniformBuffer,
			MinBindingSize: StateSize,
		}},
	})
	if err != nil {
		u.Close()
		return nil, fmt.Errorf("camera bind group layout: %w", err)
	}

	u.group, err = a.CreateBindGroup(&gpucore.BindGroupDesc{
		Label:   "camera_bind_group",
		Layout:  u.layout,
		Entries: []gpucore.BindGroupEntry{{Binding: 0, Buffer: u.buffer}},
	})
	if err != nil {
		u.Close()
		return nil, fmt.Errorf("camera bind group: %w", err)
	}
	return u, nil
}

// Sync uploads s when it is dirty and then clears the flag. A clean state
// issues no GPU call. Reports whether an upload happened.
func (u *Uniform) Sync(s *State) bool {
	if !s.Dirty() {
		return false
	}
	u.adapter.WriteBuffer(u.buffer, 0, s.Marshal())
	s.clean()
	return true
}

func (u *Uniform) Layout() gpucore.BindGroupLayoutID { return u.layout }
func (u *Uniform) BindGroup() gpucore.BindGroupID    { return u.group }

// Close releases the GPU resources. Safe to call on a partly built Uniform.
func (u *Uniform) Close() {
	if u.group != gpucore.InvalidID {
		u.adapter.DestroyBindGroup(u.group)
		u.group = gpucore.InvalidID
	}
	if u.layout != gpucore.InvalidID {
		u.adapter.DestroyBindGroupLayout(u.layout)
		u.layout = gpucore.InvalidID
	}
	if u.buffer != gpucore.InvalidID {
		u.adapter.DestroyBuffer(u.buffer)
		u.buffer = gpucore.InvalidID
	}
}
