package camera

import (
	"errors"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/gpucore"
)

type spyWrite struct {
	id     gpucore.BufferID
	offset uint64
	data   []byte
}

// spyAdapter records every call instead of touching a GPU.
type spyAdapter struct {
	nextID    uint64
	buffers   map[gpucore.BufferID]int
	layouts   map[gpucore.BindGroupLayoutID]*gpucore.BindGroupLayoutDesc
	groups    map[gpucore.BindGroupID]*gpucore.BindGroupDesc
	writes    []spyWrite
	failGroup bool
}

func newSpyAdapter() *spyAdapter {
	return &spyAdapter{
		nextID:  1,
		buffers: make(map[gpucore.BufferID]int),
		layouts: make(map[gpucore.BindGroupLayoutID]*gpucore.BindGroupLayoutDesc),
		groups:  make(map[gpucore.BindGroupID]*gpucore.BindGroupDesc),
	}
}

func (s *spyAdapter) id() uint64 {
	s.nextID += 1
	return s.nextID - 1
}

func (s *spyAdapter) CreateBuffer(label string, size int, usage gpucore.BufferUsage) (gpucore.BufferID, error) {
	id := gpucore.BufferID(s.id())
	s.buffers[id] = size
	return id, nil
}

func (s *spyAdapter) DestroyBuffer(id gpucore.BufferID) {
	delete(s.buffers, id)
}

func (s *spyAdapter) WriteBuffer(id gpucore.BufferID, offset uint64, data []byte) {
	s.writes = append(s.writes, spyWrite{id: id, offset: offset, data: append([]byte(nil), data...)})
}

func (s *spyAdapter) CreateBindGroupLayout(desc *gpucore.BindGroupLayoutDesc) (gpucore.BindGroupLayoutID, error) {
	id := gpucore.BindGroupLayoutID(s.id())
	s.layouts[id] = desc
	return id, nil
}

func (s *spyAdapter) DestroyBindGroupLayout(id gpucore.BindGroupLayoutID) {
	delete(s.layouts, id)
}

func (s *spyAdapter) CreateBindGroup(desc *gpucore.BindGroupDesc) (gpucore.BindGroupID, error) {
	if s.failGroup {
		return gpucore.InvalidID, errors.New("out of memory")
	}
	id := gpucore.BindGroupID(s.id())
	s.groups[id] = desc
	return id, nil
}

func (s *spyAdapter) DestroyBindGroup(id gpucore.BindGroupID) {
	delete(s.groups, id)
}

func (s *spyAdapter) live() int {
	return len(s.buffers) + len(s.layouts) + len(s.groups)
}
