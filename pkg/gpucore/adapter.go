package gpucore

// Adapter abstracts the GPU resources the viewer allocates.
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly destroyed via Destroy* methods
//   - IDs become invalid after destruction and must not be reused
type Adapter interface {
	// CreateBuffer creates a GPU buffer of size bytes.
	CreateBuffer(label string, size int, usage BufferUsage) (BufferID, error)

	// DestroyBuffer releases a GPU buffer.
	DestroyBuffer(id BufferID)

	// WriteBuffer queues an upload of data at offset into the buffer.
	// It never waits for the GPU. Failures surface as device loss on the
	// backend, not here.
	WriteBuffer(id BufferID, offset uint64, data []byte)

	// CreateBindGroupLayout creates a bind group layout.
	CreateBindGroupLayout(desc *BindGroupLayoutDesc) (BindGroupLayoutID, error)

	// DestroyBindGroupLayout releases a bind group layout.
	DestroyBindGroupLayout(id BindGroupLayoutID)

	// CreateBindGroup binds actual resources to a layout.
	CreateBindGroup(desc *BindGroupDesc) (BindGroupID, error)

	// DestroyBindGroup releases a bind group.
	DestroyBindGroup(id BindGroupID)
}
