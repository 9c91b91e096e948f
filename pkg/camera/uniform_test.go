package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshvictor1024/gpu-mandelbrot/pkg/gpucore"
	"github.com/joshvictor1024/gpu-mandelbrot/pkg/types"
)

func TestNewUniformDescribesBinding(t *testing.T) {
	a := newSpyAdapter()
	s := NewState(800, 600, 3, types.NewComplex(-0.5, 0))
	u, err := NewUniform(a, &s)
	require.NoError(t, err)

	assert.Equal(t, StateSize, a.buffers[u.buffer])
	require.Len(t, a.writes, 1)
	assert.Equal(t, s.Marshal(), a.writes[0].data)
	assert.True(t, s.Dirty(), "initial upload leaves the flag alone")

	layout := a.layouts[u.Layout()]
	require.NotNil(t, layout)
	require.Len(t, layout.Entries, 1)
	assert.Equal(t, gpucore.ShaderStageFragment, layout.Entries[0].Visibility)
	assert.Equal(t, gpucore.BindingTypeUniformBuffer, layout.Entries[0].Type)
	assert.Equal(t, uint64(StateSize), layout.Entries[0].MinBindingSize)

	group := a.groups[u.BindGroup()]
	require.NotNil(t, group)
	assert.Equal(t, u.Layout(), group.Layout)
	assert.Equal(t, u.buffer, group.Entries[0].Buffer)
}

func TestSyncOnlyWhenDirty(t *testing.T) {
	a := newSpyAdapter()
	s := NewState(800, 600, 3, types.NewComplex(-0.5, 0))
	u, err := NewUniform(a, &s)
	require.NoError(t, err)

	assert.True(t, u.Sync(&s))
	assert.False(t, s.Dirty())
	assert.Len(t, a.writes, 2)

	assert.False(t, u.Sync(&s))
	assert.False(t, u.Sync(&s))
	assert.Len(t, a.writes, 2, "clean state issues no upload")

	s.SetZoom(4)
	assert.True(t, u.Sync(&s))
	require.Len(t, a.writes, 3)
	last := a.writes[2]
	assert.Equal(t, u.buffer, last.id)
	assert.Equal(t, uint64(0), last.offset)
	assert.Len(t, last.data, StateSize)
	// the uploaded blob still carries the dirty flag so the shader sees it
	assert.Equal(t, byte(1), last.data[40])
}

func TestUniformClose(t *testing.T) {
	a := newSpyAdapter()
	s := NewState(10, 10, 3, types.Complex{})
	u, err := NewUniform(a, &s)
	require.NoError(t, err)
	assert.Equal(t, 3, a.live())

	u.Close()
	assert.Equal(t, 0, a.live())
	u.Close()
	assert.Equal(t, 0, a.live())
}

func TestNewUniformFailureReleases(t *testing.T) {
	a := newSpyAdapter()
	a.failGroup = true
	s := NewState(10, 10, 3, types.Complex{})

	u, err := NewUniform(a, &s)
	assert.Nil(t, u)
	assert.ErrorContains(t, err, "camera bind group")
	assert.Equal(t, 0, a.live())
}
