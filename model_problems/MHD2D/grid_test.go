package MHD2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	{ // Construction must reject dimensions below the 3x3 stencil minimum
		_, err := NewGrid(2, 8, 0.1, 0.1, 0, 0)
		assert.Error(t, err)
		_, err = NewGrid(8, 2, 0.1, 0.1, 0, 0)
		assert.Error(t, err)
		_, err = NewFlowField(2, 2, 0.1, 0.1, 0, 0)
		assert.Error(t, err)
	}
	{ // Geometry and storage
		g, err := NewGrid(4, 5, 0.25, 0.5, 1.0, 2.0)
		require.NoError(t, err)
		assert.Equal(t, 4, g.Nx)
		assert.Equal(t, 5, g.Ny)
		assert.Equal(t, 20, len(g.Data()))
		x, y := g.Coords(2, 3)
		assert.True(t, near(1.5, x, 1.e-14))
		assert.True(t, near(3.5, y, 1.e-14))
		g.Fill(3.25)
		assert.Equal(t, 3.25, g.At(0, 0))
		assert.Equal(t, 3.25, g.At(3, 4))
		g.Set(1, 2, -1.)
		assert.Equal(t, -1., g.Data()[1*5+2])
	}
}

func TestFlowField(t *testing.T) {
	ff, err := NewFlowField(8, 6, 0.125, 0.2, 0, 0)
	require.NoError(t, err)
	// All eight fields share one geometry
	for _, g := range ff.Fields() {
		assert.Equal(t, 8, g.Nx)
		assert.Equal(t, 6, g.Ny)
		assert.Equal(t, 0.125, g.Dx)
		assert.Equal(t, 0.2, g.Dy)
	}
	// Canonical field order matches the snapshot names
	fields := ff.Fields()
	assert.Same(t, ff.Rho, fields[0])
	assert.Same(t, ff.Psi, fields[7])
	assert.Equal(t, "rho", FieldNames[0])
	assert.Equal(t, "psi", FieldNames[7])
}
