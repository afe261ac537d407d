package chart

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func TestRenderPNG(t *testing.T) {
	points := []Point{
		{Cluster: 0, Monetary: 500, Frequency: 10, Recency: 0},
		{Cluster: 0, Monetary: 480, Frequency: 9, Recency: 1},
		{Cluster: 1, Monetary: 2.5, Frequency: 1, Recency: 91},
		{Cluster: 2, Monetary: -24, Frequency: 4, Recency: 305},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPNG(&buf, points, Options{}))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.Width)
	assert.Equal(t, 500, cfg.Height)
}

func TestRenderPNG_SingleCluster(t *testing.T) {
	var buf bytes.Buffer
	err := RenderPNG(&buf, []Point{{Cluster: 0, Monetary: 76.5, Frequency: 5}}, Options{
		Width:  6 * vg.Inch,
		Height: 2 * vg.Inch,
		DPI:    50,
	})
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestRenderPNG_NoPoints(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderPNG(&buf, nil, Options{}), ErrNoPoints)
	assert.Zero(t, buf.Len())
}

func TestClusterIDs(t *testing.T) {
	ids := clusterIDs([]Point{{Cluster: 2}, {Cluster: 0}, {Cluster: 2}, {Cluster: 1}})
	assert.Equal(t, []int{0, 1, 2}, ids)
}
