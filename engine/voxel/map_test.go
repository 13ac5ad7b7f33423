package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func smallMap(fill bool) (*World, *MapGenerator) {
	cfg := testConfig(4, true)
	cfg.Map.WorldSizeInChunks = Int3{2, 2, 2}
	cfg.Map.SkinThickness = 1
	cfg.Map.FillInterior = fill
	return NewWorld(cfg, nil, nil), NewMapGenerator(cfg.Map)
}

func TestGenerateMapBuildsSkin(t *testing.T) {
	w, g := smallMap(false)
	g.GenerateMap(w)

	assert.Equal(t, 8, w.ChunkCount())
	assert.Equal(t, Int3{8, 8, 8}, g.LatticeExtent(w))
	assert.Equal(t, float32(1), w.GetDensityAtLattice(Int3{0, 3, 3}))
	assert.Equal(t, float32(1), w.GetDensityAtLattice(Int3{7, 7, 7}))
	assert.Equal(t, float32(1), w.GetDensityAtLattice(Int3{4, 0, 5}))
	assert.Equal(t, float32(-1), w.GetDensityAtLattice(Int3{3, 3, 3}))
	assert.Equal(t, float32(-1), w.GetDensityAtLattice(Int3{1, 6, 6}))

	meshed := 0
	w.ForEachChunk(func(c *Chunk) {
		assert.True(t, c.IsGenerated())
		if !c.Mesh().IsEmpty() {
			meshed++
		}
	})
	assert.Equal(t, 8, meshed)
}

func TestFillInteriorAndClearMap(t *testing.T) {
	w, g := smallMap(true)
	g.GenerateMap(w)
	assert.Equal(t, float32(1), w.GetDensityAtLattice(Int3{3, 3, 3}))
	assert.Equal(t, float32(1), w.GetDensityAtLattice(Int3{6, 6, 6}))

	g.ClearMap(w)
	assert.Zero(t, w.ChunkCount())
	assert.Equal(t, float32(-1), g.GetDensityAtWorldPosition(w, Int3{3, 3, 3}.ToVec3()))

	g.SetDensityAtWorldPosition(w, Int3{3, 3, 3}.ToVec3(), 0.5)
	assert.Equal(t, 1, w.ChunkCount())
	assert.Equal(t, float32(0.5), g.GetDensityAtWorldPosition(w, Int3{3, 3, 3}.ToVec3()))
}

func TestSkinDisabled(t *testing.T) {
	w, g := smallMap(false)
	g.Config.EnableSolidSkin = false
	g.GenerateMap(w)
	assert.Equal(t, float32(-1), w.GetDensityAtLattice(Int3{0, 0, 0}))
	w.ForEachChunk(func(c *Chunk) {
		assert.True(t, c.Mesh().IsEmpty())
	})
}
