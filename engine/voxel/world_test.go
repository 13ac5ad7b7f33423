package voxel

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 4
	cfg.VoxelSize = 2.5
	w := NewWorld(cfg, nil, nil)

	positions := []mgl32.Vec3{
		{0, 0, 0},
		{9.99, 0.1, 5},
		{10, 10, 10},
		{-0.01, -10, -10.01},
		{-123.4, 56.7, -0.5},
		{1e4, -1e4, 333.3},
	}
	for _, p := range positions {
		coord := w.WorldToChunk(p)
		origin := w.ChunkToWorld(coord)
		for axis := 0; axis < 3; axis++ {
			steps := (p[axis] - origin[axis]) / cfg.VoxelSize
			assert.GreaterOrEqualf(t, steps, float32(0), "%v axis %d", p, axis)
			assert.Lessf(t, steps, float32(cfg.ChunkSize), "%v axis %d", p, axis)
		}
		local := w.WorldToLocal(p, origin)
		assert.Truef(t, local.X >= 0 && local.X < 4 && local.Y >= 0 && local.Y < 4 && local.Z >= 0 && local.Z < 4, "%v -> %v", p, local)
	}

	assert.Equal(t, Int3{-1, -1, -2}, w.WorldToChunk(mgl32.Vec3{-0.01, -10, -10.01}))
	assert.Equal(t, Int3{3, 0, 0}, w.WorldToLocal(mgl32.Vec3{-0.01, 0, 0}, w.ChunkToWorld(Int3{-1, 0, 0})))
}

func floorDiv(v, n int32) int32 {
	q := v / n
	if v%n < 0 {
		q--
	}
	return q
}

func TestWorldPositionsOnChunkFaces(t *testing.T) {
	for _, voxelSize := range []float32{7, 0.3, 2.5} {
		cfg := testConfig(16, true)
		cfg.VoxelSize = voxelSize
		w := NewWorld(cfg, nil, nil)

		lattices := make([]int32, 0)
		for k := int32(-5800); k <= -5780; k++ {
			lattices = append(lattices, k)
		}
		for k := int32(-40); k <= 40; k++ {
			lattices = append(lattices, k)
		}
		for _, k := range lattices {
			// voxel centres are exact for any size; whole multiples only for integral sizes
			offsets := []float32{0.5}
			if voxelSize == 7 {
				offsets = append(offsets, 0)
			}
			for _, offset := range offsets {
				v := (float32(k) + offset) * voxelSize
				pos := mgl32.Vec3{v, v, v}
				lattice := Int3{k, k, k}
				chunk := Cube(floorDiv(k, 16))

				require.Equalf(t, lattice, w.WorldToLattice(pos), "size %v pos %v", voxelSize, pos)
				require.Equalf(t, chunk, w.WorldToChunk(pos), "size %v pos %v", voxelSize, pos)
				local := w.WorldToLocal(pos, w.ChunkToWorld(chunk))
				require.Equalf(t, lattice.Sub(chunk.Mul(16)), local, "size %v pos %v", voxelSize, pos)

				w.SetDensityAtWorldPosition(pos, 5)
				require.Equalf(t, float32(5), w.GetDensityAtLattice(lattice), "size %v pos %v", voxelSize, pos)
				require.Equalf(t, float32(5), w.GetDensityAtWorldPosition(pos), "size %v pos %v", voxelSize, pos)
				w.SetDensityAtLattice(lattice, cfg.AirDensity())
			}
		}
	}

	cfg := testConfig(16, true)
	cfg.VoxelSize = 7
	w := NewWorld(cfg, nil, nil)
	w.SetDensityAtWorldPosition(mgl32.Vec3{-40544, 0, 0}, 5)
	assert.Equal(t, Int3{-362, 0, 0}, w.WorldToChunk(mgl32.Vec3{-40544, 0, 0}))
	assert.Equal(t, float32(5), w.GetDensityAtLattice(Int3{-5792, 0, 0}))
	assert.Equal(t, cfg.AirDensity(), w.GetDensityAtLattice(Int3{-5793, 0, 0}))
}

func TestSetSourceDuringGeneration(t *testing.T) {
	w := NewWorld(testConfig(4, true), nil, nil)
	var wg sync.WaitGroup
	for i := int32(0); i < 8; i++ {
		wg.Add(2)
		go func(i int32) {
			defer wg.Done()
			w.SetSource(ConstantDensity(float32(i%2)*2 - 1))
		}(i)
		go func(i int32) {
			defer wg.Done()
			w.GenerateChunk(Int3{i, 0, 0})
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 8, w.ChunkCount())
	assert.NotNil(t, w.Source())
}

func TestLatticeToChunk(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ChunkSize = 4
	w := NewWorld(cfg, nil, nil)

	coord, local := w.LatticeToChunk(Int3{5, -1, -8})
	assert.Equal(t, Int3{1, -1, -2}, coord)
	assert.Equal(t, Int3{1, 3, 0}, local)
}

func TestGetOrCreateIsUnique(t *testing.T) {
	w := NewWorld(testConfig(4, true), nil, nil)
	coord := Int3{2, -3, 1}

	a := w.GetOrCreate(coord)
	b := w.GetOrCreate(coord)
	assert.Same(t, a, b)

	var wg sync.WaitGroup
	results := make([]*Chunk, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = w.GetOrCreate(Int3{7, 7, 7})
		}(i)
	}
	wg.Wait()
	for _, c := range results {
		assert.Same(t, results[0], c)
	}
	assert.Equal(t, 2, w.ChunkCount())
}

func TestQueriesDoNotCreateChunks(t *testing.T) {
	w := NewWorld(testConfig(4, true), nil, nil)
	p := mgl32.Vec3{100, -100, 3}

	assert.Equal(t, float32(-1), w.GetDensityAtWorldPosition(p))
	assert.Equal(t, Empty, w.GetVoxelAtWorldPosition(p))
	assert.Equal(t, float32(-1), w.GetDensityAtLattice(Int3{50, 50, 50}))
	_, ok := w.GetChunk(w.WorldToChunk(p))
	assert.False(t, ok)
	assert.Zero(t, w.ChunkCount())
}

func TestEditsCreateOwningChunk(t *testing.T) {
	for _, fieldMode := range []bool{true, false} {
		w := NewWorld(testConfig(4, fieldMode), nil, nil)
		solid := mgl32.Vec3{-0.5, 5.5, 2}
		dense := mgl32.Vec3{9, 9, 9}

		w.SetVoxelAtWorldPosition(solid, Solid)
		w.SetDensityAtWorldPosition(dense, 0.6)

		assert.Equal(t, 2, w.ChunkCount())
		assert.Equal(t, Solid, w.GetVoxelAtWorldPosition(solid))
		assert.Equal(t, float32(1), w.GetDensityAtWorldPosition(solid))
		assert.Equal(t, float32(0.6), w.GetDensityAtWorldPosition(dense))

		c, ok := w.GetChunk(Int3{-1, 1, 0})
		require.True(t, ok)
		assert.Equal(t, Solid, c.GetVoxelAtLocal(Int3{3, 1, 2}))
		assert.True(t, c.IsDirty())
	}
}

func TestGetNeighborChunks(t *testing.T) {
	w := NewWorld(testConfig(4, true), nil, nil)
	assert.Empty(t, w.GetNeighborChunks(Int3{}))

	for z := int32(-1); z <= 1; z++ {
		for y := int32(-1); y <= 1; y++ {
			for x := int32(-1); x <= 1; x++ {
				w.GetOrCreate(Int3{x, y, z})
			}
		}
	}
	assert.Len(t, w.GetNeighborChunks(Int3{}), 26)
	assert.Len(t, w.GetNeighborChunks(Int3{-1, -1, -1}), 7)
	assert.Len(t, w.GetNeighborChunks(Int3{1, 0, 0}), 17)
	assert.Len(t, w.GetNeighborChunks(Int3{2, 0, 0}), 9)
	assert.NotContains(t, w.GetNeighborChunks(Int3{}), Int3{})
}

func TestUpdateChunkMeshes(t *testing.T) {
	sink := newRecordingSink()
	cfg := testConfig(4, true)
	w := NewWorld(cfg, SphereDensity{Center: mgl32.Vec3{2, 2, 2}, Radius: 1.2}, sink)

	c := w.GenerateChunk(Int3{})
	assert.True(t, c.IsGenerated())
	assert.False(t, c.Mesh().IsEmpty())
	assert.Equal(t, 1, sink.applied[Int3{}])

	w.GetOrCreate(Int3{1, 0, 0})
	w.UpdateChunkMeshes()
	assert.Equal(t, 2, sink.applied[Int3{}])
	assert.Equal(t, 1, sink.applied[Int3{1, 0, 0}])

	w.SetDensityAtWorldPosition(mgl32.Vec3{5, 1, 1}, 1)
	assert.Equal(t, 1, w.UpdateDirtyChunks())
	assert.Equal(t, 2, sink.applied[Int3{1, 0, 0}])
	assert.Equal(t, 0, w.UpdateDirtyChunks())
}

func TestGenerateAround(t *testing.T) {
	w := NewWorld(testConfig(4, true), ConstantDensity(-1), nil)
	assert.Equal(t, 27, w.GenerateAround(Int3{5, 5, 5}, 1))
	assert.Equal(t, 27, w.ChunkCount())
	w.ForEachChunk(func(c *Chunk) {
		assert.True(t, c.IsGenerated())
		assert.LessOrEqual(t, ChebyshevDistance3(c.Position(), Int3{5, 5, 5}), int32(1))
	})
	assert.Equal(t, Int3{4, 4, 4}, w.ChunkCoords()[0])
}

func TestRemoveAndClear(t *testing.T) {
	sink := newRecordingSink()
	w := NewWorld(testConfig(4, true), nil, sink)
	w.GetOrCreate(Int3{})
	w.GetOrCreate(Int3{0, 1, 0})

	assert.True(t, w.RemoveChunk(Int3{}))
	assert.False(t, w.RemoveChunk(Int3{}))
	assert.Equal(t, 1, sink.cleared[Int3{}])
	assert.Equal(t, 1, w.ChunkCount())

	w.Clear()
	assert.Zero(t, w.ChunkCount())
	assert.Equal(t, 1, sink.cleared[Int3{0, 1, 0}])
}

func planeWorld(stitch bool) *World {
	cfg := testConfig(4, true)
	cfg.StitchSeams = stitch
	w := NewWorld(cfg, DensityFunc(func(p mgl32.Vec3) float32 { return 1.5 - p.Z() }), nil)
	w.GetOrCreate(Int3{0, 0, 0})
	w.GetOrCreate(Int3{1, 0, 0})
	for _, coord := range w.ChunkCoords() {
		c, _ := w.GetChunk(coord)
		w.GenerateChunkDensityField(c)
	}
	w.UpdateChunkMeshes()
	return w
}

func maxX(m *MeshBuffer) float32 {
	best := float32(-1e9)
	for _, v := range m.Vertices {
		if v.X() > best {
			best = v.X()
		}
	}
	return best
}

func TestSeamStitching(t *testing.T) {
	open := planeWorld(false)
	c, _ := open.GetChunk(Int3{})
	require.False(t, c.Mesh().IsEmpty())
	assert.InDelta(t, 3, maxX(c.Mesh()), 1e-5)

	stitched := planeWorld(true)
	c, _ = stitched.GetChunk(Int3{})
	require.False(t, c.Mesh().IsEmpty())
	assert.InDelta(t, 4, maxX(c.Mesh()), 1e-5)

	neighbor, _ := stitched.GetChunk(Int3{1, 0, 0})
	minX := float32(1e9)
	for _, v := range neighbor.Mesh().Vertices {
		if v.X() < minX {
			minX = v.X()
		}
	}
	assert.InDelta(t, 4, minX, 1e-5)
}
