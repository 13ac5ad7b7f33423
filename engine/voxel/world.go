package voxel

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/terrainmesh/engine/util"
)

// World is the chunk registry. It maps world positions onto chunks and
// holds at most one chunk per chunk coordinate.
type World struct {
	cfg    WorldConfig
	source DensitySource
	sink   MeshSink

	mutex  sync.RWMutex
	chunks map[Int3]*Chunk
}

// NewWorld accepts any config; invalid sizes only produce empty meshes.
func NewWorld(cfg WorldConfig, source DensitySource, sink MeshSink) *World {
	if err := cfg.Validate(); err != nil {
		util.LogVoxelWarning(fmt.Sprintf("[World] %v", err))
	}
	if source == nil {
		source = ConstantDensity(cfg.AirDensity())
	}
	if sink == nil {
		sink = NopSink{}
	}
	return &World{
		cfg:    cfg,
		source: source,
		sink:   sink,
		chunks: make(map[Int3]*Chunk),
	}
}

func (w *World) Config() WorldConfig {
	return w.cfg
}

func (w *World) Source() DensitySource {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.source
}

// SetSource replaces the density source used by later generation calls.
func (w *World) SetSource(source DensitySource) {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.source = source
}

// WorldToLattice returns the global lattice index of the cell containing pos:
// floor(pos / VoxelSize) per axis.
func (w *World) WorldToLattice(pos mgl32.Vec3) Int3 {
	size := float64(w.cfg.VoxelSize)
	return Int3{
		int32(math.Floor(float64(pos.X()) / size)),
		int32(math.Floor(float64(pos.Y()) / size)),
		int32(math.Floor(float64(pos.Z()) / size)),
	}
}

// WorldToChunk returns the coordinate of the chunk containing pos.
func (w *World) WorldToChunk(pos mgl32.Vec3) Int3 {
	coord, _ := w.LatticeToChunk(w.WorldToLattice(pos))
	return coord
}

// ChunkToWorld returns the world origin of a chunk.
func (w *World) ChunkToWorld(coord Int3) mgl32.Vec3 {
	return coord.ToVec3().Mul(w.cfg.ChunkWorldSize())
}

// WorldToLocal returns the lattice index of pos inside the chunk whose
// origin is chunkOrigin. The origin is a lattice point and is rounded to it.
func (w *World) WorldToLocal(pos, chunkOrigin mgl32.Vec3) Int3 {
	size := float64(w.cfg.VoxelSize)
	origin := Int3{
		int32(math.Round(float64(chunkOrigin.X()) / size)),
		int32(math.Round(float64(chunkOrigin.Y()) / size)),
		int32(math.Round(float64(chunkOrigin.Z()) / size)),
	}
	return w.WorldToLattice(pos).Sub(origin)
}

// locate resolves pos to its chunk and local index.
func (w *World) locate(pos mgl32.Vec3) (Int3, Int3) {
	return w.LatticeToChunk(w.WorldToLattice(pos))
}

// LatticeToChunk splits a global lattice index into chunk coordinate and
// local index.
func (w *World) LatticeToChunk(p Int3) (Int3, Int3) {
	n := w.cfg.ChunkSize
	if n < 1 {
		n = 1
	}
	div := func(v int32) (int32, int32) {
		q := v / n
		r := v % n
		if r < 0 {
			q--
			r += n
		}
		return q, r
	}
	cx, lx := div(p.X)
	cy, ly := div(p.Y)
	cz, lz := div(p.Z)
	return Int3{cx, cy, cz}, Int3{lx, ly, lz}
}

func (w *World) GetChunk(coord Int3) (*Chunk, bool) {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	c, ok := w.chunks[coord]
	return c, ok
}

// GetOrCreate returns the resident chunk or registers a new empty one.
func (w *World) GetOrCreate(coord Int3) *Chunk {
	w.mutex.RLock()
	c := w.chunks[coord]
	w.mutex.RUnlock()
	if c != nil {
		return c
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if c = w.chunks[coord]; c == nil {
		c = NewChunk(coord, w.cfg, w.sink)
		w.chunks[coord] = c
		util.LogVoxelDebug(fmt.Sprintf("[World] created chunk %v", coord))
	}
	return c
}

func (w *World) RemoveChunk(coord Int3) bool {
	w.mutex.Lock()
	c, ok := w.chunks[coord]
	delete(w.chunks, coord)
	w.mutex.Unlock()
	if ok {
		c.Clear()
	}
	return ok
}

// Clear clears and forgets every chunk.
func (w *World) Clear() {
	w.mutex.Lock()
	chunks := w.chunks
	w.chunks = make(map[Int3]*Chunk)
	w.mutex.Unlock()
	for _, c := range chunks {
		c.Clear()
	}
}

func (w *World) ChunkCount() int {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return len(w.chunks)
}

// ChunkCoords returns the resident coordinates sorted.
func (w *World) ChunkCoords() []Int3 {
	w.mutex.RLock()
	coords := make([]Int3, 0, len(w.chunks))
	for coord := range w.chunks {
		coords = append(coords, coord)
	}
	w.mutex.RUnlock()
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })
	return coords
}

// ForEachChunk visits resident chunks in coordinate order.
func (w *World) ForEachChunk(visit func(c *Chunk)) {
	for _, coord := range w.ChunkCoords() {
		if c, ok := w.GetChunk(coord); ok {
			visit(c)
		}
	}
}

// GetNeighborChunks returns the resident chunks among the 26 surrounding coord.
func (w *World) GetNeighborChunks(coord Int3) []Int3 {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	neighbors := make([]Int3, 0, 26)
	for dz := int32(-1); dz <= 1; dz++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				n := coord.Add(Int3{dx, dy, dz})
				if _, ok := w.chunks[n]; ok {
					neighbors = append(neighbors, n)
				}
			}
		}
	}
	return neighbors
}

func (w *World) SetVoxelAtWorldPosition(pos mgl32.Vec3, t VoxelType) {
	coord, local := w.locate(pos)
	w.GetOrCreate(coord).SetVoxelAtLocal(local, t)
}

func (w *World) GetVoxelAtWorldPosition(pos mgl32.Vec3) VoxelType {
	coord, local := w.locate(pos)
	c, ok := w.GetChunk(coord)
	if !ok {
		return Empty
	}
	return c.GetVoxelAtLocal(local)
}

func (w *World) SetDensityAtWorldPosition(pos mgl32.Vec3, density float32) {
	coord, local := w.locate(pos)
	w.GetOrCreate(coord).UpdateDensityField(local, density)
}

// GetDensityAtWorldPosition never creates chunks; unloaded space is air.
func (w *World) GetDensityAtWorldPosition(pos mgl32.Vec3) float32 {
	coord, local := w.locate(pos)
	c, ok := w.GetChunk(coord)
	if !ok {
		return w.cfg.AirDensity()
	}
	return c.GetDensityAtLocal(local)
}

func (w *World) SetDensityAtLattice(p Int3, density float32) {
	coord, local := w.LatticeToChunk(p)
	w.GetOrCreate(coord).UpdateDensityField(local, density)
}

func (w *World) GetDensityAtLattice(p Int3) float32 {
	coord, local := w.LatticeToChunk(p)
	c, ok := w.GetChunk(coord)
	if !ok {
		return w.cfg.AirDensity()
	}
	return c.GetDensityAtLocal(local)
}

// GenerateChunkDensityField samples the density source into the chunk.
func (w *World) GenerateChunkDensityField(c *Chunk) {
	c.InitializeDensityField(w.Source())
}

// GenerateChunk creates the chunk if needed, fills it from the density
// source and meshes it.
func (w *World) GenerateChunk(coord Int3) *Chunk {
	c := w.GetOrCreate(coord)
	w.GenerateChunkDensityField(c)
	w.meshChunk(c)
	return c
}

// GenerateAround generates every chunk within radius chunks of center.
func (w *World) GenerateAround(center Int3, radius int32) int {
	count := 0
	for dz := -radius; dz <= radius; dz++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				c := w.GetOrCreate(center.Add(Int3{dx, dy, dz}))
				w.GenerateChunkDensityField(c)
				count++
			}
		}
	}
	w.UpdateChunkMeshes()
	return count
}

// UpdateChunkMeshes regenerates every resident chunk.
func (w *World) UpdateChunkMeshes() {
	triangles := 0
	w.ForEachChunk(func(c *Chunk) {
		w.meshChunk(c)
		triangles += c.Mesh().TriangleCount()
	})
	util.LogMeshInfo(fmt.Sprintf("[World] meshed %d chunks, %d triangles", w.ChunkCount(), triangles))
}

// UpdateDirtyChunks regenerates only chunks edited since their last mesh.
func (w *World) UpdateDirtyChunks() int {
	updated := 0
	w.ForEachChunk(func(c *Chunk) {
		if !c.IsDirty() {
			return
		}
		w.meshChunk(c)
		updated++
	})
	return updated
}

func (w *World) meshChunk(c *Chunk) {
	if !w.cfg.StitchSeams {
		c.Update()
		return
	}
	c.GenerateFrom(w.stitchedField(c))
}

// stitchedField extends the chunk's samples by one layer taken from the
// neighbours on the positive side, so the last cell row meshes too.
func (w *World) stitchedField(c *Chunk) *DensityField {
	base := c.Position().Mul(w.cfg.ChunkSize)
	return c.DensityVolume().Padded(1, func(p Int3) float32 {
		return w.GetDensityAtLattice(base.Add(p))
	})
}
