package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/terrainmesh/engine/util"
)

type ChunkState int

const (
	ChunkEmpty ChunkState = iota
	ChunkGenerating
	ChunkGenerated
)

func (s ChunkState) String() string {
	switch s {
	case ChunkEmpty:
		return "Empty"
	case ChunkGenerating:
		return "Generating"
	case ChunkGenerated:
		return "Generated"
	}
	return fmt.Sprintf("ChunkState(%d)", int(s))
}

// Chunk owns the density samples of one ChunkSize³ block of the world and
// the mesh extracted from them. A Chunk must only be used by one goroutine
// at a time.
type Chunk struct {
	coord Int3
	cfg   WorldConfig
	sink  MeshSink

	field *DensityField
	store *VoxelStore
	mesh  *MeshBuffer

	state   ChunkState
	isDirty bool
}

func NewChunk(coord Int3, cfg WorldConfig, sink MeshSink) *Chunk {
	if sink == nil {
		sink = NopSink{}
	}
	return &Chunk{
		coord: coord,
		cfg:   cfg,
		sink:  sink,
		store: NewVoxelStore(),
		mesh:  NewMeshBuffer(),
	}
}

func (c *Chunk) Position() Int3 {
	return c.coord
}

// WorldOrigin is the world position of local lattice point (0,0,0).
func (c *Chunk) WorldOrigin() mgl32.Vec3 {
	return c.coord.ToVec3().Mul(c.cfg.ChunkWorldSize())
}

func (c *Chunk) State() ChunkState {
	return c.state
}

func (c *Chunk) IsGenerated() bool {
	return c.state == ChunkGenerated
}

func (c *Chunk) IsDirty() bool {
	return c.isDirty
}

func (c *Chunk) SetDirty() {
	c.isDirty = true
}

func (c *Chunk) Mesh() *MeshBuffer {
	return c.mesh
}

func (c *Chunk) Store() *VoxelStore {
	return c.store
}

func (c *Chunk) UsesDensityField() bool {
	return c.cfg.UseDensityFields
}

func (c *Chunk) inBounds(local Int3) bool {
	n := c.cfg.ChunkSize
	return local.X >= 0 && local.Y >= 0 && local.Z >= 0 && local.X < n && local.Y < n && local.Z < n
}

// ensureField lazily allocates an all-air field.
func (c *Chunk) ensureField() *DensityField {
	if c.field == nil || !c.field.Populated() {
		c.field = NewDensityField(c.cfg.ChunkVolumeSize(), c.cfg.AirDensity())
		c.field.Fill(c.cfg.AirDensity())
	}
	return c.field
}

// DensityVolume returns the samples the extractor runs on. In discrete mode
// the voxel records are rasterized into a fresh field.
func (c *Chunk) DensityVolume() *DensityField {
	if c.cfg.UseDensityFields {
		return c.ensureField()
	}
	return c.store.ToField(c.cfg.ChunkVolumeSize(), c.cfg.AirDensity())
}

// Generate extracts the mesh from the chunk's own samples and hands it to
// the sink.
func (c *Chunk) Generate() {
	c.GenerateFrom(c.DensityVolume())
}

// GenerateFrom meshes an explicit field anchored at the chunk origin. The
// world uses it to pass fields padded with neighbour samples.
func (c *Chunk) GenerateFrom(field *DensityField) {
	c.state = ChunkGenerating
	vertices, triangles, normals := GenerateMeshFromFieldScaled(
		field.Samples(), c.WorldOrigin(), field.Size(), c.cfg.IsoSurfaceValue, c.cfg.VoxelSize)
	c.mesh.SetSurface(vertices, triangles, normals, c.cfg.VoxelSize)
	c.state = ChunkGenerated
	c.isDirty = false
	if util.GLOBAL_LOG_LEVEL >= util.LogLevelDebug {
		min, max := util.Bounds(c.mesh.Vertices)
		util.LogMeshDebug(fmt.Sprintf("[Chunk] %v meshed: %d vertices, %d triangles, bounds %v - %v", c.coord, c.mesh.VertexCount(), c.mesh.TriangleCount(), min, max))
	}
	c.sink.ApplyMesh(c.coord, c.mesh)
}

// Update regenerates the whole chunk.
func (c *Chunk) Update() {
	c.Generate()
}

// Clear drops the mesh and returns the chunk to ChunkEmpty. Density data
// is kept.
func (c *Chunk) Clear() {
	c.mesh.Reset()
	c.state = ChunkEmpty
	c.sink.ClearMesh(c.coord)
}

// ResetData forgets every sample and voxel record.
func (c *Chunk) ResetData() {
	c.field = nil
	c.store.Clear()
	c.isDirty = true
}

// InitializeDensityField fills the field with source samples taken at each
// lattice point's world position.
func (c *Chunk) InitializeDensityField(source DensitySource) {
	field := NewDensityField(c.cfg.ChunkVolumeSize(), c.cfg.AirDensity())
	origin := c.WorldOrigin()
	field.ForEach(func(p Int3, _ float32) {
		field.Set(p, source.Density(origin.Add(p.ToVec3().Mul(c.cfg.VoxelSize))))
	})
	field.populated = true
	if c.cfg.UseDensityFields {
		c.field = field
	} else {
		c.store.LoadField(field)
	}
	c.isDirty = true
}

func (c *Chunk) GetDensityAtLocal(local Int3) float32 {
	if !c.inBounds(local) {
		return c.cfg.AirDensity()
	}
	if c.cfg.UseDensityFields {
		if c.field == nil {
			return c.cfg.AirDensity()
		}
		return c.field.Get(local)
	}
	if r, ok := c.store.GetRecord(local); ok {
		return r.Density
	}
	return c.cfg.AirDensity()
}

// UpdateDensityField writes one sample. Positions outside the chunk are ignored.
func (c *Chunk) UpdateDensityField(local Int3, density float32) {
	if !c.inBounds(local) {
		return
	}
	if c.cfg.UseDensityFields {
		c.ensureField().Set(local, density)
	}
	if !c.store.SetDensity(local, density) && !c.cfg.UseDensityFields {
		t := Empty
		if density > 0 {
			t = Solid
		}
		r := DefaultRecord(t)
		r.Density = density
		c.store.SetVoxelFull(local, r)
	}
	c.isDirty = true
}

func (c *Chunk) GetVoxelAtLocal(local Int3) VoxelType {
	if !c.inBounds(local) {
		return Empty
	}
	if r, ok := c.store.GetRecord(local); ok {
		return r.Type
	}
	if c.cfg.UseDensityFields && c.field != nil && c.field.Get(local) > 0 {
		return Solid
	}
	return Empty
}

func (c *Chunk) SetVoxelAtLocal(local Int3, t VoxelType) {
	c.SetVoxelRecordAtLocal(local, DefaultRecord(t))
}

func (c *Chunk) SetVoxelRecordAtLocal(local Int3, record VoxelRecord) {
	if !c.inBounds(local) {
		return
	}
	c.store.SetVoxelFull(local, record)
	if c.cfg.UseDensityFields {
		stored, _ := c.store.GetRecord(local)
		c.ensureField().Set(local, stored.Density)
	}
	c.isDirty = true
}
