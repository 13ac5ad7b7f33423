package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/terrainmesh/engine/util"
)

// MapGenerator builds a bounded world of WorldSizeInChunks chunks starting
// at chunk (0,0,0), optionally wrapped in a solid skin.
type MapGenerator struct {
	Config MapConfig
}

func NewMapGenerator(cfg MapConfig) *MapGenerator {
	return &MapGenerator{Config: cfg}
}

// LatticeExtent is the number of lattice points per axis covered by the map.
func (g *MapGenerator) LatticeExtent(w *World) Int3 {
	return g.Config.WorldSizeInChunks.Mul(w.Config().ChunkSize)
}

func (g *MapGenerator) GenerateMap(w *World) {
	g.ClearMap(w)

	size := g.Config.WorldSizeInChunks
	for x := int32(0); x < size.X; x++ {
		for y := int32(0); y < size.Y; y++ {
			for z := int32(0); z < size.Z; z++ {
				w.GenerateChunkDensityField(w.GetOrCreate(Int3{x, y, z}))
			}
		}
	}
	if g.Config.FillInterior {
		g.FillInteriorWithSolid(w)
	}
	if g.Config.EnableSolidSkin {
		g.CreateSolidSkin(w)
	}
	w.UpdateChunkMeshes()

	util.LogVoxelInfo(fmt.Sprintf("[Map] generated %d x %d x %d chunks", size.X, size.Y, size.Z))
}

func (g *MapGenerator) ClearMap(w *World) {
	w.Clear()
	util.LogVoxelDebug("[Map] cleared")
}

// CreateSolidSkin writes SkinDensity into the outer SkinThickness lattice
// layers on all six faces of the map.
func (g *MapGenerator) CreateSolidSkin(w *World) {
	extent := g.LatticeExtent(w)
	thickness := g.Config.SkinThickness
	box := NewBox(Int3{}, extent.Sub(Int3{1, 1, 1}))
	if extent.X <= 0 || extent.Y <= 0 || extent.Z <= 0 {
		return
	}
	box.ForEach(func(p Int3) {
		if !onSkin(p, extent, thickness) {
			return
		}
		w.SetDensityAtLattice(p, g.Config.SkinDensity)
	})
}

func onSkin(p, extent Int3, thickness int32) bool {
	return p.X < thickness || p.X >= extent.X-thickness ||
		p.Y < thickness || p.Y >= extent.Y-thickness ||
		p.Z < thickness || p.Z >= extent.Z-thickness
}

// FillInteriorWithSolid writes SolidDensity into every lattice point inside
// the skin.
func (g *MapGenerator) FillInteriorWithSolid(w *World) {
	extent := g.LatticeExtent(w)
	t := g.Config.SkinThickness
	if extent.X-2*t <= 0 || extent.Y-2*t <= 0 || extent.Z-2*t <= 0 {
		return
	}
	NewBox(Cube(t), extent.Sub(Cube(t+1))).ForEach(func(p Int3) {
		w.SetDensityAtLattice(p, g.Config.SolidDensity)
	})
}

func (g *MapGenerator) SetDensityAtWorldPosition(w *World, pos mgl32.Vec3, density float32) {
	w.SetDensityAtWorldPosition(pos, density)
}

func (g *MapGenerator) GetDensityAtWorldPosition(w *World, pos mgl32.Vec3) float32 {
	return w.GetDensityAtWorldPosition(pos)
}
