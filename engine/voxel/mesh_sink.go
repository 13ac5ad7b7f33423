package voxel

import (
	"fmt"
	"sort"
	"sync"

	"github.com/memmaker/terrainmesh/engine/util"
)

// MeshSink receives chunk meshes after every generate or update.
type MeshSink interface {
	ApplyMesh(coord Int3, mesh *MeshBuffer)
	ClearMesh(coord Int3)
}

type NopSink struct{}

func (NopSink) ApplyMesh(Int3, *MeshBuffer) {}
func (NopSink) ClearMesh(Int3)              {}

// GLTFCollector keeps a copy of the latest mesh per chunk and writes them
// out as one glTF scene.
type GLTFCollector struct {
	mutex   sync.Mutex
	meshes  map[Int3]*MeshBuffer
	applied int
}

func NewGLTFCollector() *GLTFCollector {
	return &GLTFCollector{meshes: make(map[Int3]*MeshBuffer)}
}

func (g *GLTFCollector) ApplyMesh(coord Int3, mesh *MeshBuffer) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.applied++
	if mesh == nil || mesh.IsEmpty() {
		delete(g.meshes, coord)
		return
	}
	copied := NewMeshBuffer()
	copied.MergeBuffer(mesh)
	g.meshes[coord] = copied
}

func (g *GLTFCollector) ClearMesh(coord Int3) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	delete(g.meshes, coord)
}

// ApplyCount is the number of ApplyMesh calls received.
func (g *GLTFCollector) ApplyCount() int {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	return g.applied
}

func (g *GLTFCollector) Mesh(coord Int3) (*MeshBuffer, bool) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	m, ok := g.meshes[coord]
	return m, ok
}

// Exports converts the collected meshes in chunk coordinate order.
func (g *GLTFCollector) Exports() []util.MeshExport {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	coords := make([]Int3, 0, len(g.meshes))
	for coord := range g.meshes {
		coords = append(coords, coord)
	}
	sort.Slice(coords, func(i, j int) bool { return coords[i].Less(coords[j]) })

	exports := make([]util.MeshExport, 0, len(coords))
	for _, coord := range coords {
		exports = append(exports, toExport(fmt.Sprintf("chunk_%d_%d_%d", coord.X, coord.Y, coord.Z), g.meshes[coord]))
	}
	return exports
}

// WriteFile writes every collected mesh to a .gltf or .glb file.
func (g *GLTFCollector) WriteFile(filename string) error {
	return util.WriteGLTF(filename, g.Exports())
}

func toExport(name string, m *MeshBuffer) util.MeshExport {
	export := util.MeshExport{
		Name:      name,
		Positions: make([][3]float32, len(m.Vertices)),
		Normals:   make([][3]float32, len(m.Normals)),
		UVs:       make([][2]float32, len(m.UVs)),
		Colors:    append([][4]uint8(nil), m.Colors...),
		Indices:   make([]uint32, len(m.Triangles)),
	}
	for i, v := range m.Vertices {
		export.Positions[i] = [3]float32(v)
	}
	for i, n := range m.Normals {
		export.Normals[i] = [3]float32(n)
	}
	for i, uv := range m.UVs {
		export.UVs[i] = [2]float32(uv)
	}
	for i, index := range m.Triangles {
		export.Indices[i] = uint32(index)
	}
	return export
}
