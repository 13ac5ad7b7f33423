package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/terrainmesh/engine/util"
)

// MeshBuffer holds the extracted surface of one chunk. Triangles index into
// Vertices; Normals, UVs and Colors run parallel to Vertices.
type MeshBuffer struct {
	Vertices  []mgl32.Vec3
	Triangles []int32
	Normals   []mgl32.Vec3
	UVs       []mgl32.Vec2
	// Colors carry the normal packed into RGB for renderers without a normal stream.
	Colors [][4]uint8
}

func NewMeshBuffer() *MeshBuffer {
	return &MeshBuffer{}
}

func (m *MeshBuffer) VertexCount() int {
	return len(m.Vertices)
}

func (m *MeshBuffer) TriangleCount() int {
	return len(m.Triangles) / 3
}

func (m *MeshBuffer) IsEmpty() bool {
	return len(m.Triangles) == 0
}

func (m *MeshBuffer) Reset() {
	m.Vertices = m.Vertices[:0]
	m.Triangles = m.Triangles[:0]
	m.Normals = m.Normals[:0]
	m.UVs = m.UVs[:0]
	m.Colors = m.Colors[:0]
}

// SetSurface replaces the buffer contents and derives UVs and colours.
func (m *MeshBuffer) SetSurface(vertices []mgl32.Vec3, triangles []int32, normals []mgl32.Vec3, uvScale float32) {
	m.Reset()
	m.Vertices = append(m.Vertices, vertices...)
	m.Triangles = append(m.Triangles, triangles...)
	m.Normals = append(m.Normals, normals...)
	for i, v := range vertices {
		var n mgl32.Vec3
		if i < len(normals) {
			n = normals[i]
		}
		m.UVs = append(m.UVs, planarUV(v, n, uvScale))
		m.Colors = append(m.Colors, PackNormal(n))
	}
}

// MergeBuffer appends other, offsetting its triangle indices.
func (m *MeshBuffer) MergeBuffer(other *MeshBuffer) {
	if other == nil {
		return
	}
	offset := int32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, index := range other.Triangles {
		m.Triangles = append(m.Triangles, index+offset)
	}
	m.Normals = append(m.Normals, other.Normals...)
	m.UVs = append(m.UVs, other.UVs...)
	m.Colors = append(m.Colors, other.Colors...)
}

// PackNormal maps each component from [-1,1] to 128+round(c*127) so a zero
// component stays exact; alpha is opaque.
func PackNormal(n mgl32.Vec3) [4]uint8 {
	pack := func(c float32) uint8 {
		return uint8(128 + int32(math.Round(float64(util.Clamp(c, -1, 1)*127))))
	}
	return [4]uint8{pack(n.X()), pack(n.Y()), pack(n.Z()), 255}
}

func UnpackNormal(c [4]uint8) mgl32.Vec3 {
	unpack := func(b uint8) float32 {
		return util.Clamp(float32(int32(b)-128)/127, -1, 1)
	}
	return mgl32.Vec3{unpack(c[0]), unpack(c[1]), unpack(c[2])}
}

// planarUV projects onto the plane facing the dominant normal axis.
func planarUV(v, n mgl32.Vec3, scale float32) mgl32.Vec2 {
	if scale <= 0 {
		scale = 1
	}
	ax, ay, az := util.Abs(n.X()), util.Abs(n.Y()), util.Abs(n.Z())
	switch {
	case ax >= ay && ax >= az:
		return mgl32.Vec2{v.Y() / scale, v.Z() / scale}
	case ay >= az:
		return mgl32.Vec2{v.X() / scale, v.Z() / scale}
	default:
		return mgl32.Vec2{v.X() / scale, v.Y() / scale}
	}
}
