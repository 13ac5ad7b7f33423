package voxel

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformField(size Int3, value float32) []float32 {
	field := make([]float32, size.Volume())
	for i := range field {
		field[i] = value
	}
	return field
}

func fieldIndex(size, p Int3) int {
	return int(p.Z)*int(size.Y)*int(size.X) + int(p.Y)*int(size.X) + int(p.X)
}

func tableTriangleCount(cubeIndex uint8) int {
	n := 0
	for n < 16 && TriTable[cubeIndex][n] != -1 {
		n++
	}
	return n / 3
}

func TestUniformFieldsProduceNoTriangles(t *testing.T) {
	size := Cube(4)
	for _, value := range []float32{1, 0, -1} {
		vertices, triangles, normals := GenerateMeshFromField(uniformField(size, value), mgl32.Vec3{}, size, 0)
		assert.Empty(t, vertices, "value %v", value)
		assert.Empty(t, triangles, "value %v", value)
		assert.Empty(t, normals, "value %v", value)
	}
}

func TestFieldSmallerThanTwoIsEmpty(t *testing.T) {
	for _, size := range []Int3{{1, 4, 4}, {4, 1, 4}, {4, 4, 1}, {0, 0, 0}} {
		vertices, triangles, _ := GenerateMeshFromField(make([]float32, size.Volume()), mgl32.Vec3{}, size, 0)
		assert.Empty(t, vertices)
		assert.Empty(t, triangles)
	}
}

func TestSingleAirCornerEmitsOneTriangle(t *testing.T) {
	size := Cube(2)
	corners := [8]float32{1, 1, 1, 1, 1, 1, 1, -1}
	field := make([]float32, 8)
	for n, offset := range cornerOffsets {
		field[fieldIndex(size, offset)] = corners[n]
	}

	vertices, triangles, normals := GenerateMeshFromField(field, mgl32.Vec3{}, size, 0)

	require.Len(t, triangles, 3)
	require.Len(t, vertices, 3)
	require.Len(t, normals, 3)
	air := cornerOffsets[7].ToVec3()
	for _, v := range vertices {
		assert.InDelta(t, 0.5, v.Sub(air).Len(), 1e-5)
	}
}

func TestCubeIndexSetsBitsBelowIso(t *testing.T) {
	cell := GridCell{Values: [8]float32{-1, 1, 1, 1, 1, 1, 1, -0.5}}
	assert.Equal(t, uint8(0x81), cell.CubeIndex(0))
	assert.Equal(t, uint8(0xff), cell.CubeIndex(2))
	assert.Equal(t, uint8(0), cell.CubeIndex(-1))
}

func TestInterpolateVertexEndpoints(t *testing.T) {
	p1 := mgl32.Vec3{0, 0, 0}
	p2 := mgl32.Vec3{2, 4, 6}

	assert.Equal(t, p2, InterpolateVertex(0.25, p1, p2, -1, 0.25))
	assert.Equal(t, p1, InterpolateVertex(0.25, p1, p2, 0.25, 3))
	assert.Equal(t, p1, InterpolateVertex(0, p1, p2, 0.5, 0.5))

	mid := InterpolateVertex(0, p1, p2, -1, 1)
	assert.True(t, mid.ApproxEqualThreshold(mgl32.Vec3{1, 2, 3}, 1e-5))

	quarter := InterpolateVertex(0, p1, p2, -1, 3)
	assert.True(t, quarter.ApproxEqualThreshold(mgl32.Vec3{0.5, 1, 1.5}, 1e-5))
}

func TestCenterAirVoxel(t *testing.T) {
	size := Cube(3)
	field := uniformField(size, 1)
	center := Int3{1, 1, 1}
	field[fieldIndex(size, center)] = -1

	vertices, triangles, normals := GenerateMeshFromField(field, mgl32.Vec3{}, size, 0)

	expected := 0
	for z := int32(0); z < 2; z++ {
		for y := int32(0); y < 2; y++ {
			for x := int32(0); x < 2; x++ {
				var cell GridCell
				for n, offset := range cornerOffsets {
					p := Int3{x, y, z}.Add(offset)
					cell.Values[n] = field[fieldIndex(size, p)]
				}
				expected += tableTriangleCount(cell.CubeIndex(0))
			}
		}
	}
	assert.Equal(t, 8, expected)
	require.Len(t, triangles, expected*3)
	require.Len(t, vertices, expected*3)
	require.Len(t, normals, len(vertices))

	c := center.ToVec3()
	for _, index := range triangles {
		require.Less(t, int(index), len(vertices))
	}
	for i, v := range vertices {
		assert.InDelta(t, 0.5, v.Sub(c).Len(), 1e-5)
		assert.InDelta(t, 1, normals[i].Len(), 1e-4)
		assert.Greater(t, normals[i].Dot(c.Sub(v)), float32(0), "normal %d should face the air voxel", i)
	}
}

func TestTrianglesWindTowardAir(t *testing.T) {
	size := Cube(3)
	field := uniformField(size, 1)
	field[fieldIndex(size, Int3{1, 1, 1})] = -1
	vertices, triangles, normals := GenerateMeshFromField(field, mgl32.Vec3{}, size, 0)
	for i := 0; i < len(triangles); i += 3 {
		a, b, c := vertices[triangles[i]], vertices[triangles[i+1]], vertices[triangles[i+2]]
		geometric := faceNormal(a, b, c)
		assert.Greater(t, geometric.Dot(normals[triangles[i]]), float32(0))
	}
}

func TestScaledMeshUsesOriginAndCellSize(t *testing.T) {
	size := Cube(3)
	field := uniformField(size, 1)
	field[fieldIndex(size, Int3{1, 1, 1})] = -1
	origin := mgl32.Vec3{100, -50, 10}

	unit, _, _ := GenerateMeshFromField(field, mgl32.Vec3{}, size, 0)
	scaled, _, scaledNormals := GenerateMeshFromFieldScaled(field, origin, size, 0, 10)

	require.Len(t, scaled, len(unit))
	for i := range unit {
		assert.True(t, origin.Add(unit[i].Mul(10)).ApproxEqualThreshold(scaled[i], 1e-3))
		assert.InDelta(t, 1, scaledNormals[i].Len(), 1e-4)
	}
}

func TestPlaneNormalsPointUp(t *testing.T) {
	size := Cube(4)
	field := make([]float32, size.Volume())
	for z := int32(0); z < size.Z; z++ {
		for y := int32(0); y < size.Y; y++ {
			for x := int32(0); x < size.X; x++ {
				field[fieldIndex(size, Int3{x, y, z})] = 1.5 - float32(z)
			}
		}
	}
	vertices, _, normals := GenerateMeshFromField(field, mgl32.Vec3{}, size, 0)
	require.NotEmpty(t, vertices)
	for i, v := range vertices {
		assert.InDelta(t, 1.5, v.Z(), 1e-5)
		if v.X() > 0.5 && v.X() < 2.5 && v.Y() > 0.5 && v.Y() < 2.5 {
			assert.True(t, normals[i].ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-4), "normal %v", normals[i])
		}
	}
}

func TestSampleDensityFieldOutsideIsAir(t *testing.T) {
	size := Cube(2)
	field := uniformField(size, 1)
	assert.Equal(t, float32(1), SampleDensityField(field, size, mgl32.Vec3{1.9, 0.2, 0}))
	assert.Equal(t, AIR_DENSITY, SampleDensityField(field, size, mgl32.Vec3{2, 0, 0}))
	assert.Equal(t, AIR_DENSITY, SampleDensityField(field, size, mgl32.Vec3{-0.1, 0, 0}))
	assert.Equal(t, AIR_DENSITY, SampleDensityField(field[:3], size, mgl32.Vec3{1, 1, 1}))
}

func TestOutsidePaddingFollowsIsoLevel(t *testing.T) {
	size := Cube(3)
	field := uniformField(size, 1)
	pos := mgl32.Vec3{0, 1, 1}

	normal, ok := CalculateNormal(field, size, pos, 0)
	require.True(t, ok)
	assert.True(t, normal.ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-5), "%v", normal)

	// at iso 2 the padding is 1, the same as every sample
	_, ok = CalculateNormal(field, size, pos, 2)
	assert.False(t, ok)
	assert.Equal(t, AIR_DENSITY, SampleDensityField(field, size, mgl32.Vec3{-1, 1, 1}))
}

func TestPolygonizeCellSkipsUniformCells(t *testing.T) {
	var vertices []mgl32.Vec3
	var triangles []int32
	cell := GridCell{Values: [8]float32{1, 1, 1, 1, 1, 1, 1, 1}}
	assert.Equal(t, 0, PolygonizeCell(&cell, 0, &vertices, &triangles))
	assert.Empty(t, vertices)
}

func BenchmarkSphereChunk(b *testing.B) {
	size := Cube(DEFAULT_CHUNK_SIZE)
	sphere := SphereDensity{Center: mgl32.Vec3{16, 16, 16}, Radius: 12}
	field := make([]float32, size.Volume())
	for z := int32(0); z < size.Z; z++ {
		for y := int32(0); y < size.Y; y++ {
			for x := int32(0); x < size.X; x++ {
				p := Int3{x, y, z}
				field[fieldIndex(size, p)] = sphere.Density(p.ToVec3())
			}
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		GenerateMeshFromField(field, mgl32.Vec3{}, size, 0)
	}
}
