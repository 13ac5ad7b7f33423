package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/terrainmesh/engine/util"
)

const interpolationEpsilon = 1e-5

// cornerOffsets lists the unit cube corners in table order.
var cornerOffsets = [8]Int3{
	{0, 0, 0},
	{1, 0, 0},
	{1, 1, 0},
	{0, 1, 0},
	{0, 0, 1},
	{1, 0, 1},
	{1, 1, 1},
	{0, 1, 1},
}

// edgeCorners maps each of the 12 cube edges to the two corners it joins.
var edgeCorners = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// GridCell is one cube of the sampling lattice.
type GridCell struct {
	Positions [8]mgl32.Vec3
	Values    [8]float32
}

// CubeIndex sets bit n when corner n is below the iso level.
func (g *GridCell) CubeIndex(isoLevel float32) uint8 {
	var index uint8
	for n := 0; n < 8; n++ {
		if g.Values[n] < isoLevel {
			index |= 1 << uint(n)
		}
	}
	return index
}

// GenerateMeshFromField extracts the iso surface of a lattice with unit spacing.
func GenerateMeshFromField(field []float32, origin mgl32.Vec3, size Int3, isoLevel float32) ([]mgl32.Vec3, []int32, []mgl32.Vec3) {
	return GenerateMeshFromFieldScaled(field, origin, size, isoLevel, 1)
}

// GenerateMeshFromFieldScaled is GenerateMeshFromField with lattice steps of
// cellSize world units. Every triangle gets its own three vertices.
func GenerateMeshFromFieldScaled(field []float32, origin mgl32.Vec3, size Int3, isoLevel, cellSize float32) ([]mgl32.Vec3, []int32, []mgl32.Vec3) {
	if size.X < 2 || size.Y < 2 || size.Z < 2 {
		return nil, nil, nil
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	vertices := make([]mgl32.Vec3, 0)
	triangles := make([]int32, 0)

	var cell GridCell
	for z := int32(0); z < size.Z-1; z++ {
		for y := int32(0); y < size.Y-1; y++ {
			for x := int32(0); x < size.X-1; x++ {
				base := Int3{x, y, z}
				for n, offset := range cornerOffsets {
					corner := base.Add(offset)
					cell.Positions[n] = origin.Add(corner.ToVec3().Mul(cellSize))
					cell.Values[n] = latticeValue(field, size, corner, isoLevel-1)
				}
				PolygonizeCell(&cell, isoLevel, &vertices, &triangles)
			}
		}
	}

	normals := make([]mgl32.Vec3, len(vertices))
	for t := 0; t+2 < len(triangles); t += 3 {
		a, b, c := triangles[t], triangles[t+1], triangles[t+2]
		fallback := faceNormal(vertices[a], vertices[b], vertices[c])
		for _, index := range [3]int32{a, b, c} {
			local := vertices[index].Sub(origin).Mul(1 / cellSize)
			normal, ok := CalculateNormal(field, size, local, isoLevel)
			if !ok {
				normal = fallback
			}
			normals[index] = normal
		}
	}
	return vertices, triangles, normals
}

// PolygonizeCell appends the triangles of one cell and returns how many it added.
func PolygonizeCell(cell *GridCell, isoLevel float32, vertices *[]mgl32.Vec3, triangles *[]int32) int {
	cubeIndex := cell.CubeIndex(isoLevel)
	edges := EdgeTable[cubeIndex]
	if edges == 0 {
		return 0
	}

	var edgePoints [12]mgl32.Vec3
	for e := 0; e < 12; e++ {
		if edges&(1<<uint(e)) == 0 {
			continue
		}
		c1, c2 := edgeCorners[e][0], edgeCorners[e][1]
		edgePoints[e] = InterpolateVertex(isoLevel, cell.Positions[c1], cell.Positions[c2], cell.Values[c1], cell.Values[c2])
	}

	count := 0
	row := &TriTable[cubeIndex]
	for i := 0; i+2 < len(row) && row[i] != -1; i += 3 {
		start := int32(len(*vertices))
		*vertices = append(*vertices, edgePoints[row[i]], edgePoints[row[i+1]], edgePoints[row[i+2]])
		*triangles = append(*triangles, start, start+1, start+2)
		count++
	}
	return count
}

// InterpolateVertex finds where the iso level crosses the edge p1-p2.
func InterpolateVertex(isoLevel float32, p1, p2 mgl32.Vec3, val1, val2 float32) mgl32.Vec3 {
	if util.Abs(isoLevel-val1) < interpolationEpsilon {
		return p1
	}
	if util.Abs(isoLevel-val2) < interpolationEpsilon {
		return p2
	}
	if util.Abs(val1-val2) < interpolationEpsilon {
		return p1
	}
	t := (isoLevel - val1) / (val2 - val1)
	return util.Lerp3(p1, p2, t)
}

// SampleDensityField reads the lattice point nearest below pos. Positions
// outside the field read as AIR_DENSITY (-1) whatever the iso level; the
// extractor and CalculateNormal pad with isoLevel-1 instead, which only
// matches at iso 0.
func SampleDensityField(field []float32, size Int3, pos mgl32.Vec3) float32 {
	return latticeValue(field, size, FloorToInt3(pos), AIR_DENSITY)
}

// CalculateNormal returns the surface normal at a lattice-space position,
// pointing from solid toward air. ok is false where the gradient vanishes.
func CalculateNormal(field []float32, size Int3, pos mgl32.Vec3, isoLevel float32) (normal mgl32.Vec3, ok bool) {
	const h = 0.5
	air := isoLevel - 1
	sample := func(dx, dy, dz float32) float32 {
		return trilinear(field, size, pos.Add(mgl32.Vec3{dx, dy, dz}), air)
	}
	gradient := mgl32.Vec3{
		sample(h, 0, 0) - sample(-h, 0, 0),
		sample(0, h, 0) - sample(0, -h, 0),
		sample(0, 0, h) - sample(0, 0, -h),
	}
	if gradient.Len() < interpolationEpsilon {
		return mgl32.Vec3{}, false
	}
	return gradient.Mul(-1).Normalize(), true
}

func latticeValue(field []float32, size Int3, p Int3, outside float32) float32 {
	if p.X < 0 || p.Y < 0 || p.Z < 0 || p.X >= size.X || p.Y >= size.Y || p.Z >= size.Z {
		return outside
	}
	index := int(p.Z)*int(size.Y)*int(size.X) + int(p.Y)*int(size.X) + int(p.X)
	if index >= len(field) {
		return outside
	}
	return field[index]
}

func trilinear(field []float32, size Int3, pos mgl32.Vec3, outside float32) float32 {
	base := FloorToInt3(pos)
	fx := pos.X() - float32(base.X)
	fy := pos.Y() - float32(base.Y)
	fz := pos.Z() - float32(base.Z)

	var c [8]float32
	for n, offset := range cornerOffsets {
		c[n] = latticeValue(field, size, base.Add(offset), outside)
	}
	bottom := util.Mix(util.Mix(c[0], c[1], fx), util.Mix(c[3], c[2], fx), fy)
	top := util.Mix(util.Mix(c[4], c[5], fx), util.Mix(c[7], c[6], fx), fy)
	return util.Mix(bottom, top, fz)
}

func faceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() < interpolationEpsilon {
		return mgl32.Vec3{0, 0, 1}
	}
	return n.Normalize()
}
