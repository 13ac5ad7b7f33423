package voxel

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/terrainmesh/engine/util"
)

const (
	DEFAULT_CHUNK_SIZE int32   = 32
	DEFAULT_VOXEL_SIZE float32 = 100
	AIR_DENSITY        float32 = -1
	SOLID_DENSITY      float32 = 1
)

// Int3 is a position on the integer lattice: chunk coordinates, local
// voxel indices and world voxel keys all use it.
type Int3 struct {
	X, Y, Z int32
}

func (i Int3) Add(other Int3) Int3 {
	return Int3{i.X + other.X, i.Y + other.Y, i.Z + other.Z}
}

func (i Int3) Sub(other Int3) Int3 {
	return Int3{i.X - other.X, i.Y - other.Y, i.Z - other.Z}
}

func (i Int3) Mul(factor int32) Int3 {
	i.X *= factor
	i.Y *= factor
	i.Z *= factor
	return i
}

func (i Int3) ToVec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(i.X), float32(i.Y), float32(i.Z)}
}

func (i Int3) Volume() int {
	return int(i.X) * int(i.Y) * int(i.Z)
}

func (i Int3) Less(other Int3) bool {
	if i.X != other.X {
		return i.X < other.X
	}
	if i.Y != other.Y {
		return i.Y < other.Y
	}
	return i.Z < other.Z
}

func Cube(size int32) Int3 {
	return Int3{size, size, size}
}

// FloorToInt3 floors every component, so -0.5 maps to -1.
func FloorToInt3(v mgl32.Vec3) Int3 {
	g := util.ToGrid(v)
	return Int3{int32(g.X()), int32(g.Y()), int32(g.Z())}
}

func ChebyshevDistance3(a, b Int3) int32 {
	d := Abs(a.X - b.X)
	if dy := Abs(a.Y - b.Y); dy > d {
		d = dy
	}
	if dz := Abs(a.Z - b.Z); dz > d {
		d = dz
	}
	return d
}

func Abs(i int32) int32 {
	if i < 0 {
		return -i
	}
	return i
}
