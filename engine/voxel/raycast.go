package voxel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type HitInfo struct {
	Hit bool
	// Distance along the ray, in the units of the input positions.
	Distance         float64
	Position         mgl32.Vec3
	LatticePosition  Int3
	PreviousPosition Int3
}

// DDARaycast walks the unit lattice cells crossed by the segment start-end
// in order and stops at the first cell for which stopRay is true.
// adapted from: https://github.com/fenomas/fast-voxel-raycast/blob/master/index.js
func DDARaycast(start, end mgl32.Vec3, stopRay func(p Int3) bool) HitInfo {
	ray := end.Sub(start)
	maxLength := float64(ray.Len())
	current := FloorToInt3(start)
	if maxLength == 0 {
		if stopRay(current) {
			return HitInfo{Hit: true, Position: start, LatticePosition: current, PreviousPosition: current}
		}
		return HitInfo{}
	}
	dir := ray.Normalize()

	var step Int3
	var tDelta, tMax [3]float64
	for axis := 0; axis < 3; axis++ {
		d := float64(dir[axis])
		origin := float64(start[axis])
		cell := math.Floor(origin)
		switch {
		case d > 0:
			setAxis(&step, axis, 1)
			tDelta[axis] = 1 / d
			tMax[axis] = (cell + 1 - origin) / d
		case d < 0:
			setAxis(&step, axis, -1)
			tDelta[axis] = -1 / d
			tMax[axis] = (origin - cell) / -d
		default:
			tDelta[axis] = math.Inf(1)
			tMax[axis] = math.Inf(1)
		}
	}

	t := 0.0
	previous := current
	for t <= maxLength {
		if stopRay(current) {
			return HitInfo{
				Hit:              true,
				Distance:         t,
				Position:         start.Add(dir.Mul(float32(t))),
				LatticePosition:  current,
				PreviousPosition: previous,
			}
		}
		previous = current
		axis := 0
		if tMax[1] < tMax[axis] {
			axis = 1
		}
		if tMax[2] < tMax[axis] {
			axis = 2
		}
		t = tMax[axis]
		tMax[axis] += tDelta[axis]
		setAxis(&current, axis, axisValue(current, axis)+axisValue(step, axis))
	}
	return HitInfo{Distance: maxLength}
}

func setAxis(p *Int3, axis int, v int32) {
	switch axis {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	default:
		p.Z = v
	}
}

func axisValue(p Int3, axis int) int32 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	}
	return p.Z
}

// Raycast finds the first solid lattice sample along a world space segment.
// The hit's Position and Distance are in world units; lattice sample p
// covers the world cell starting at p*VoxelSize. Unloaded chunks are air.
func (w *World) Raycast(start, end mgl32.Vec3) HitInfo {
	size := w.cfg.VoxelSize
	toLattice := func(v mgl32.Vec3) mgl32.Vec3 {
		return mgl32.Vec3{v.X() / size, v.Y() / size, v.Z() / size}
	}
	hit := DDARaycast(toLattice(start), toLattice(end), func(p Int3) bool {
		return w.GetDensityAtLattice(p) > w.cfg.IsoSurfaceValue
	})
	hit.Distance *= float64(w.cfg.VoxelSize)
	hit.Position = hit.Position.Mul(w.cfg.VoxelSize)
	return hit
}
