package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

func Abs(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

func Floor(x float32) float32 {
	return float32(math.Floor(float64(x)))
}

func Mix(a, b, factor float32) float32 {
	return a*(1-factor) + factor*b
}

func Clamp(value, min, max float32) float32 {
	return float32(math.Min(math.Max(float64(value), float64(min)), float64(max)))
}

func ToGrid(position mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{Floor(position.X()), Floor(position.Y()), Floor(position.Z())}
}

func Lerp3(one, two mgl32.Vec3, factor float32) mgl32.Vec3 {
	return mgl32.Vec3{Mix(one.X(), two.X(), factor), Mix(one.Y(), two.Y(), factor), Mix(one.Z(), two.Z(), factor)}
}

// Bounds returns the componentwise min and max of points; both are zero
// for an empty slice.
func Bounds(points []mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	if len(points) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	min, max := points[0], points[0]
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}
