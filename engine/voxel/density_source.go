package voxel

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/terrainmesh/engine/util"
)

// DensitySource supplies the initial density of a world position.
// Implementations must be deterministic.
type DensitySource interface {
	Density(world mgl32.Vec3) float32
}

type DensityFunc func(world mgl32.Vec3) float32

func (f DensityFunc) Density(world mgl32.Vec3) float32 {
	return f(world)
}

// ConstantDensity returns the same value everywhere.
type ConstantDensity float32

func (c ConstantDensity) Density(mgl32.Vec3) float32 {
	return float32(c)
}

// SphereDensity is positive inside the sphere, falling off linearly with
// distance from the surface.
type SphereDensity struct {
	Center mgl32.Vec3
	Radius float32
}

func (s SphereDensity) Density(world mgl32.Vec3) float32 {
	return s.Radius - world.Sub(s.Center).Len()
}

// PerlinTerrain is a height field: solid below BaseHeight plus fractal noise
// of the horizontal position, air above. Z is up.
type PerlinTerrain struct {
	noise *perlin.Perlin
	cfg   NoiseConfig
}

func NewPerlinTerrain(cfg NoiseConfig) *PerlinTerrain {
	persistence := float64(cfg.Persistence)
	if persistence <= 0 {
		persistence = 0.5
	}
	lacunarity := float64(cfg.Lacunarity)
	if lacunarity <= 0 {
		lacunarity = 2
	}
	octaves := cfg.Octaves
	if octaves < 1 {
		octaves = 1
	}
	// go-perlin divides each octave by alpha, so alpha is 1/persistence.
	return &PerlinTerrain{
		noise: perlin.NewPerlin(1/persistence, lacunarity, octaves, cfg.Seed),
		cfg:   cfg,
	}
}

// Height returns the terrain surface height at a horizontal position.
func (p *PerlinTerrain) Height(x, y float32) float32 {
	n := p.noise.Noise2D(float64(x*p.cfg.Scale), float64(y*p.cfg.Scale))
	return p.cfg.BaseHeight + float32(n)*p.cfg.Amplitude
}

func (p *PerlinTerrain) Density(world mgl32.Vec3) float32 {
	falloff := p.cfg.HeightFalloff
	if falloff <= 0 {
		falloff = 1
	}
	d := (p.Height(world.X(), world.Y()) - world.Z()) * falloff
	return util.Clamp(d, -1, 1)
}
