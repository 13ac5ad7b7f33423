package voxel

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// NoiseConfig is consumed only by density sources.
type NoiseConfig struct {
	Seed          int64   `yaml:"seed"`
	Scale         float32 `yaml:"scale"`
	Octaves       int32   `yaml:"octaves"`
	Persistence   float32 `yaml:"persistence"`
	Lacunarity    float32 `yaml:"lacunarity"`
	BaseHeight    float32 `yaml:"base_height"`
	HeightFalloff float32 `yaml:"height_falloff"`
	Amplitude     float32 `yaml:"amplitude"`
}

// MapConfig drives MapGenerator.
type MapConfig struct {
	WorldSizeInChunks Int3    `yaml:"world_size_in_chunks"`
	SkinThickness     int32   `yaml:"skin_thickness"`
	SkinDensity       float32 `yaml:"skin_density"`
	AirDensity        float32 `yaml:"air_density"`
	SolidDensity      float32 `yaml:"solid_density"`
	EnableSolidSkin   bool    `yaml:"enable_solid_skin"`
	FillInterior      bool    `yaml:"fill_interior"`
}

// WorldConfig is fixed for the lifetime of a World.
type WorldConfig struct {
	ChunkSize        int32       `yaml:"chunk_size"`
	VoxelSize        float32     `yaml:"voxel_size"`
	IsoSurfaceValue  float32     `yaml:"iso_surface_value"`
	RenderDistance   int32       `yaml:"render_distance"`
	UseDensityFields bool        `yaml:"use_density_fields"`
	StitchSeams      bool        `yaml:"stitch_seams"`
	LogLevel         string      `yaml:"log_level"`
	Noise            NoiseConfig `yaml:"noise"`
	Map              MapConfig   `yaml:"map"`
}

func DefaultConfig() WorldConfig {
	return WorldConfig{
		ChunkSize:        DEFAULT_CHUNK_SIZE,
		VoxelSize:        DEFAULT_VOXEL_SIZE,
		IsoSurfaceValue:  0,
		RenderDistance:   8,
		UseDensityFields: true,
		LogLevel:         "info",
		Noise: NoiseConfig{
			Seed:          1337,
			Scale:         0.01,
			Octaves:       4,
			Persistence:   0.5,
			Lacunarity:    2,
			BaseHeight:    0,
			HeightFalloff: 0.01,
			Amplitude:     800,
		},
		Map: MapConfig{
			WorldSizeInChunks: Int3{10, 10, 10},
			SkinThickness:     3,
			SkinDensity:       1,
			AirDensity:        AIR_DENSITY,
			SolidDensity:      SOLID_DENSITY,
			EnableSolidSkin:   true,
		},
	}
}

// LoadConfig overlays the YAML file at path on DefaultConfig. An empty path
// falls back to $TERRAIN_CONFIG, and to the plain defaults if that is unset.
func LoadConfig(path string) (WorldConfig, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("TERRAIN_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

func (c WorldConfig) Validate() error {
	if c.ChunkSize < 2 {
		return errors.Errorf("chunk_size must be at least 2, got %d", c.ChunkSize)
	}
	if c.VoxelSize <= 0 {
		return errors.Errorf("voxel_size must be positive, got %v", c.VoxelSize)
	}
	if c.RenderDistance < 0 {
		return errors.Errorf("render_distance must not be negative, got %d", c.RenderDistance)
	}
	if c.Map.SkinThickness < 0 {
		return errors.Errorf("map.skin_thickness must not be negative, got %d", c.Map.SkinThickness)
	}
	return nil
}

// ChunkWorldSize is the edge length of one chunk in world units.
func (c WorldConfig) ChunkWorldSize() float32 {
	return float32(c.ChunkSize) * c.VoxelSize
}

// AirDensity is the value reported for samples that do not exist.
func (c WorldConfig) AirDensity() float32 {
	return c.IsoSurfaceValue - 1
}

func (c WorldConfig) ChunkVolumeSize() Int3 {
	return Cube(c.ChunkSize)
}
