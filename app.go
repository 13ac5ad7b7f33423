package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/memmaker/terrainmesh/engine/util"
	"github.com/memmaker/terrainmesh/engine/voxel"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

type options struct {
	configFile string
	outFile    string
	shape      string
	radius     int
}

func main() {
	opts := options{}
	flag.StringVar(&opts.configFile, "config", "", "world config (YAML), defaults to $TERRAIN_CONFIG")
	flag.StringVar(&opts.outFile, "out", "terrain.gltf", "output file, .gltf or .glb")
	flag.StringVar(&opts.shape, "shape", "perlin", "density source: perlin, sphere or skin")
	flag.IntVar(&opts.radius, "radius", -1, "chunks generated around the origin, defaults to render_distance")
	flag.Parse()

	if err := run(opts); err != nil {
		util.LogSystemError(fmt.Sprintf("[App] %v", err))
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := voxel.LoadConfig(opts.configFile)
	if err != nil {
		return err
	}
	if err = util.SetLogLevelByName(cfg.LogLevel); err != nil {
		util.LogSystemWarning(fmt.Sprintf("[App] %v, using info", err))
	}

	collector := voxel.NewGLTFCollector()
	sink := newProgressSink(collector, term.IsTerminal(int(os.Stderr.Fd())))

	switch opts.shape {
	case "skin":
		world := voxel.NewWorld(cfg, nil, sink)
		size := cfg.Map.WorldSizeInChunks
		sink.expect(size.Volume())
		voxel.NewMapGenerator(cfg.Map).GenerateMap(world)
	case "sphere", "perlin":
		radius := int32(opts.radius)
		if radius < 0 {
			radius = cfg.RenderDistance
		}
		world := voxel.NewWorld(cfg, densitySource(opts.shape, cfg, radius), sink)
		span := 2*int(radius) + 1
		sink.expect(span * span * span)
		world.GenerateAround(voxel.Int3{}, radius)
	default:
		return errors.Errorf("unknown shape %q", opts.shape)
	}
	sink.done()

	exports := collector.Exports()
	triangles := 0
	for _, e := range exports {
		triangles += e.TriangleCount()
	}
	util.LogSystemInfo(fmt.Sprintf("[App] %d non-empty chunks, %d triangles", len(exports), triangles))
	return util.WriteGLTF(opts.outFile, exports)
}

func densitySource(shape string, cfg voxel.WorldConfig, radius int32) voxel.DensitySource {
	if shape == "sphere" {
		extent := float32(radius) * cfg.ChunkWorldSize()
		if extent <= 0 {
			extent = cfg.ChunkWorldSize() / 2
		}
		return voxel.SphereDensity{Center: mgl32.Vec3{}, Radius: extent * 0.8}
	}
	return voxel.NewPerlinTerrain(cfg.Noise)
}

// progressSink forwards meshes to the collector and draws a progress line
// when stderr is a terminal.
type progressSink struct {
	next        voxel.MeshSink
	interactive bool
	total       int
	applied     int
}

func newProgressSink(next voxel.MeshSink, interactive bool) *progressSink {
	return &progressSink{next: next, interactive: interactive}
}

func (p *progressSink) expect(total int) {
	p.total = total
}

func (p *progressSink) ApplyMesh(coord voxel.Int3, mesh *voxel.MeshBuffer) {
	p.next.ApplyMesh(coord, mesh)
	p.applied++
	if p.interactive {
		fmt.Fprintf(os.Stderr, "\rmeshing chunks %d/%d", p.applied, p.total)
	}
}

func (p *progressSink) ClearMesh(coord voxel.Int3) {
	p.next.ClearMesh(coord)
}

func (p *progressSink) done() {
	if p.interactive {
		fmt.Fprintln(os.Stderr)
	}
}
