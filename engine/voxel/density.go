package voxel

// DensityField is a dense lattice of density samples stored z-major:
// index = z*sizeY*sizeX + y*sizeX + x.
type DensityField struct {
	size      Int3
	air       float32
	data      []float32
	populated bool
}

// NewDensityField allocates a field of the given size filled with air.
func NewDensityField(size Int3, air float32) *DensityField {
	if size.X < 0 || size.Y < 0 || size.Z < 0 {
		size = Int3{}
	}
	f := &DensityField{size: size, air: air, data: make([]float32, size.Volume())}
	f.Fill(air)
	f.populated = false
	return f
}

func (f *DensityField) Size() Int3 {
	return f.size
}

func (f *DensityField) Len() int {
	return len(f.data)
}

func (f *DensityField) Air() float32 {
	return f.air
}

func (f *DensityField) Contains(p Int3) bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0 && p.X < f.size.X && p.Y < f.size.Y && p.Z < f.size.Z
}

func (f *DensityField) Index(p Int3) int {
	return int(p.Z)*int(f.size.Y)*int(f.size.X) + int(p.Y)*int(f.size.X) + int(p.X)
}

// Get returns the air value outside the field.
func (f *DensityField) Get(p Int3) float32 {
	if !f.Contains(p) {
		return f.air
	}
	return f.data[f.Index(p)]
}

// Set ignores positions outside the field and reports whether the stored
// value changed.
func (f *DensityField) Set(p Int3, value float32) bool {
	if !f.Contains(p) {
		return false
	}
	f.populated = true
	i := f.Index(p)
	if f.data[i] == value {
		return false
	}
	f.data[i] = value
	return true
}

func (f *DensityField) Fill(value float32) {
	for i := range f.data {
		f.data[i] = value
	}
	f.populated = true
}

// Samples exposes the backing slice in extractor layout.
func (f *DensityField) Samples() []float32 {
	return f.data
}

// Populated is false until the field has been filled or written.
func (f *DensityField) Populated() bool {
	return f.populated
}

func (f *DensityField) ForEach(visit func(p Int3, value float32)) {
	for z := int32(0); z < f.size.Z; z++ {
		for y := int32(0); y < f.size.Y; y++ {
			for x := int32(0); x < f.size.X; x++ {
				p := Int3{x, y, z}
				visit(p, f.data[f.Index(p)])
			}
		}
	}
}

// Padded returns a copy grown by extra samples on the positive side of each
// axis; sample is asked for the values of the new layer.
func (f *DensityField) Padded(extra int32, sample func(p Int3) float32) *DensityField {
	grown := NewDensityField(f.size.Add(Cube(extra)), f.air)
	grown.ForEach(func(p Int3, _ float32) {
		if f.Contains(p) {
			grown.data[grown.Index(p)] = f.data[f.Index(p)]
			return
		}
		grown.data[grown.Index(p)] = sample(p)
	})
	grown.populated = f.populated
	return grown
}
