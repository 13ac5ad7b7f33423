package voxel

import (
	"fmt"
	"sort"
)

type VoxelType uint8

const (
	Empty VoxelType = iota
	Solid
	Water
	Lava
)

func (t VoxelType) String() string {
	switch t {
	case Empty:
		return "Empty"
	case Solid:
		return "Solid"
	case Water:
		return "Water"
	case Lava:
		return "Lava"
	}
	return fmt.Sprintf("VoxelType(%d)", uint8(t))
}

// CanonicalDensity is the density a freshly written voxel of this type gets.
func (t VoxelType) CanonicalDensity() float32 {
	if t == Empty {
		return AIR_DENSITY
	}
	return SOLID_DENSITY
}

type TagSet map[string]struct{}

func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, tag := range tags {
		s.Add(tag)
	}
	return s
}

func (s TagSet) Add(tag string) {
	s[tag] = struct{}{}
}

func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

func (s TagSet) Remove(tag string) {
	delete(s, tag)
}

// Slice returns the tags sorted.
func (s TagSet) Slice() []string {
	out := make([]string, 0, len(s))
	for tag := range s {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

func (s TagSet) Clone() TagSet {
	if s == nil {
		return nil
	}
	out := make(TagSet, len(s))
	for tag := range s {
		out[tag] = struct{}{}
	}
	return out
}

type VoxelRecord struct {
	Type       VoxelType
	MaterialID int32
	Hardness   float32
	Tags       TagSet
	Density    float32
}

// DefaultRecord is what SetVoxel writes for a type.
func DefaultRecord(t VoxelType) VoxelRecord {
	r := VoxelRecord{Type: t, Density: t.CanonicalDensity()}
	if t != Empty {
		r.Hardness = 1
	}
	return r
}

// normalized restores density > 0 <=> Type != Empty, trusting Type.
func (r VoxelRecord) normalized() VoxelRecord {
	if (r.Density > 0) != (r.Type != Empty) {
		r.Density = r.Type.CanonicalDensity()
	}
	return r
}

// Box is an axis aligned lattice region with inclusive bounds.
type Box struct {
	Min, Max Int3
}

func NewBox(a, b Int3) Box {
	box := Box{Min: a, Max: b}
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

func (b Box) Contains(p Int3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b Box) ForEach(visit func(p Int3)) {
	for z := b.Min.Z; z <= b.Max.Z; z++ {
		for y := b.Min.Y; y <= b.Max.Y; y++ {
			for x := b.Min.X; x <= b.Max.X; x++ {
				visit(Int3{x, y, z})
			}
		}
	}
}

// VoxelStore is the sparse discrete representation. A missing key is
// untouched air.
type VoxelStore struct {
	voxels map[Int3]VoxelRecord
	air    float32
}

func NewVoxelStore() *VoxelStore {
	return &VoxelStore{voxels: make(map[Int3]VoxelRecord), air: AIR_DENSITY}
}

func (s *VoxelStore) Len() int {
	return len(s.voxels)
}

func (s *VoxelStore) SetVoxel(p Int3, t VoxelType) {
	s.voxels[p] = DefaultRecord(t)
}

// SetVoxelFull writes an explicit record. A density contradicting the type
// is replaced by the type's canonical density.
func (s *VoxelStore) SetVoxelFull(p Int3, record VoxelRecord) {
	record.Tags = record.Tags.Clone()
	s.voxels[p] = record.normalized()
}

func (s *VoxelStore) GetRecord(p Int3) (VoxelRecord, bool) {
	r, ok := s.voxels[p]
	return r, ok
}

func (s *VoxelStore) GetVoxel(p Int3) VoxelType {
	return s.voxels[p].Type
}

func (s *VoxelStore) GetMaterial(p Int3) int32 {
	return s.voxels[p].MaterialID
}

func (s *VoxelStore) GetHardness(p Int3) float32 {
	return s.voxels[p].Hardness
}

func (s *VoxelStore) GetDensity(p Int3) float32 {
	if r, ok := s.voxels[p]; ok {
		return r.Density
	}
	return s.air
}

// SetMaterial, SetHardness and SetDensity only touch existing records.
func (s *VoxelStore) SetMaterial(p Int3, material int32) bool {
	r, ok := s.voxels[p]
	if !ok {
		return false
	}
	r.MaterialID = material
	s.voxels[p] = r
	return true
}

func (s *VoxelStore) SetHardness(p Int3, hardness float32) bool {
	r, ok := s.voxels[p]
	if !ok {
		return false
	}
	r.Hardness = hardness
	s.voxels[p] = r
	return true
}

// SetDensity updates the density and flips the type across the surface:
// a positive density on an Empty record makes it Solid, a non-positive one
// makes it Empty.
func (s *VoxelStore) SetDensity(p Int3, density float32) bool {
	r, ok := s.voxels[p]
	if !ok {
		return false
	}
	r.Density = density
	if density > 0 && r.Type == Empty {
		r.Type = Solid
	} else if density <= 0 {
		r.Type = Empty
	}
	s.voxels[p] = r
	return true
}

func (s *VoxelStore) RemoveVoxel(p Int3) bool {
	if _, ok := s.voxels[p]; !ok {
		return false
	}
	delete(s.voxels, p)
	return true
}

func (s *VoxelStore) IsOccupied(p Int3) bool {
	return s.voxels[p].Type != Empty
}

// ReplaceType retypes every record of type old and returns how many changed.
func (s *VoxelStore) ReplaceType(old, replacement VoxelType) int {
	changed := 0
	for p, r := range s.voxels {
		if r.Type != old {
			continue
		}
		r.Type = replacement
		r.Density = replacement.CanonicalDensity()
		s.voxels[p] = r
		changed++
	}
	return changed
}

// DuplicateVoxel copies the record at from onto to.
func (s *VoxelStore) DuplicateVoxel(from, to Int3) bool {
	r, ok := s.voxels[from]
	if !ok {
		return false
	}
	r.Tags = r.Tags.Clone()
	s.voxels[to] = r
	return true
}

// FillRegion visits every lattice point of the box; keep regions small.
func (s *VoxelStore) FillRegion(box Box, t VoxelType) {
	box.ForEach(func(p Int3) {
		s.SetVoxel(p, t)
	})
}

func (s *VoxelStore) ClearRegion(box Box) {
	box.ForEach(func(p Int3) {
		delete(s.voxels, p)
	})
}

// VoxelsInRegion returns the occupied positions inside the box in lattice order.
func (s *VoxelStore) VoxelsInRegion(box Box) []Int3 {
	out := make([]Int3, 0)
	box.ForEach(func(p Int3) {
		if s.IsOccupied(p) {
			out = append(out, p)
		}
	})
	return out
}

// Positions returns every stored key sorted.
func (s *VoxelStore) Positions() []Int3 {
	out := make([]Int3, 0, len(s.voxels))
	for p := range s.voxels {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func (s *VoxelStore) Clear() {
	s.voxels = make(map[Int3]VoxelRecord)
}

// ToField rasterizes the store into a dense field; points without a record
// get air.
func (s *VoxelStore) ToField(size Int3, air float32) *DensityField {
	field := NewDensityField(size, air)
	for p, r := range s.voxels {
		field.Set(p, r.Density)
	}
	return field
}

// LoadField replaces the store with one record per sample that differs from
// the field's air value.
func (s *VoxelStore) LoadField(field *DensityField) {
	s.Clear()
	field.ForEach(func(p Int3, value float32) {
		if value == field.Air() {
			return
		}
		t := Empty
		if value > 0 {
			t = Solid
		}
		r := DefaultRecord(t)
		r.Density = value
		s.voxels[p] = r
	})
}
