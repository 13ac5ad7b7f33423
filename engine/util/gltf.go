package util

import (
	"fmt"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// MeshExport is one triangle mesh in glTF attribute layout.
type MeshExport struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Colors    [][4]uint8
	Indices   []uint32
}

func (m MeshExport) TriangleCount() int {
	return len(m.Indices) / 3
}

// WriteGLTF writes the meshes as one scene with a node per mesh. A .glb
// extension selects the binary container. Meshes without triangles are
// skipped.
func WriteGLTF(filename string, meshes []MeshExport) error {
	doc := gltf.NewDocument()
	for _, mesh := range meshes {
		if len(mesh.Indices) == 0 || len(mesh.Positions) == 0 {
			continue
		}
		attributes := gltf.Attribute{
			gltf.POSITION: modeler.WritePosition(doc, mesh.Positions),
		}
		if len(mesh.Normals) == len(mesh.Positions) {
			attributes[gltf.NORMAL] = modeler.WriteNormal(doc, mesh.Normals)
		}
		if len(mesh.UVs) == len(mesh.Positions) {
			attributes[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, mesh.UVs)
		}
		if len(mesh.Colors) == len(mesh.Positions) {
			attributes[gltf.COLOR_0] = modeler.WriteColor(doc, mesh.Colors)
		}
		indices := modeler.WriteIndices(doc, mesh.Indices)

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name: mesh.Name,
			Primitives: []*gltf.Primitive{{
				Indices:    gltf.Index(indices),
				Attributes: attributes,
			}},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: mesh.Name,
			Mesh: gltf.Index(uint32(len(doc.Meshes) - 1)),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(len(doc.Nodes)-1))
	}

	var err error
	if strings.EqualFold(path.Ext(filename), ".glb") {
		err = gltf.SaveBinary(doc, filename)
	} else {
		err = gltf.Save(doc, filename)
	}
	if err != nil {
		return errors.Wrapf(err, "writing %s", filename)
	}
	LogIOInfo(fmt.Sprintf("[glTF] wrote %d meshes to %s", len(doc.Meshes), filename))
	return nil
}

// ReadGLTF loads the triangle meshes of a file written by WriteGLTF.
func ReadGLTF(filename string) ([]MeshExport, error) {
	doc, err := gltf.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", filename)
	}
	result := make([]MeshExport, 0, len(doc.Meshes))
	for _, mesh := range doc.Meshes {
		for _, primitive := range mesh.Primitives {
			export, err := readPrimitive(doc, mesh.Name, primitive)
			if err != nil {
				return nil, errors.Wrapf(err, "mesh %s", mesh.Name)
			}
			result = append(result, export)
		}
	}
	return result, nil
}

func readPrimitive(doc *gltf.Document, name string, primitive *gltf.Primitive) (MeshExport, error) {
	export := MeshExport{Name: name}
	if primitive.Mode != gltf.PrimitiveTriangles {
		return export, errors.Errorf("unsupported primitive mode %v", primitive.Mode)
	}
	var err error
	if index, ok := primitive.Attributes[gltf.POSITION]; ok {
		if export.Positions, err = modeler.ReadPosition(doc, doc.Accessors[index], nil); err != nil {
			return export, errors.Wrap(err, "positions")
		}
	}
	if index, ok := primitive.Attributes[gltf.NORMAL]; ok {
		if export.Normals, err = modeler.ReadNormal(doc, doc.Accessors[index], nil); err != nil {
			return export, errors.Wrap(err, "normals")
		}
	}
	if index, ok := primitive.Attributes[gltf.TEXCOORD_0]; ok {
		if export.UVs, err = modeler.ReadTextureCoord(doc, doc.Accessors[index], nil); err != nil {
			return export, errors.Wrap(err, "uvs")
		}
	}
	if index, ok := primitive.Attributes[gltf.COLOR_0]; ok {
		if export.Colors, err = modeler.ReadColor(doc, doc.Accessors[index], nil); err != nil {
			return export, errors.Wrap(err, "colors")
		}
	}
	if primitive.Indices != nil {
		if export.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*primitive.Indices], nil); err != nil {
			return export, errors.Wrap(err, "indices")
		}
	}
	return export, nil
}
