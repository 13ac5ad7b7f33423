package voxel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeTableMatchesCornerSigns(t *testing.T) {
	for cubeIndex := 0; cubeIndex < 256; cubeIndex++ {
		var expected uint16
		for e, corners := range edgeCorners {
			a := cubeIndex>>uint(corners[0])&1 == 1
			b := cubeIndex>>uint(corners[1])&1 == 1
			if a != b {
				expected |= 1 << uint(e)
			}
		}
		assert.Equalf(t, expected, EdgeTable[cubeIndex], "cube index %d", cubeIndex)
	}
}

func TestEdgeTableZeroOnlyForUniformCubes(t *testing.T) {
	for cubeIndex := 0; cubeIndex < 256; cubeIndex++ {
		uniform := cubeIndex == 0 || cubeIndex == 255
		assert.Equalf(t, uniform, EdgeTable[cubeIndex] == 0, "cube index %d", cubeIndex)
	}
}

func TestTriTableUsesOnlyCrossedEdges(t *testing.T) {
	for cubeIndex := 0; cubeIndex < 256; cubeIndex++ {
		row := TriTable[cubeIndex]
		n := 0
		for n < len(row) && row[n] != -1 {
			edge := row[n]
			assert.Truef(t, edge >= 0 && edge < 12, "cube %d: edge %d out of range", cubeIndex, edge)
			assert.NotZerof(t, EdgeTable[cubeIndex]&(1<<uint(edge)), "cube %d uses uncrossed edge %d", cubeIndex, edge)
			n++
		}
		assert.Zerof(t, n%3, "cube %d has a partial triangle", cubeIndex)
		assert.LessOrEqualf(t, n, 15, "cube %d has more than five triangles", cubeIndex)
		for ; n < len(row); n++ {
			assert.Equalf(t, int8(-1), row[n], "cube %d not padded", cubeIndex)
		}
		if EdgeTable[cubeIndex] != 0 {
			assert.NotEqualf(t, int8(-1), row[0], "cube %d crosses edges but emits nothing", cubeIndex)
		}
	}
}

func TestTablesAreComplementSymmetric(t *testing.T) {
	for cubeIndex := 0; cubeIndex < 256; cubeIndex++ {
		assert.Equal(t, EdgeTable[cubeIndex], EdgeTable[255-cubeIndex])
	}
}
