package loaders

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/wizgrao/pathtrace/pkg/core"
)

// LoadOBJ reads a Wavefront OBJ file, consuming only vertex ("v x y z") and
// triangular face ("f a/.. b/.. c/.." or "f a b c") records. Texture
// coordinates, normals, groups, materials, smoothing groups and comments are
// accepted and discarded. Face indices are 1-based per the OBJ convention.
func LoadOBJ(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening obj file: %w", err)
	}
	defer file.Close()

	mesh := &Mesh{}
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseOBJVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		case "f":
			face, err := parseOBJFace(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			mesh.Faces = append(mesh.Faces, face)
		default:
			// vt, vn, g, o, usemtl, mtllib, s, comments: discarded.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obj file: %w", err)
	}
	return mesh, nil
}

func parseOBJVertex(fields []string) (core.Vec3, error) {
	if len(fields) < 3 {
		return core.Vec3{}, fmt.Errorf("vertex record needs 3 components, got %d", len(fields))
	}
	coords := make([]float64, 3)
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return core.Vec3{}, fmt.Errorf("parsing vertex component %q: %w", fields[i], err)
		}
		coords[i] = f
	}
	return core.NewVec3(coords[0], coords[1], coords[2]), nil
}

func parseOBJFace(fields []string) ([3]int, error) {
	if len(fields) < 3 {
		return [3]int{}, fmt.Errorf("face record needs at least 3 vertices, got %d", len(fields))
	}
	var face [3]int
	for i := 0; i < 3; i++ {
		idx, err := parseOBJFaceIndex(fields[i])
		if err != nil {
			return [3]int{}, err
		}
		face[i] = idx
	}
	return face, nil
}

// parseOBJFaceIndex extracts the vertex-index component of a face reference
// like "3", "3/1", "3//2" or "3/1/2", and converts it from OBJ's 1-based
// indexing to Go's 0-based.
func parseOBJFaceIndex(field string) (int, error) {
	vertexPart := strings.SplitN(field, "/", 2)[0]
	idx, err := strconv.Atoi(vertexPart)
	if err != nil {
		return 0, fmt.Errorf("parsing face index %q: %w", field, err)
	}
	return idx - 1, nil
}
