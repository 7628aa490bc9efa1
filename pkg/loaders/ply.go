package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/wizgrao/pathtrace/pkg/core"
)

// Mesh is the common output of every mesh reader: a flat vertex list and a
// list of triangles referencing it by index.
type Mesh struct {
	Vertices []core.Vec3
	Faces    [][3]int
}

// plyProperty is a single "property ..." header line.
type plyProperty struct {
	name     string
	typ      string
	isList   bool
	listType string
	dataType string
}

// plyHeader is the subset of a PLY header this reader cares about: element
// counts and the byte layout of the vertex element. Properties outside
// x/y/z (normals, colors, texture coordinates, confidence, ...) are parsed
// only far enough to know how many bytes to skip.
type plyHeader struct {
	format      string
	vertexCount int
	faceCount   int
	vertexProps []plyProperty
	faceProps   []plyProperty
	xIdx        int
	yIdx        int
	zIdx        int
}

// LoadPLY reads a binary-little-endian PLY mesh, keeping only vertex
// positions and triangular faces. All other vertex/face properties present
// in the file are read from the header and skipped byte-for-byte.
func LoadPLY(filename string) (*Mesh, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	header, headerSize, err := parsePLYHeader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}
	if header.format != "binary_little_endian" {
		return nil, fmt.Errorf("unsupported PLY format: %s (only binary_little_endian is supported)", header.format)
	}
	if _, err := file.Seek(int64(headerSize), io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to PLY vertex data: %w", err)
	}

	mesh, err := readPLYBody(file, header)
	if err != nil {
		return nil, fmt.Errorf("failed to read PLY body: %w", err)
	}
	return mesh, nil
}

func parsePLYHeader(file *os.File) (*plyHeader, int, error) {
	header := &plyHeader{xIdx: -1, yIdx: -1, zIdx: -1}

	scanner := bufio.NewScanner(file)
	var bytesRead int
	var currentElement string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		bytesRead += len(scanner.Bytes()) + 1

		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 2 {
				header.format = parts[1]
			}
		case "element":
			if len(parts) < 3 {
				continue
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, 0, fmt.Errorf("invalid element count: %s", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.vertexCount = count
			case "face":
				header.faceCount = count
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, 0, fmt.Errorf("failed to parse property: %w", err)
			}
			switch currentElement {
			case "vertex":
				header.vertexProps = append(header.vertexProps, prop)
				switch prop.name {
				case "x":
					header.xIdx = len(header.vertexProps) - 1
				case "y":
					header.yIdx = len(header.vertexProps) - 1
				case "z":
					header.zIdx = len(header.vertexProps) - 1
				}
			case "face":
				header.faceProps = append(header.faceProps, prop)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("error reading header: %w", err)
	}
	if header.xIdx < 0 || header.yIdx < 0 || header.zIdx < 0 {
		return nil, 0, fmt.Errorf("PLY vertex element is missing x/y/z properties")
	}
	return header, bytesRead, nil
}

func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) < 2 {
		return plyProperty{}, fmt.Errorf("invalid property definition")
	}
	if parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, fmt.Errorf("invalid list property definition")
		}
		return plyProperty{isList: true, listType: parts[1], dataType: parts[2], name: parts[3]}, nil
	}
	return plyProperty{typ: parts[0], name: parts[1]}, nil
}

func readPLYBody(file *os.File, header *plyHeader) (*Mesh, error) {
	vertices := make([]core.Vec3, 0, header.vertexCount)
	vertexSize := plyVertexSize(header.vertexProps)
	raw := make([]byte, vertexSize*header.vertexCount)
	if _, err := io.ReadFull(file, raw); err != nil {
		return nil, fmt.Errorf("failed to read vertex block: %w", err)
	}

	offsets := make([]int, len(header.vertexProps))
	off := 0
	for i, p := range header.vertexProps {
		offsets[i] = off
		off += plyTypeSize(p.typ)
	}

	for i := 0; i < header.vertexCount; i++ {
		base := raw[i*vertexSize : (i+1)*vertexSize]
		x := readPLYFloat(base[offsets[header.xIdx]:], header.vertexProps[header.xIdx].typ)
		y := readPLYFloat(base[offsets[header.yIdx]:], header.vertexProps[header.yIdx].typ)
		z := readPLYFloat(base[offsets[header.zIdx]:], header.vertexProps[header.zIdx].typ)
		vertices = append(vertices, core.NewVec3(x, y, z))
	}

	faces := make([][3]int, 0, header.faceCount)
	buf := bufio.NewReaderSize(file, 1<<20)
	for i := 0; i < header.faceCount; i++ {
		var tri [3]int
		found := false
		for _, prop := range header.faceProps {
			if prop.isList && prop.name == "vertex_indices" {
				idx, err := readPLYFaceIndices(buf, prop)
				if err != nil {
					return nil, fmt.Errorf("face %d: %w", i, err)
				}
				tri = idx
				found = true
				continue
			}
			if err := skipPLYProperty(buf, prop); err != nil {
				return nil, fmt.Errorf("face %d: skipping %s: %w", i, prop.name, err)
			}
		}
		if !found {
			return nil, fmt.Errorf("face %d: no vertex_indices property present", i)
		}
		faces = append(faces, tri)
	}

	return &Mesh{Vertices: vertices, Faces: faces}, nil
}

func readPLYFaceIndices(r *bufio.Reader, prop plyProperty) ([3]int, error) {
	var count int
	switch prop.listType {
	case "uchar", "uint8":
		var c uint8
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return [3]int{}, err
		}
		count = int(c)
	case "int", "int32", "uint", "uint32":
		var c int32
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return [3]int{}, err
		}
		count = int(c)
	default:
		return [3]int{}, fmt.Errorf("unsupported list count type: %s", prop.listType)
	}
	if count != 3 {
		return [3]int{}, fmt.Errorf("only triangular faces are supported, got %d indices", count)
	}
	var tri [3]int
	for i := 0; i < 3; i++ {
		switch prop.dataType {
		case "int", "int32":
			var v int32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return [3]int{}, err
			}
			tri[i] = int(v)
		case "uint", "uint32":
			var v uint32
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return [3]int{}, err
			}
			tri[i] = int(v)
		default:
			return [3]int{}, fmt.Errorf("unsupported index data type: %s", prop.dataType)
		}
	}
	return tri, nil
}

func skipPLYProperty(r *bufio.Reader, prop plyProperty) error {
	if !prop.isList {
		return skipPLYType(r, prop.typ)
	}
	var count uint8
	switch prop.listType {
	case "uchar", "uint8":
		if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported list count type: %s", prop.listType)
	}
	for i := 0; i < int(count); i++ {
		if err := skipPLYType(r, prop.dataType); err != nil {
			return err
		}
	}
	return nil
}

func skipPLYType(r *bufio.Reader, dataType string) error {
	n := plyTypeSize(dataType)
	_, err := io.CopyN(io.Discard, r, int64(n))
	return err
}

func plyVertexSize(props []plyProperty) int {
	size := 0
	for _, p := range props {
		size += plyTypeSize(p.typ)
	}
	return size
}

func plyTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 4
	}
}

func readPLYFloat(b []byte, dataType string) float64 {
	switch dataType {
	case "double", "float64":
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	default:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
}
