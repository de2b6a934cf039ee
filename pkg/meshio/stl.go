// Package meshio reads and writes triangle meshes in STL, the
// interchange format the capture and manufacturing collaborators
// exchange. Binary STL is written; both binary and ASCII are read.
package meshio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/cartonry/cartonry/pkg/geom"
)

// binaryHeaderSize is the fixed STL header length in bytes.
const binaryHeaderSize = 80

// binaryTriangleSize is 12 floats (normal + 3 vertices) plus the
// 2-byte attribute count.
const binaryTriangleSize = 50

// Write encodes the mesh as binary STL. STL stores independent
// triangles, so shared vertices are expanded.
func Write(w io.Writer, m *geom.Mesh) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("meshio: %w", err)
	}

	bw := bufio.NewWriter(w)

	header := make([]byte, binaryHeaderSize)
	copy(header, "cartonry "+m.Name)
	if _, err := bw.Write(header); err != nil {
		return fmt.Errorf("meshio: writing header: %w", err)
	}

	count := uint32(m.TriangleCount())
	if err := binary.Write(bw, binary.LittleEndian, count); err != nil {
		return fmt.Errorf("meshio: writing triangle count: %w", err)
	}

	var rec [binaryTriangleSize]byte
	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.Triangle(t)

		// Face normal from winding; per-vertex normals do not
		// survive STL.
		n := b.Sub(a).Cross(c.Sub(a))
		if l := n.Len(); l > 1e-12 {
			n = n.Mul(1 / l)
		}

		off := 0
		for _, v := range [][3]float64{
			{n.X(), n.Y(), n.Z()},
			{a.X(), a.Y(), a.Z()},
			{b.X(), b.Y(), b.Z()},
			{c.X(), c.Y(), c.Z()},
		} {
			for _, f := range v {
				binary.LittleEndian.PutUint32(rec[off:], floatBits(f))
				off += 4
			}
		}
		rec[48], rec[49] = 0, 0 // attribute byte count

		if _, err := bw.Write(rec[:]); err != nil {
			return fmt.Errorf("meshio: writing triangle %d: %w", t, err)
		}
	}

	return bw.Flush()
}

// WriteFile writes the mesh as binary STL to path.
func WriteFile(path string, m *geom.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("meshio: %w", err)
	}
	err = Write(f, m)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// Read decodes an STL stream, detecting ASCII vs binary form.
func Read(r io.Reader) (*geom.Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("meshio: %w", err)
	}
	if isASCII(data) {
		return readASCII(data)
	}
	return readBinary(data)
}

// ReadFile reads an STL file from path.
func ReadFile(path string) (*geom.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("meshio: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// isASCII detects the ASCII form: the "solid" keyword followed by a
// "facet" keyword somewhere in the body. The keyword alone is not
// enough since binary headers often start with "solid" too.
func isASCII(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	trimmed := bytes.TrimLeft(head, " \t\r\n")
	return bytes.HasPrefix(trimmed, []byte("solid")) && bytes.Contains(head, []byte("facet"))
}

func readBinary(data []byte) (*geom.Mesh, error) {
	if len(data) < binaryHeaderSize+4 {
		return nil, fmt.Errorf("meshio: truncated binary STL (%d bytes)", len(data))
	}
	count := binary.LittleEndian.Uint32(data[binaryHeaderSize:])
	expect := binaryHeaderSize + 4 + int(count)*binaryTriangleSize
	if len(data) < expect {
		return nil, fmt.Errorf("meshio: binary STL declares %d triangles but holds %d bytes", count, len(data))
	}

	m := &geom.Mesh{
		Vertices: make([]float32, 0, count*9),
		Normals:  make([]float32, 0, count*9),
		Indices:  make([]uint32, 0, count*3),
	}

	off := binaryHeaderSize + 4
	for t := uint32(0); t < count; t++ {
		rec := data[off : off+binaryTriangleSize]
		nx := floatFrom(rec[0:])
		ny := floatFrom(rec[4:])
		nz := floatFrom(rec[8:])
		for v := 0; v < 3; v++ {
			base := 12 + v*12
			m.Vertices = append(m.Vertices,
				floatFrom(rec[base:]), floatFrom(rec[base+4:]), floatFrom(rec[base+8:]))
			m.Normals = append(m.Normals, nx, ny, nz)
			m.Indices = append(m.Indices, t*3+uint32(v))
		}
		off += binaryTriangleSize
	}
	return m, nil
}

func readASCII(data []byte) (*geom.Mesh, error) {
	m := &geom.Mesh{}
	var normal [3]float32
	vertexInFacet := 0

	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "facet":
			// "facet normal nx ny nz"
			if len(fields) == 5 && fields[1] == "normal" {
				for i := 0; i < 3; i++ {
					f, err := strconv.ParseFloat(fields[2+i], 32)
					if err != nil {
						return nil, fmt.Errorf("meshio: line %d: bad normal: %w", line, err)
					}
					normal[i] = float32(f)
				}
			}
			vertexInFacet = 0
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("meshio: line %d: vertex needs 3 coordinates", line)
			}
			for i := 0; i < 3; i++ {
				f, err := strconv.ParseFloat(fields[1+i], 32)
				if err != nil {
					return nil, fmt.Errorf("meshio: line %d: bad coordinate: %w", line, err)
				}
				m.Vertices = append(m.Vertices, float32(f))
			}
			m.Normals = append(m.Normals, normal[0], normal[1], normal[2])
			m.Indices = append(m.Indices, uint32(len(m.Indices)))
			vertexInFacet++
			if vertexInFacet > 3 {
				return nil, fmt.Errorf("meshio: line %d: facet with more than 3 vertices", line)
			}
		case "solid":
			if m.Name == "" && len(fields) > 1 {
				m.Name = fields[1]
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("meshio: %w", err)
	}
	if len(m.Vertices)%9 != 0 {
		return nil, fmt.Errorf("meshio: ASCII STL ended mid-facet")
	}
	return m, nil
}

func floatBits(f float64) uint32 {
	return math.Float32bits(float32(f))
}

func floatFrom(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
