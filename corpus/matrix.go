// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package corpus

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"regexp"

	mmap "github.com/blevesearch/mmap-go"
)

// npy v1 layout: magic, version, little-endian uint16 header length, then a
// Python dict literal describing dtype and shape, then raw row-major data.
var npyMagic = []byte("\x93NUMPY")

var npyShapePattern = regexp.MustCompile(`'shape':\s*\((\d+),\s*(\d+)\)`)

// Matrix is a read-only, memory-mapped embedding matrix in npy format.
// Row i holds the embedding vector for corpus record i. The mapping is
// shared by all concurrent readers; Matrix performs no locking because the
// underlying file never changes after open.
type Matrix struct {
	f      *os.File
	data   mmap.MMap
	rows   int
	cols   int
	offset int
}

// OpenMatrix memory-maps the npy matrix file at path. Only little-endian
// float32 ('<f4'), C-order matrices are supported.
func OpenMatrix(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: opening matrix file: %w", err)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("corpus: mapping matrix file: %w", err)
	}

	m := &Matrix{f: f, data: data}
	if err := m.parseHeader(); err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}

	want := m.offset + m.rows*m.cols*4
	if len(data) < want {
		data.Unmap()
		f.Close()
		return nil, fmt.Errorf("%w: file is %d bytes, need %d", ErrBadMatrix, len(data), want)
	}

	return m, nil
}

func (m *Matrix) parseHeader() error {
	if len(m.data) < 10 {
		return fmt.Errorf("%w: file too short for header", ErrBadMatrix)
	}
	for i, b := range npyMagic {
		if m.data[i] != b {
			return fmt.Errorf("%w: bad magic", ErrBadMatrix)
		}
	}
	if m.data[6] != 1 {
		return fmt.Errorf("%w: unsupported npy version %d.%d", ErrBadMatrix, m.data[6], m.data[7])
	}

	headerLen := int(binary.LittleEndian.Uint16(m.data[8:10]))
	m.offset = 10 + headerLen
	if len(m.data) < m.offset {
		return fmt.Errorf("%w: truncated header", ErrBadMatrix)
	}

	header := string(m.data[10:m.offset])
	if !regexp.MustCompile(`'descr':\s*'<f4'`).MatchString(header) {
		return fmt.Errorf("%w: dtype must be '<f4'", ErrBadMatrix)
	}
	if regexp.MustCompile(`'fortran_order':\s*True`).MatchString(header) {
		return fmt.Errorf("%w: fortran order not supported", ErrBadMatrix)
	}

	shape := npyShapePattern.FindStringSubmatch(header)
	if shape == nil {
		return fmt.Errorf("%w: matrix must be two-dimensional", ErrBadMatrix)
	}
	// Regexp guarantees digits; ignore conversion errors.
	fmt.Sscanf(shape[1], "%d", &m.rows)
	fmt.Sscanf(shape[2], "%d", &m.cols)
	return nil
}

// Rows returns the number of embedding rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the embedding dimension.
func (m *Matrix) Cols() int { return m.cols }

// Dot computes the dot product of row and vec.
func (m *Matrix) Dot(row int, vec []float32) (float64, error) {
	if row < 0 || row >= m.rows {
		return 0, fmt.Errorf("corpus: row %d out of range [0,%d)", row, m.rows)
	}
	if len(vec) != m.cols {
		return 0, fmt.Errorf("%w: query dimension %d, matrix dimension %d", ErrDimensionMismatch, len(vec), m.cols)
	}

	base := m.offset + row*m.cols*4
	var sum float64
	for i := 0; i < m.cols; i++ {
		bits := binary.LittleEndian.Uint32(m.data[base+i*4:])
		sum += float64(math.Float32frombits(bits)) * float64(vec[i])
	}
	return sum, nil
}

// Row returns a copy of the embedding vector at row.
func (m *Matrix) Row(row int) ([]float32, error) {
	if row < 0 || row >= m.rows {
		return nil, fmt.Errorf("corpus: row %d out of range [0,%d)", row, m.rows)
	}
	base := m.offset + row*m.cols*4
	vec := make([]float32, m.cols)
	for i := range vec {
		bits := binary.LittleEndian.Uint32(m.data[base+i*4:])
		vec[i] = math.Float32frombits(bits)
	}
	return vec, nil
}

// Close unmaps and closes the matrix file.
func (m *Matrix) Close() error {
	if err := m.data.Unmap(); err != nil {
		m.f.Close()
		return err
	}
	return m.f.Close()
}

// WriteMatrix writes vectors as an npy v1 float32 matrix file. All vectors
// must have the same length. Used by the seeder and by tests; the production
// corpus matrix is produced by the offline embedding pipeline.
func WriteMatrix(path string, vectors [][]float32) error {
	rows := len(vectors)
	cols := 0
	if rows > 0 {
		cols = len(vectors[0])
	}
	for i, v := range vectors {
		if len(v) != cols {
			return fmt.Errorf("%w: vector %d has dimension %d, want %d", ErrDimensionMismatch, i, len(v), cols)
		}
	}

	header := fmt.Sprintf("{'descr': '<f4', 'fortran_order': False, 'shape': (%d, %d), }", rows, cols)
	// Pad so the data section starts on a 64-byte boundary, newline-terminated.
	pad := 64 - (10+len(header)+1)%64
	if pad == 64 {
		pad = 0
	}
	for i := 0; i < pad; i++ {
		header += " "
	}
	header += "\n"

	buf := make([]byte, 0, 10+len(header)+rows*cols*4)
	buf = append(buf, npyMagic...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	for _, vec := range vectors {
		for _, v := range vec {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
		}
	}

	return os.WriteFile(path, buf, 0o644)
}
