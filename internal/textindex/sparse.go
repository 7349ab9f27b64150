// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package textindex

// Matrix is a row-major compressed sparse matrix with single-precision
// values. Row i of the document-term matrix corresponds exactly to
// catalog row i; rows are appended once at build time and never mutated
// afterwards, so concurrent readers need no locking.
//
// All fields are exported for gob serialization of index artifacts.
type Matrix struct {
	RowCount int
	ColCount int

	// RowPtr has RowCount+1 entries; row i occupies the half-open
	// range [RowPtr[i], RowPtr[i+1]) of ColIdx/Values.
	RowPtr []int64
	ColIdx []int32
	Values []float32
}

// NewMatrix creates an empty matrix with the given column count.
func NewMatrix(cols int) *Matrix {
	return &Matrix{
		ColCount: cols,
		RowPtr:   []int64{0},
	}
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.RowCount }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.ColCount }

// NNZ returns the number of stored non-zero entries.
func (m *Matrix) NNZ() int { return len(m.Values) }

// AppendRow adds a row given parallel column/value slices. Columns must
// be strictly increasing; the caller owns normalization.
func (m *Matrix) AppendRow(cols []int32, vals []float32) {
	m.ColIdx = append(m.ColIdx, cols...)
	m.Values = append(m.Values, vals...)
	m.RowCount++
	m.RowPtr = append(m.RowPtr, int64(len(m.Values)))
}

// Row returns the column indices and values of row i as views into the
// underlying storage. Callers must not modify the returned slices.
func (m *Matrix) Row(i int) ([]int32, []float32) {
	lo, hi := m.RowPtr[i], m.RowPtr[i+1]
	return m.ColIdx[lo:hi], m.Values[lo:hi]
}

// AccumulateRow adds scale times row i into the dense vector.
// len(dense) must equal Cols().
func (m *Matrix) AccumulateRow(i int, scale float32, dense []float32) {
	cols, vals := m.Row(i)
	for j, c := range cols {
		dense[c] += scale * vals[j]
	}
}

// MulDense computes the product of every row with a dense vector,
// returning one score per row. With L2-normalized rows and a query built
// from those rows, each score is the cosine similarity.
func (m *Matrix) MulDense(dense []float32) []float64 {
	scores := make([]float64, m.RowCount)
	for i := 0; i < m.RowCount; i++ {
		cols, vals := m.Row(i)
		var sum float64
		for j, c := range cols {
			sum += float64(vals[j]) * float64(dense[c])
		}
		scores[i] = sum
	}
	return scores
}
