package response

// Matrix is a table of optional values indexed [source][destination]. A nil
// cell means the pair has no route.
type Matrix [][]*float64

// At returns the cell value and whether it is present.
func (m Matrix) At(src, dst int) (float64, bool) {
	if src < 0 || src >= len(m) || dst < 0 || dst >= len(m[src]) {
		return 0, false
	}
	if v := m[src][dst]; v != nil {
		return *v, true
	}
	return 0, false
}

func (m Matrix) Rows() int { return len(m) }

// Cols returns the width of the first row.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// checkShape returns the index of the first row whose width is not cols,
// or -1.
func (m Matrix) checkShape(cols int) int {
	for i, row := range m {
		if len(row) != cols {
			return i
		}
	}
	return -1
}
