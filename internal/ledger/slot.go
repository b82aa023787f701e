package ledger

import "strings"

// FindTargetRow picks the 1-based sheet row a new trade should be written to.
// The first existing row whose every cell trims to empty is reused, so rows
// cleared by hand do not leave gaps; otherwise the row after the last
// existing one is used. There is no lock: two concurrent callers can compute
// the same target and overwrite each other.
func FindTargetRow(existingRows [][]string, firstDataRow int) int {
	for i, row := range existingRows {
		if rowIsBlank(row) {
			return firstDataRow + i
		}
	}
	return firstDataRow + len(existingRows)
}

func rowIsBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
