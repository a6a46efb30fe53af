package xlsx

// ColumnIndex decodes the column letters of a cell reference like "BA17" into
// a zero-based column index. Letters form a base-26 positional number with
// A=1..Z=26, so A->0, Z->25, AA->26, AZ->51, BA->52. Digits and any other
// characters in the reference are ignored.
func ColumnIndex(cellRef string) int {
	index := 0
	for _, ch := range cellRef {
		switch {
		case ch >= 'A' && ch <= 'Z':
			index = index*26 + int(ch-'A') + 1
		case ch >= 'a' && ch <= 'z':
			index = index*26 + int(ch-'a') + 1
		}
	}
	return index - 1
}
