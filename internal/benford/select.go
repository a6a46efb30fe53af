package benford

import "ledgerscope/domain/core"

// SelectColumn resolves which column feeds the Benford comparison. An
// explicit target must exist among the headers. Otherwise the first column in
// header order whose numeric sample meets minCount is taken.
func SelectColumn(headers []string, numeric map[string][]float64, target string, minCount int) (string, error) {
	if target != "" {
		if _, ok := numeric[target]; !ok {
			return "", core.NewColumnNotFoundError(target, headers)
		}
		return target, nil
	}

	for _, name := range headers {
		if len(numeric[name]) >= minCount {
			return name, nil
		}
	}
	return "", core.NewNoEligibleColumnError(minCount)
}
