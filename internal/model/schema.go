package model

import "fmt"

// CheckSchema verifies that a classifier was trained on exactly the columns in want,
// in the same order. When the classifier declares no names only the count is compared
// and declared is false.
func CheckSchema(c Classifier, want []string) (declared bool, err error) {
	got := c.Features()
	if len(got) == 0 {
		if c.NumFeatures() != len(want) {
			return false, fmt.Errorf("%w: model expects %d features, input has %d",
				ErrSchemaMismatch, c.NumFeatures(), len(want))
		}
		return false, nil
	}

	if len(got) != len(want) {
		return true, fmt.Errorf("%w: model declares %d features, input has %d",
			ErrSchemaMismatch, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			return true, fmt.Errorf("%w: position %d is %q in the model, %q in the input",
				ErrSchemaMismatch, i, got[i], want[i])
		}
	}
	return true, nil
}
