package preview

import (
	"feedbridge/internal/engine/mapping"
	"feedbridge/internal/engine/transform"
)

// Result is one rendered preview: the selected record transformed, or the
// per-record error when that record cannot be product-shaped. Other records
// are unaffected by a bad one.
type Result struct {
	Index       int               `json:"index"`
	RecordCount int               `json:"recordCount"`
	Product     transform.Product `json:"product,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Records returns the selectable records of an extraction: the elements of
// an array, or the value itself as the only record.
func Records(extracted any) []any {
	switch v := extracted.(type) {
	case nil:
		return nil
	case []any:
		return v
	default:
		return []any{v}
	}
}

// Render transforms the record at index. Navigation is a pure re-invocation
// per index; nothing is cached between calls.
func Render(extracted any, spec mapping.Spec, index int) Result {
	records := Records(extracted)
	count := len(records)
	if count == 0 {
		return Result{Error: "nothing to preview at the current path"}
	}
	if index < 0 {
		index = 0
	}
	if index >= count {
		index = count - 1
	}
	product, err := transform.Apply(records[index], spec)
	if err != nil {
		return Result{Index: index, RecordCount: count, Error: err.Error()}
	}
	return Result{Index: index, RecordCount: count, Product: product}
}
