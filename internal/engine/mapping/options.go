package mapping

import (
	"sort"

	"feedbridge/internal/engine/jsonpath"
)

// DiscoverOptions derives the mappable field names from an extracted value:
// the keys of an object, or the keys of the first element of an array of
// objects (element schemas are assumed uniform). Anything else yields no
// options. This is the only place first-element semantics apply; the
// extracted dataset itself is never truncated.
//
// Decoded JSON objects carry no key order, so options come out in sorted
// key order to keep discovery deterministic.
func DiscoverOptions(extracted any) []FieldOption {
	var obj map[string]any
	switch jsonpath.Classify(extracted) {
	case jsonpath.ShapeObject:
		obj = extracted.(map[string]any)
	case jsonpath.ShapeArrayOfObjects:
		obj = extracted.([]any)[0].(map[string]any)
	default:
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Options(keys)
}
