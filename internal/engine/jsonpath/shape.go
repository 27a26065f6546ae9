package jsonpath

// Shape buckets a decoded JSON value into the categories the mapping layer
// cares about. Only ShapeObject and ShapeArrayOfObjects are mappable.
type Shape int

const (
	ShapeNull Shape = iota
	ShapeScalar
	ShapeObject
	ShapeArrayOfObjects
	ShapeArrayOfScalars
)

func (s Shape) String() string {
	switch s {
	case ShapeNull:
		return "null"
	case ShapeScalar:
		return "scalar"
	case ShapeObject:
		return "object"
	case ShapeArrayOfObjects:
		return "array_of_objects"
	case ShapeArrayOfScalars:
		return "array_of_scalars"
	default:
		return "unknown"
	}
}

// Mappable reports whether field names can be discovered from a value of
// this shape.
func (s Shape) Mappable() bool {
	return s == ShapeObject || s == ShapeArrayOfObjects
}

// Classify is the single shape check shared by option discovery, spec
// validation and suggestion merging. An array is classified by its first
// element; an empty array has no element shape and counts as scalars.
func Classify(v any) Shape {
	switch t := v.(type) {
	case nil:
		return ShapeNull
	case map[string]any:
		return ShapeObject
	case []any:
		if len(t) == 0 {
			return ShapeArrayOfScalars
		}
		if _, isObj := t[0].(map[string]any); isObj {
			return ShapeArrayOfObjects
		}
		return ShapeArrayOfScalars
	default:
		return ShapeScalar
	}
}
