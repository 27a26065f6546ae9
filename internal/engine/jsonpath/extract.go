package jsonpath

import "fmt"

// EmptyError reports a path that resolves to nothing: a missing field, an
// out-of-range index, or an explicit null. Recoverable; the caller clears
// mapping state and lets the user edit the path.
type EmptyError struct {
	Path string
}

func (e *EmptyError) Error() string {
	return fmt.Sprintf("path %q resolves to nothing", e.Path)
}

// ShapeError reports a path that resolves to a value field names cannot be
// discovered from (a scalar, or an array of scalars).
type ShapeError struct {
	Path string
	Got  Shape
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("path %q resolves to %s, expected an object or an array of objects", e.Path, e.Got)
}

// Extract is the entry point the gateway calls on every path edit. It
// resolves the path and requires a mappable shape at the target, reporting
// failures as typed errors rather than panics.
func Extract(doc any, path string) (any, error) {
	v := Resolve(doc, path)
	shape := Classify(v)
	switch {
	case shape == ShapeNull:
		return nil, &EmptyError{Path: path}
	case !shape.Mappable():
		return nil, &ShapeError{Path: path, Got: shape}
	default:
		return v, nil
	}
}
