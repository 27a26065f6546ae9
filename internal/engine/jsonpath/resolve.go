package jsonpath

import (
	"strconv"
	"strings"
)

// Resolve evaluates a dot-path against a decoded JSON value and returns the
// value it points at, or nil when the path cannot be satisfied.
//
// Path grammar: dot-separated segments; a segment may end with a bracketed
// numeric index ("items[2]"). An indexed segment looks up the named field on
// the current object and requires it to hold an array long enough for the
// index. A plain segment applied to an array that was reached without an
// index broadcasts across the elements, so "items.sku" over an array of
// objects yields the array of skus. A terminal array is preserved as-is;
// first-element semantics belong to option discovery, not the resolver.
func Resolve(root any, path string) (out any) {
	// Mirror the caller contract: resolution fails to nil, it never panics.
	defer func() {
		if r := recover(); r != nil {
			out = nil
		}
	}()

	if strings.TrimSpace(path) == "" {
		return root
	}

	cur := root
	for _, seg := range strings.Split(path, ".") {
		if cur == nil {
			return nil
		}
		name, idx, ok := parseSegment(seg)
		if !ok {
			return nil
		}

		if idx >= 0 {
			obj, isObj := cur.(map[string]any)
			if !isObj {
				return nil
			}
			arr, isArr := obj[name].([]any)
			if !isArr || idx >= len(arr) {
				return nil
			}
			cur = arr[idx]
			continue
		}

		if arr, isArr := cur.([]any); isArr {
			// Broadcast the segment across the array, one segment per
			// array encountered. Non-object elements contribute nil.
			mapped := make([]any, len(arr))
			for i, item := range arr {
				if obj, isObj := item.(map[string]any); isObj {
					mapped[i] = obj[name]
				}
			}
			cur = mapped
			continue
		}

		obj, isObj := cur.(map[string]any)
		if !isObj {
			return nil
		}
		cur = obj[name]
	}
	return cur
}

// parseSegment splits "items[2]" into ("items", 2). A segment without an
// index yields -1. Empty names and malformed brackets fail the segment.
func parseSegment(seg string) (name string, idx int, ok bool) {
	if !strings.HasSuffix(seg, "]") {
		if seg == "" {
			return "", -1, false
		}
		return seg, -1, true
	}
	open := strings.LastIndexByte(seg, '[')
	if open <= 0 {
		return "", -1, false
	}
	n, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil || n < 0 {
		return "", -1, false
	}
	return seg[:open], n, true
}
