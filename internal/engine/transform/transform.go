package transform

import (
	"fmt"

	"feedbridge/internal/engine/mapping"
)

// Product is the target document produced for one source record. Fields the
// spec does not map are absent, which keeps "unmapped" distinguishable from
// "mapped to an empty value" in previews.
type Product map[string]any

// Metafield is one namespaced extension value on the target product.
type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     any    `json:"value"`
}

// RecordError marks a source record that is not an object. It only affects
// that record; other records in a multi-record preview transform normally.
type RecordError struct {
	Got any
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("source record is not an object (got %T)", e.Got)
}

// Apply maps one source record onto the target product shape. It is a pure
// function of (record, spec): it never mutates either, and malformed fields
// simply do not appear in the output rather than failing the transform.
func Apply(record any, spec mapping.Spec) (Product, error) {
	rec, isObj := record.(map[string]any)
	if !isObj {
		return nil, &RecordError{Got: record}
	}

	product := Product{}
	seo := map[string]any{}
	inventory := map[string]any{}

	if spec.TitleKey != "" {
		if v, present := rec[spec.TitleKey]; present {
			product["title"] = v
		}
	}

	// Catalog order keeps placement deterministic across calls.
	for _, id := range mapping.Catalog() {
		if id == mapping.FieldTitle || !spec.ActiveFields[id] {
			continue
		}
		sourceKey := spec.OptionalFieldKeys[id]
		if sourceKey == "" {
			continue
		}
		v, present := rec[sourceKey]
		if !present {
			continue
		}
		pl, ok := mapping.PlacementOf(id)
		if !ok {
			continue
		}
		switch pl.Group {
		case mapping.GroupSEO:
			seo[pl.Key] = v
		case mapping.GroupInventoryItem:
			inventory[pl.Key] = v
		default:
			product[pl.Key] = v
		}
	}

	// Empty nested groups are dropped, never emitted as {}.
	if len(seo) > 0 {
		product["seo"] = seo
	}
	if len(inventory) > 0 {
		product["inventoryItem"] = inventory
	}

	if metafields := buildMetafields(rec, spec.Metafields); len(metafields) > 0 {
		product["metafields"] = metafields
	}
	return product, nil
}

func buildMetafields(rec map[string]any, mappings []mapping.Metafield) []Metafield {
	var out []Metafield
	for _, m := range mappings {
		switch mf := m.(type) {
		case mapping.SingleMetafield:
			// Presence, not truthiness: false and 0 are valid values.
			v, present := rec[mf.SourceKey]
			if !present {
				continue
			}
			out = append(out, Metafield{
				Namespace: mf.Namespace,
				Key:       mf.Key,
				Type:      mf.Type,
				Value:     v,
			})
		case mapping.DynamicMetafield:
			arr, isArr := rec[mf.SourceKey].([]any)
			if !isArr {
				continue
			}
			for _, el := range arr {
				obj, isObj := el.(map[string]any)
				if !isObj {
					continue
				}
				k, hasKey := obj[mf.ArrayKeySource]
				v, hasVal := obj[mf.ArrayValueSource]
				if !hasKey || !hasVal {
					// Heterogeneous arrays are expected; skip, don't fail.
					continue
				}
				out = append(out, Metafield{
					Namespace: mf.Namespace,
					Key:       stringifyKey(k),
					Type:      mf.Type,
					Value:     v,
				})
			}
		}
	}
	return out
}

func stringifyKey(k any) string {
	if s, isStr := k.(string); isStr {
		return s
	}
	return fmt.Sprint(k)
}
