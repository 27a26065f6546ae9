package transform_test

import (
	"encoding/json"
	"testing"

	"feedbridge/internal/engine/mapping"
	"feedbridge/internal/engine/transform"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestApplyTitleOnly(t *testing.T) {
	t.Parallel()

	record := decode(t, `{"sku":"X1","title":"Widget","price":9.99}`)
	got, err := transform.Apply(record, mapping.Spec{TitleKey: "title"})
	require.NoError(t, err)
	require.Equal(t, transform.Product{"title": "Widget"}, got, "unmapped fields stay absent")
}

func TestApplyUnmappedTitleStaysAbsent(t *testing.T) {
	t.Parallel()

	record := decode(t, `{"sku":"X1"}`)
	got, err := transform.Apply(record, mapping.Spec{TitleKey: "title"})
	require.NoError(t, err)
	_, present := got["title"]
	require.False(t, present, "absent source value must not default to empty string")
}

func TestApplyPlacesFieldsByGroup(t *testing.T) {
	t.Parallel()

	record := decode(t, `{"name":"Widget","brand":"Acme","meta":"SEO Widget","unitCost":4.2}`)
	spec := mapping.Spec{
		TitleKey: "name",
		OptionalFieldKeys: map[mapping.FieldID]string{
			mapping.FieldVendor:            "brand",
			mapping.FieldSEOTitle:          "meta",
			mapping.FieldInventoryItemCost: "unitCost",
		},
		ActiveFields: map[mapping.FieldID]bool{
			mapping.FieldVendor:            true,
			mapping.FieldSEOTitle:          true,
			mapping.FieldInventoryItemCost: true,
		},
	}
	got, err := transform.Apply(record, spec)
	require.NoError(t, err)
	require.Equal(t, transform.Product{
		"title":         "Widget",
		"vendor":        "Acme",
		"seo":           map[string]any{"title": "SEO Widget"},
		"inventoryItem": map[string]any{"cost": 4.2},
	}, got)
}

func TestApplyOmitsEmptyNestedGroups(t *testing.T) {
	t.Parallel()

	record := decode(t, `{"name":"Widget"}`)
	spec := mapping.Spec{
		TitleKey:          "name",
		OptionalFieldKeys: map[mapping.FieldID]string{mapping.FieldSEOTitle: "missing"},
		ActiveFields:      map[mapping.FieldID]bool{mapping.FieldSEOTitle: true},
	}
	got, err := transform.Apply(record, spec)
	require.NoError(t, err)
	require.NotContains(t, got, "seo", "empty groups are dropped, never emitted as {}")
	require.NotContains(t, got, "inventoryItem")
}

func TestApplyInactiveFieldIgnored(t *testing.T) {
	t.Parallel()

	record := decode(t, `{"name":"Widget","brand":"Acme"}`)
	spec := mapping.Spec{
		TitleKey:          "name",
		OptionalFieldKeys: map[mapping.FieldID]string{mapping.FieldVendor: "brand"},
		// vendor mapped but not opted in.
	}
	got, err := transform.Apply(record, spec)
	require.NoError(t, err)
	require.NotContains(t, got, "vendor")
}

func TestApplySingleMetafieldPreservesFalsyValues(t *testing.T) {
	t.Parallel()

	record := decode(t, `{"name":"W","inStock":false,"count":0}`)
	spec := mapping.Spec{
		TitleKey: "name",
		Metafields: []mapping.Metafield{
			mapping.SingleMetafield{SourceKey: "inStock", Namespace: "custom", Key: "in_stock", Type: "boolean"},
			mapping.SingleMetafield{SourceKey: "count", Namespace: "custom", Key: "count", Type: "number_integer"},
			mapping.SingleMetafield{SourceKey: "missing", Namespace: "custom", Key: "gone", Type: "boolean"},
		},
	}
	got, err := transform.Apply(record, spec)
	require.NoError(t, err)
	metafields := got["metafields"].([]transform.Metafield)
	require.Len(t, metafields, 2, "missing source emits nothing")
	require.Equal(t, false, metafields[0].Value, "false is a valid metafield value")
	require.Equal(t, float64(0), metafields[1].Value, "zero is a valid metafield value")
}

func TestApplyDynamicMetafieldSkipsIncompleteElements(t *testing.T) {
	t.Parallel()

	record := decode(t, `{"name":"W","props":[{"k":"a","v":1},{"k":"b"},"junk",{"v":3}]}`)
	spec := mapping.Spec{
		TitleKey: "name",
		Metafields: []mapping.Metafield{
			mapping.DynamicMetafield{SourceKey: "props", Namespace: "custom", ArrayKeySource: "k", ArrayValueSource: "v", Type: "single_line_text_field"},
		},
	}
	got, err := transform.Apply(record, spec)
	require.NoError(t, err)
	metafields := got["metafields"].([]transform.Metafield)
	require.Len(t, metafields, 1)
	require.Equal(t, "a", metafields[0].Key)
	require.Equal(t, float64(1), metafields[0].Value)
}

func TestApplyNoMetafieldsKeyWhenEmpty(t *testing.T) {
	t.Parallel()

	record := decode(t, `{"name":"W"}`)
	spec := mapping.Spec{
		TitleKey: "name",
		Metafields: []mapping.Metafield{
			mapping.SingleMetafield{SourceKey: "missing", Namespace: "custom", Key: "k", Type: "t"},
		},
	}
	got, err := transform.Apply(record, spec)
	require.NoError(t, err)
	require.NotContains(t, got, "metafields")
}

func TestApplyRejectsNonObjectRecord(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{`"scalar"`, `[1,2]`, `null`, `42`} {
		_, err := transform.Apply(decode(t, raw), mapping.Spec{TitleKey: "title"})
		var recErr *transform.RecordError
		require.ErrorAs(t, err, &recErr, "record %s", raw)
	}
}

func TestApplyIsPure(t *testing.T) {
	t.Parallel()

	record := decode(t, `{"name":"W","props":[{"k":"a","v":1}],"brand":"Acme"}`)
	spec := mapping.Spec{
		TitleKey:          "name",
		OptionalFieldKeys: map[mapping.FieldID]string{mapping.FieldVendor: "brand"},
		ActiveFields:      map[mapping.FieldID]bool{mapping.FieldVendor: true},
		Metafields: []mapping.Metafield{
			mapping.DynamicMetafield{SourceKey: "props", Namespace: "custom", ArrayKeySource: "k", ArrayValueSource: "v", Type: "t"},
		},
	}
	before := decode(t, `{"name":"W","props":[{"k":"a","v":1}],"brand":"Acme"}`)

	first, err := transform.Apply(record, spec)
	require.NoError(t, err)
	second, err := transform.Apply(record, spec)
	require.NoError(t, err)

	require.Equal(t, first, second, "identical inputs yield deep-equal outputs")
	require.Equal(t, before, record, "record is never mutated")
}
