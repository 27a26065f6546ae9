package mapping_test

import (
	"encoding/json"
	"testing"

	"feedbridge/internal/engine/mapping"

	"github.com/stretchr/testify/require"
)

func TestMergeSuggestionsAcceptsValidEntries(t *testing.T) {
	t.Parallel()

	sample := decode(t, `{"name":"Widget","brand":"Acme","props":[{"k":"color","v":"red"}]}`)
	opts := options("name", "brand", "props")

	sug := mapping.Suggestion{
		TitleKey:          "name",
		OptionalFieldKeys: map[string]string{"vendor": "brand"},
		Metafields: []mapping.Metafield{
			mapping.DynamicMetafield{SourceKey: "props", Namespace: "custom", ArrayKeySource: "k", ArrayValueSource: "v", Type: "single_line_text_field"},
		},
	}
	got, rejected := mapping.MergeSuggestions(mapping.Spec{}, sug, opts, sample)
	require.Empty(t, rejected)
	require.Equal(t, "name", got.TitleKey)
	require.Equal(t, "brand", got.OptionalFieldKeys[mapping.FieldVendor])
	require.True(t, got.ActiveFields[mapping.FieldVendor])
	require.Len(t, got.Metafields, 1)
}

func TestMergeSuggestionsDropsBadEntriesIndividually(t *testing.T) {
	t.Parallel()

	sample := decode(t, `{"name":"Widget","brand":"Acme","flat":"x"}`)
	opts := options("name", "brand", "flat")

	sug := mapping.Suggestion{
		TitleKey: "missing",
		OptionalFieldKeys: map[string]string{
			"vendor":   "brand",   // valid
			"nonsense": "brand",   // unknown standard field
			"sku":      "missing", // unknown source key
			"title":    "name",    // title goes through titleKey
		},
		Metafields: []mapping.Metafield{
			mapping.SingleMetafield{SourceKey: "brand", Namespace: "custom", Key: "brand", Type: "t"},  // valid
			mapping.SingleMetafield{SourceKey: "brand", Namespace: "custom", Type: "t"},                // missing key
			mapping.DynamicMetafield{SourceKey: "flat", Namespace: "custom", ArrayKeySource: "k", ArrayValueSource: "v", Type: "t"}, // not an array
		},
	}
	got, rejected := mapping.MergeSuggestions(mapping.Spec{TitleKey: "name"}, sug, opts, sample)

	// One bad entry never aborts the merge.
	require.Equal(t, "name", got.TitleKey, "stale title suggestion leaves existing titleKey alone")
	require.Equal(t, "brand", got.OptionalFieldKeys[mapping.FieldVendor])
	require.NotContains(t, got.OptionalFieldKeys, mapping.FieldSKU)
	require.Len(t, got.Metafields, 1)
	require.Len(t, rejected, 6)
}

func TestMergeSuggestionsChecksDynamicElementShape(t *testing.T) {
	t.Parallel()

	sample := decode(t, `{"name":"W","props":[{"k":"a","v":1}]}`)
	opts := options("name", "props")

	sug := mapping.Suggestion{
		Metafields: []mapping.Metafield{
			mapping.DynamicMetafield{SourceKey: "props", Namespace: "custom", ArrayKeySource: "nope", ArrayValueSource: "v", Type: "t"},
		},
	}
	got, rejected := mapping.MergeSuggestions(mapping.Spec{}, sug, opts, sample)
	require.Empty(t, got.Metafields)
	require.Len(t, rejected, 1)
	require.Contains(t, rejected[0].Reason, "nope")
}

func TestMergeSuggestionsMergesNotReplaces(t *testing.T) {
	t.Parallel()

	existing := mapping.Spec{
		TitleKey:          "name",
		OptionalFieldKeys: map[mapping.FieldID]string{mapping.FieldVendor: "brand"},
		ActiveFields:      map[mapping.FieldID]bool{mapping.FieldVendor: true},
		Metafields: []mapping.Metafield{
			mapping.SingleMetafield{SourceKey: "brand", Namespace: "custom", Key: "mine", Type: "t"},
		},
	}
	sample := decode(t, `{"name":"W","brand":"A","color":"red"}`)
	sug := mapping.Suggestion{
		OptionalFieldKeys: map[string]string{"productType": "color"},
		Metafields: []mapping.Metafield{
			mapping.SingleMetafield{SourceKey: "color", Namespace: "custom", Key: "color", Type: "t"},
		},
	}
	got, rejected := mapping.MergeSuggestions(existing, sug, options("name", "brand", "color"), sample)
	require.Empty(t, rejected)
	require.Equal(t, "brand", got.OptionalFieldKeys[mapping.FieldVendor], "existing mapping survives")
	require.Equal(t, "color", got.OptionalFieldKeys[mapping.FieldProductType])
	require.Len(t, got.Metafields, 2)
	require.Equal(t, "mine", got.Metafields[0].(mapping.SingleMetafield).Key, "user rows come first")
}

func TestSuggestionUnmarshalTaggedMetafields(t *testing.T) {
	t.Parallel()

	raw := `{
		"titleKey": "name",
		"optionalFieldKeys": {"vendor": "brand"},
		"metafieldMappings": [
			{"mappingType":"single","sourceKey":"color","metafieldNamespace":"custom","metafieldKey":"color","metafieldType":"single_line_text_field"},
			{"mappingType":"dynamic_from_array","sourceKey":"props","metafieldNamespace":"custom","arrayKeySource":"k","arrayValueSource":"v","metafieldType":"single_line_text_field"}
		]
	}`
	var sug mapping.Suggestion
	require.NoError(t, json.Unmarshal([]byte(raw), &sug))
	require.Equal(t, "name", sug.TitleKey)
	require.Len(t, sug.Metafields, 2)
	require.IsType(t, mapping.SingleMetafield{}, sug.Metafields[0])
	require.IsType(t, mapping.DynamicMetafield{}, sug.Metafields[1])
}
