package suggest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"feedbridge/internal/engine/mapping"
	"feedbridge/internal/gateway/service/suggest"
	"feedbridge/internal/llm"
)

func TestSuggestMergesFakePayload(t *testing.T) {
	t.Parallel()

	fake := llm.NewFakeClient(`{
		"titleKey": "product_name",
		"optionalFieldKeys": {"vendor": "brand", "bogusField": "brand", "sku": "missing_key"},
		"metafieldMappings": [
			{"mappingType": "single", "sourceKey": "color", "metafieldNamespace": "custom", "metafieldKey": "color", "metafieldType": "single_line_text_field"}
		]
	}`)
	svc := suggest.New(fake)

	options := mapping.Options([]string{"product_name", "brand", "color"})
	sample := map[string]any{"product_name": "Widget", "brand": "Acme", "color": "red"}

	merged, rejected, err := svc.Suggest(context.Background(), mapping.Spec{}, options, sample)
	require.NoError(t, err)

	require.Equal(t, "product_name", merged.TitleKey)
	require.Equal(t, "brand", merged.OptionalFieldKeys[mapping.FieldVendor])
	require.True(t, merged.ActiveFields[mapping.FieldVendor])
	require.Len(t, merged.Metafields, 1)

	// Unknown target and missing source each get their own rejection.
	require.Len(t, rejected, 2)
}

func TestSuggestClientError(t *testing.T) {
	t.Parallel()

	fake := &llm.FakeClient{Err: errors.New("quota exceeded")}
	svc := suggest.New(fake)

	spec := mapping.Spec{TitleKey: "name"}
	got, _, err := svc.Suggest(context.Background(), spec, mapping.Options([]string{"name"}), nil)
	require.Error(t, err)
	require.Equal(t, spec.TitleKey, got.TitleKey)
}

func TestSuggestMalformedPayload(t *testing.T) {
	t.Parallel()

	fake := llm.NewFakeClient(`not json at all`)
	svc := suggest.New(fake)

	_, _, err := svc.Suggest(context.Background(), mapping.Spec{}, mapping.Options([]string{"name"}), nil)
	require.Error(t, err)
}

func TestSuggestDisabled(t *testing.T) {
	t.Parallel()

	svc := suggest.New(nil)
	require.False(t, svc.Enabled())

	_, _, err := svc.Suggest(context.Background(), mapping.Spec{}, nil, nil)
	require.Error(t, err)
}
