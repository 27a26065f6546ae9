package suggest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"feedbridge/internal/engine/mapping"
	"feedbridge/internal/llm"
)

const suggestionPrompt = `You are configuring a product feed integration.
Given the source fields of one record, the sample record itself and the list
of standard target fields, propose a mapping. Respond with JSON only:
{"titleKey": string, "optionalFieldKeys": {standardFieldId: sourceField},
"metafieldMappings": [{"mappingType": "single"|"dynamic_from_array",
"sourceKey": string, "metafieldNamespace": string, "metafieldKey": string,
"metafieldType": string, "arrayKeySource": string, "arrayValueSource": string}]}.
Only reference source fields that exist. Prefer leaving a field unmapped over
guessing.`

// Service asks the model for a mapping suggestion and merges it into the
// working spec. The model's output is untrusted; every entry passes the
// same validation as a user edit and bad entries are dropped one by one.
type Service struct {
	client llm.Client
}

func New(client llm.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *Service) Suggest(ctx context.Context, spec mapping.Spec, options []mapping.FieldOption, sample any) (mapping.Spec, []mapping.Rejection, error) {
	if !s.Enabled() {
		return spec, nil, errors.New("suggestions are not configured")
	}
	sourceFields := make([]string, 0, len(options))
	for _, o := range options {
		sourceFields = append(sourceFields, o.Value)
	}
	input := map[string]any{
		"standardFields": mapping.Catalog(),
		"sourceFields":   sourceFields,
		"sampleRecord":   sample,
	}
	raw, err := s.client.GenerateJSON(ctx, suggestionPrompt, input)
	if err != nil {
		return spec, nil, fmt.Errorf("suggestion request: %w", err)
	}
	var sug mapping.Suggestion
	if err := json.Unmarshal(raw, &sug); err != nil {
		return spec, nil, fmt.Errorf("suggestion decode: %w", err)
	}
	merged, rejected := mapping.MergeSuggestions(spec, sug, options, sample)
	for _, r := range rejected {
		log.Printf("suggestion dropped (%s): %s", r.Target, r.Reason)
	}
	return merged, rejected, nil
}
