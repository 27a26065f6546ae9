package mapping

import (
	"encoding/json"
	"fmt"
	"sort"

	"feedbridge/internal/engine/jsonpath"
)

// Suggestion is a partial spec produced outside the engine, typically by the
// suggestion model. Nothing in it is trusted until MergeSuggestions has
// checked every entry against the current options and the sample record.
type Suggestion struct {
	TitleKey          string
	OptionalFieldKeys map[string]string
	Metafields        []Metafield
}

func (s *Suggestion) UnmarshalJSON(data []byte) error {
	var wire struct {
		TitleKey          string            `json:"titleKey"`
		OptionalFieldKeys map[string]string `json:"optionalFieldKeys"`
		Metafields        []json.RawMessage `json:"metafieldMappings"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	mfs, err := unmarshalMetafields(wire.Metafields)
	if err != nil {
		return err
	}
	*s = Suggestion{
		TitleKey:          wire.TitleKey,
		OptionalFieldKeys: wire.OptionalFieldKeys,
		Metafields:        mfs,
	}
	return nil
}

// Rejection records one suggested mapping that failed validation and was
// dropped. Rejections are surfaced for logging; they never abort the merge.
type Rejection struct {
	Target string `json:"target"`
	Reason string `json:"reason"`
}

// MergeSuggestions folds a suggestion into spec, entry by entry. Valid
// entries overwrite their counterparts; invalid entries are dropped
// individually and reported. The existing spec is never replaced wholesale,
// and suggested metafield rows append after the user's own rows.
//
// sample is one source record from the current extraction; dynamic metafield
// suggestions are checked against the actual array shape found there.
func MergeSuggestions(spec Spec, sug Suggestion, options []FieldOption, sample any) (Spec, []Rejection) {
	valid := make(map[string]bool, len(options))
	for _, o := range options {
		valid[o.Value] = true
	}

	out := spec.Clone()
	var rejected []Rejection

	if sug.TitleKey != "" {
		if valid[sug.TitleKey] {
			out.TitleKey = sug.TitleKey
		} else {
			rejected = append(rejected, Rejection{
				Target: "titleKey",
				Reason: fmt.Sprintf("source key %q is not a current field option", sug.TitleKey),
			})
		}
	}

	for _, rawID := range sortedSuggestionIDs(sug.OptionalFieldKeys) {
		key := sug.OptionalFieldKeys[rawID]
		id := FieldID(rawID)
		switch {
		case !KnownField(id):
			rejected = append(rejected, Rejection{
				Target: rawID,
				Reason: "unknown standard field",
			})
		case id == FieldTitle:
			// The title has its own slot; a title entry here is malformed.
			rejected = append(rejected, Rejection{
				Target: rawID,
				Reason: "title is mapped through titleKey",
			})
		case !valid[key]:
			rejected = append(rejected, Rejection{
				Target: rawID,
				Reason: fmt.Sprintf("source key %q is not a current field option", key),
			})
		default:
			if out.OptionalFieldKeys == nil {
				out.OptionalFieldKeys = make(map[FieldID]string)
			}
			if out.ActiveFields == nil {
				out.ActiveFields = make(map[FieldID]bool)
			}
			out.OptionalFieldKeys[id] = key
			out.ActiveFields[id] = true
		}
	}

	for i, m := range sug.Metafields {
		target := fmt.Sprintf("metafieldMappings[%d]", i)
		if reason := vetSuggestedMetafield(m, valid, sample); reason != "" {
			rejected = append(rejected, Rejection{Target: target, Reason: reason})
			continue
		}
		out.Metafields = append(out.Metafields, m)
	}

	return out, rejected
}

func vetSuggestedMetafield(m Metafield, valid map[string]bool, sample any) string {
	if !valid[m.Source()] {
		return fmt.Sprintf("source key %q is not a current field option", m.Source())
	}
	dyn, isDyn := m.(DynamicMetafield)
	if !isDyn {
		if single, ok := m.(SingleMetafield); ok && single.Key == "" {
			return "metafield key is required"
		}
		return ""
	}
	if dyn.ArrayKeySource == "" || dyn.ArrayValueSource == "" {
		return "arrayKeySource and arrayValueSource are required"
	}
	rec, isObj := sample.(map[string]any)
	if !isObj {
		return "no sample record to check the array shape against"
	}
	arr := rec[dyn.SourceKey]
	if jsonpath.Classify(arr) != jsonpath.ShapeArrayOfObjects {
		return fmt.Sprintf("source key %q does not hold an array of objects", dyn.SourceKey)
	}
	first := arr.([]any)[0].(map[string]any)
	if _, ok := first[dyn.ArrayKeySource]; !ok {
		return fmt.Sprintf("array elements have no %q field", dyn.ArrayKeySource)
	}
	if _, ok := first[dyn.ArrayValueSource]; !ok {
		return fmt.Sprintf("array elements have no %q field", dyn.ArrayValueSource)
	}
	return ""
}

func sortedSuggestionIDs(m map[string]string) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
