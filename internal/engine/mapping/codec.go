package mapping

import (
	"encoding/json"
	"fmt"
	"sort"
)

const (
	mappingTypeSingle  = "single"
	mappingTypeDynamic = "dynamic_from_array"
)

type specWire struct {
	TitleKey          string             `json:"titleKey"`
	OptionalFieldKeys map[FieldID]string `json:"optionalFieldKeys,omitempty"`
	ActiveFields      []FieldID          `json:"activeOptionalFields,omitempty"`
	Metafields        []json.RawMessage  `json:"metafieldMappings,omitempty"`
}

func (s Spec) MarshalJSON() ([]byte, error) {
	wire := specWire{
		TitleKey:          s.TitleKey,
		OptionalFieldKeys: s.OptionalFieldKeys,
	}
	for id, on := range s.ActiveFields {
		if on {
			wire.ActiveFields = append(wire.ActiveFields, id)
		}
	}
	sort.Slice(wire.ActiveFields, func(i, j int) bool {
		return wire.ActiveFields[i] < wire.ActiveFields[j]
	})
	for _, m := range s.Metafields {
		raw, err := marshalMetafield(m)
		if err != nil {
			return nil, err
		}
		wire.Metafields = append(wire.Metafields, raw)
	}
	return json.Marshal(wire)
}

func (s *Spec) UnmarshalJSON(data []byte) error {
	var wire specWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	out := Spec{
		TitleKey:          wire.TitleKey,
		OptionalFieldKeys: wire.OptionalFieldKeys,
	}
	if len(wire.ActiveFields) > 0 {
		out.ActiveFields = make(map[FieldID]bool, len(wire.ActiveFields))
		for _, id := range wire.ActiveFields {
			out.ActiveFields[id] = true
		}
	}
	mfs, err := unmarshalMetafields(wire.Metafields)
	if err != nil {
		return err
	}
	out.Metafields = mfs
	*s = out
	return nil
}

func marshalMetafield(m Metafield) (json.RawMessage, error) {
	body, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["mappingType"] = m.mappingType()
	return json.Marshal(fields)
}

func unmarshalMetafields(raws []json.RawMessage) ([]Metafield, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]Metafield, 0, len(raws))
	for _, raw := range raws {
		var tag struct {
			MappingType string `json:"mappingType"`
		}
		if err := json.Unmarshal(raw, &tag); err != nil {
			return nil, err
		}
		switch tag.MappingType {
		case mappingTypeSingle, "":
			// Rows written before the dynamic variant existed carry no tag.
			var m SingleMetafield
			if err := json.Unmarshal(raw, &m); err != nil {
				return nil, err
			}
			out = append(out, m)
		case mappingTypeDynamic:
			var m DynamicMetafield
			if err := json.Unmarshal(raw, &m); err != nil {
				return nil, err
			}
			out = append(out, m)
		default:
			return nil, fmt.Errorf("unknown mapping type %q", tag.MappingType)
		}
	}
	return out, nil
}
