package mapping

// FieldOption is one discoverable source key. The system never renames
// fields, so Label always equals Value.
type FieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Options builds the option list for a set of source keys, label == value.
func Options(keys []string) []FieldOption {
	out := make([]FieldOption, 0, len(keys))
	for _, k := range keys {
		out = append(out, FieldOption{Label: k, Value: k})
	}
	return out
}

// Spec is the declarative description of how source fields map onto the
// target product: the title source, opted-in standard fields with their
// source keys, and an ordered list of metafield mappings.
type Spec struct {
	TitleKey          string
	OptionalFieldKeys map[FieldID]string
	ActiveFields      map[FieldID]bool
	Metafields        []Metafield
}

// Metafield is a closed sum: either a SingleMetafield or a DynamicMetafield.
// Keeping it a sealed interface means the transform cannot meet a mapping
// variant it does not know how to carry.
type Metafield interface {
	// Source returns the source key the mapping reads from.
	Source() string
	// WithSource returns a copy of the mapping bound to a new source key.
	// The validator uses it to clear stale keys without dropping the row.
	WithSource(key string) Metafield

	mappingType() string
}

// SingleMetafield maps one source value onto one target metafield.
type SingleMetafield struct {
	SourceKey string `json:"sourceKey"`
	Namespace string `json:"metafieldNamespace"`
	Key       string `json:"metafieldKey"`
	Type      string `json:"metafieldType"`
}

func (m SingleMetafield) Source() string { return m.SourceKey }

func (m SingleMetafield) WithSource(key string) Metafield {
	m.SourceKey = key
	return m
}

func (m SingleMetafield) mappingType() string { return mappingTypeSingle }

// DynamicMetafield maps an array of objects onto one metafield per element,
// taking each metafield's key and value from fields of the element.
type DynamicMetafield struct {
	SourceKey        string `json:"sourceKey"`
	Namespace        string `json:"metafieldNamespace"`
	ArrayKeySource   string `json:"arrayKeySource"`
	ArrayValueSource string `json:"arrayValueSource"`
	Type             string `json:"metafieldType"`
}

func (m DynamicMetafield) Source() string { return m.SourceKey }

func (m DynamicMetafield) WithSource(key string) Metafield {
	m.SourceKey = key
	return m
}

func (m DynamicMetafield) mappingType() string { return mappingTypeDynamic }

// Clone returns a deep copy. Validation and merging work on copies so that
// reconciliation stays a pure function of its inputs.
func (s Spec) Clone() Spec {
	out := Spec{TitleKey: s.TitleKey}
	if s.OptionalFieldKeys != nil {
		out.OptionalFieldKeys = make(map[FieldID]string, len(s.OptionalFieldKeys))
		for k, v := range s.OptionalFieldKeys {
			out.OptionalFieldKeys[k] = v
		}
	}
	if s.ActiveFields != nil {
		out.ActiveFields = make(map[FieldID]bool, len(s.ActiveFields))
		for k, v := range s.ActiveFields {
			out.ActiveFields[k] = v
		}
	}
	if s.Metafields != nil {
		// Metafield variants are value types; copying the slice copies them.
		out.Metafields = make([]Metafield, len(s.Metafields))
		copy(out.Metafields, s.Metafields)
	}
	return out
}

// IsZero reports whether the spec maps nothing at all.
func (s Spec) IsZero() bool {
	return s.TitleKey == "" &&
		len(s.OptionalFieldKeys) == 0 &&
		len(s.ActiveFields) == 0 &&
		len(s.Metafields) == 0
}
