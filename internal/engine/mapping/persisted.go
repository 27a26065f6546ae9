package mapping

// Persisted is the integration-record form of a spec. Instead of keeping
// FieldID keys, the optional field mappings are flattened onto the groups
// they target, keyed by the target field name; metafield rows keep only the
// fields their variant uses.
type Persisted struct {
	TitleKey      string               `json:"titleKey"`
	Root          map[string]string    `json:"root,omitempty"`
	SEO           map[string]string    `json:"seo,omitempty"`
	InventoryItem map[string]string    `json:"inventoryItem,omitempty"`
	Metafields    []PersistedMetafield `json:"metafieldMappings,omitempty"`
}

// PersistedMetafield is one stored metafield row. MappingType discriminates
// the variant; Key is only set for single rows, the array sources only for
// dynamic rows.
type PersistedMetafield struct {
	MappingType      string `json:"mappingType"`
	SourceKey        string `json:"sourceKey"`
	Namespace        string `json:"metafieldNamespace"`
	Key              string `json:"metafieldKey,omitempty"`
	Type             string `json:"metafieldType"`
	ArrayKeySource   string `json:"arrayKeySource,omitempty"`
	ArrayValueSource string `json:"arrayValueSource,omitempty"`
}

// ToPersisted flattens the spec into its stored form. Only active fields
// that are actually mapped survive flattening; an enrolled-but-unmapped
// field has nothing to store.
func (s Spec) ToPersisted() Persisted {
	out := Persisted{TitleKey: s.TitleKey}
	for id, active := range s.ActiveFields {
		if !active || id == FieldTitle {
			continue
		}
		key := s.OptionalFieldKeys[id]
		if key == "" {
			continue
		}
		pl, ok := PlacementOf(id)
		if !ok {
			continue
		}
		switch pl.Group {
		case GroupSEO:
			if out.SEO == nil {
				out.SEO = make(map[string]string)
			}
			out.SEO[pl.Key] = key
		case GroupInventoryItem:
			if out.InventoryItem == nil {
				out.InventoryItem = make(map[string]string)
			}
			out.InventoryItem[pl.Key] = key
		default:
			if out.Root == nil {
				out.Root = make(map[string]string)
			}
			out.Root[pl.Key] = key
		}
	}
	for _, m := range s.Metafields {
		switch mf := m.(type) {
		case SingleMetafield:
			out.Metafields = append(out.Metafields, PersistedMetafield{
				MappingType: mappingTypeSingle,
				SourceKey:   mf.SourceKey,
				Namespace:   mf.Namespace,
				Key:         mf.Key,
				Type:        mf.Type,
			})
		case DynamicMetafield:
			out.Metafields = append(out.Metafields, PersistedMetafield{
				MappingType:      mappingTypeDynamic,
				SourceKey:        mf.SourceKey,
				Namespace:        mf.Namespace,
				Type:             mf.Type,
				ArrayKeySource:   mf.ArrayKeySource,
				ArrayValueSource: mf.ArrayValueSource,
			})
		}
	}
	return out
}

// FromPersisted rebuilds a working spec from its stored form. Group entries
// are mapped back to FieldIDs through the placement table; entries that no
// longer correspond to a standard field are dropped.
func FromPersisted(p Persisted) Spec {
	out := Spec{TitleKey: p.TitleKey}
	restore := func(group Group, entries map[string]string) {
		for targetKey, sourceKey := range entries {
			id, ok := fieldByPlacement(Placement{Group: group, Key: targetKey})
			if !ok {
				continue
			}
			if out.OptionalFieldKeys == nil {
				out.OptionalFieldKeys = make(map[FieldID]string)
			}
			if out.ActiveFields == nil {
				out.ActiveFields = make(map[FieldID]bool)
			}
			out.OptionalFieldKeys[id] = sourceKey
			out.ActiveFields[id] = true
		}
	}
	restore(GroupRoot, p.Root)
	restore(GroupSEO, p.SEO)
	restore(GroupInventoryItem, p.InventoryItem)

	for _, row := range p.Metafields {
		switch row.MappingType {
		case mappingTypeDynamic:
			out.Metafields = append(out.Metafields, DynamicMetafield{
				SourceKey:        row.SourceKey,
				Namespace:        row.Namespace,
				ArrayKeySource:   row.ArrayKeySource,
				ArrayValueSource: row.ArrayValueSource,
				Type:             row.Type,
			})
		default:
			out.Metafields = append(out.Metafields, SingleMetafield{
				SourceKey: row.SourceKey,
				Namespace: row.Namespace,
				Key:       row.Key,
				Type:      row.Type,
			})
		}
	}
	return out
}

func fieldByPlacement(pl Placement) (FieldID, bool) {
	for id, candidate := range placements {
		if candidate == pl && id != FieldTitle {
			return id, true
		}
	}
	return "", false
}
