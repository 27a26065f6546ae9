package mapping

// Validate reconciles a spec against a freshly discovered option set. It runs
// whenever the source document or the path expression changes, and it is
// pure and idempotent: validating an already-valid spec is a no-op.
//
// Rules, in order:
//   - no options at all: the whole spec is cleared, there is nothing to map;
//   - titleKey: kept when still valid, auto-selected from the first option
//     when empty or stale, so a title mapping always exists when it can;
//   - optional field keys: stale keys reset to "" but the field stays
//     enrolled, the user is never silently opted out;
//   - metafield rows: stale source keys are cleared in place, rows are never
//     deleted on the user's behalf.
func Validate(spec Spec, options []FieldOption) Spec {
	if len(options) == 0 {
		return Spec{}
	}

	valid := make(map[string]bool, len(options))
	for _, o := range options {
		valid[o.Value] = true
	}

	out := spec.Clone()
	if out.TitleKey == "" || !valid[out.TitleKey] {
		out.TitleKey = options[0].Value
	}
	for id, key := range out.OptionalFieldKeys {
		if key != "" && !valid[key] {
			out.OptionalFieldKeys[id] = ""
		}
	}
	for i, m := range out.Metafields {
		if src := m.Source(); src != "" && !valid[src] {
			out.Metafields[i] = m.WithSource("")
		}
	}
	return out
}
