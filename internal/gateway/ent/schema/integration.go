package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Integration holds the schema definition for the Integration entity. The
// repository writes the same columns through database/sql; this schema is
// the source of truth for migrations.
type Integration struct {
	ent.Schema
}

// Fields of the Integration.
func (Integration) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("integration_id").
			Unique().
			Immutable(),
		field.String("name").
			StorageKey("integration_name").
			Default("Integration"),
		field.JSON("source", map[string]any{}),
		field.String("path_expr").
			Default(""),
		field.JSON("mapping", map[string]any{}),
		field.Time("created_at").
			Default(time.Now),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}
