package strata

// FieldType is a coarse classification of a field's declared type. It steers
// source-specific handling: booleans become presence flags on the command
// line and sequences accept repeated flag occurrences.
type FieldType uint8

const (
	TypeString FieldType = iota
	TypeBool
	TypeInt
	TypeUint
	TypeFloat
	TypeSequence
	TypeNested
	TypeOther
)

// FieldMeta describes one field of a configuration schema. Paths are full
// dotted paths from the schema root and are unique within one schema
// instance. Required is derived strictly from the declared type shape (a
// field is optional iff its type is an optional wrapper) and is independent
// of HasDefault; whether a required field is actually still missing for a
// given load is computed by MissingRequired against the live merged tree.
type FieldMeta struct {
	Name       string
	Path       string
	Type       FieldType
	Required   bool
	HasDefault bool
	Skip       bool
	Nested     bool
	Flag       string // explicit command-line flag name, overrides kebab-casing
	Secret     string // secret-provider key; empty fields skip the secrets layer
	Meta       *ConfigMeta
}

// ConfigMeta is the schema for one configuration struct: an ordered list of
// field descriptors. Nested fields own a sub-schema whose child paths are
// already prefixed with the parent path, and every consumer (analyzer,
// environment reader, CLI builder) walks the tree recursively.
type ConfigMeta struct {
	Name   string
	Fields []FieldMeta
}

// CorrectPaths returns a copy of fields with every path prefixed by parent,
// recursing into nested sub-schemas. Schema builders use it to flatten a
// child schema's fields into an ancestor's namespace.
func CorrectPaths(fields []FieldMeta, parent string) []FieldMeta {
	out := make([]FieldMeta, len(fields))
	for i, f := range fields {
		f.Path = parent + "." + f.Path
		if f.Meta != nil {
			sub := ConfigMeta{
				Name:   f.Meta.Name,
				Fields: CorrectPaths(f.Meta.Fields, parent),
			}
			f.Meta = &sub
		}
		out[i] = f
	}
	return out
}
