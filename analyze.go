package strata

// MissingRequired walks the schema against a partially merged tree and
// returns the dotted paths of every field that is required, carries no
// default, is not skipped, and is still absent or null. The result drives
// which command-line flags are mandatory for the current load.
//
// Nested fields never report their own path: they always recurse into their
// sub-schema so that deeply missing leaves inside a present-but-incomplete
// nested object are still caught, and so that an entirely absent nested
// object reports its missing leaves individually. Each field is visited
// exactly once.
func MissingRequired(meta ConfigMeta, tree *Value) map[string]struct{} {
	missing := make(map[string]struct{})
	collectMissing(meta.Fields, tree, missing)
	return missing
}

func collectMissing(fields []FieldMeta, tree *Value, missing map[string]struct{}) {
	for _, f := range fields {
		if f.Skip {
			continue
		}
		if f.Nested && f.Meta != nil {
			collectMissing(f.Meta.Fields, tree, missing)
			continue
		}
		if v, ok := tree.Lookup(f.Path); ok && !v.IsNull() {
			continue
		}
		if f.Required && !f.HasDefault {
			missing[f.Path] = struct{}{}
		}
	}
}
