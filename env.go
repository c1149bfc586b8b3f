package strata

import "strings"

// EnvLookupFunc describes how to look up environment variables. Override
// with WithEnvLookup when running under a custom environment, most usefully
// in tests.
type EnvLookupFunc func(string) (string, bool)

// envTree reads every non-skipped leaf field from the environment. The layer
// is always active: a configured prefix only contributes a leading name
// segment, its absence does not disable environment sourcing.
func (l *Loader) envTree(meta ConfigMeta) *Value {
	out := NewMap()
	l.collectEnv(meta.Fields, out)
	return out
}

func (l *Loader) collectEnv(fields []FieldMeta, out *Value) {
	for _, f := range fields {
		if f.Skip {
			continue
		}
		if f.Nested && f.Meta != nil {
			l.collectEnv(f.Meta.Fields, out)
			continue
		}
		raw, ok := l.envLookup(envName(l.envPrefix, f.Path))
		if !ok {
			continue
		}
		setPath(out, f.Path, ParseScalar(raw))
	}
}

// envName maps a dotted field path to its variable name: dots become
// underscores, everything is upper-cased, and the prefix (when set) is
// prepended with an underscore.
func envName(prefix, path string) string {
	name := strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
	if prefix == "" {
		return name
	}
	return strings.ToUpper(prefix) + "_" + name
}
