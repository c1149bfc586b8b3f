package strata

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/pflag"
)

// flagSpec pairs a leaf field with its resolved flag name and help text.
type flagSpec struct {
	field FieldMeta
	name  string
	help  string
}

// cliTree synthesizes the flag set from the schema and parses the
// command-line arguments into a tree. Requiredness is dynamic: the flag set
// is built in two phases, first computing which fields the layers merged so
// far still leave missing, then marking exactly those flags mandatory.
// Help and version requests come back as *ExitRequest so the caller decides
// whether to exit.
func (l *Loader) cliTree(meta ConfigMeta, current *Value) (*Value, error) {
	missing := MissingRequired(meta, current)
	specs := flagSpecs(meta.Fields, current, missing)

	name := l.name
	if name == "" {
		name = meta.Name
	}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false
	var out bytes.Buffer
	fs.SetOutput(&out)

	for _, spec := range specs {
		switch spec.field.Type {
		case TypeBool:
			fs.Bool(spec.name, false, spec.help)
		case TypeSequence:
			fs.StringArray(spec.name, nil, spec.help)
		default:
			fs.String(spec.name, "", spec.help)
		}
	}
	// a schema flag named version keeps the name; the built-in stays out
	var version bool
	if l.version != "" && fs.Lookup("version") == nil {
		fs.BoolVar(&version, "version", false, "print version and exit")
	}

	if err := fs.Parse(l.args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, &ExitRequest{Output: usageText(name, fs)}
		}
		return nil, &UsageError{Msg: err.Error(), Usage: fs.FlagUsages()}
	}
	if version {
		return nil, &ExitRequest{Output: name + " " + l.version}
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{
			Msg:   "unexpected arguments: " + strings.Join(fs.Args(), " "),
			Usage: fs.FlagUsages(),
		}
	}

	var absent []string
	for _, spec := range specs {
		if _, required := missing[spec.field.Path]; required && !fs.Changed(spec.name) {
			absent = append(absent, "--"+spec.name)
		}
	}
	if len(absent) > 0 {
		return nil, &UsageError{
			Msg:   "missing required flags: " + strings.Join(absent, ", "),
			Usage: fs.FlagUsages(),
		}
	}

	tree := NewMap()
	for _, spec := range specs {
		if !fs.Changed(spec.name) {
			continue
		}
		switch spec.field.Type {
		case TypeBool:
			b, err := fs.GetBool(spec.name)
			if err != nil {
				return nil, &UsageError{Msg: err.Error(), Usage: fs.FlagUsages()}
			}
			setPath(tree, spec.field.Path, BoolValue(b))
		case TypeSequence:
			items, err := fs.GetStringArray(spec.name)
			if err != nil {
				return nil, &UsageError{Msg: err.Error(), Usage: fs.FlagUsages()}
			}
			seq := make([]*Value, len(items))
			for i, item := range items {
				seq[i] = ParseScalar(item)
			}
			setPath(tree, spec.field.Path, SequenceValue(seq...))
		default:
			raw, err := fs.GetString(spec.name)
			if err != nil {
				return nil, &UsageError{Msg: err.Error(), Usage: fs.FlagUsages()}
			}
			setPath(tree, spec.field.Path, ParseScalar(raw))
		}
	}
	return tree, nil
}

// flagSpecs flattens the schema into one spec per non-skipped leaf field.
func flagSpecs(fields []FieldMeta, current *Value, missing map[string]struct{}) []flagSpec {
	var out []flagSpec
	for _, f := range fields {
		if f.Skip {
			continue
		}
		if f.Nested && f.Meta != nil {
			out = append(out, flagSpecs(f.Meta.Fields, current, missing)...)
			continue
		}
		name := f.Flag
		if name == "" {
			name = flagName(f.Path)
		}
		out = append(out, flagSpec{field: f, name: name, help: flagHelp(f, current, missing)})
	}
	return out
}

// flagName kebab-cases every path segment and joins segments with hyphens,
// so database.maxConnections becomes database-max-connections.
func flagName(path string) string {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		parts[i] = kebab(p)
	}
	return strings.Join(parts, "-")
}

func kebab(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case r == '_':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func flagHelp(f FieldMeta, current *Value, missing map[string]struct{}) string {
	if _, ok := missing[f.Path]; ok {
		return fmt.Sprintf("REQUIRED: set %s (missing from config files and environment)", f.Path)
	}
	if v, ok := current.Lookup(f.Path); ok && !v.IsNull() {
		return fmt.Sprintf("set %s (current: %s)", f.Path, renderCurrent(v))
	}
	return fmt.Sprintf("set %s (optional)", f.Path)
}

func renderCurrent(v *Value) string {
	switch v.Kind() {
	case KindString:
		return strconv.Quote(v.Str())
	case KindSequence:
		return fmt.Sprintf("[%d items]", v.Len())
	case KindMap:
		return "{object}"
	default:
		return v.String()
	}
}

func usageText(name string, fs *pflag.FlagSet) string {
	return fmt.Sprintf("Usage of %s:\n%s", name, fs.FlagUsages())
}
