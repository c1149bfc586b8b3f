// Package structmeta derives a strata.ConfigMeta schema from a struct type
// using reflection and `strata` struct tags. It is the default schema
// provider; the strata core itself never inspects concrete target types.
//
// Tag format: `strata:"name,opt,..."`. The first element overrides the field
// name (which otherwise snake-cases the Go name). Recognized options:
//
//	skip       never source this field from files, secrets, env, or CLI
//	default    the application supplies a fallback, so the field is never
//	           demanded from the command line
//	flag=NAME  explicit long-form flag name
//	secret=KEY resolve this field through the registered secret providers
//
// A field is required iff its type is not a pointer; pointer fields are the
// optional wrapper. Struct-typed fields (except time.Time) become nested
// sub-schemas with dotted paths.
package structmeta

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/djbozjr/strata"
)

// Of builds the schema for target, which must be a struct or a pointer to
// one.
func Of(target any) (strata.ConfigMeta, error) {
	t := reflect.TypeOf(target)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return strata.ConfigMeta{}, errors.New("structmeta: target must be a struct or struct pointer")
	}
	fields, err := structFields(t, map[reflect.Type]bool{t: true})
	if err != nil {
		return strata.ConfigMeta{}, err
	}
	return strata.ConfigMeta{Name: snakeCase(t.Name()), Fields: fields}, nil
}

// Load derives the schema for T and runs the loader pipeline with it.
func Load[T any](ctx context.Context, l *strata.Loader) (*T, error) {
	var zero T
	meta, err := Of(&zero)
	if err != nil {
		return nil, err
	}
	return strata.Load[T](ctx, l, meta)
}

// structFields walks t's exported fields. visited holds the struct types on
// the current nesting path so self-referential schemas fail instead of
// recursing without bound.
func structFields(t reflect.Type, visited map[reflect.Type]bool) ([]strata.FieldMeta, error) {
	var out []strata.FieldMeta
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		opts, err := parseTag(field.Tag.Get("strata"))
		if err != nil {
			return nil, fmt.Errorf("structmeta: field %s: %w", field.Name, err)
		}
		name := opts.name
		if name == "" {
			name = snakeCase(field.Name)
		}

		ft := field.Type
		required := ft.Kind() != reflect.Pointer
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		fm := strata.FieldMeta{
			Name:       name,
			Path:       name,
			Type:       classify(ft),
			Required:   required,
			HasDefault: opts.hasDefault,
			Skip:       opts.skip,
			Flag:       opts.flag,
			Secret:     opts.secret,
		}
		if fm.Type == strata.TypeNested {
			if visited[ft] {
				return nil, fmt.Errorf("structmeta: field %s: cyclic nested type %s", field.Name, ft)
			}
			visited[ft] = true
			sub, err := structFields(ft, visited)
			delete(visited, ft)
			if err != nil {
				return nil, err
			}
			fm.Nested = true
			fm.Meta = &strata.ConfigMeta{
				Name:   name,
				Fields: strata.CorrectPaths(sub, name),
			}
		}
		out = append(out, fm)
	}
	return out, nil
}

func classify(t reflect.Type) strata.FieldType {
	if t == reflect.TypeOf(time.Duration(0)) {
		// durations travel as strings like "5s" and decode via hook
		return strata.TypeString
	}
	switch t.Kind() {
	case reflect.Bool:
		return strata.TypeBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strata.TypeInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strata.TypeUint
	case reflect.Float32, reflect.Float64:
		return strata.TypeFloat
	case reflect.String:
		return strata.TypeString
	case reflect.Slice, reflect.Array:
		return strata.TypeSequence
	case reflect.Struct:
		if t == reflect.TypeOf(time.Time{}) {
			return strata.TypeString
		}
		return strata.TypeNested
	default:
		return strata.TypeOther
	}
}

type tagOptions struct {
	name       string
	skip       bool
	hasDefault bool
	flag       string
	secret     string
}

func parseTag(raw string) (tagOptions, error) {
	var opts tagOptions
	if raw == "" {
		return opts, nil
	}
	parts := strings.Split(raw, ",")
	opts.name = strings.TrimSpace(parts[0])
	for _, part := range parts[1:] {
		part = strings.TrimSpace(part)
		switch {
		case part == "skip":
			opts.skip = true
		case part == "default":
			opts.hasDefault = true
		case strings.HasPrefix(part, "flag="):
			opts.flag = strings.TrimPrefix(part, "flag=")
		case strings.HasPrefix(part, "secret="):
			opts.secret = strings.TrimPrefix(part, "secret=")
		case part == "":
		default:
			return opts, fmt.Errorf("unknown tag option %q", part)
		}
	}
	return opts, nil
}

// snakeCase converts DatabaseURL to database_url and MaxConnections to
// max_connections, keeping acronym runs together.
func snakeCase(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			boundary := i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1])))
			if boundary {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
