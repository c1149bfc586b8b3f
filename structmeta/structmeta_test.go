package structmeta

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/djbozjr/strata"
)

type loggingConfig struct {
	Level  string `strata:"level,default"`
	Pretty bool
}

type demoConfig struct {
	DatabaseURL string        `strata:"database_url,secret=prod/database-url"`
	Port        uint16        `strata:",flag=p"`
	Debug       *bool         `strata:"debug"`
	Timeout     time.Duration `strata:"timeout,default"`
	Tags        []string      `strata:"tags"`
	Logging     loggingConfig `strata:"logging"`
	Runtime     string        `strata:"runtime,skip"`

	unexported int
}

func fieldByPath(t *testing.T, fields []strata.FieldMeta, path string) strata.FieldMeta {
	t.Helper()
	for _, f := range fields {
		if f.Path == path {
			return f
		}
		if f.Meta != nil {
			for _, child := range f.Meta.Fields {
				if child.Path == path {
					return child
				}
			}
		}
	}
	t.Fatalf("no field with path %s", path)
	return strata.FieldMeta{}
}

func TestOfDerivesSchema(t *testing.T) {
	meta, err := Of(&demoConfig{})
	if err != nil {
		t.Fatalf("Of error: %v", err)
	}
	if meta.Name != "demo_config" {
		t.Fatalf("expected schema name demo_config, got %s", meta.Name)
	}
	if len(meta.Fields) != 7 {
		t.Fatalf("expected 7 fields (unexported skipped), got %d", len(meta.Fields))
	}

	db := fieldByPath(t, meta.Fields, "database_url")
	if !db.Required || db.Secret != "prod/database-url" || db.Type != strata.TypeString {
		t.Fatalf("unexpected database_url meta: %+v", db)
	}

	port := fieldByPath(t, meta.Fields, "port")
	if port.Flag != "p" || port.Type != strata.TypeUint {
		t.Fatalf("unexpected port meta: %+v", port)
	}

	debug := fieldByPath(t, meta.Fields, "debug")
	if debug.Required {
		t.Fatal("pointer fields are optional")
	}

	timeout := fieldByPath(t, meta.Fields, "timeout")
	if !timeout.Required || !timeout.HasDefault || timeout.Type != strata.TypeString {
		t.Fatalf("unexpected timeout meta: %+v", timeout)
	}

	tags := fieldByPath(t, meta.Fields, "tags")
	if tags.Type != strata.TypeSequence {
		t.Fatalf("expected sequence type, got %v", tags.Type)
	}

	runtime := fieldByPath(t, meta.Fields, "runtime")
	if !runtime.Skip {
		t.Fatal("expected skip option to be honored")
	}
}

func TestOfNestedPaths(t *testing.T) {
	meta, err := Of(demoConfig{})
	if err != nil {
		t.Fatalf("Of error: %v", err)
	}
	logging := fieldByPath(t, meta.Fields, "logging")
	if !logging.Nested || logging.Meta == nil {
		t.Fatalf("expected nested sub-schema, got %+v", logging)
	}
	level := fieldByPath(t, meta.Fields, "logging.level")
	if !level.HasDefault {
		t.Fatalf("expected logging.level to carry default, got %+v", level)
	}
	pretty := fieldByPath(t, meta.Fields, "logging.pretty")
	if pretty.Name != "pretty" {
		t.Fatalf("expected snake-cased name, got %s", pretty.Name)
	}
}

func TestOfRejectsNonStructs(t *testing.T) {
	if _, err := Of(42); err == nil {
		t.Fatal("expected error for non-struct target")
	}
}

func TestOfRejectsUnknownTagOption(t *testing.T) {
	type bad struct {
		X int `strata:"x,bogus"`
	}
	if _, err := Of(bad{}); err == nil {
		t.Fatal("expected error for unknown tag option")
	}
}

type node struct {
	Name  string `strata:"name"`
	Child *node  `strata:"child"`
}

type ringA struct {
	B *ringB `strata:"b"`
}

type ringB struct {
	A *ringA `strata:"a"`
}

func TestOfRejectsCyclicTypes(t *testing.T) {
	_, err := Of(node{})
	if err == nil {
		t.Fatal("expected error for self-referential type")
	}
	if !strings.Contains(err.Error(), "cyclic") {
		t.Fatalf("expected cyclic-type error, got %v", err)
	}
	if _, err := Of(ringA{}); err == nil {
		t.Fatal("expected error for mutually recursive types")
	}
}

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"DatabaseURL":    "database_url",
		"MaxConnections": "max_connections",
		"Port":           "port",
		"HTTPTimeout":    "http_timeout",
	}
	for in, want := range cases {
		if got := snakeCase(in); got != want {
			t.Errorf("snakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadEndToEnd(t *testing.T) {
	type config struct {
		DatabaseURL string `strata:"database_url"`
		Port        uint16
		Debug       bool `strata:"debug,default"`
	}
	l := strata.New(
		strata.WithConfigFiles(), // no files
		strata.WithEnvLookup(func(key string) (string, bool) {
			switch key {
			case "DATABASE_URL":
				return "postgres://x", true
			case "PORT":
				return "5432", true
			}
			return "", false
		}),
	)
	cfg, err := Load[config](context.Background(), l)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.DatabaseURL != "postgres://x" || cfg.Port != 5432 || cfg.Debug {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
