package strata

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

type appConfig struct {
	DatabaseURL string `strata:"database_url"`
	Port        uint16 `strata:"port"`
	Debug       bool   `strata:"debug,default"`
}

func appSchema() ConfigMeta {
	return ConfigMeta{
		Name: "app",
		Fields: []FieldMeta{
			{Name: "database_url", Path: "database_url", Type: TypeString, Required: true},
			{Name: "port", Path: "port", Type: TypeUint, Required: true},
			{Name: "debug", Path: "debug", Type: TypeBool, Required: true, HasDefault: true},
		},
	}
}

func TestLoadSourcePriority(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.json", `{"database_url":"postgres://file","port":80}`)

	base := []Option{
		WithConfigFiles(filepath.Join(dir, "config.json")),
		WithEnvLookup(envFromMap(map[string]string{"PORT": "8080"})),
	}

	// CLI wins over environment and file
	l := New(append(base, WithCLI(), WithArgs([]string{"--port", "9090"}))...)
	cfg, err := Load[appConfig](context.Background(), l, appSchema())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("expected CLI to win with 9090, got %d", cfg.Port)
	}

	// environment wins over file when CLI is disabled
	l = New(base...)
	cfg, err = Load[appConfig](context.Background(), l, appSchema())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected env to win with 8080, got %d", cfg.Port)
	}

	// file alone
	l = New(
		WithConfigFiles(filepath.Join(dir, "config.json")),
		WithEnvLookup(envFromMap(nil)),
	)
	cfg, err = Load[appConfig](context.Background(), l, appSchema())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != 80 {
		t.Fatalf("expected file value 80, got %d", cfg.Port)
	}
}

func TestLoadLaterFilesOverrideEarlier(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.json", `{"database_url":"postgres://base","port":80,"debug":true}`)
	writeFile(t, dir, "override.yaml", "port: 81\n")

	l := New(
		WithConfigFiles(filepath.Join(dir, "base.json"), filepath.Join(dir, "override.yaml")),
		WithEnvLookup(envFromMap(nil)),
	)
	cfg, err := Load[appConfig](context.Background(), l, appSchema())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Port != 81 || cfg.DatabaseURL != "postgres://base" || !cfg.Debug {
		t.Fatalf("unexpected merge result: %+v", cfg)
	}
}

func TestLoadEnvOnly(t *testing.T) {
	l := New(
		WithConfigFiles(filepath.Join(t.TempDir(), "absent.json")),
		WithEnvLookup(envFromMap(map[string]string{
			"DATABASE_URL": "postgres://x",
			"PORT":         "5432",
		})),
	)
	cfg, err := Load[appConfig](context.Background(), l, appSchema())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.DatabaseURL != "postgres://x" || cfg.Port != 5432 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Debug {
		t.Fatal("debug must default to false, not be demanded")
	}
}

func TestLoadMissingRequiredWithoutCLI(t *testing.T) {
	l := New(
		WithConfigFiles(filepath.Join(t.TempDir(), "absent.json")),
		WithEnvLookup(envFromMap(map[string]string{"PORT": "1"})),
	)
	_, err := Load[appConfig](context.Background(), l, appSchema())
	var merr *MissingFieldsError
	if !errors.As(err, &merr) {
		t.Fatalf("expected *MissingFieldsError, got %v", err)
	}
	if len(merr.Paths) != 1 || merr.Paths[0] != "database_url" {
		t.Fatalf("expected [database_url], got %v", merr.Paths)
	}
}

func TestLoadMalformedFileAborts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{"port":`)
	l := New(WithConfigFiles(path), WithEnvLookup(envFromMap(nil)))
	_, err := Load[appConfig](context.Background(), l, appSchema())
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestLoadValidationFailure(t *testing.T) {
	l := New(
		WithConfigFiles(filepath.Join(t.TempDir(), "absent.json")),
		WithEnvLookup(envFromMap(map[string]string{
			"DATABASE_URL": "postgres://x",
			"PORT":         "70000",
		})),
		WithValidation(func(tree *Value) error {
			if port, ok := tree.Lookup("port"); ok && port.IsInt() && port.Int() > 65535 {
				return fmt.Errorf("port %d out of range", port.Int())
			}
			return nil
		}),
	)
	_, err := Load[appConfig](context.Background(), l, appSchema())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestLoadCLIDemandsOnlyStillMissing(t *testing.T) {
	// every required field is satisfied by the environment, so no flag
	// is mandatory and an empty command line succeeds
	l := New(
		WithConfigFiles(filepath.Join(t.TempDir(), "absent.json")),
		WithEnvLookup(envFromMap(map[string]string{
			"DATABASE_URL": "postgres://env",
			"PORT":         "5000",
		})),
		WithCLI(),
		WithArgs(nil),
	)
	cfg, err := Load[appConfig](context.Background(), l, appSchema())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.DatabaseURL != "postgres://env" || cfg.Port != 5000 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	// with an empty environment the same command line is rejected
	l = New(
		WithConfigFiles(filepath.Join(t.TempDir(), "absent.json")),
		WithEnvLookup(envFromMap(nil)),
		WithCLI(),
		WithArgs(nil),
	)
	_, err = Load[appConfig](context.Background(), l, appSchema())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UsageError, got %v", err)
	}
}

func TestResolveReturnsMergedTree(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.json", `{"database_url":"postgres://file","port":80}`)
	l := New(
		WithConfigFiles(filepath.Join(dir, "config.json")),
		WithEnvLookup(envFromMap(map[string]string{"PORT": "8080"})),
	)
	tree, err := l.Resolve(context.Background(), appSchema())
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	want := mustJSON(t, `{"database_url":"postgres://file","port":8080}`)
	if !tree.Equal(want) {
		t.Fatalf("expected %s, got %s", want, tree)
	}
}
