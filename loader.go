package strata

import (
	"context"
	"errors"
	"os"
	"sort"
)

// Loader resolves configuration from files, secret providers, environment
// variables, and the command line, in that priority order (command line
// highest). A Loader is immutable after New and may be reused across
// sequential loads; concurrent loads against the same Loader are not part of
// the contract.
type Loader struct {
	envPrefix    string
	envLookup    EnvLookupFunc
	configFiles  []string
	cliEnabled   bool
	args         []string
	name         string
	version      string
	providers    []namedProvider
	secretPrefix func() string
	secretSuffix func() string
	validate     func(*Value) error
}

// New constructs a Loader with optional functional options. Without options
// it probes config.json, config.yaml, and config.toml, reads the environment
// without a prefix, and leaves the command line and secret providers off.
func New(opts ...Option) *Loader {
	l := &Loader{
		envLookup:   os.LookupEnv,
		configFiles: []string{"config.json", "config.yaml", "config.toml"},
		args:        os.Args[1:],
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve runs the source pipeline and returns the fully merged, validated
// tree. Candidate files that do not exist are skipped; files that exist but
// cannot be parsed abort the load. Later layers override earlier ones
// field-by-field under Merge's overlay-wins semantics.
func (l *Loader) Resolve(ctx context.Context, meta ConfigMeta) (*Value, error) {
	merged := NewMap()

	for _, path := range l.configFiles {
		tree, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		if tree == nil {
			continue
		}
		merged = Merge(merged, tree)
	}

	if len(l.providers) > 0 {
		tree, err := l.secretsTree(ctx, meta)
		if err != nil {
			return nil, err
		}
		merged = Merge(merged, tree)
	}

	merged = Merge(merged, l.envTree(meta))

	if l.cliEnabled {
		tree, err := l.cliTree(meta, merged)
		if err != nil {
			return nil, err
		}
		merged = Merge(merged, tree)
	}

	if l.validate != nil {
		if err := l.validate(merged); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				err = &ValidationError{Err: err}
			}
			return nil, err
		}
	}
	return merged, nil
}

// Load resolves the pipeline and decodes the merged tree into T. Required
// fields that no source supplied are reported as *MissingFieldsError before
// decoding, since the typed decode would otherwise silently zero them.
func Load[T any](ctx context.Context, l *Loader, meta ConfigMeta) (*T, error) {
	merged, err := l.Resolve(ctx, meta)
	if err != nil {
		return nil, err
	}
	if missing := MissingRequired(meta, merged); len(missing) > 0 {
		paths := make([]string, 0, len(missing))
		for path := range missing {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		return nil, &MissingFieldsError{Paths: paths}
	}
	return Decode[T](merged)
}
