package strata

// Option configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the leading segment for environment variable names, so
// a prefix of "MYAPP" maps the field path database.url to MYAPP_DATABASE_URL.
// The environment layer is active either way; without a prefix the variable
// is just DATABASE_URL.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithEnvLookup overrides the environment variable lookup strategy.
func WithEnvLookup(fn EnvLookupFunc) Option {
	return func(l *Loader) {
		if fn != nil {
			l.envLookup = fn
		}
	}
}

// WithConfigFile appends a candidate file to the probe list. Files listed
// later override earlier ones field-by-field.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		if path != "" {
			l.configFiles = append(l.configFiles, path)
		}
	}
}

// WithConfigFiles replaces the candidate file list entirely, dropping the
// config.json/config.yaml/config.toml defaults.
func WithConfigFiles(paths ...string) Option {
	return func(l *Loader) {
		l.configFiles = append([]string(nil), paths...)
	}
}

// WithCLI enables the command-line layer. Flags are synthesized from the
// schema at load time, and fields still missing after the file, secret, and
// environment layers become mandatory flags.
func WithCLI() Option {
	return func(l *Loader) {
		l.cliEnabled = true
	}
}

// WithArgs overrides the arguments parsed by the command-line layer, which
// default to os.Args[1:].
func WithArgs(args []string) Option {
	return func(l *Loader) {
		l.args = args
	}
}

// WithName sets the program name shown in usage text. It defaults to the
// schema's name.
func WithName(name string) Option {
	return func(l *Loader) {
		l.name = name
	}
}

// WithVersion registers a version string and adds a --version flag that
// surfaces as *ExitRequest when supplied. A schema field whose flag name
// resolves to "version" takes precedence and suppresses the built-in flag.
func WithVersion(version string) Option {
	return func(l *Loader) {
		l.version = version
	}
}

// WithProvider registers a secret provider. Fields opt into the secrets
// layer by declaring a secret key in their metadata; providers are consulted
// in registration order and the first one holding the key wins. The name
// only labels errors.
func WithProvider(name string, provider Provider) Option {
	return func(l *Loader) {
		if name == "" || provider == nil {
			return
		}
		l.providers = append(l.providers, namedProvider{name: name, provider: provider})
	}
}

// WithSecretPrefix supplies a function whose result is prepended to secret
// keys prior to lookup (for example to inject environment names).
func WithSecretPrefix(fn func() string) Option {
	return func(l *Loader) {
		l.secretPrefix = fn
	}
}

// WithSecretSuffix supplies a function whose result is appended to secret
// keys prior to lookup.
func WithSecretSuffix(fn func() string) Option {
	return func(l *Loader) {
		l.secretSuffix = fn
	}
}

// WithValidation registers a callback that inspects the fully merged tree
// after all sources are applied and before typed decoding. Returning an
// error aborts the load; errors other than *ValidationError are wrapped.
func WithValidation(fn func(*Value) error) Option {
	return func(l *Loader) {
		l.validate = fn
	}
}
