// Package strata loads application configuration by layering on-disk files
// (JSON, YAML, TOML), secret providers such as Vault or AWS Secrets Manager,
// environment variables, and command-line flags, merging the layers under a
// fixed priority order and decoding the result into a typed struct. The
// command-line surface is synthesized from the schema at load time: fields
// that earlier layers left unset become mandatory flags, everything else
// stays optional.
//
// Example:
//
//	type Config struct {
//	    DatabaseURL string `strata:"database_url"`
//	    Port        uint16 `strata:"port"`
//	    Debug       bool   `strata:"debug,default"`
//	}
//
//	loader := strata.New(
//	    strata.WithEnvPrefix("MYAPP"),
//	    strata.WithCLI(),
//	)
//	cfg, err := structmeta.Load[Config](ctx, loader)
//	if err != nil {
//	    var exit *strata.ExitRequest
//	    if errors.As(err, &exit) {
//	        fmt.Println(exit.Output)
//	        os.Exit(0)
//	    }
//	    log.Fatal(err)
//	}
//
// Schemas are plain data (ConfigMeta); the structmeta subpackage derives one
// from a struct's fields and `strata` tags, and custom schema providers can
// build them by hand.
package strata
