package strata

import (
	"context"
	"errors"
)

// Provider fetches configuration values from an external secret store such
// as Vault, AWS Secrets Manager, or GCP Secret Manager. Implementations
// return an error wrapping ErrSecretNotFound when the key does not exist so
// the loader can fall through to later layers; any other error aborts the
// load.
type Provider interface {
	Fetch(ctx context.Context, key string) (string, error)
}

// ErrSecretNotFound marks a secret key that no provider holds. The secrets
// layer treats it like an unset environment variable.
var ErrSecretNotFound = errors.New("secret not found")

type namedProvider struct {
	name     string
	provider Provider
}

// secretsTree resolves every field that declares a secret key against the
// registered providers, in registration order, first hit wins.
func (l *Loader) secretsTree(ctx context.Context, meta ConfigMeta) (*Value, error) {
	out := NewMap()
	if err := l.collectSecrets(ctx, meta.Fields, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (l *Loader) collectSecrets(ctx context.Context, fields []FieldMeta, out *Value) error {
	for _, f := range fields {
		if f.Skip {
			continue
		}
		if f.Nested && f.Meta != nil {
			if err := l.collectSecrets(ctx, f.Meta.Fields, out); err != nil {
				return err
			}
			continue
		}
		if f.Secret == "" {
			continue
		}
		raw, err := l.fetchSecret(ctx, l.secretKey(f.Secret))
		if errors.Is(err, ErrSecretNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		setPath(out, f.Path, ParseScalar(raw))
	}
	return nil
}

func (l *Loader) secretKey(key string) string {
	if l.secretPrefix != nil {
		key = l.secretPrefix() + key
	}
	if l.secretSuffix != nil {
		key += l.secretSuffix()
	}
	return key
}

func (l *Loader) fetchSecret(ctx context.Context, key string) (string, error) {
	for _, np := range l.providers {
		raw, err := np.provider.Fetch(ctx, key)
		if err == nil {
			return raw, nil
		}
		if errors.Is(err, ErrSecretNotFound) {
			continue
		}
		return "", &SecretError{Provider: np.name, Key: key, Err: err}
	}
	return "", ErrSecretNotFound
}
