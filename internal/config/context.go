package config

import "context"

// ctxKey is used to store the loaded config in a context.
type ctxKey struct{}

// NewContext stores the config in a context.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext retrieves the config, falling back to defaults when absent.
func FromContext(ctx context.Context) *Config {
	if c, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return c
	}
	return &Config{
		Format:     DefaultFormat,
		Color:      DefaultColor,
		DebounceMS: DefaultDebounceMS,
	}
}
