package deps

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNoProvider is returned by First when no provider is available.
var ErrNoProvider = errors.New("no provider available")

// Provider is one candidate source for a capability, such as a model
// reference. Providers are consulted in a fixed order.
type Provider interface {
	Name() string
	Available(ctx context.Context) bool
	Resolve(ctx context.Context) (string, error)
}

// Func adapts a pair of closures to Provider.
type Func struct {
	Label       string
	IsAvailable func(ctx context.Context) bool
	Resolver    func(ctx context.Context) (string, error)
}

// Name implements Provider.
func (f Func) Name() string { return f.Label }

// Available implements Provider. A nil check means always available.
func (f Func) Available(ctx context.Context) bool {
	if f.IsAvailable == nil {
		return true
	}
	return f.IsAvailable(ctx)
}

// Resolve implements Provider.
func (f Func) Resolve(ctx context.Context) (string, error) {
	if f.Resolver == nil {
		return "", fmt.Errorf("provider %s: no resolver", f.Label)
	}
	return f.Resolver(ctx)
}

// Static returns a provider that is always available and resolves to value.
func Static(name, value string) Provider {
	return Func{
		Label:    name,
		Resolver: func(context.Context) (string, error) { return value, nil },
	}
}

// Resolution records which provider answered.
type Resolution struct {
	Provider string
	Value    string
}

// First resolves through the first available provider. Providers that report
// unavailable are skipped; a resolve error from the chosen provider is
// returned as-is, without trying later providers.
func First(ctx context.Context, providers ...Provider) (Resolution, error) {
	var skipped []string
	for _, p := range providers {
		if p == nil {
			continue
		}
		if !p.Available(ctx) {
			skipped = append(skipped, p.Name())
			continue
		}
		value, err := p.Resolve(ctx)
		if err != nil {
			return Resolution{Provider: p.Name()}, fmt.Errorf("%s: %w", p.Name(), err)
		}
		return Resolution{Provider: p.Name(), Value: value}, nil
	}
	if len(skipped) == 0 {
		return Resolution{}, ErrNoProvider
	}
	return Resolution{}, fmt.Errorf("%w (tried %s)", ErrNoProvider, strings.Join(skipped, ", "))
}
