// Package identity resolves the acting user for mutating operations.
// The engine never inspects authentication itself; callers attach an actor
// to the request context (the API layer does this from headers) and the
// provider falls back to configured defaults.
package identity

import "context"

// Actor identifies the caller of a mutating operation.
type Actor struct {
	User      string
	UserGroup string
}

// Provider supplies the current actor for a request context.
type Provider interface {
	CurrentActor(ctx context.Context) Actor
}

type contextKey struct{}

// WithActor returns a context carrying the given actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextKey{}, actor)
}

// FromContext extracts the actor attached by WithActor, if any.
func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(contextKey{}).(Actor)
	return actor, ok
}

// ContextProvider reads the actor from the context and falls back to a
// configured default when none is attached (or fields are empty).
type ContextProvider struct {
	Default Actor
}

// NewContextProvider returns a provider with the given fallback actor.
func NewContextProvider(defaultUser, defaultGroup string) *ContextProvider {
	return &ContextProvider{Default: Actor{User: defaultUser, UserGroup: defaultGroup}}
}

func (p *ContextProvider) CurrentActor(ctx context.Context) Actor {
	actor, ok := FromContext(ctx)
	if !ok {
		return p.Default
	}
	if actor.User == "" {
		actor.User = p.Default.User
	}
	if actor.UserGroup == "" {
		actor.UserGroup = p.Default.UserGroup
	}
	return actor
}

// Static always returns the same actor. Used in tests and batch tooling.
type Static struct {
	Actor Actor
}

func (s Static) CurrentActor(context.Context) Actor { return s.Actor }
