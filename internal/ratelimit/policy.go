package ratelimit

import "time"

// LimitConfig defines a single rate limit: at most Max requests per Window.
type LimitConfig struct {
	Max    int64
	Window time.Duration
}

// Policy maps scopes to the limits enforced for them. A scope may carry
// several limits with different windows; all of them must hold.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// PolicyBuilder constructs a Policy incrementally.
type PolicyBuilder struct {
	limits map[Scope][]LimitConfig
}

// NewPolicyBuilder creates an empty policy builder.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{
		limits: make(map[Scope][]LimitConfig),
	}
}

// AddLimit adds a limit for the given scope.
func (b *PolicyBuilder) AddLimit(scope Scope, max int64, window time.Duration) *PolicyBuilder {
	b.limits[scope] = append(b.limits[scope], LimitConfig{Max: max, Window: window})

	return b
}

// Build returns the assembled policy.
func (b *PolicyBuilder) Build() *Policy {
	return &Policy{Limits: b.limits}
}

// DefaultPolicy returns the limits applied when no per-endpoint
// configuration overrides them.
func DefaultPolicy() *Policy {
	return NewPolicyBuilder().
		AddLimit(ScopeGlobal, 300, time.Minute).
		AddLimit(ScopeRead, 200, time.Minute).
		AddLimit(ScopeWrite, 30, time.Minute).
		Build()
}
