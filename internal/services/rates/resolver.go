package rates

import (
	"context"
)

const (
	SourceCache    = "cache"
	SourceFallback = "fallback"
	SourceNotFound = "not-found"
)

// Resolution is the outcome of one lookup. Source is SourceCache,
// SourceFallback, SourceNotFound, or the remote endpoint that answered.
// Delta lists the entries the caller should apply to the cache.
type Resolution struct {
	Code        string
	Rate        *int
	Description *string
	Source      string
	Delta       CacheDelta
}

// Found reports whether any tier produced a rate.
func (r Resolution) Found() bool { return r.Rate != nil }

// HalfRate is the CGST and SGST share of the rate.
func (r Resolution) HalfRate() *float64 {
	if r.Rate == nil {
		return nil
	}
	half := float64(*r.Rate) / 2
	return &half
}

// Resolver cascades cache, remote and fallback tiers. It never writes to
// the cache itself.
type Resolver struct {
	cache    *Cache
	remote   RateLookup
	fallback map[string]Entry
	onRemote func(code string, err error)
}

type ResolverOption func(*Resolver)

// WithRemoteErrorHook is called whenever the remote tier fails for a code.
func WithRemoteErrorHook(fn func(code string, err error)) ResolverOption {
	return func(r *Resolver) { r.onRemote = fn }
}

// NewResolver builds a resolver. remote may be nil to skip that tier.
func NewResolver(cache *Cache, remote RateLookup, fallback map[string]Entry, opts ...ResolverOption) *Resolver {
	r := &Resolver{cache: cache, remote: remote, fallback: fallback}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Resolve(ctx context.Context, code string) Resolution {
	if e, ok := r.cache.Get(code); ok {
		return resolved(code, e, SourceCache, nil)
	}

	if r.remote != nil {
		e, endpoint, err := r.remote.Lookup(ctx, code)
		if err == nil && e.Rate > 0 {
			return resolved(code, e, endpoint, CacheDelta{code: e})
		}
		if err != nil && r.onRemote != nil {
			r.onRemote(code, err)
		}
	}

	if e, ok := r.fallback[code]; ok {
		return resolved(code, e, SourceFallback, CacheDelta{code: e})
	}

	return Resolution{Code: code, Source: SourceNotFound}
}

func resolved(code string, e Entry, source string, delta CacheDelta) Resolution {
	rate := e.Rate
	res := Resolution{Code: code, Rate: &rate, Source: source, Delta: delta}
	if e.Description != "" {
		desc := e.Description
		res.Description = &desc
	}
	return res
}
