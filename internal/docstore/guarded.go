package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// DefaultTimeout bounds a single store call when no timeout is configured.
const DefaultTimeout = 15 * time.Second

// Guarded decorates a Store with a per-call deadline and a circuit
// breaker. Lookup misses, duplicate keys and failed conditions pass
// through untouched and never count against the breaker. Every other
// failure is reported wrapped in ErrUnavailable.
type Guarded struct {
	next    Store
	timeout time.Duration
	cb      *gobreaker.CircuitBreaker
}

// NewGuarded wraps next. A nil breaker disables circuit breaking.
func NewGuarded(next Store, timeout time.Duration, cb *gobreaker.CircuitBreaker) *Guarded {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Guarded{next: next, timeout: timeout, cb: cb}
}

func (g *Guarded) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var domainErr error
	run := func() (interface{}, error) {
		err := fn(ctx)
		if err != nil && isDomainError(err) {
			domainErr = err
			return nil, nil
		}
		return nil, err
	}
	var err error
	if g.cb != nil {
		_, err = g.cb.Execute(run)
	} else {
		_, err = run()
	}
	if domainErr != nil {
		return domainErr
	}
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w: circuit %v", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}

func (g *Guarded) Get(ctx context.Context, coll, key string) (Document, error) {
	var doc Document
	err := g.do(ctx, "get", func(ctx context.Context) error {
		var err error
		doc, err = g.next.Get(ctx, coll, key)
		return err
	})
	return doc, err
}

func (g *Guarded) Query(ctx context.Context, coll string, q Query) ([]Document, error) {
	var docs []Document
	err := g.do(ctx, "query", func(ctx context.Context) error {
		var err error
		docs, err = g.next.Query(ctx, coll, q)
		return err
	})
	return docs, err
}

func (g *Guarded) Insert(ctx context.Context, coll string, data map[string]any) (string, error) {
	var key string
	err := g.do(ctx, "insert", func(ctx context.Context) error {
		var err error
		key, err = g.next.Insert(ctx, coll, data)
		return err
	})
	return key, err
}

func (g *Guarded) Create(ctx context.Context, coll, key string, data map[string]any) error {
	return g.do(ctx, "create", func(ctx context.Context) error {
		return g.next.Create(ctx, coll, key, data)
	})
}

func (g *Guarded) Set(ctx context.Context, coll, key string, data map[string]any) error {
	return g.do(ctx, "set", func(ctx context.Context) error {
		return g.next.Set(ctx, coll, key, data)
	})
}

func (g *Guarded) Update(ctx context.Context, coll, key string, fields map[string]any) error {
	return g.do(ctx, "update", func(ctx context.Context) error {
		return g.next.Update(ctx, coll, key, fields)
	})
}

func (g *Guarded) UpdateIf(ctx context.Context, coll, key string, unless Filter, fields map[string]any) error {
	return g.do(ctx, "update-if", func(ctx context.Context) error {
		return g.next.UpdateIf(ctx, coll, key, unless, fields)
	})
}

func (g *Guarded) Delete(ctx context.Context, coll, key string) error {
	return g.do(ctx, "delete", func(ctx context.Context) error {
		return g.next.Delete(ctx, coll, key)
	})
}

func (g *Guarded) Ping(ctx context.Context) error {
	return g.do(ctx, "ping", g.next.Ping)
}
