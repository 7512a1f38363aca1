// Package resolver turns a DOI into a bibliographic record by trying a
// primary lookup and, on any failure, a single fallback lookup.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/matsen/pdfrename/internal/csl"
)

// ErrLookupFailed is returned when both the primary and fallback lookups fail.
var ErrLookupFailed = errors.New("metadata lookup failed")

// Lookup resolves a DOI against one bibliographic service.
type Lookup interface {
	Name() string
	Lookup(ctx context.Context, doi string) (*csl.Record, error)
}

// LookupError reports the failure of both stages.
type LookupError struct {
	DOI         string
	PrimaryErr  error
	FallbackErr error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v for %s: primary: %v; fallback: %v", ErrLookupFailed, e.DOI, e.PrimaryErr, e.FallbackErr)
}

// Unwrap lets errors.Is match ErrLookupFailed and either cause.
func (e *LookupError) Unwrap() []error {
	return []error{ErrLookupFailed, e.PrimaryErr, e.FallbackErr}
}

// Resolver is a two-stage lookup strategy.
type Resolver struct {
	primary  Lookup
	fallback Lookup
	logger   *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report primary failures.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

// New creates a Resolver. fallback may be nil to disable the second stage.
func New(primary, fallback Lookup, opts ...Option) *Resolver {
	r := &Resolver{
		primary:  primary,
		fallback: fallback,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the record for doi and the name of the lookup that
// produced it. A lookup that returns a nil record counts as a failure.
func (r *Resolver) Resolve(ctx context.Context, doi string) (*csl.Record, string, error) {
	rec, primaryErr := lookup(ctx, r.primary, doi)
	if primaryErr == nil {
		return rec, r.primary.Name(), nil
	}
	r.logger.Warn("primary lookup failed", "source", r.primary.Name(), "doi", doi, "err", primaryErr)

	if r.fallback == nil {
		return nil, "", &LookupError{DOI: doi, PrimaryErr: primaryErr, FallbackErr: errors.New("no fallback configured")}
	}

	rec, fallbackErr := lookup(ctx, r.fallback, doi)
	if fallbackErr == nil {
		r.logger.Debug("fallback lookup succeeded", "source", r.fallback.Name(), "doi", doi)
		return rec, r.fallback.Name(), nil
	}
	r.logger.Warn("fallback lookup failed", "source", r.fallback.Name(), "doi", doi, "err", fallbackErr)

	return nil, "", &LookupError{DOI: doi, PrimaryErr: primaryErr, FallbackErr: fallbackErr}
}

func lookup(ctx context.Context, l Lookup, doi string) (*csl.Record, error) {
	rec, err := l.Lookup(ctx, doi)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%s returned no record", l.Name())
	}
	return rec, nil
}
