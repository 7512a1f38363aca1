package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/matsen/pdfrename/internal/csl"
)

type fakeLookup struct {
	name  string
	rec   *csl.Record
	err   error
	calls int
}

func (f *fakeLookup) Name() string { return f.name }

func (f *fakeLookup) Lookup(ctx context.Context, doi string) (*csl.Record, error) {
	f.calls++
	return f.rec, f.err
}

func record(title string) *csl.Record {
	return &csl.Record{Title: csl.TextList(title), Authors: csl.NameList(csl.Name{Family: "Smith"})}
}

func TestResolve_PrimarySucceeds(t *testing.T) {
	primary := &fakeLookup{name: "crossref", rec: record("Primary")}
	fallback := &fakeLookup{name: "doi.org", rec: record("Fallback")}

	rec, source, err := New(primary, fallback).Resolve(context.Background(), "10.1234/x")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if source != "crossref" {
		t.Errorf("source = %q, want crossref", source)
	}
	if rec.Title.First() != "Primary" {
		t.Errorf("Title = %q, want Primary", rec.Title.First())
	}
	if fallback.calls != 0 {
		t.Errorf("fallback called %d times, want 0", fallback.calls)
	}
}

func TestResolve_FallbackAfterPrimaryError(t *testing.T) {
	primary := &fakeLookup{name: "crossref", err: errors.New("timeout")}
	fallback := &fakeLookup{name: "doi.org", rec: record("Fallback")}

	rec, source, err := New(primary, fallback).Resolve(context.Background(), "10.1234/x")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if source != "doi.org" {
		t.Errorf("source = %q, want doi.org", source)
	}
	if rec.Title.First() != "Fallback" {
		t.Errorf("Title = %q, want Fallback", rec.Title.First())
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", primary.calls, fallback.calls)
	}
}

func TestResolve_NilRecordFallsBack(t *testing.T) {
	primary := &fakeLookup{name: "crossref"}
	fallback := &fakeLookup{name: "doi.org", rec: record("Fallback")}

	_, source, err := New(primary, fallback).Resolve(context.Background(), "10.1234/x")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if source != "doi.org" {
		t.Errorf("source = %q, want doi.org", source)
	}
}

func TestResolve_BothFail(t *testing.T) {
	primaryErr := errors.New("crossref down")
	fallbackErr := errors.New("doi.org 404")
	primary := &fakeLookup{name: "crossref", err: primaryErr}
	fallback := &fakeLookup{name: "doi.org", err: fallbackErr}

	rec, _, err := New(primary, fallback).Resolve(context.Background(), "10.1234/x")
	if rec != nil {
		t.Errorf("Resolve() rec = %+v, want nil", rec)
	}
	if !errors.Is(err, ErrLookupFailed) {
		t.Errorf("error = %v, want ErrLookupFailed", err)
	}
	if !errors.Is(err, primaryErr) || !errors.Is(err, fallbackErr) {
		t.Errorf("error = %v, want both causes wrapped", err)
	}
}

func TestResolve_NoFallback(t *testing.T) {
	primary := &fakeLookup{name: "crossref", err: errors.New("down")}

	_, _, err := New(primary, nil).Resolve(context.Background(), "10.1234/x")
	if !errors.Is(err, ErrLookupFailed) {
		t.Errorf("error = %v, want ErrLookupFailed", err)
	}
}
