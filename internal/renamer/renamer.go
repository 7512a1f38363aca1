// Package renamer drives the per-file pipeline: extract text, locate a DOI,
// resolve metadata (falling back to heuristics), synthesize a filename and
// rename the file in place.
package renamer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/matsen/pdfrename/internal/csl"
	"github.com/matsen/pdfrename/internal/filename"
	"github.com/matsen/pdfrename/internal/heuristic"
	"github.com/matsen/pdfrename/internal/pdf"
)

// SourceHeuristic marks metadata guessed from the document text.
const SourceHeuristic = "heuristic"

// MetadataResolver resolves a DOI to a record and names the service that
// answered.
type MetadataResolver interface {
	Resolve(ctx context.Context, doi string) (*csl.Record, string, error)
}

// FS is the slice of the filesystem the renamer touches.
type FS interface {
	ReadDir(name string) ([]os.DirEntry, error)
	Exists(name string) (bool, error)
	Rename(oldpath, newpath string) error
}

type osFS struct{}

func (osFS) ReadDir(name string) ([]os.DirEntry, error) { return os.ReadDir(name) }

func (osFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

func (osFS) Exists(name string) (bool, error) {
	_, err := os.Stat(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Renamer processes the PDFs of one folder sequentially.
type Renamer struct {
	extractor pdf.Extractor
	resolver  MetadataResolver
	fs        FS
	logger    *log.Logger
	maxPages  int
	dryRun    bool
	report    func(Result)
}

// Option configures a Renamer.
type Option func(*Renamer)

// WithMaxPages sets how many leading pages are read per file.
func WithMaxPages(n int) Option {
	return func(r *Renamer) {
		r.maxPages = n
	}
}

// WithDryRun computes target names without renaming anything.
func WithDryRun(dryRun bool) Option {
	return func(r *Renamer) {
		r.dryRun = dryRun
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Renamer) {
		r.logger = l
	}
}

// WithFS replaces the filesystem (for testing).
func WithFS(fs FS) Option {
	return func(r *Renamer) {
		r.fs = fs
	}
}

// WithReporter registers a callback invoked with each file's Result as soon
// as it is known.
func WithReporter(fn func(Result)) Option {
	return func(r *Renamer) {
		r.report = fn
	}
}

// New creates a Renamer.
func New(extractor pdf.Extractor, resolver MetadataResolver, opts ...Option) *Renamer {
	r := &Renamer{
		extractor: extractor,
		resolver:  resolver,
		fs:        osFS{},
		logger:    log.New(io.Discard),
		maxPages:  pdf.DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// IsPDF reports whether name has a .pdf extension in any case.
func IsPDF(name string) bool {
	return strings.EqualFold(filepath.Ext(name), filename.Extension)
}

// Run processes every PDF directly inside folder. Only a failure to list the
// folder, or cancellation of ctx, is returned as an error; per-file failures
// are recorded in the Summary. A file interrupted by cancellation is skipped
// and left untouched.
func (r *Renamer) Run(ctx context.Context, folder string) (*Summary, error) {
	entries, err := r.fs.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", folder, err)
	}

	summary := &Summary{Folder: folder}
	for _, entry := range entries {
		if entry.IsDir() || !IsPDF(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res := r.ProcessFile(ctx, folder, entry.Name())
		summary.add(res)
		if r.report != nil {
			r.report(res)
		}
		if err := ctx.Err(); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// ProcessFile runs the pipeline for a single file. It never panics.
func (r *Renamer) ProcessFile(ctx context.Context, folder, name string) (res Result) {
	logger := r.logger.With("file", name)
	res = Result{File: name}

	defer func() {
		if p := recover(); p != nil {
			res = failed(res, fmt.Errorf("%w: panic: %v", ErrUnexpected, p))
		}
		switch res.Status {
		case StatusError:
			logger.Error("processing failed", "err", res.Err)
		case StatusSkipped:
			logger.Warn("skipped", "reason", res.Reason)
		default:
			logger.Info(string(res.Status), "to", res.NewName, "source", res.Source)
		}
	}()

	path := filepath.Join(folder, name)
	logger.Debug("processing")

	text, err := r.extractor.ExtractText(path, r.maxPages)
	if err != nil {
		return failed(res, fmt.Errorf("%w: extracting text: %v", ErrUnexpected, err))
	}

	rec, err := r.resolve(ctx, logger, text, &res)
	if err != nil {
		return skipped(res, err)
	}

	newName, err := filename.Synthesize(rec)
	if err != nil {
		return skipped(res, fmt.Errorf("%w: %w", ErrInsufficientMetadata, err))
	}
	res.NewName = newName

	if newName == name {
		return skipped(res, fmt.Errorf("%w: %s is already named correctly", ErrFilenameCollision, newName))
	}
	target := filepath.Join(folder, newName)
	if err := ctx.Err(); err != nil {
		return skipped(res, fmt.Errorf("interrupted before renaming: %w", err))
	}
	exists, err := r.fs.Exists(target)
	if err != nil {
		return failed(res, fmt.Errorf("%w: checking %s: %v", ErrUnexpected, newName, err))
	}
	if exists {
		return skipped(res, fmt.Errorf("%w: %s", ErrFilenameCollision, newName))
	}

	if r.dryRun {
		res.Status = StatusWouldRename
		return res
	}
	if err := r.fs.Rename(path, target); err != nil {
		return failed(res, fmt.Errorf("%w: renaming: %v", ErrUnexpected, err))
	}
	res.Status = StatusRenamed
	return res
}

// resolve finds metadata for the document: remote lookup by DOI first, then
// the text heuristics. It returns an ErrInsufficientMetadata error when the
// heuristic guess lacks a title or author, and ctx's error when the lookup
// was cut short by cancellation.
func (r *Renamer) resolve(ctx context.Context, logger *log.Logger, text string, res *Result) (*csl.Record, error) {
	doi := pdf.FindDOI(text)
	res.DOI = doi

	if doi == "" {
		logger.Info("falling back to text heuristics", "reason", ErrNoDOIFound)
	} else {
		rec, source, err := r.resolver.Resolve(ctx, doi)
		if err == nil && rec != nil {
			res.Source = source
			return rec, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("resolving %s: %w", doi, ctxErr)
		}
		if err == nil {
			err = errors.New("no record returned")
		}
		logger.Warn("falling back to text heuristics", "doi", doi, "reason", fmt.Errorf("%w: %v", ErrMetadataLookupFailed, err))
	}

	rec := heuristic.Extract(text)
	res.Source = SourceHeuristic
	if !rec.Sufficient() {
		if doi == "" {
			return nil, fmt.Errorf("%w: %w and no title/author in text", ErrInsufficientMetadata, ErrNoDOIFound)
		}
		return nil, fmt.Errorf("%w: %w and no title/author in text", ErrInsufficientMetadata, ErrMetadataLookupFailed)
	}
	return rec, nil
}
