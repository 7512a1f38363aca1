package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/matsen/pdfrename/internal/config"
	"github.com/matsen/pdfrename/internal/crossref"
	"github.com/matsen/pdfrename/internal/doiorg"
	"github.com/matsen/pdfrename/internal/pdf"
	"github.com/matsen/pdfrename/internal/renamer"
	"github.com/matsen/pdfrename/internal/resolver"
	"github.com/spf13/cobra"
)

func runRename(cmd *cobra.Command, args []string) error {
	folder, err := resolveFolder(args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	settings, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if mailtoFlag != "" {
		settings.Mailto = mailtoFlag
	}

	logger := newLogger(verbose)
	r := newRenamer(settings, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := r.Run(ctx, folder)
	if summary != nil {
		writeSummary(os.Stdout, summary, dryRun, humanOutput)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted")
			return nil
		}
		exitWithError(ExitError, "%v", err)
	}
	return nil
}

// resolveFolder returns the absolute folder to process.
func resolveFolder(args []string) (string, error) {
	if len(args) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(config.ExpandPath(args[0]))
	if err != nil {
		return "", fmt.Errorf("resolving folder %q: %w", args[0], err)
	}
	return abs, nil
}

// newLogger returns the stderr diagnostic logger.
func newLogger(verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:  level,
		Prefix: "pdfrename",
	})
}

// newRenamer wires the extractor, the two-stage resolver and the renamer.
func newRenamer(s config.Settings, logger *log.Logger) *renamer.Renamer {
	hc := &http.Client{Timeout: s.Timeout}
	userAgent := "pdfrename/" + Version

	crossrefOpts := []crossref.ClientOption{
		crossref.WithHTTPClient(hc),
		crossref.WithRateLimit(s.RateLimit),
		crossref.WithMailto(s.Mailto),
		crossref.WithUserAgent(userAgent),
	}
	if s.CrossrefURL != "" {
		crossrefOpts = append(crossrefOpts, crossref.WithBaseURL(s.CrossrefURL))
	}

	doiOpts := []doiorg.ClientOption{
		doiorg.WithHTTPClient(hc),
		doiorg.WithUserAgent(userAgent),
	}
	if s.DOIURL != "" {
		doiOpts = append(doiOpts, doiorg.WithBaseURL(s.DOIURL))
	}

	res := resolver.New(
		crossref.NewClient(crossrefOpts...),
		doiorg.NewClient(doiOpts...),
		resolver.WithLogger(logger),
	)

	return renamer.New(pdf.LedongthucExtractor{}, res,
		renamer.WithMaxPages(s.MaxPages),
		renamer.WithDryRun(dryRun),
		renamer.WithLogger(logger),
		renamer.WithReporter(func(r renamer.Result) {
			writeResult(os.Stdout, r, humanOutput)
		}),
	)
}
