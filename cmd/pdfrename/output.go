package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matsen/pdfrename/internal/renamer"
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SummaryResponse is the final JSON line of a run.
type SummaryResponse struct {
	Folder  string `json:"folder"`
	DryRun  bool   `json:"dry_run,omitempty"`
	Renamed int    `json:"renamed"`
	Skipped int    `json:"skipped"`
	Errors  int    `json:"errors"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputJSONCompact writes a value as compact JSON to w.
func outputJSONCompact(w io.Writer, v interface{}) error {
	return json.NewEncoder(w).Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// writeResult prints one file's result as a JSON line or a status line.
func writeResult(w io.Writer, res renamer.Result, human bool) {
	if !human {
		outputJSONCompact(w, res)
		return
	}
	fmt.Fprintln(w, formatResultHuman(res))
}

// formatResultHuman formats a result as a single status line.
func formatResultHuman(res renamer.Result) string {
	switch res.Status {
	case renamer.StatusRenamed:
		return fmt.Sprintf("renamed  %s -> %s (%s)", res.File, res.NewName, res.Source)
	case renamer.StatusWouldRename:
		return fmt.Sprintf("would rename  %s -> %s (%s)", res.File, res.NewName, res.Source)
	case renamer.StatusSkipped:
		return fmt.Sprintf("skipped  %s: %s", res.File, res.Reason)
	default:
		return fmt.Sprintf("error    %s: %s", res.File, res.Reason)
	}
}

// writeSummary prints the totals of a run.
func writeSummary(w io.Writer, s *renamer.Summary, dry, human bool) {
	if !human {
		outputJSONCompact(w, SummaryResponse{
			Folder:  s.Folder,
			DryRun:  dry,
			Renamed: s.Renamed,
			Skipped: s.Skipped,
			Errors:  s.Errors,
		})
		return
	}
	verb := "Renamed"
	if dry {
		verb = "Would rename"
	}
	fmt.Fprintf(w, "\n%s %d, skipped %d, errors %d\n", verb, s.Renamed, s.Skipped, s.Errors)
}
