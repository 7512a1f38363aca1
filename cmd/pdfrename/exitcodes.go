package main

// Exit codes. Per-file failures never change the exit code.
const (
	ExitSuccess     = 0 // Batch completed
	ExitError       = 1 // General error (invalid arguments, unreadable folder)
	ExitConfigError = 2 // Configuration error (malformed config.yml, invalid values)
)
