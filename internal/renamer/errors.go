package renamer

import "errors"

// Per-file outcomes. Each is logged with the file name and the batch
// continues; none aborts a run.
var (
	// ErrNoDOIFound means the scanned pages contain no DOI-shaped token.
	ErrNoDOIFound = errors.New("no DOI found")

	// ErrMetadataLookupFailed means both remote lookups failed.
	ErrMetadataLookupFailed = errors.New("metadata lookup failed")

	// ErrInsufficientMetadata means no title or author could be determined.
	ErrInsufficientMetadata = errors.New("insufficient metadata")

	// ErrFilenameCollision means the target name is already taken.
	ErrFilenameCollision = errors.New("target filename already exists")

	// ErrUnexpected covers extraction, filesystem and any other failure.
	ErrUnexpected = errors.New("unexpected error")
)
