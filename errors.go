package wordpiece

import "errors"

// Sentinel error kinds. Wrap with fmt.Errorf("...: %w", ErrX) and unwrap
// with errors.Is.
var (
	// ErrInvalidVocabulary is returned when a vocabulary file or slice
	// contains an empty entry, a duplicate (word, is_prefix) pair among
	// non-malformed non-special entries, or otherwise fails classification.
	ErrInvalidVocabulary = errors.New("wordpiece: invalid vocabulary")

	// ErrInputTooLarge is returned when a text buffer or the concatenated
	// suffix-array input exceeds the component's length limit.
	ErrInputTooLarge = errors.New("wordpiece: input too large")

	// ErrIoFailure wraps file-open, mmap, read, and write failures.
	ErrIoFailure = errors.New("wordpiece: io failure")

	// ErrInternal marks a violated invariant that indicates a bug rather
	// than bad input.
	ErrInternal = errors.New("wordpiece: internal error")

	// ErrInvalidArgument is returned when a caller-supplied parameter
	// outside the vocabulary/text inputs themselves violates its documented
	// contract, such as an external-mode memory budget below the minimum.
	ErrInvalidArgument = errors.New("wordpiece: invalid argument")
)
