package core

import "errors"

var (
	// ErrCorruptLog is returned by Open when a header or record in the log
	// cannot be decoded before end-of-file, including a trailing partial
	// record left behind by a crash mid-write. Corruption is fatal to the
	// whole store instance; there is no truncate-and-resume.
	ErrCorruptLog = errors.New("corrupt log")

	// ErrIndexCorruption is returned by Get when the KeyDir points at an
	// offset whose bytes fail to decode. The log and the index have
	// diverged, which indicates a logic bug or external modification of
	// the file; it is never a normal operating condition.
	ErrIndexCorruption = errors.New("index corruption")

	// ErrClosed is returned by any operation attempted after Close.
	ErrClosed = errors.New("store is closed")

	ErrKeyTooLarge   = errors.New("key too large")
	ErrValueTooLarge = errors.New("value too large")
)
