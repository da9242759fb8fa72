package esp

import "errors"

var (
	// ErrBadHeader means the file does not start with a valid TES4 header
	// record, or the header is missing its HEDR summary field. Nothing can
	// be recovered from such a file.
	ErrBadHeader = errors.New("invalid plugin header")

	// ErrEmptyFile means the input buffer is too small to hold even the
	// header envelope.
	ErrEmptyFile = errors.New("empty plugin file")
)
