package photoupload

import "errors"

// Failures returned by Pipeline.Upload. Callers match them with errors.Is.
var (
	ErrMissingFile      = errors.New("no photo provided")
	ErrUnsupportedType  = errors.New("invalid file type")
	ErrFileTooLarge     = errors.New("file too large")
	ErrUserNotFound     = errors.New("user not found")
	ErrProcessingFailed = errors.New("failed to process image")
	ErrInternal         = errors.New("internal error")
)
