package anonymize

import (
	"fmt"

	"github.com/suyashkumar/dicom/pkg/tag"
)

// ArgumentError reports malformed input/output lists.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string {
	return "invalid arguments: " + e.Msg
}

// ParseError reports an input that is missing, unreadable or not DICOM.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse dicom %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingAttributeError reports a target attribute absent from the input.
type MissingAttributeError struct {
	Path string
	Name string
	Tag  tag.Tag
	Err  error
}

func (e *MissingAttributeError) Error() string {
	return fmt.Sprintf("%s: %s %s not found", e.Path, e.Name, e.Tag)
}

func (e *MissingAttributeError) Unwrap() error { return e.Err }

// WriteError reports a failure to create, serialize or commit an output.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write dicom %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
