package anonymize

import (
	"fmt"
	"io"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// safelyParse consumes panics emitted by the dicom library on malformed input
// and turns them into recoverable errors.
func safelyParse(r io.Reader, size int64) (ds dicom.Dataset, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			err = fmt.Errorf("%v", panicErr)
		}
	}()

	// Pixel data is kept: it has to be written back out unchanged.
	return dicom.Parse(r, size, nil)
}

// safelyWrite is the writing counterpart of safelyParse. VR verification is
// skipped because the elements came out of the parser (private tags
// included) and are written back as they were read.
func safelyWrite(w io.Writer, ds dicom.Dataset) (err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			err = fmt.Errorf("%v", panicErr)
		}
	}()

	return dicom.Write(w, ds, dicom.SkipVRVerification())
}

// findElement looks only at the top level of the dataset.
func findElement(ds *dicom.Dataset, t tag.Tag) (int, *dicom.Element) {
	for i, elem := range ds.Elements {
		if elem != nil && elem.Tag == t {
			return i, elem
		}
	}

	return -1, nil
}

// putString replaces the element with tag t by a single string value, or
// inserts one at its sorted position if there is none. The VR comes from the
// tag dictionary.
func putString(ds *dicom.Dataset, t tag.Tag, value string) error {
	elem, err := dicom.NewElement(t, []string{value})
	if err != nil {
		return err
	}

	if i, _ := findElement(ds, t); i >= 0 {
		ds.Elements[i] = elem
		return nil
	}

	at := len(ds.Elements)
	for i, existing := range ds.Elements {
		if existing != nil && tagLess(t, existing.Tag) {
			at = i
			break
		}
	}

	ds.Elements = append(ds.Elements, nil)
	copy(ds.Elements[at+1:], ds.Elements[at:])
	ds.Elements[at] = elem

	return nil
}

func tagLess(a, b tag.Tag) bool {
	if a.Group != b.Group {
		return a.Group < b.Group
	}

	return a.Element < b.Element
}

// displayValue renders an element value for the log.
func displayValue(elem *dicom.Element) string {
	if elem == nil || elem.Value == nil {
		return ""
	}

	if strs, ok := elem.Value.GetValue().([]string); ok {
		return strings.Join(strs, `\`)
	}

	return elem.Value.String()
}
