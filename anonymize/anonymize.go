// Package anonymize overwrites a fixed set of patient-identifying attributes
// in DICOM files, one input/output pair at a time.
package anonymize

import (
	"bufio"
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"github.com/carbocation/dicomanon"
	"github.com/suyashkumar/dicom"
	"go.uber.org/zap"
)

// Options tune an Anonymizer.
type Options struct {
	// AllowMissing tolerates inputs that lack one of the target attributes.
	// The attribute is still written.
	AllowMissing bool

	// StorageClient is used for gs:// paths. It may be nil if no such paths
	// are processed.
	StorageClient *storage.Client
}

type Anonymizer struct {
	log      *zap.Logger
	studyIDs *StudyIDGenerator
	opts     Options
}

func New(logger *zap.Logger, studyIDs *StudyIDGenerator, opts Options) *Anonymizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if studyIDs == nil {
		studyIDs = NewClockSeededStudyIDGenerator()
	}

	return &Anonymizer{
		log:      logger,
		studyIDs: studyIDs,
		opts:     opts,
	}
}

// Run processes pairs in order and stops at the first failure. It returns how
// many pairs were fully written. Outputs written before a failure are left in
// place.
func (a *Anonymizer) Run(ctx context.Context, pairs []Pair) (int, error) {
	for i, pair := range pairs {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		if err := a.Process(ctx, pair); err != nil {
			return i, err
		}
	}

	return len(pairs), nil
}

// Process reads one input, overwrites its target attributes and writes the
// result to the paired output.
func (a *Anonymizer) Process(ctx context.Context, pair Pair) error {
	a.log.Info("[START] " + pair.Input)

	ds, err := a.read(ctx, pair.Input)
	if err != nil {
		return err
	}

	if err := a.substitute(pair, &ds, a.fields()); err != nil {
		return err
	}

	if err := a.write(ctx, pair.Output, ds); err != nil {
		return err
	}

	a.log.Info("[END] " + pair.Input)

	return nil
}

func (a *Anonymizer) read(ctx context.Context, path string) (dicom.Dataset, error) {
	a.log.Info("[START] read " + path)

	rdr, size, err := dicomanon.OpenMaybeGoogleStorage(ctx, path, a.opts.StorageClient)
	if err != nil {
		return dicom.Dataset{}, &ParseError{Path: path, Err: err}
	}
	defer rdr.Close()

	ds, err := safelyParse(bufio.NewReader(rdr), size)
	if err != nil {
		return dicom.Dataset{}, &ParseError{Path: path, Err: err}
	}

	a.log.Info("[END] read " + path)

	return ds, nil
}

func (a *Anonymizer) substitute(pair Pair, ds *dicom.Dataset, fields []field) error {
	for _, f := range fields {
		old := "<absent>"
		if _, elem := findElement(ds, f.tag); elem != nil {
			old = displayValue(elem)
		} else if !a.opts.AllowMissing {
			return &MissingAttributeError{Path: pair.Input, Name: f.name, Tag: f.tag, Err: dicom.ErrorElementNotFound}
		}

		value := f.value()
		logged := value
		if f.logged != "" {
			logged = f.logged
		}

		a.log.Info(f.name+": "+old+" -> "+logged, zap.Stringer("tag", f.tag))

		if err := putString(ds, f.tag, value); err != nil {
			return &WriteError{Path: pair.Output, Err: fmt.Errorf("could not set %s %s: %w", f.name, f.tag, err)}
		}
	}

	return nil
}

func (a *Anonymizer) write(ctx context.Context, path string, ds dicom.Dataset) (err error) {
	a.log.Info("[START] write " + path)

	// Cancelling the context before Close aborts a google storage upload, so
	// a failed write never commits a partial object.
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w, err := dicomanon.CreateMaybeGoogleStorage(wctx, path, a.opts.StorageClient)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	defer func() {
		if err == nil {
			return
		}
		if rmErr := dicomanon.RemoveMaybeLocal(path); rmErr != nil {
			a.log.Warn("could not remove partial output", zap.String("output", path), zap.Error(rmErr))
		}
	}()

	buf := bufio.NewWriter(w)
	if err := safelyWrite(buf, ds); err != nil {
		cancel()
		w.Close()
		return &WriteError{Path: path, Err: err}
	}

	if err := buf.Flush(); err != nil {
		cancel()
		w.Close()
		return &WriteError{Path: path, Err: err}
	}

	if err := w.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}

	a.log.Info("[END] write " + path)

	return nil
}
