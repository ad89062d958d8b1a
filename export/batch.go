package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Result is the outcome of one exporter: an artifact or an error.
type Result struct {
	Artifact *Artifact
	Err      error
}

// Batch maps every requested format to its result.
type Batch map[Format]Result

// ExportAll runs the exporters concurrently on the same image. A failing
// exporter only sets the error of its own format. Without exporters every
// registered format is produced.
func ExportAll(img image.Image, opts Options, exporters ...Exporter) Batch {
	if len(exporters) == 0 {
		exporters = Default()
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		batch = make(Batch, len(exporters))
	)
	wg.Add(len(exporters))
	for _, e := range exporters {
		go func(e Exporter) {
			defer wg.Done()
			res := run(e, img, opts)
			if res.Err != nil {
				Logger().Warn("export failed", zap.String("format", string(e.Format())), zap.Error(res.Err))
			}
			mu.Lock()
			batch[e.Format()] = res
			mu.Unlock()
		}(e)
	}
	wg.Wait()
	return batch
}

// run calls the exporter, turning panics and bare errors into ErrExportIO.
func run(e Exporter, img image.Image, opts Options) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("%w: %s: %v", ErrExportIO, e.Format(), r)}
		}
	}()
	a, err := e.Export(img, opts)
	if err != nil {
		if !errors.Is(err, ErrExportIO) && !errors.Is(err, ErrInvalidOptions) {
			err = fmt.Errorf("%w: %s: %v", ErrExportIO, e.Format(), err)
		}
		return Result{Err: err}
	}
	return Result{Artifact: a}
}

// Formats returns the formats of the batch in a stable order.
func (b Batch) Formats() []Format {
	fs := make([]Format, 0, len(b))
	for f := range b {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool { return fs[i] < fs[j] })
	return fs
}

// Errors returns the failed formats and their errors.
func (b Batch) Errors() map[Format]error {
	errs := make(map[Format]error)
	for f, r := range b {
		if r.Err != nil {
			errs[f] = r.Err
		}
	}
	return errs
}

// WriteDir writes every successful artifact into dir as base plus the format
// extension. A write failure replaces the artifact of its format with an
// ErrExportIO error; the other formats are still written.
func (b Batch) WriteDir(dir, base string) map[Format]Result {
	out := make(map[Format]Result, len(b))
	if err := os.MkdirAll(dir, 0755); err != nil {
		for f := range b {
			out[f] = Result{Err: fmt.Errorf("%w: %v", ErrExportIO, err)}
		}
		return out
	}
	for _, f := range b.Formats() {
		r := b[f]
		if r.Err != nil {
			out[f] = r
			continue
		}
		path := filepath.Join(dir, r.Artifact.Name(base))
		if err := os.WriteFile(path, r.Artifact.Data, 0644); err != nil {
			out[f] = Result{Err: fmt.Errorf("%w: %s: %v", ErrExportIO, f, err)}
			continue
		}
		out[f] = r
	}
	return out
}

// Zip bundles every successful artifact into a zip archive.
// It returns the number of files written.
func (b Batch) Zip(w io.Writer, base string) (int, error) {
	zw := zip.NewWriter(w)
	n := 0
	for _, f := range b.Formats() {
		r := b[f]
		if r.Err != nil {
			continue
		}
		fw, err := zw.Create(r.Artifact.Name(base))
		if err != nil {
			return n, fmt.Errorf("%w: %v", ErrExportIO, err)
		}
		if _, err := fw.Write(r.Artifact.Data); err != nil {
			return n, fmt.Errorf("%w: %v", ErrExportIO, err)
		}
		n++
	}
	if err := zw.Close(); err != nil {
		return n, fmt.Errorf("%w: %v", ErrExportIO, err)
	}
	return n, nil
}
