package samio

import (
	"bufio"
	"context"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"v.io/x/lib/vlog"
)

// Writer is a sink of records. The header is written when the Writer is
// created.
type Writer interface {
	Write(r *sam.Record) error
	// Close flushes buffered records and the format trailer, and closes the
	// output.
	Close() error
}

// WriterOpts defines options for Create.
type WriterOpts struct {
	// Format is the output format. If Unknown, it is guessed from the path,
	// and defaults to SAM.
	Format FileType
	// Parallelism is the number of BAM compression goroutines. If <= 0,
	// runtime.NumCPU().
	Parallelism int
	// Stdout is written when the path is Stdio or "". If nil, os.Stdout.
	Stdout io.Writer
}

type samWriter struct {
	w   *sam.Writer
	buf *bufio.Writer
	zw  *gzip.Writer // nil unless the output is gzipped
}

func (w *samWriter) Write(r *sam.Record) error { return w.w.Write(r) }

func (w *samWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.zw != nil {
		return w.zw.Close()
	}
	return nil
}

type writer struct {
	path   string
	rw     Writer
	closer func() error
}

// Write implements Writer.
func (w *writer) Write(r *sam.Record) error {
	if err := w.rw.Write(r); err != nil {
		return errors.Wrapf(err, "%s: write %s", w.path, r.Name)
	}
	return nil
}

// Close implements Writer.
func (w *writer) Close() error {
	err := w.rw.Close()
	if w.closer != nil {
		if e := w.closer(); e != nil && err == nil {
			err = e
		}
	}
	if err != nil {
		return errors.Wrapf(err, "close %s", w.path)
	}
	return nil
}

// Create creates a SAM or BAM writer for path and writes header h. Existing
// contents of path, if any, are destroyed. SAM output to a path ending in
// ".gz" is gzip-compressed.
func Create(ctx context.Context, path string, h *sam.Header, opts WriterOpts) (Writer, error) {
	w := &writer{path: path}
	var out io.Writer
	if path == "" || path == Stdio {
		w.path = "(stdout)"
		out = opts.Stdout
		if out == nil {
			out = os.Stdout
		}
	} else {
		f, err := file.Create(ctx, path)
		if err != nil {
			return nil, errors.Wrapf(err, "create %s", path)
		}
		w.closer = func() error { return f.Close(ctx) }
		out = f.Writer(ctx)
	}

	format := opts.Format
	if format == Unknown && w.closer != nil {
		format = GuessFileType(path)
	}
	vlog.VI(1).Infof("%s: writing as %v", w.path, format)
	switch format {
	case BAM:
		parallelism := opts.Parallelism
		if parallelism <= 0 {
			parallelism = runtime.NumCPU()
		}
		bw, err := bam.NewWriterLevel(out, h, gzip.DefaultCompression, parallelism)
		if err != nil {
			w.abort()
			return nil, errors.Wrapf(err, "%s: failed to create BAM writer", w.path)
		}
		w.rw = bw
	default:
		sw := &samWriter{}
		if strings.HasSuffix(path, ".gz") {
			zw, err := gzip.NewWriterLevel(out, gzip.DefaultCompression)
			if err != nil {
				w.abort()
				return nil, errors.Wrapf(err, "%s: failed to create gzip writer", w.path)
			}
			sw.zw = zw
			out = zw
		}
		sw.buf = bufio.NewWriter(out)
		var err error
		if sw.w, err = sam.NewWriter(sw.buf, h, sam.FlagDecimal); err != nil {
			w.abort()
			return nil, errors.Wrapf(err, "%s: failed to create SAM writer", w.path)
		}
		w.rw = sw
	}
	return w, nil
}

func (w *writer) abort() {
	if w.closer != nil {
		if err := w.closer(); err != nil {
			vlog.Errorf("close %s: %v", w.path, err)
		}
	}
}
