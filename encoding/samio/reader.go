package samio

import (
	"bufio"
	"context"
	"io"
	"os"
	"runtime"

	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
	"github.com/grailbio/hts/sam"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"v.io/x/lib/vlog"
)

// Stdio is the path that denotes stdin for Open and stdout for Create.
const Stdio = "-"

// sniffSize is enough to hold the first BGZF block, which is at most 64KiB.
const sniffSize = 1 << 17

// Reader is a stream of records. It is implemented by both SAM and BAM
// inputs.
type Reader interface {
	// Header returns the header of the input. The caller must not modify it.
	Header() *sam.Header
	// Read returns the next record, or io.EOF after the last one.
	Read() (*sam.Record, error)
	// Close releases the input.
	Close() error
}

// ReaderOpts defines options for Open.
type ReaderOpts struct {
	// Format forces the input format. If Unknown, the format is guessed from
	// the path, then from the content.
	Format FileType
	// Parallelism is the number of BAM decompression goroutines. If <= 0,
	// runtime.NumCPU().
	Parallelism int
	// Stdin is read when the path is Stdio. If nil, os.Stdin.
	Stdin io.Reader
}

// recordReader is implemented by both hts sam.Reader and bam.Reader.
type recordReader interface {
	Header() *sam.Header
	Read() (*sam.Record, error)
}

type reader struct {
	path    string
	rr      recordReader
	closers []func() error
	nRecs   int
}

// Header implements Reader.
func (r *reader) Header() *sam.Header { return r.rr.Header() }

// Read implements Reader.
func (r *reader) Read() (*sam.Record, error) {
	rec, err := r.rr.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s: failed to parse record %d", r.path, r.nRecs)
	}
	r.nRecs++
	return rec, nil
}

// Close implements Reader.
func (r *reader) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if e := r.closers[i](); e != nil && err == nil {
			err = e
		}
	}
	r.closers = nil
	return err
}

// Open creates a reader for the SAM, gzipped SAM, or BAM file at path. The
// header is parsed before Open returns.
func Open(ctx context.Context, path string, opts ReaderOpts) (Reader, error) {
	r := &reader{path: path}
	var in io.Reader
	if path == Stdio {
		in = opts.Stdin
		if in == nil {
			in = os.Stdin
		}
	} else {
		f, err := file.Open(ctx, path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
		r.closers = append(r.closers, func() error { return f.Close(ctx) })
		in = f.Reader(ctx)
	}

	format := opts.Format
	if format == Unknown && path != Stdio {
		format = GuessFileType(path)
	}
	buf := bufio.NewReaderSize(in, sniffSize)
	head, err := buf.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		r.Close()
		return nil, errors.Wrapf(err, "read %s", path)
	}
	sniffed, gzipped := sniff(head)
	if format == Unknown {
		format = sniffed
	}
	vlog.VI(1).Infof("%s: opening as %v (gzip: %v)", path, format, gzipped)

	switch format {
	case BAM:
		parallelism := opts.Parallelism
		if parallelism <= 0 {
			parallelism = runtime.NumCPU()
		}
		br, err := bam.NewReader(buf, parallelism)
		if err != nil {
			r.Close()
			return nil, errors.Wrapf(err, "%s: failed to open BAM", path)
		}
		r.closers = append(r.closers, br.Close)
		r.rr = br
	default:
		var text io.Reader = buf
		if gzipped {
			zr, err := gzip.NewReader(buf)
			if err != nil {
				r.Close()
				return nil, errors.Wrapf(err, "%s: failed to open gzipped SAM", path)
			}
			r.closers = append(r.closers, zr.Close)
			text = zr
		}
		sr, err := sam.NewReader(text)
		if err != nil {
			r.Close()
			return nil, errors.Wrapf(err, "%s: failed to open SAM", path)
		}
		r.rr = sr
	}
	return r, nil
}
