// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package circular

import (
	"context"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
)

const (
	// DefaultTargetName is the conventional name of the human mitochondrial
	// reference.
	DefaultTargetName = "chrM"
	// DefaultRefLen is the length of the human mitochondrial genome (rCRS).
	DefaultRefLen = 16569
)

// Opts defines the behavior of Convert.
type Opts struct {
	// RefName is the name of the doubled reference in the input header.
	// Must be nonempty.
	RefName string
	// TargetName is the name of the single-copy reference in the output
	// header. If "", DefaultTargetName.
	TargetName string
	// RefLen is the length of one copy of the circular reference. Must be
	// positive.
	RefLen int
	// AllRefs causes records on every reference to be converted, not just
	// the ones on RefName.
	AllRefs bool
	// Program, if non-nil, is added to the output header as a @PG line.
	Program *sam.Program
}

// Validate checks opts and fills in defaults.
func (o *Opts) Validate() error {
	if o.RefName == "" {
		return errors.E(errors.Invalid, "name of the doubled reference must be set")
	}
	if o.TargetName == "" {
		o.TargetName = DefaultTargetName
	}
	if o.RefLen <= 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("reference length must be positive, but got %d", o.RefLen))
	}
	return nil
}

// RecordReader is a stream of records. It is implemented by the SAM and
// BAM readers of grailbio/hts.
type RecordReader interface {
	Header() *sam.Header
	// Read returns the next record, or io.EOF at the end of the stream.
	Read() (*sam.Record, error)
}

// RecordWriter is a sink of records. Close flushes any buffered data and
// the stream trailer.
type RecordWriter interface {
	Write(r *sam.Record) error
	Close() error
}

// NewWriterFunc creates the output once the header is known. The writer is
// expected to emit the header before any record.
type NewWriterFunc func(h *sam.Header) (RecordWriter, error)

// Converter rewrites records of one stream. It is created by Convert after
// the header has been adjusted, and holds no state across records other
// than Metrics.
type Converter struct {
	opts    Opts
	refMap  RefMap
	doubled *sam.Reference // input header entry for opts.RefName, may be nil
	Metrics Metrics
}

// NewConverter creates a Converter for records read against inHeader. It
// returns the adjusted output header.
func NewConverter(opts Opts, inHeader *sam.Header) (*Converter, *sam.Header, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	outHeader, refMap, err := AdjustHeader(inHeader, opts.RefName, opts.TargetName, opts.RefLen)
	if err != nil {
		return nil, nil, err
	}
	if opts.Program != nil {
		if err := outHeader.AddProgram(opts.Program); err != nil {
			log.Error.Printf("could not add @PG line %s: %v", opts.Program.UID(), err)
		}
	}
	c := &Converter{
		opts:    opts,
		refMap:  refMap,
		doubled: refByName(inHeader, opts.RefName),
	}
	return c, outHeader, nil
}

// Convert rewrites one record. It returns r itself when r needs no change,
// and newly allocated records otherwise. The reference fields of r are
// re-pointed to the output header in all cases.
func (c *Converter) Convert(r *sam.Record) ([]*sam.Record, error) {
	c.Metrics.RecordsRead++
	onDoubled := c.doubled != nil && r.Ref == c.doubled
	if c.doubled != nil && r.MateRef == c.doubled && r.MatePos >= c.opts.RefLen {
		r.MatePos -= c.opts.RefLen
	}
	r.Ref = c.refMap.Get(r.Ref)
	r.MateRef = c.refMap.Get(r.MateRef)
	if r.Ref == nil || r.Pos < 0 {
		log.Printf("read %s has no alignment start; leaving it unchanged", r.Name)
		c.Metrics.NoStart++
		return []*sam.Record{r}, nil
	}
	if !onDoubled && !c.opts.AllRefs {
		c.Metrics.OtherRef++
		return []*sam.Record{r}, nil
	}

	a := SAMAlignment{r}
	plan, err := NewPlan(a, c.opts.RefLen)
	if err != nil {
		return nil, err
	}
	switch plan.Outcome {
	case Unchanged:
		c.Metrics.Unchanged++
		return []*sam.Record{r}, nil
	case Shifted:
		log.Debug.Printf("read %s starts at %d, beyond the reference; shifting to %d", r.Name, r.Pos+1, plan.Pos+1)
		c.Metrics.Shifted++
		return []*sam.Record{ShiftRecord(r, plan.Pos)}, nil
	case Split:
		left, right := SplitRecord(r, plan)
		for _, half := range []*sam.Record{left, right} {
			if err := CheckRecord(half); err != nil {
				return nil, err
			}
		}
		c.Metrics.Split++
		return []*sam.Record{left, right}, nil
	}
	panic(plan.Outcome)
}

// Convert reads every record from in, converts it, and writes the result to
// the writer created by newWriter, in input order. The writer is closed
// before Convert returns. On error, records converted so far have been
// written.
func Convert(ctx context.Context, opts Opts, in RecordReader, newWriter NewWriterFunc) (Metrics, error) {
	c, header, err := NewConverter(opts, in.Header())
	if err != nil {
		return Metrics{}, err
	}
	out, err := newWriter(header)
	if err != nil {
		return Metrics{}, err
	}
	e := errors.Once{}
	e.Set(c.run(ctx, in, out))
	e.Set(out.Close())
	log.Printf("%s -> %s: %v", opts.RefName, c.opts.TargetName, c.Metrics)
	return c.Metrics, e.Err()
}

func (c *Converter) run(ctx context.Context, in RecordReader, out RecordWriter) error {
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := in.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.E(err, fmt.Sprintf("failed to read %dth record", n))
		}
		recs, err := c.Convert(r)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			if err := out.Write(rec); err != nil {
				return errors.E(err, "write record", rec.Name)
			}
			c.Metrics.RecordsWritten++
		}
		if recs[0] != r {
			// r was rewritten into fresh records.
			sam.PutInFreePool(r)
		}
	}
}
