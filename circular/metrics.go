package circular

import (
	"context"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// Metrics counts what happened to the records of one conversion.
type Metrics struct {
	// RecordsRead is the number of input records.
	RecordsRead int
	// OtherRef is the number of records not on the doubled reference. They
	// are forwarded unchanged unless Opts.AllRefs is set.
	OtherRef int
	// NoStart is the number of records without an alignment start, on any
	// reference. They are forwarded unchanged.
	NoStart int
	// Unchanged is the number of classified records entirely within the
	// first reference copy.
	Unchanged int
	// Shifted is the number of records moved from the second copy to the
	// first.
	Shifted int
	// Split is the number of records cut at the join. Each produces two
	// output records.
	Split int
	// RecordsWritten is the number of output records.
	RecordsWritten int
}

// String returns a one-line summary suitable for logging.
func (m Metrics) String() string {
	return fmt.Sprintf("read %d, written %d (other-ref %d, no-start %d, unchanged %d, shifted %d, split %d)",
		m.RecordsRead, m.RecordsWritten, m.OtherRef, m.NoStart, m.Unchanged, m.Shifted, m.Split)
}

// WriteTSV writes the metrics to path as a two-line TSV: a header row and
// a value row.
func (m Metrics) WriteTSV(ctx context.Context, path string) (err error) {
	out, err := file.Create(ctx, path)
	if err != nil {
		return errors.E(err, "couldn't create metrics file:", path)
	}
	defer func() {
		if err2 := out.Close(ctx); err == nil && err2 != nil {
			err = errors.E(err2, "close metrics file:", path)
		}
	}()
	w := tsv.NewWriter(out.Writer(ctx))
	for _, col := range []string{"RECORDS_READ", "OTHER_REF", "NO_START", "UNCHANGED", "SHIFTED", "SPLIT", "RECORDS_WRITTEN"} {
		w.WriteString(col)
	}
	if err = w.EndLine(); err != nil {
		return errors.E(err, "error writing to metrics file:", path)
	}
	for _, v := range []int{m.RecordsRead, m.OtherRef, m.NoStart, m.Unchanged, m.Shifted, m.Split, m.RecordsWritten} {
		w.WriteUint32(uint32(v))
	}
	if err = w.EndLine(); err != nil {
		return errors.E(err, "error writing to metrics file:", path)
	}
	if err = w.Flush(); err != nil {
		return errors.E(err, "error writing to metrics file:", path)
	}
	return nil
}
