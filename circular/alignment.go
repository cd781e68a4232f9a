package circular

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// Alignment is the view of a record needed to plan its conversion. It lets
// the planning logic work on any record representation; SAMAlignment adapts
// a *sam.Record.
type Alignment interface {
	// Name is the read name.
	Name() string
	// Start is the 0-based alignment start, or a negative value when the
	// record has none.
	Start() int
	Cigar() sam.Cigar
	// Seq returns one letter per base. It may be empty.
	Seq() []byte
	// Qual returns one quality score per base. It may be empty.
	Qual() []byte
	// Secondary reports whether this is a secondary alignment.
	Secondary() bool
}

// SAMAlignment adapts a *sam.Record to the Alignment interface.
type SAMAlignment struct {
	R *sam.Record
}

// Name implements Alignment.
func (a SAMAlignment) Name() string { return a.R.Name }

// Start implements Alignment.
func (a SAMAlignment) Start() int {
	if a.R.Ref == nil {
		return -1
	}
	return a.R.Pos
}

// Cigar implements Alignment.
func (a SAMAlignment) Cigar() sam.Cigar { return a.R.Cigar }

// Seq implements Alignment.
func (a SAMAlignment) Seq() []byte {
	if a.R.Seq.Length == 0 {
		return nil
	}
	return a.R.Seq.Expand()
}

// Qual implements Alignment.
func (a SAMAlignment) Qual() []byte { return a.R.Qual }

// Secondary implements Alignment.
func (a SAMAlignment) Secondary() bool { return a.R.Flags&sam.Secondary != 0 }

// Plan is the format-independent conversion of one alignment.
type Plan struct {
	Classification
	// Left and Right payloads are set only for a Split outcome.
	LeftPayload, RightPayload Payload
}

// NewPlan classifies a and, when it must be split, partitions its payload.
// It fails if the cigar contains an unsupported operation, or if the
// partitioned payload is inconsistent with the partitioned cigar.
func NewPlan(a Alignment, refLen int) (Plan, error) {
	cigar := a.Cigar()
	if err := ValidateCigar(cigar); err != nil {
		return Plan{}, errors.E(err, "read", a.Name())
	}
	p := Plan{Classification: Classify(a.Start(), cigar, refLen)}
	if p.Outcome != Split {
		return p, nil
	}
	var err error
	if p.LeftPayload, p.RightPayload, err = Partition(a.Seq(), a.Qual(), p.Cut, a.Secondary()); err != nil {
		return Plan{}, errors.E(err, "read", a.Name())
	}
	if err := checkPayload("left", a.Name(), p.Left, p.LeftPayload); err != nil {
		return Plan{}, err
	}
	if err := checkPayload("right", a.Name(), p.Right, p.RightPayload); err != nil {
		return Plan{}, err
	}
	return p, nil
}

// checkPayload verifies that the payload covers exactly the read bases of
// cigar. An empty payload is accepted; Partition only produces one for
// secondary alignments.
func checkPayload(side, name string, cigar sam.Cigar, p Payload) error {
	if len(p.Seq) == 0 && len(p.Qual) == 0 {
		return nil
	}
	n := ReadLen(cigar)
	if n != len(p.Seq) || n != len(p.Qual) {
		return errors.E(errors.Precondition, fmt.Sprintf(
			"read %s: %s cigar %v covers %d bases, but payload has %d bases and %d qualities",
			name, side, cigar, n, len(p.Seq), len(p.Qual)))
	}
	return nil
}
