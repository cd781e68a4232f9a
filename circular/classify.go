package circular

import (
	"fmt"

	"github.com/grailbio/hts/sam"
)

// Outcome is the kind of rewrite a record needs.
type Outcome int

const (
	// Unchanged records are forwarded as-is. This covers unmapped records,
	// records entirely within the first copy, and records that end exactly at
	// the join.
	Unchanged Outcome = iota
	// Shifted records start in the second copy and only need their position
	// moved left by RefLen.
	Shifted
	// Split records cross the join and are cut into two records.
	Split
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case Shifted:
		return "shifted"
	case Split:
		return "split"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Classification is the result of Classify. Only the fields relevant to
// Outcome are set.
type Classification struct {
	Outcome Outcome

	// Pos is the new 0-based alignment start of a Shifted record.
	Pos int

	// Cut is the offset into Seq and Qual where a Split record's payload is
	// partitioned. Bases [0,Cut) go left, [Cut,len) go right.
	Cut int
	// Left and Right are the cigars of the two halves of a Split record.
	// Right starts with the remainder of the operation straddling the join,
	// followed by the untouched suffix of the input cigar.
	Left, Right sam.Cigar
}

// Classify decides how an alignment starting at 0-based position pos with
// the given cigar must be rewritten for a single reference copy of length
// refLen. A negative pos means the record has no alignment start.
//
// Classify does not check whether a shifted alignment extends past refLen a
// second time; reads spanning more than two copies are not supported.
func Classify(pos int, cigar sam.Cigar, refLen int) Classification {
	if pos < 0 {
		return Classification{Outcome: Unchanged}
	}
	if pos >= refLen {
		return Classification{Outcome: Shifted, Pos: pos - refLen}
	}

	var (
		refPos  = pos
		readPos = 0
		left    = make(sam.Cigar, 0, len(cigar))
		right   sam.Cigar
	)
	for i, op := range cigar {
		t, n := op.Type(), op.Len()
		if ConsumesReference(t) && refPos+n > refLen {
			leftLen := refLen - refPos
			rightLen := n - leftLen
			if leftLen > 0 {
				left = append(left, sam.NewCigarOp(t, leftLen))
			}
			if ConsumesRead(t) {
				readPos += leftLen
			}
			right = make(sam.Cigar, 0, len(cigar)-i)
			if rightLen > 0 {
				right = append(right, sam.NewCigarOp(t, rightLen))
			}
			right = append(right, cigar[i+1:]...)
			break
		}
		if ConsumesReference(t) {
			refPos += n
		}
		if ConsumesRead(t) {
			readPos += n
		}
		left = append(left, op)
	}
	if len(right) == 0 {
		// Either the alignment never reached the join, or it ended exactly
		// there.
		return Classification{Outcome: Unchanged}
	}
	return Classification{
		Outcome: Split,
		Cut:     readPos,
		Left:    left,
		Right:   right,
	}
}
