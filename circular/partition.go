package circular

import (
	"fmt"

	"github.com/grailbio/base/errors"
)

// Payload is the per-base part of a record: sequence letters and base
// qualities, one byte per base.
type Payload struct {
	Seq  []byte
	Qual []byte
}

// Len returns the number of bases in the payload.
func (p Payload) Len() int { return len(p.Seq) }

// Partition cuts seq and qual at read offset cut. Secondary alignments may
// carry no payload at all, in which case both halves are empty.
//
// The returned slices alias seq and qual.
func Partition(seq, qual []byte, cut int, secondary bool) (left, right Payload, err error) {
	if len(seq) == 0 && len(qual) == 0 {
		if !secondary {
			return left, right, errors.E(errors.Precondition,
				"record has neither sequence nor qualities, but is not a secondary alignment")
		}
		return left, right, nil
	}
	if len(seq) != len(qual) {
		return left, right, errors.E(errors.Precondition,
			fmt.Sprintf("sequence length %d does not match quality length %d", len(seq), len(qual)))
	}
	if cut < 0 || cut > len(seq) {
		return left, right, errors.E(errors.Precondition,
			fmt.Sprintf("cut %d outside of sequence of length %d", cut, len(seq)))
	}
	left = Payload{Seq: seq[:cut:cut], Qual: qual[:cut:cut]}
	right = Payload{Seq: seq[cut:], Qual: qual[cut:]}
	return left, right, nil
}
