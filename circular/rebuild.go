package circular

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// RightSuffix is appended to the name of the right half of a split record,
// so that the two placements of one template can be told apart.
const RightSuffix = "_right"

// copyRecord returns a deep copy of r allocated from the record pool.
func copyRecord(r *sam.Record) *sam.Record {
	c := sam.GetFromFreePool()
	c.Name = r.Name
	c.Ref = r.Ref
	c.Pos = r.Pos
	c.MapQ = r.MapQ
	c.Cigar = append(sam.Cigar(nil), r.Cigar...)
	c.Flags = r.Flags
	c.MateRef = r.MateRef
	c.MatePos = r.MatePos
	c.TempLen = r.TempLen
	c.Seq = r.Seq
	c.Seq.Seq = append([]sam.Doublet(nil), r.Seq.Seq...)
	c.Qual = append([]byte(nil), r.Qual...)
	if r.AuxFields != nil {
		c.AuxFields = make(sam.AuxFields, len(r.AuxFields))
		for i, aux := range r.AuxFields {
			c.AuxFields[i] = append(sam.Aux(nil), aux...)
		}
	}
	return c
}

// setPayload replaces the cigar, sequence and qualities of r.
func setPayload(r *sam.Record, cigar sam.Cigar, p Payload) {
	r.Cigar = append(sam.Cigar(nil), cigar...)
	if len(p.Seq) == 0 {
		r.Seq = sam.Seq{}
	} else {
		r.Seq = sam.NewSeq(p.Seq)
	}
	r.Qual = append([]byte(nil), p.Qual...)
}

// ShiftRecord returns a copy of r whose alignment starts at pos.
func ShiftRecord(r *sam.Record, pos int) *sam.Record {
	c := copyRecord(r)
	c.Pos = pos
	return c
}

// SplitRecord builds the two halves of a Split plan. The left half keeps
// the name and start of r. The right half starts at position 0 and is named
// r.Name+RightSuffix. Neither half shares memory with r or with each other.
func SplitRecord(r *sam.Record, p Plan) (left, right *sam.Record) {
	if p.Outcome != Split {
		panic(fmt.Sprintf("SplitRecord: %s plan for %s", p.Outcome, r.Name))
	}
	left = copyRecord(r)
	setPayload(left, p.Left, p.LeftPayload)

	right = copyRecord(r)
	right.Name = r.Name + RightSuffix
	right.Pos = 0
	setPayload(right, p.Right, p.RightPayload)
	return left, right
}

// CheckRecord verifies that the cigar of r covers exactly as many bases as
// its sequence and qualities. A secondary alignment may store neither.
func CheckRecord(r *sam.Record) error {
	nSeq, nQual := r.Seq.Length, len(r.Qual)
	if nSeq == 0 && nQual == 0 {
		if r.Flags&sam.Secondary == 0 {
			return errors.E(errors.Precondition, fmt.Sprintf(
				"read %s: no sequence or qualities on a non-secondary alignment", r.Name))
		}
		return nil
	}
	if n := ReadLen(r.Cigar); n != nSeq || n != nQual {
		return errors.E(errors.Precondition, fmt.Sprintf(
			"read %s at %d: cigar %v covers %d bases, but record has %d bases and %d qualities",
			r.Name, r.Pos+1, r.Cigar, n, nSeq, nQual))
	}
	return nil
}
