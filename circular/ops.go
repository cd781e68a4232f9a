package circular

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/hts/sam"
)

// ConsumesReference reports whether an operation of type t advances the
// reference coordinate.
func ConsumesReference(t sam.CigarOpType) bool {
	switch t {
	case sam.CigarMatch, sam.CigarDeletion, sam.CigarSkipped, sam.CigarEqual, sam.CigarMismatch:
		return true
	}
	return false
}

// ConsumesRead reports whether an operation of type t advances the read
// (query) coordinate, i.e., whether it covers bases stored in Seq and Qual.
func ConsumesRead(t sam.CigarOpType) bool {
	switch t {
	case sam.CigarMatch, sam.CigarInsertion, sam.CigarSoftClipped, sam.CigarEqual, sam.CigarMismatch:
		return true
	}
	return false
}

// ReadLen returns the number of read bases covered by the cigar.
func ReadLen(cigar sam.Cigar) int {
	n := 0
	for _, op := range cigar {
		if ConsumesRead(op.Type()) {
			n += op.Len()
		}
	}
	return n
}

// ReferenceLen returns the number of reference bases spanned by the cigar.
func ReferenceLen(cigar sam.Cigar) int {
	n := 0
	for _, op := range cigar {
		if ConsumesReference(op.Type()) {
			n += op.Len()
		}
	}
	return n
}

// ValidateCigar checks that every op belongs to the vocabulary handled by
// this package. CigarBack moves the reference coordinate backwards, which
// makes the boundary walk ill-defined.
func ValidateCigar(cigar sam.Cigar) error {
	for i, op := range cigar {
		switch op.Type() {
		case sam.CigarMatch, sam.CigarInsertion, sam.CigarDeletion, sam.CigarSkipped,
			sam.CigarSoftClipped, sam.CigarHardClipped, sam.CigarPadded,
			sam.CigarEqual, sam.CigarMismatch:
		default:
			return errors.E(errors.Invalid, fmt.Sprintf("cigar %v: unsupported operation %v at index %d", cigar, op.Type(), i))
		}
	}
	return nil
}
