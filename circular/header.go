package circular

import (
	"bytes"
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/sam"
)

// RefMap maps references of an input header to references of the adjusted
// output header.
type RefMap map[*sam.Reference]*sam.Reference

// Get returns the output reference for r. A nil r stays nil.
func (m RefMap) Get(r *sam.Reference) *sam.Reference {
	if r == nil {
		return nil
	}
	if out, ok := m[r]; ok {
		return out
	}
	return r
}

// refByName finds a reference with the given name, or returns nil.
func refByName(h *sam.Header, name string) *sam.Reference {
	for _, ref := range h.Refs() {
		if ref.Name() == name {
			return ref
		}
	}
	return nil
}

// sqName returns the SN value of an @SQ header line, or "" for any other
// line.
func sqName(line []byte) string {
	if !bytes.HasPrefix(line, []byte("@SQ\t")) {
		return ""
	}
	for _, field := range bytes.Split(bytes.TrimRight(line, "\r\n"), []byte("\t"))[1:] {
		if bytes.HasPrefix(field, []byte("SN:")) {
			return string(field[3:])
		}
	}
	return ""
}

// AdjustHeader returns a copy of h in which the doubled reference refName
// is replaced by an entry named targetName of length refLen. h itself is
// not modified, since readers keep resolving record references against it.
//
// If targetName is not yet in h, a fresh entry takes the slot of the doubled
// one, so reference order and ids are unchanged. The fresh entry carries
// only SN and LN; checksums and URIs of the doubled sequence are dropped. If
// targetName already exists, its length is set and the doubled entry is
// removed. If refName is absent, a targetName entry is appended.
//
// Split records start at position 0 in the middle of the stream, so a
// coordinate sort order becomes unsorted.
//
// The returned RefMap maps every input reference to its output counterpart.
// Records on the removed doubled entry map to the targetName entry.
func AdjustHeader(h *sam.Header, refName, targetName string, refLen int) (*sam.Header, RefMap, error) {
	if refLen <= 0 {
		return nil, nil, errors.E(errors.Invalid, fmt.Sprintf("reference %s length %d", targetName, refLen))
	}
	doubled := refByName(h, refName)
	target := refByName(h, targetName)
	renamed := doubled != nil && (target == nil || target == doubled)

	text, err := h.MarshalText()
	if err != nil {
		return nil, nil, errors.E(err, "marshal header")
	}
	var buf bytes.Buffer
	for _, line := range bytes.SplitAfter(text, []byte("\n")) {
		if doubled != nil && sqName(line) == refName {
			if renamed {
				fmt.Fprintf(&buf, "@SQ\tSN:%s\tLN:%d\n", targetName, refLen)
			}
			continue
		}
		buf.Write(line)
	}
	out, err := sam.NewHeader(buf.Bytes(), nil)
	if err != nil {
		return nil, nil, errors.E(errors.Invalid, "rebuild header", err)
	}

	switch {
	case renamed:
	case doubled == nil && target == nil:
		log.Printf("reference %q not found in header; appending %q", refName, targetName)
		ref, err := sam.NewReference(targetName, "", "", refLen, nil, nil)
		if err != nil {
			return nil, nil, errors.E(errors.Invalid, fmt.Sprintf("reference %s length %d", targetName, refLen), err)
		}
		if err := out.AddReference(ref); err != nil {
			return nil, nil, errors.E(errors.Invalid, "add reference "+targetName, err)
		}
	default:
		if doubled == nil {
			log.Printf("reference %q not found in header; resizing existing %q", refName, targetName)
		}
		if err := refByName(out, targetName).SetLen(refLen); err != nil {
			return nil, nil, errors.E(errors.Invalid, fmt.Sprintf("reference %s length %d", targetName, refLen), err)
		}
	}
	if out.SortOrder == sam.Coordinate {
		log.Printf("output records are no longer coordinate sorted; marking header unsorted")
		out.SortOrder = sam.Unsorted
	}

	refMap := RefMap{}
	for _, ref := range h.Refs() {
		name := ref.Name()
		if ref == doubled {
			name = targetName
		}
		refMap[ref] = refByName(out, name)
	}
	return out, refMap, nil
}
