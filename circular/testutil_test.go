package circular

import (
	"strings"
	"testing"

	"github.com/grailbio/hts/sam"
)

const testRefLen = 1000

var (
	chr1, _        = sam.NewReference("chr1", "", "", 5000, nil, nil)
	chrMDoubled, _ = sam.NewReference("chrM_doubled", "", "", 2*testRefLen, nil, nil)
	testHeader, _  = sam.NewHeader(nil, []*sam.Reference{chr1, chrMDoubled})

	// testSeq has an N at 0-based offset 100, where records starting at 910
	// with testCigar cross the join.
	testSeq   = strings.Repeat("ACGT", 25) + "N" + strings.Repeat("ACGT", 12) + "A"
	testCigar = "20S30M5D5N90M10S"
)

// testQual returns n distinct-ish quality scores.
func testQual(n int) []byte {
	q := make([]byte, n)
	for i := range q {
		q[i] = byte(i % 60)
	}
	return q
}

func newRecord(t *testing.T, name string, ref *sam.Reference, pos int, flags sam.Flags, cigar, seq string, qual []byte) *sam.Record {
	if len(seq) != len(qual) {
		t.Fatalf("seq and qual must be equal length: %d vs %d", len(seq), len(qual))
	}
	r := sam.GetFromFreePool()
	r.Name = name
	r.Ref = ref
	r.Pos = pos
	r.MapQ = 60
	r.Flags = flags
	r.Cigar = parseCigar(t, cigar)
	r.MateRef = nil
	r.MatePos = -1
	r.TempLen = 0
	r.Seq = sam.Seq{}
	if seq != "" {
		r.Seq = sam.NewSeq([]byte(seq))
	}
	r.Qual = qual
	rg, err := sam.NewAux(sam.NewTag("RG"), "rg0")
	if err != nil {
		t.Fatal(err)
	}
	nh, err := sam.NewAux(sam.NewTag("NH"), 1)
	if err != nil {
		t.Fatal(err)
	}
	r.AuxFields = sam.AuxFields{rg, nh}
	return r
}

func testOpts() Opts {
	return Opts{
		RefName:    "chrM_doubled",
		TargetName: "chrM",
		RefLen:     testRefLen,
	}
}
