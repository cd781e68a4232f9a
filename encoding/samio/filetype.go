package samio

import (
	"bytes"
	"io/ioutil"
	"strings"

	"github.com/klauspost/compress/gzip"
	"v.io/x/lib/vlog"
)

// FileType represents the possible alignment file formats.
type FileType int

const (
	// Unknown means the format could not be determined.
	Unknown FileType = iota
	// SAM is plain or gzip-compressed SAM text.
	SAM
	// BAM is BGZF-compressed binary SAM.
	BAM
)

func (t FileType) String() string {
	switch t {
	case SAM:
		return "sam"
	case BAM:
		return "bam"
	}
	return "unknown"
}

// ParseFileType converts a format name, "sam" or "bam", to a FileType.
func ParseFileType(name string) FileType {
	switch strings.ToLower(name) {
	case "sam":
		return SAM
	case "bam":
		return BAM
	default:
		return Unknown
	}
}

// GuessFileType returns the file type from the pathname. Returns Unknown if
// the extension is not recognized.
func GuessFileType(path string) FileType {
	switch {
	case strings.HasSuffix(path, ".bam"):
		return BAM
	case strings.HasSuffix(path, ".sam"), strings.HasSuffix(path, ".sam.gz"):
		return SAM
	}
	vlog.VI(1).Infof("%v: could not detect file type from the name", path)
	return Unknown
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	bamMagic  = []byte("BAM\x01")
)

// sniff guesses the file type and compression from the first bytes of a
// stream. BAM and gzipped SAM share the gzip magic; they are told apart by
// decompressing the start of the first block.
func sniff(head []byte) (t FileType, gzipped bool) {
	if !bytes.HasPrefix(head, gzipMagic) {
		return SAM, false
	}
	zr, err := gzip.NewReader(bytes.NewReader(head))
	if err != nil {
		return SAM, true
	}
	// A truncated head is expected; only the first few bytes matter.
	data, _ := ioutil.ReadAll(zr)
	if bytes.HasPrefix(data, bamMagic) {
		return BAM, true
	}
	return SAM, true
}
