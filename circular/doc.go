// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
Package circular converts alignments made against a doubled circular
reference back to a single linear copy of that reference.

Circular genomes such as mtDNA are often aligned against a reference that
is the genome concatenated with itself, so that reads spanning the origin
align contiguously. Positions [0, RefLen) of such a reference are the
first copy and [RefLen, 2*RefLen) the second. This package rewrites each
record to single-copy coordinates:

  - records entirely in the first copy are forwarded as-is;
  - records starting in the second copy are shifted left by RefLen;
  - records crossing the join are cut there. The left half keeps its
    start and ends at RefLen; the right half starts at position 0 and is
    renamed with a "_right" suffix.

The cut partitions the CIGAR, the sequence, and the base qualities
consistently, so that every emitted record satisfies

  ReadLen(rec.Cigar) == rec.Seq.Length == len(rec.Qual)

except for secondary alignments, which may carry neither sequence nor
qualities.

Positions in this package are 0-based, as in sam.Record.Pos.
*/
package circular
