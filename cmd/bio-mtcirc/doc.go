/*
bio-mtcirc converts alignments made against a doubled circular reference
(typically mtDNA concatenated with itself) back to a single linear copy of
that reference.

Usage:

  bio-mtcirc -r chrM_doubled [-t chrM] [-l 16569] [-o out.bam] input.bam

Records starting in the second copy are shifted by the reference length.
Records crossing the join between the copies are split into two records;
the right half starts at position 1 and its name gets a "_right" suffix.
Records on other references are passed through unless -all-refs is set.

The input may be SAM, gzipped SAM, or BAM; "-" reads stdin. The output is
SAM on stdout by default, or BAM if the output path ends in .bam or
-format=bam is given.
*/
package main
