// Package samio opens streams of alignment records in SAM, gzipped SAM, or
// BAM format, and creates SAM or BAM outputs. Paths are resolved through
// github.com/grailbio/base/file; "-" denotes stdin or stdout.
package samio
