// internal/fasta/fasta.go

// Package fasta streams protein FASTA records. Parsing is incremental:
// memory use is bounded by the longest single record, not by file size.
package fasta

// Marker introduces a header line.
const Marker = '>'

// Record is one header/sequence pair. Header excludes the leading
// marker; Seq is every sequence line concatenated, whitespace stripped
// and uppercased. Index is assigned 0,1,2,... in parse order and is the
// sole tie-breaker for first-occurrence comparisons. Records are never
// mutated after creation.
type Record struct {
	Header string
	Seq    string
	Index  int
}
