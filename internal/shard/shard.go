// internal/shard/shard.go

// Package shard partitions an ordered record set into balanced,
// contiguous, order-preserving groups.
package shard

import (
	"fmt"

	"protfa/internal/fasta"
)

// ConfigError reports an unusable shard count. It is raised before any
// output is written.
type ConfigError struct {
	Count   int
	Records int
	msg     string
}

func (e *ConfigError) Error() string { return e.msg }

// Split partitions recs into n contiguous groups preserving relative
// order. Group sizes are floor(L/n) or ceil(L/n), the larger groups
// first (L mod n of them). n <= 0 is always an error; n > len(recs)
// is an error unless allowEmpty permits trailing empty shards.
func Split(recs []fasta.Record, n int, allowEmpty bool) ([][]fasta.Record, error) {
	if n <= 0 {
		return nil, &ConfigError{Count: n, Records: len(recs),
			msg: fmt.Sprintf("shard count must be positive, got %d", n)}
	}
	if n > len(recs) && !allowEmpty {
		return nil, &ConfigError{Count: n, Records: len(recs),
			msg: fmt.Sprintf("cannot split %d records into %d non-empty shards", len(recs), n)}
	}

	base := len(recs) / n
	rem := len(recs) % n
	out := make([][]fasta.Record, n)
	start := 0
	for i := 0; i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		out[i] = recs[start : start+size]
		start += size
	}
	return out, nil
}

// Filename names the i-th (0-based) shard output file for a given stem:
// <stem>_000001.fasta, <stem>_000002.fasta, ...
func Filename(stem string, i int) string {
	return fmt.Sprintf("%s_%06d.fasta", stem, i+1)
}
