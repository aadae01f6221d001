// internal/writers/formats.go
package writers

import (
	"encoding/json"
	"io"

	"protfa/internal/fasta"
)

const (
	FormatFASTA = "fasta"
	FormatJSONL = "jsonl"
)

func init() {
	Register(FormatFASTA, writeFASTA)
	Register(FormatJSONL, writeJSONL)
}

func writeFASTA(w io.Writer, rec fasta.Record, wrap int) error {
	return fasta.WriteRecord(w, rec, wrap)
}

// jsonlRecord is the one-object-per-line shape of the jsonl format.
type jsonlRecord struct {
	Header   string `json:"header"`
	Sequence string `json:"sequence"`
}

func writeJSONL(w io.Writer, rec fasta.Record, _ int) error {
	// json.Encoder appends the trailing newline.
	return json.NewEncoder(w).Encode(jsonlRecord{Header: rec.Header, Sequence: rec.Seq})
}
