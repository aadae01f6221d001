// pkg/api/summary_v1.go
package api

// SummaryV1 is the stable JSON schema for a clean-run summary.
// Keep fields, names, and types stable. Add new fields only with ",omitempty".
type SummaryV1 struct {
	RecordsRead              int `json:"records_read"`
	Converted                int `json:"converted,omitempty"`
	InvalidRemoved           int `json:"invalid_removed,omitempty"`
	DuplicateHeaderRemoved   int `json:"duplicate_header_removed,omitempty"`
	DuplicateSequenceRemoved int `json:"duplicate_sequence_removed,omitempty"`
	LengthRemoved            int `json:"length_removed,omitempty"`
	Subsampled               int `json:"subsampled,omitempty"`
	RecordsFinal             int `json:"records_final"`
}
