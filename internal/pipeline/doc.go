// Package pipeline sequences the cleaning stages over a parsed record
// set: convert → validate → dedupe → length filter → subsample →
// header rewrite. Stages are pipz processors composed into a single
// sequence; a Fail-policy error aborts the run with no partial output.
package pipeline
