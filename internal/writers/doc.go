// Package writers serializes cleaned records. Output formats register
// themselves in a format → writer map; the apps feed records to a
// writer goroutine over a channel and collect the first error.
package writers
