// Package docref validates raw document references before any audit request
// is attempted and extracts document identifiers for diagnostics.
package docref
