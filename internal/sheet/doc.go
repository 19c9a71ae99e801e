// Package sheet abstracts the tabular surface audit tables are rendered onto
// and provides the xlsx workbook implementation backing it.
package sheet
