// Package render materializes audit result sets into anchored, styled tables
// on a tabular surface and offers a colored console preview of the same rows.
package render
