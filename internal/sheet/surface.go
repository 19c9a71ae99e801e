package sheet

// Anchor is the 1-based row/column coordinate where a rendered table begins.
//
// The anchor is resolved once per invocation by the command adapter and
// passed by value through the pipeline; it never changes mid-render.
type Anchor struct {
	Row    int
	Column int
}

// Valid reports whether both coordinates are inside the surface.
func (anchor Anchor) Valid() bool {
	return anchor.Row >= 1 && anchor.Column >= 1
}

// StylePair is a background/font color pair applied to a cell, expressed as
// RGB hex without the leading hash.
type StylePair struct {
	Background string
	Font       string
}

// Surface abstracts the tabular surface a result table is written onto, so
// the renderer can be exercised against a recording fake in tests.
//
// ApplyColumnStyles receives one optional pair per data row and must apply
// them as a single batch covering exactly the described block; a nil entry
// leaves that cell's default styling untouched.
type Surface interface {
	WriteCell(rowIndex int, columnIndex int, cellValue any) error
	StyleHeader(rowIndex int, startColumn int, columnCount int) error
	ApplyColumnStyles(columnIndex int, startRow int, stylePairs []*StylePair) error
	FitColumns(startColumn int, columnCount int) error
	Save() error
}
