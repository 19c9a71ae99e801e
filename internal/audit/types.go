package audit

import (
	"time"

	"github.com/temirov/sheetaudit/internal/sheet"
)

// CommandOptions captures the configurable parameters for one audit invocation.
//
// The anchor and raw reference are resolved once by the command adapter and
// stay immutable for the invocation's duration.
type CommandOptions struct {
	RawDocumentReference string
	WorkbookPath         string
	WorksheetName        string
	Anchor               sheet.Anchor
	Preview              bool
}

// Clock abstracts time-dependent functionality for deterministic testing.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the standard library.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}
