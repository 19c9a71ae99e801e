package audit

import (
	"context"

	"github.com/temirov/sheetaudit/internal/auditapi"
	"github.com/temirov/sheetaudit/internal/docref"
	"github.com/temirov/sheetaudit/internal/history"
	"github.com/temirov/sheetaudit/internal/sheet"
	"github.com/temirov/sheetaudit/internal/ui"
)

// ReferenceValidator checks the raw input before any request is attempted.
type ReferenceValidator interface {
	Validate(rawValue string) (docref.DocumentReference, error)
}

// AuditRequestor performs the single audit exchange for a validated reference.
type AuditRequestor interface {
	Audit(executionContext context.Context, reference docref.DocumentReference) ([]auditapi.ResultRow, error)
}

// SurfaceProvider opens the tabular surface a result table is written onto.
type SurfaceProvider interface {
	OpenSurface(workbookPath string, worksheetName string) (sheet.Surface, error)
}

// ResultTableRenderer materializes a non-empty result set at the anchor.
type ResultTableRenderer interface {
	Render(surface sheet.Surface, anchor sheet.Anchor, reference docref.DocumentReference, resultRows []auditapi.ResultRow) error
}

// Notifier delivers user-facing notifications for every pipeline exit.
type Notifier interface {
	Notify(kind ui.NotificationKind, message string)
}

// InvocationGuard rejects concurrent invocations for the guard's holder.
type InvocationGuard interface {
	Acquire() error
	Release() error
}

// RunJournal records each invocation's terminal state.
type RunJournal interface {
	RecordRun(executionContext context.Context, record history.RunRecord) error
}

// ResultPreviewer prints a console rendition of the result rows.
type ResultPreviewer interface {
	Preview(reference docref.DocumentReference, resultRows []auditapi.ResultRow) error
}

// PackageReferenceValidator adapts the docref package functions to the
// ReferenceValidator seam.
type PackageReferenceValidator struct{}

// Validate delegates to docref.Validate.
func (PackageReferenceValidator) Validate(rawValue string) (docref.DocumentReference, error) {
	return docref.Validate(rawValue)
}

// WorkbookSurfaceProvider opens xlsx workbooks as rendering surfaces.
type WorkbookSurfaceProvider struct{}

// OpenSurface delegates to sheet.OpenWorkbook.
func (WorkbookSurfaceProvider) OpenSurface(workbookPath string, worksheetName string) (sheet.Surface, error) {
	return sheet.OpenWorkbook(workbookPath, worksheetName)
}
