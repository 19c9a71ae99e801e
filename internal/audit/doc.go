// Package audit orchestrates one document audit invocation end to end:
// validating the reference, performing the single request against the audit
// service, rendering the verdicts into the workbook, and journaling the
// outcome, guarded against concurrent invocations.
//
// It exposes CommandBuilder for wiring the run Cobra command, Service for
// driving the pipeline programmatically, and the dependency seams for the
// validator, requestor, surface, renderer, notifier, guard, and journal
// collaborators.
package audit
