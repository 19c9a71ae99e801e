package audit_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sheetaudit/internal/audit"
	"github.com/temirov/sheetaudit/internal/auditapi"
	"github.com/temirov/sheetaudit/internal/docref"
	"github.com/temirov/sheetaudit/internal/guard"
	"github.com/temirov/sheetaudit/internal/history"
	"github.com/temirov/sheetaudit/internal/sheet"
	"github.com/temirov/sheetaudit/internal/ui"
)

const (
	testDocumentReferenceConstant      = "https://docs.google.com/document/d/abc"
	serviceSubtestNameTemplateConstant = "%d_%s"
)

var testResultRows = []auditapi.ResultRow{
	{QuestionNumber: "1", OptionStatus: "OK", IssueSummary: "none"},
	{QuestionNumber: "2", OptionStatus: "Faulty", IssueSummary: "ExactDuplicate: 1 & 3"},
	{QuestionNumber: "3", OptionStatus: "Inconclusive", IssueSummary: "Failed to audit (API or JSON error)"},
}

type stubRequestor struct {
	resultRows   []auditapi.ResultRow
	requestError error
	callCount    int
}

func (requestor *stubRequestor) Audit(executionContext context.Context, reference docref.DocumentReference) ([]auditapi.ResultRow, error) {
	requestor.callCount++
	if requestor.requestError != nil {
		return nil, requestor.requestError
	}
	return requestor.resultRows, nil
}

type stubSurface struct {
	saveCount int
	saveError error
}

func (surface *stubSurface) WriteCell(rowIndex int, columnIndex int, cellValue any) error { return nil }
func (surface *stubSurface) StyleHeader(rowIndex int, startColumn int, columnCount int) error {
	return nil
}
func (surface *stubSurface) ApplyColumnStyles(columnIndex int, startRow int, stylePairs []*sheet.StylePair) error {
	return nil
}
func (surface *stubSurface) FitColumns(startColumn int, columnCount int) error { return nil }
func (surface *stubSurface) Save() error {
	surface.saveCount++
	return surface.saveError
}

type stubSurfaceProvider struct {
	surface   *stubSurface
	openError error
}

func (provider *stubSurfaceProvider) OpenSurface(workbookPath string, worksheetName string) (sheet.Surface, error) {
	if provider.openError != nil {
		return nil, provider.openError
	}
	return provider.surface, nil
}

type renderInvocation struct {
	anchor    sheet.Anchor
	reference docref.DocumentReference
	rowCount  int
}

type stubRenderer struct {
	invocations []renderInvocation
	renderError error
}

func (renderer *stubRenderer) Render(surface sheet.Surface, anchor sheet.Anchor, reference docref.DocumentReference, resultRows []auditapi.ResultRow) error {
	renderer.invocations = append(renderer.invocations, renderInvocation{anchor: anchor, reference: reference, rowCount: len(resultRows)})
	return renderer.renderError
}

type notification struct {
	kind    ui.NotificationKind
	message string
}

type stubNotifier struct {
	notifications []notification
}

func (notifier *stubNotifier) Notify(kind ui.NotificationKind, message string) {
	notifier.notifications = append(notifier.notifications, notification{kind: kind, message: message})
}

func (notifier *stubNotifier) kinds() []ui.NotificationKind {
	observedKinds := make([]ui.NotificationKind, 0, len(notifier.notifications))
	for _, observedNotification := range notifier.notifications {
		observedKinds = append(observedKinds, observedNotification.kind)
	}
	return observedKinds
}

type stubGuard struct {
	acquireError error
	acquireCount int
	releaseCount int
}

func (invocationGuard *stubGuard) Acquire() error {
	invocationGuard.acquireCount++
	return invocationGuard.acquireError
}

func (invocationGuard *stubGuard) Release() error {
	invocationGuard.releaseCount++
	return nil
}

type stubJournal struct {
	records []history.RunRecord
}

func (journal *stubJournal) RecordRun(executionContext context.Context, record history.RunRecord) error {
	journal.records = append(journal.records, record)
	return nil
}

type stubPreviewer struct {
	callCount int
}

func (previewer *stubPreviewer) Preview(reference docref.DocumentReference, resultRows []auditapi.ResultRow) error {
	previewer.callCount++
	return nil
}

func defaultOptions() audit.CommandOptions {
	return audit.CommandOptions{
		RawDocumentReference: testDocumentReferenceConstant,
		WorkbookPath:         "results.xlsx",
		WorksheetName:        "Audit",
		Anchor:               sheet.Anchor{Row: 2, Column: 1},
	}
}

func TestServiceRunOutcomes(testInstance *testing.T) {
	transportFailure := errors.New("audit request failed: dial tcp: connection refused")

	testCases := []struct {
		name                    string
		options                 audit.CommandOptions
		guardAcquireError       error
		requestor               *stubRequestor
		expectedKinds           []ui.NotificationKind
		expectedRequestorCalls  int
		expectedRenderCount     int
		expectedJournalOutcome  history.Outcome
		expectedErrorIs         error
		expectServerErrorDetail bool
	}{
		{
			name:                   "busy_guard_rejects_invocation",
			options:                defaultOptions(),
			guardAcquireError:      guard.ErrAuditInFlight,
			requestor:              &stubRequestor{resultRows: testResultRows},
			expectedKinds:          []ui.NotificationKind{ui.NotificationKindBusy},
			expectedRequestorCalls: 0,
			expectedRenderCount:    0,
			expectedJournalOutcome: history.OutcomeBusy,
			expectedErrorIs:        guard.ErrAuditInFlight,
		},
		{
			name: "invalid_input_skips_network",
			options: audit.CommandOptions{
				RawDocumentReference: "https://example.com/not-a-doc",
				WorkbookPath:         "results.xlsx",
				Anchor:               sheet.Anchor{Row: 1, Column: 1},
			},
			requestor:              &stubRequestor{resultRows: testResultRows},
			expectedKinds:          []ui.NotificationKind{ui.NotificationKindInvalidInput},
			expectedRequestorCalls: 0,
			expectedRenderCount:    0,
			expectedJournalOutcome: history.OutcomeInvalidInput,
			expectedErrorIs:        docref.ErrInvalidInput,
		},
		{
			name:    "server_error_writes_nothing",
			options: defaultOptions(),
			requestor: &stubRequestor{
				requestError: &auditapi.ServerError{StatusCode: http.StatusBadGateway, Body: "upstream exploded"},
			},
			expectedKinds:           []ui.NotificationKind{ui.NotificationKindStarted, ui.NotificationKindServerError},
			expectedRequestorCalls:  1,
			expectedRenderCount:     0,
			expectedJournalOutcome:  history.OutcomeServerError,
			expectServerErrorDetail: true,
		},
		{
			name:                   "empty_result_set_writes_nothing",
			options:                defaultOptions(),
			requestor:              &stubRequestor{requestError: auditapi.ErrNoAuditResults},
			expectedKinds:          []ui.NotificationKind{ui.NotificationKindStarted, ui.NotificationKindNoResults},
			expectedRequestorCalls: 1,
			expectedRenderCount:    0,
			expectedJournalOutcome: history.OutcomeNoResults,
			expectedErrorIs:        auditapi.ErrNoAuditResults,
		},
		{
			name:                   "transport_failure_reports_script_error",
			options:                defaultOptions(),
			requestor:              &stubRequestor{requestError: transportFailure},
			expectedKinds:          []ui.NotificationKind{ui.NotificationKindStarted, ui.NotificationKindScriptError},
			expectedRequestorCalls: 1,
			expectedRenderCount:    0,
			expectedJournalOutcome: history.OutcomeScriptError,
			expectedErrorIs:        transportFailure,
		},
		{
			name:                   "success_renders_and_completes",
			options:                defaultOptions(),
			requestor:              &stubRequestor{resultRows: testResultRows},
			expectedKinds:          []ui.NotificationKind{ui.NotificationKindStarted, ui.NotificationKindCompleted},
			expectedRequestorCalls: 1,
			expectedRenderCount:    1,
			expectedJournalOutcome: history.OutcomeCompleted,
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(serviceSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			surface := &stubSurface{}
			surfaceProvider := &stubSurfaceProvider{surface: surface}
			renderer := &stubRenderer{}
			notifier := &stubNotifier{}
			invocationGuard := &stubGuard{acquireError: testCase.guardAcquireError}
			journal := &stubJournal{}

			service := audit.NewService(nil, testCase.requestor, surfaceProvider, renderer, notifier, invocationGuard, journal, nil, nil, nil)
			runError := service.Run(context.Background(), testCase.options)

			if testCase.expectedErrorIs != nil {
				require.ErrorIs(testInstance, runError, testCase.expectedErrorIs)
			} else if testCase.expectServerErrorDetail {
				var serverError *auditapi.ServerError
				require.ErrorAs(testInstance, runError, &serverError)
			} else {
				require.NoError(testInstance, runError)
			}

			require.Equal(testInstance, testCase.expectedKinds, notifier.kinds())
			require.Equal(testInstance, testCase.expectedRequestorCalls, testCase.requestor.callCount)
			require.Len(testInstance, renderer.invocations, testCase.expectedRenderCount)

			require.Len(testInstance, journal.records, 1)
			require.Equal(testInstance, testCase.expectedJournalOutcome, journal.records[0].Outcome)

			if testCase.guardAcquireError == nil {
				require.Equal(testInstance, 1, invocationGuard.releaseCount)
			} else {
				require.Zero(testInstance, invocationGuard.releaseCount)
			}

			if testCase.expectServerErrorDetail {
				failureNotification := notifier.notifications[len(notifier.notifications)-1]
				require.Contains(testInstance, failureNotification.message, "502")
				require.Contains(testInstance, failureNotification.message, "upstream exploded")
			}

			if testCase.expectedRenderCount > 0 {
				require.Equal(testInstance, testCase.options.Anchor, renderer.invocations[0].anchor)
				require.Equal(testInstance, docref.DocumentReference(testDocumentReferenceConstant), renderer.invocations[0].reference)
				require.Equal(testInstance, len(testResultRows), renderer.invocations[0].rowCount)
				require.Equal(testInstance, 1, surface.saveCount)
				require.Equal(testInstance, len(testResultRows), journal.records[0].ResultCount)
				require.Equal(testInstance, 1, journal.records[0].FaultyCount)
				require.Equal(testInstance, "abc", journal.records[0].DocumentID)
			} else {
				require.Zero(testInstance, surface.saveCount)
			}
		})
	}
}

func TestServiceRunPreviewsAfterSuccessfulRender(testInstance *testing.T) {
	surfaceProvider := &stubSurfaceProvider{surface: &stubSurface{}}
	previewer := &stubPreviewer{}
	notifier := &stubNotifier{}

	service := audit.NewService(nil, &stubRequestor{resultRows: testResultRows}, surfaceProvider, &stubRenderer{}, notifier, &stubGuard{}, &stubJournal{}, previewer, nil, nil)

	options := defaultOptions()
	options.Preview = true
	require.NoError(testInstance, service.Run(context.Background(), options))
	require.Equal(testInstance, 1, previewer.callCount)
}

func TestServiceRunRenderFailureIsScriptError(testInstance *testing.T) {
	renderFailure := errors.New("unable to render result table: disk full")
	surfaceProvider := &stubSurfaceProvider{surface: &stubSurface{}}
	notifier := &stubNotifier{}
	journal := &stubJournal{}

	service := audit.NewService(nil, &stubRequestor{resultRows: testResultRows}, surfaceProvider, &stubRenderer{renderError: renderFailure}, notifier, &stubGuard{}, journal, nil, nil, nil)

	runError := service.Run(context.Background(), defaultOptions())
	require.ErrorIs(testInstance, runError, renderFailure)
	require.Equal(testInstance, []ui.NotificationKind{ui.NotificationKindStarted, ui.NotificationKindScriptError}, notifier.kinds())
	require.Equal(testInstance, history.OutcomeScriptError, journal.records[0].Outcome)
}

func TestServiceRunSaveFailureIsScriptError(testInstance *testing.T) {
	saveFailure := errors.New("unable to save workbook results.xlsx: permission denied")
	surfaceProvider := &stubSurfaceProvider{surface: &stubSurface{saveError: saveFailure}}
	notifier := &stubNotifier{}
	journal := &stubJournal{}

	service := audit.NewService(nil, &stubRequestor{resultRows: testResultRows}, surfaceProvider, &stubRenderer{}, notifier, &stubGuard{}, journal, nil, nil, nil)

	runError := service.Run(context.Background(), defaultOptions())
	require.ErrorIs(testInstance, runError, saveFailure)
	require.Equal(testInstance, []ui.NotificationKind{ui.NotificationKindStarted, ui.NotificationKindScriptError}, notifier.kinds())
	require.Equal(testInstance, history.OutcomeScriptError, journal.records[0].Outcome)
}

func TestSystemClockReturnsCurrentTime(testInstance *testing.T) {
	beforeCall := time.Now().Add(-time.Second)
	observedTime := audit.SystemClock{}.Now()
	afterCall := time.Now().Add(time.Second)
	require.True(testInstance, observedTime.After(beforeCall))
	require.True(testInstance, observedTime.Before(afterCall))
}
