package audit

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/sheetaudit/internal/auditapi"
	"github.com/temirov/sheetaudit/internal/guard"
	"github.com/temirov/sheetaudit/internal/history"
	"github.com/temirov/sheetaudit/internal/ui"
)

const (
	guardReleaseWarningMessageConstant   = "unable to release the invocation guard"
	journalFailureWarningMessageConstant = "unable to journal the audit run"
	previewFailureWarningMessageConstant = "unable to print the console preview"
	documentReferenceLogFieldConstant    = "document_reference"
)

// Service drives one audit invocation end to end: guard, validate, request,
// render, journal, with a user-facing notification at every exit.
type Service struct {
	validator       ReferenceValidator
	requestor       AuditRequestor
	surfaceProvider SurfaceProvider
	renderer        ResultTableRenderer
	notifier        Notifier
	invocationGuard InvocationGuard
	journal         RunJournal
	previewer       ResultPreviewer
	formatter       ui.MessageFormatter
	logger          *zap.Logger
	clock           Clock
}

// NewService constructs a Service using the provided dependencies.
func NewService(validator ReferenceValidator, requestor AuditRequestor, surfaceProvider SurfaceProvider, renderer ResultTableRenderer, notifier Notifier, invocationGuard InvocationGuard, journal RunJournal, previewer ResultPreviewer, logger *zap.Logger, clock Clock) *Service {
	if validator == nil {
		validator = PackageReferenceValidator{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		validator:       validator,
		requestor:       requestor,
		surfaceProvider: surfaceProvider,
		renderer:        renderer,
		notifier:        notifier,
		invocationGuard: invocationGuard,
		journal:         journal,
		previewer:       previewer,
		formatter:       ui.MessageFormatter{},
		logger:          logger,
		clock:           clock,
	}
}

// Run executes one invocation: validate → request → render, all-or-nothing.
//
// Every failure is terminal for the invocation and maps onto exactly one
// notification kind; nothing is retried and no partial table is written —
// rendering starts only once a full, non-empty result set exists. A second
// invocation while one holds the guard is rejected with the busy notification.
func (service *Service) Run(executionContext context.Context, options CommandOptions) error {
	if acquireError := service.invocationGuard.Acquire(); acquireError != nil {
		if errors.Is(acquireError, guard.ErrAuditInFlight) {
			busyMessage := service.formatter.BuildBusyMessage()
			service.notifier.Notify(ui.NotificationKindBusy, busyMessage)
			service.journalRun(executionContext, service.clock.Now(), options.RawDocumentReference, history.OutcomeBusy, 0, 0, busyMessage)
			return acquireError
		}
		service.notifier.Notify(ui.NotificationKindScriptError, service.formatter.BuildScriptErrorMessage(acquireError))
		return acquireError
	}
	defer func() {
		if releaseError := service.invocationGuard.Release(); releaseError != nil {
			service.logger.Warn(guardReleaseWarningMessageConstant, zap.Error(releaseError))
		}
	}()

	startedAt := service.clock.Now()

	reference, validationError := service.validator.Validate(options.RawDocumentReference)
	if validationError != nil {
		invalidInputMessage := service.formatter.BuildInvalidInputMessage()
		service.notifier.Notify(ui.NotificationKindInvalidInput, invalidInputMessage)
		service.journalRun(executionContext, startedAt, options.RawDocumentReference, history.OutcomeInvalidInput, 0, 0, invalidInputMessage)
		return validationError
	}

	service.notifier.Notify(ui.NotificationKindStarted, service.formatter.BuildStartedMessage(string(reference)))

	resultRows, requestError := service.requestor.Audit(executionContext, reference)
	if requestError != nil {
		notificationKind, journalOutcome, failureMessage := service.classifyRequestFailure(requestError)
		service.notifier.Notify(notificationKind, failureMessage)
		service.journalRun(executionContext, startedAt, string(reference), journalOutcome, 0, 0, failureMessage)
		return requestError
	}

	surface, surfaceError := service.surfaceProvider.OpenSurface(options.WorkbookPath, options.WorksheetName)
	if surfaceError != nil {
		return service.failWithScriptError(executionContext, startedAt, string(reference), surfaceError)
	}

	if renderError := service.renderer.Render(surface, options.Anchor, reference, resultRows); renderError != nil {
		return service.failWithScriptError(executionContext, startedAt, string(reference), renderError)
	}

	if saveError := surface.Save(); saveError != nil {
		return service.failWithScriptError(executionContext, startedAt, string(reference), saveError)
	}

	if options.Preview && service.previewer != nil {
		if previewError := service.previewer.Preview(reference, resultRows); previewError != nil {
			service.logger.Warn(previewFailureWarningMessageConstant, zap.Error(previewError))
		}
	}

	completionMessage := service.formatter.BuildCompletedMessage(len(resultRows))
	service.notifier.Notify(ui.NotificationKindCompleted, completionMessage)
	service.journalRun(executionContext, startedAt, string(reference), history.OutcomeCompleted, len(resultRows), countFaultyRows(resultRows), completionMessage)

	return nil
}

func (service *Service) classifyRequestFailure(requestError error) (ui.NotificationKind, history.Outcome, string) {
	var serverError *auditapi.ServerError
	switch {
	case errors.As(requestError, &serverError):
		return ui.NotificationKindServerError, history.OutcomeServerError, service.formatter.BuildServerErrorMessage(serverError.StatusCode, serverError.Body)
	case errors.Is(requestError, auditapi.ErrNoAuditResults):
		return ui.NotificationKindNoResults, history.OutcomeNoResults, service.formatter.BuildNoResultsMessage()
	default:
		return ui.NotificationKindScriptError, history.OutcomeScriptError, service.formatter.BuildScriptErrorMessage(requestError)
	}
}

func (service *Service) failWithScriptError(executionContext context.Context, startedAt time.Time, reference string, failure error) error {
	failureMessage := service.formatter.BuildScriptErrorMessage(failure)
	service.notifier.Notify(ui.NotificationKindScriptError, failureMessage)
	service.journalRun(executionContext, startedAt, reference, history.OutcomeScriptError, 0, 0, failureMessage)
	return failure
}

func (service *Service) journalRun(executionContext context.Context, startedAt time.Time, reference string, outcome history.Outcome, resultCount int, faultyCount int, message string) {
	if service.journal == nil {
		return
	}

	record := history.RunRecord{
		StartedAt:         startedAt,
		DocumentReference: reference,
		DocumentID:        documentIdentifierForJournal(reference),
		Outcome:           outcome,
		ResultCount:       resultCount,
		FaultyCount:       faultyCount,
		Message:           message,
	}

	if journalError := service.journal.RecordRun(executionContext, record); journalError != nil {
		service.logger.Warn(journalFailureWarningMessageConstant, zap.Error(journalError), zap.String(documentReferenceLogFieldConstant, reference))
	}
}
