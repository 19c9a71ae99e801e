package ui

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	startedMessageTemplateConstant     = "Auditing %s"
	completedMessageTemplateConstant   = "Audit complete: %d question(s) written to the sheet"
	invalidInputMessageConstant        = "The selected value is not a Google Docs link; no audit was attempted"
	serverErrorMessageTemplateConstant = "Audit service error %d: %s"
	noResultsMessageConstant           = "The audit finished but returned no results; nothing was written"
	scriptErrorMessageTemplateConstant = "Audit failed: %s"
	busyMessageConstant                = "An audit is already in flight; try again once it finishes"
	unknownFailureMessageConstant      = "unknown error"
	notificationKindLogFieldConstant   = "notification_kind"
)

// NotificationKind enumerates user-facing notification categories. Each
// failure class of the audit pipeline maps onto exactly one kind so messages
// stay distinguishable.
type NotificationKind string

// Supported notification kinds.
const (
	NotificationKindStarted      NotificationKind = "started"
	NotificationKindCompleted    NotificationKind = "completed"
	NotificationKindInvalidInput NotificationKind = "invalid_input"
	NotificationKindServerError  NotificationKind = "server_error"
	NotificationKindNoResults    NotificationKind = "no_results"
	NotificationKindScriptError  NotificationKind = "script_error"
	NotificationKindBusy         NotificationKind = "busy"
)

// Notifier delivers user-facing notifications for audit lifecycle events.
type Notifier interface {
	Notify(kind NotificationKind, message string)
}

// MessageFormatter builds the human-readable notification messages.
type MessageFormatter struct{}

// BuildStartedMessage describes an audit about to run for the referenced document.
func (formatter MessageFormatter) BuildStartedMessage(reference string) string {
	return fmt.Sprintf(startedMessageTemplateConstant, reference)
}

// BuildCompletedMessage describes a finished audit with the written row count.
func (formatter MessageFormatter) BuildCompletedMessage(rowCount int) string {
	return fmt.Sprintf(completedMessageTemplateConstant, rowCount)
}

// BuildInvalidInputMessage describes a rejected document reference.
func (formatter MessageFormatter) BuildInvalidInputMessage() string {
	return invalidInputMessageConstant
}

// BuildServerErrorMessage carries the response status code and the raw body text.
func (formatter MessageFormatter) BuildServerErrorMessage(statusCode int, responseBody string) string {
	return fmt.Sprintf(serverErrorMessageTemplateConstant, statusCode, responseBody)
}

// BuildNoResultsMessage describes the successful-but-empty outcome.
func (formatter MessageFormatter) BuildNoResultsMessage() string {
	return noResultsMessageConstant
}

// BuildScriptErrorMessage carries the underlying failure message.
func (formatter MessageFormatter) BuildScriptErrorMessage(failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(scriptErrorMessageTemplateConstant, failureMessage)
}

// BuildBusyMessage describes a rejected concurrent invocation attempt.
func (formatter MessageFormatter) BuildBusyMessage() string {
	return busyMessageConstant
}

// ConsoleNotifier renders notifications through a zap logger configured for
// human-readable output: transient lifecycle kinds log at Info, the
// successful-but-empty and busy outcomes at Warn, and failures at Error.
type ConsoleNotifier struct {
	logger *zap.Logger
}

// NewConsoleNotifier constructs a console notifier backed by the provided zap logger.
func NewConsoleNotifier(logger *zap.Logger) *ConsoleNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleNotifier{logger: logger}
}

// Notify implements Notifier by logging the message at a kind-appropriate level.
func (notifier *ConsoleNotifier) Notify(kind NotificationKind, message string) {
	if notifier == nil {
		return
	}

	kindField := zap.String(notificationKindLogFieldConstant, string(kind))
	switch kind {
	case NotificationKindStarted, NotificationKindCompleted:
		notifier.logger.Info(message, kindField)
	case NotificationKindNoResults, NotificationKindBusy:
		notifier.logger.Warn(message, kindField)
	default:
		notifier.logger.Error(message, kindField)
	}
}
