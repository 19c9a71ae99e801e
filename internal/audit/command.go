package audit

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sheetaudit/internal/auditapi"
	"github.com/temirov/sheetaudit/internal/guard"
	"github.com/temirov/sheetaudit/internal/history"
	"github.com/temirov/sheetaudit/internal/render"
	"github.com/temirov/sheetaudit/internal/sheet"
	"github.com/temirov/sheetaudit/internal/ui"
	"github.com/temirov/sheetaudit/internal/utils"
)

const (
	commandNameConstant             = "run"
	commandShortDescriptionConstant = "Audit a document's questions and write the verdicts into a workbook"
	commandLongDescriptionConstant  = "run validates the document reference, submits it to the configured audit service, and materializes the returned verdicts as a styled table anchored at the chosen cell."

	flagDocURLNameConstant              = "doc-url"
	flagDocURLDescriptionConstant       = "Google Docs URL of the document to audit."
	flagWorkbookNameConstant            = "workbook"
	flagWorkbookDescriptionConstant     = "Path of the xlsx workbook the table is written into."
	flagWorksheetNameConstant           = "worksheet"
	flagWorksheetDescriptionConstant    = "Worksheet the table is written onto."
	flagAnchorRowNameConstant           = "anchor-row"
	flagAnchorRowDescriptionConstant    = "1-based row of the table anchor."
	flagAnchorColumnNameConstant        = "anchor-column"
	flagAnchorColumnDescriptionConstant = "1-based column of the table anchor."
	flagPreviewNameConstant             = "preview"
	flagPreviewDescriptionConstant      = "Print a colored preview of the verdicts after rendering."

	journalOpenWarningMessageConstant    = "audit journal unavailable; runs will not be recorded"
	configurationResolvedMessageConstant = "audit configuration resolved"
	configurationFileLogFieldConstant    = "config_file"
	workbookPathLogFieldConstant         = "workbook_path"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the run cobra command with configurable dependencies.
//
// Unset dependency fields resolve to the production collaborators; tests set
// them to stubs.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	Validator             ReferenceValidator
	Requestor             AuditRequestor
	SurfaceProvider       SurfaceProvider
	Renderer              ResultTableRenderer
	Notifier              Notifier
	Guard                 InvocationGuard
	Journal               RunJournal
	Previewer             ResultPreviewer
	Clock                 Clock
}

// Build constructs the cobra command for audit invocations.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(flagDocURLNameConstant, "", flagDocURLDescriptionConstant)
	command.Flags().String(flagWorkbookNameConstant, "", flagWorkbookDescriptionConstant)
	command.Flags().String(flagWorksheetNameConstant, "", flagWorksheetDescriptionConstant)
	command.Flags().Int(flagAnchorRowNameConstant, 0, flagAnchorRowDescriptionConstant)
	command.Flags().Int(flagAnchorColumnNameConstant, 0, flagAnchorColumnDescriptionConstant)
	command.Flags().Bool(flagPreviewNameConstant, false, flagPreviewDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration().sanitize()
	options := builder.parseOptions(command, configuration)
	logger := builder.resolveLogger()

	if configurationFilePath, pathAvailable := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context()); pathAvailable && len(configurationFilePath) > 0 {
		logger.Debug(
			configurationResolvedMessageConstant,
			zap.String(configurationFileLogFieldConstant, configurationFilePath),
			zap.String(workbookPathLogFieldConstant, options.WorkbookPath),
		)
	}

	requestor, requestorError := builder.resolveRequestor(configuration)
	if requestorError != nil {
		return requestorError
	}

	invocationGuard, guardError := builder.resolveGuard(configuration)
	if guardError != nil {
		return guardError
	}

	journal, journalCloser := builder.resolveJournal(configuration, logger)
	if journalCloser != nil {
		defer journalCloser()
	}

	notifier := builder.resolveNotifier(logger)
	surfaceProvider := builder.resolveSurfaceProvider()
	renderer := builder.resolveRenderer()
	previewer := builder.resolvePreviewer(command)

	service := NewService(builder.Validator, requestor, surfaceProvider, renderer, notifier, invocationGuard, journal, previewer, logger, builder.Clock)
	return service.Run(command.Context(), options)
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, configuration CommandConfiguration) CommandOptions {
	rawDocumentReference, _ := command.Flags().GetString(flagDocURLNameConstant)

	workbookPath, _ := command.Flags().GetString(flagWorkbookNameConstant)
	if len(workbookPath) == 0 {
		workbookPath = configuration.WorkbookPath
	}

	worksheetName, _ := command.Flags().GetString(flagWorksheetNameConstant)
	if len(worksheetName) == 0 {
		worksheetName = configuration.WorksheetName
	}

	anchorRow, _ := command.Flags().GetInt(flagAnchorRowNameConstant)
	if anchorRow <= 0 {
		anchorRow = configuration.AnchorRow
	}

	anchorColumn, _ := command.Flags().GetInt(flagAnchorColumnNameConstant)
	if anchorColumn <= 0 {
		anchorColumn = configuration.AnchorColumn
	}

	previewRequested, _ := command.Flags().GetBool(flagPreviewNameConstant)

	return CommandOptions{
		RawDocumentReference: rawDocumentReference,
		WorkbookPath:         workbookPath,
		WorksheetName:        worksheetName,
		Anchor:               sheet.Anchor{Row: anchorRow, Column: anchorColumn},
		Preview:              previewRequested,
	}
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveRequestor(configuration CommandConfiguration) (AuditRequestor, error) {
	if builder.Requestor != nil {
		return builder.Requestor, nil
	}
	requestTimeout := time.Duration(configuration.RequestTimeoutSeconds) * time.Second
	return auditapi.NewClient(configuration.EndpointURL, requestTimeout, nil)
}

func (builder *CommandBuilder) resolveGuard(configuration CommandConfiguration) (InvocationGuard, error) {
	if builder.Guard != nil {
		return builder.Guard, nil
	}
	return guard.NewFlockGuard(configuration.LockFilePath)
}

func (builder *CommandBuilder) resolveJournal(configuration CommandConfiguration, logger *zap.Logger) (RunJournal, func()) {
	if builder.Journal != nil {
		return builder.Journal, nil
	}

	store, openError := history.OpenStore(configuration.JournalDatabasePath)
	if openError != nil {
		logger.Warn(journalOpenWarningMessageConstant, zap.Error(openError))
		return nil, nil
	}
	return store, func() { store.Close() }
}

func (builder *CommandBuilder) resolveNotifier(logger *zap.Logger) Notifier {
	if builder.Notifier != nil {
		return builder.Notifier
	}
	return ui.NewConsoleNotifier(logger)
}

func (builder *CommandBuilder) resolveSurfaceProvider() SurfaceProvider {
	if builder.SurfaceProvider != nil {
		return builder.SurfaceProvider
	}
	return WorkbookSurfaceProvider{}
}

func (builder *CommandBuilder) resolveRenderer() ResultTableRenderer {
	if builder.Renderer != nil {
		return builder.Renderer
	}
	return render.TableRenderer{}
}

func (builder *CommandBuilder) resolvePreviewer(command *cobra.Command) ResultPreviewer {
	if builder.Previewer != nil {
		return builder.Previewer
	}
	return render.NewConsolePreview(command.OutOrStdout())
}
