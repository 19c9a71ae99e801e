package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/sheetaudit/internal/audit"
	"github.com/temirov/sheetaudit/internal/auditapi"
	"github.com/temirov/sheetaudit/internal/utils"
)

func TestCommandFailsFastWithoutEndpoint(testInstance *testing.T) {
	builder := audit.CommandBuilder{
		ConfigurationProvider: func() audit.CommandConfiguration {
			return audit.DefaultCommandConfiguration()
		},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs([]string{"--doc-url", testDocumentReferenceConstant})

	executionError := command.Execute()
	require.ErrorIs(testInstance, executionError, auditapi.ErrEndpointNotConfigured)
}

func TestCommandFlagsOverrideConfiguration(testInstance *testing.T) {
	configuration := audit.DefaultCommandConfiguration()
	configuration.WorkbookPath = "configured.xlsx"
	configuration.AnchorRow = 1
	configuration.AnchorColumn = 1

	requestor := &stubRequestor{resultRows: testResultRows}
	renderer := &stubRenderer{}
	surface := &stubSurface{}
	notifier := &stubNotifier{}

	builder := audit.CommandBuilder{
		ConfigurationProvider: func() audit.CommandConfiguration { return configuration },
		Requestor:             requestor,
		SurfaceProvider:       &stubSurfaceProvider{surface: surface},
		Renderer:              renderer,
		Notifier:              notifier,
		Guard:                 &stubGuard{},
		Journal:               &stubJournal{},
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(context.Background())
	command.SetArgs([]string{
		"--doc-url", testDocumentReferenceConstant,
		"--anchor-row", "4",
		"--anchor-column", "2",
	})

	require.NoError(testInstance, command.Execute())

	require.Equal(testInstance, 1, requestor.callCount)
	require.Len(testInstance, renderer.invocations, 1)
	require.Equal(testInstance, 4, renderer.invocations[0].anchor.Row)
	require.Equal(testInstance, 2, renderer.invocations[0].anchor.Column)
	require.Equal(testInstance, 1, surface.saveCount)
}

func TestCommandLogsResolvedConfigurationFile(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)

	builder := audit.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return zap.New(observedCore)
		},
		ConfigurationProvider: func() audit.CommandConfiguration {
			return audit.DefaultCommandConfiguration()
		},
		Requestor:       &stubRequestor{resultRows: testResultRows},
		SurfaceProvider: &stubSurfaceProvider{surface: &stubSurface{}},
		Renderer:        &stubRenderer{},
		Notifier:        &stubNotifier{},
		Guard:           &stubGuard{},
		Journal:         &stubJournal{},
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	command.SetContext(utils.NewCommandContextAccessor().WithConfigurationFilePath(context.Background(), "config.yaml"))
	command.SetArgs([]string{"--doc-url", testDocumentReferenceConstant})

	require.NoError(testInstance, command.Execute())

	resolvedEntries := observedLogs.FilterMessage("audit configuration resolved").All()
	require.Len(testInstance, resolvedEntries, 1)

	loggedFields := resolvedEntries[0].ContextMap()
	require.Equal(testInstance, "config.yaml", loggedFields["config_file"])
	require.Equal(testInstance, "audit-results.xlsx", loggedFields["workbook_path"])
}
