package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/sheetaudit/internal/utils"
)

const (
	runSubcommandNameConstant     = "run"
	historySubcommandNameConstant = "history"
	helpFlagConstant              = "--help"
	subtestNameTemplateConstant   = "%d_%s"
)

func TestApplicationRegistersExpectedSubcommands(testInstance *testing.T) {
	testCases := []struct {
		name        string
		commandName string
	}{
		{name: "run_subcommand", commandName: runSubcommandNameConstant},
		{name: "history_subcommand", commandName: historySubcommandNameConstant},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(subtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			application := NewApplication()

			registeredCommand, _, lookupError := application.rootCommand.Find([]string{testCase.commandName})
			require.NoError(testInstance, lookupError)
			require.Equal(testInstance, testCase.commandName, registeredCommand.Name())
		})
	}
}

func TestApplicationRootHelpMentionsApplicationName(testInstance *testing.T) {
	application := NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs([]string{helpFlagConstant})

	require.NoError(testInstance, application.rootCommand.Execute())
	require.Contains(testInstance, outputBuffer.String(), applicationNameConstant)
}

func TestInitializeConfigurationAppliesEmbeddedDefaults(testInstance *testing.T) {
	application := NewApplication()
	application.rootCommand.SetContext(context.Background())

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, string(utils.LogLevelInfo), application.configuration.Common.LogLevel)
	require.Equal(testInstance, string(utils.LogFormatStructured), application.configuration.Common.LogFormat)
	require.Equal(testInstance, 120, application.configuration.Tools.Audit.RequestTimeoutSeconds)
	require.Equal(testInstance, "audit-results.xlsx", application.configuration.Tools.Audit.WorkbookPath)
	require.Equal(testInstance, 20, application.configuration.Tools.History.Limit)

	_, configurationPathAvailable := application.commandContextAccessor.ConfigurationFilePath(application.rootCommand.Context())
	require.True(testInstance, configurationPathAvailable)
}

func TestInitializeConfigurationHonorsLogFlagOverrides(testInstance *testing.T) {
	application := NewApplication()
	application.rootCommand.SetContext(context.Background())

	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, string(utils.LogLevelDebug)))
	require.NoError(testInstance, application.rootCommand.PersistentFlags().Set(logFormatFlagNameConstant, string(utils.LogFormatConsole)))

	require.NoError(testInstance, application.initializeConfiguration(application.rootCommand))

	require.Equal(testInstance, string(utils.LogLevelDebug), application.configuration.Common.LogLevel)
	require.Equal(testInstance, string(utils.LogFormatConsole), application.configuration.Common.LogFormat)
}
