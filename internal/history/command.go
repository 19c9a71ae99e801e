package history

import (
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/sheetaudit/internal/utils"
)

const (
	commandNameConstant             = "history"
	commandShortDescriptionConstant = "List recent audit runs from the journal"
	commandLongDescriptionConstant  = "history reads the local audit run journal and prints the most recent invocations, newest first."

	flagLimitNameConstant        = "limit"
	flagLimitDescriptionConstant = "Maximum number of runs to list."

	csvHeaderStartedAtConstant   = "started_at"
	csvHeaderDocumentConstant    = "document"
	csvHeaderDocumentIDConstant  = "document_id"
	csvHeaderOutcomeConstant     = "outcome"
	csvHeaderResultCountConstant = "results"
	csvHeaderFaultyCountConstant = "faulty"
	csvHeaderMessageConstant     = "message"

	defaultLimitConstant             = 20
	defaultDatabasePathConstant      = ".sheetaudit/history.db"
	databasePathConfigurationSuffix  = ".database_path"
	limitConfigurationSuffixConstant = ".limit"

	journalReadMessageConstant        = "reading audit journal"
	databasePathLogFieldConstant      = "database_path"
	limitLogFieldConstant             = "limit"
	configurationFileLogFieldConstant = "config_file"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandConfiguration captures persistent settings for the history command.
type CommandConfiguration struct {
	DatabasePath string `mapstructure:"database_path"`
	Limit        int    `mapstructure:"limit"`
}

// DefaultCommandConfiguration returns baseline configuration values for the history command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		DatabasePath: defaultDatabasePathConstant,
		Limit:        defaultLimitConstant,
	}
}

// DefaultConfigurationValues exposes the defaults keyed under the provided configuration prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	return map[string]any{
		configurationPrefix + databasePathConfigurationSuffix:  defaultDatabasePathConstant,
		configurationPrefix + limitConfigurationSuffixConstant: defaultLimitConstant,
	}
}

func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.DatabasePath = strings.TrimSpace(configuration.DatabasePath)
	if len(sanitized.DatabasePath) == 0 {
		sanitized.DatabasePath = defaultDatabasePathConstant
	}
	if sanitized.Limit <= 0 {
		sanitized.Limit = defaultLimitConstant
	}
	return sanitized
}

// CommandBuilder assembles the history cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
}

// Build constructs the cobra command listing journaled audit runs.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().Int(flagLimitNameConstant, 0, flagLimitDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration().sanitize()

	limit := configuration.Limit
	if flagLimit, _ := command.Flags().GetInt(flagLimitNameConstant); flagLimit > 0 {
		limit = flagLimit
	}

	journalReadFields := []zap.Field{
		zap.String(databasePathLogFieldConstant, configuration.DatabasePath),
		zap.Int(limitLogFieldConstant, limit),
	}
	if configurationFilePath, pathAvailable := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context()); pathAvailable && len(configurationFilePath) > 0 {
		journalReadFields = append(journalReadFields, zap.String(configurationFileLogFieldConstant, configurationFilePath))
	}
	builder.resolveLogger().Debug(journalReadMessageConstant, journalReadFields...)

	store, openError := OpenStore(configuration.DatabasePath)
	if openError != nil {
		return openError
	}
	defer store.Close()

	records, queryError := store.RecentRuns(command.Context(), limit)
	if queryError != nil {
		return queryError
	}

	csvWriter := csv.NewWriter(command.OutOrStdout())
	header := []string{
		csvHeaderStartedAtConstant,
		csvHeaderDocumentConstant,
		csvHeaderDocumentIDConstant,
		csvHeaderOutcomeConstant,
		csvHeaderResultCountConstant,
		csvHeaderFaultyCountConstant,
		csvHeaderMessageConstant,
	}
	if writeError := csvWriter.Write(header); writeError != nil {
		return writeError
	}

	for _, record := range records {
		csvRecord := []string{
			record.StartedAt.Format(startedAtColumnLayoutConstant),
			record.DocumentReference,
			record.DocumentID,
			string(record.Outcome),
			strconv.Itoa(record.ResultCount),
			strconv.Itoa(record.FaultyCount),
			record.Message,
		}
		if writeError := csvWriter.Write(csvRecord); writeError != nil {
			return writeError
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
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
