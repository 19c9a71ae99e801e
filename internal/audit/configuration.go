package audit

import "strings"

const (
	defaultRequestTimeoutSecondsConstant = 120
	defaultWorkbookPathConstant          = "audit-results.xlsx"
	defaultWorksheetNameConstant         = "Audit"
	defaultAnchorRowConstant             = 1
	defaultAnchorColumnConstant          = 1
	defaultLockFilePathConstant          = ".sheetaudit/audit.lock"
	defaultJournalDatabasePathConstant   = ".sheetaudit/history.db"

	endpointURLConfigurationSuffixConstant         = ".endpoint_url"
	requestTimeoutConfigurationSuffixConstant      = ".request_timeout_seconds"
	workbookPathConfigurationSuffixConstant        = ".workbook_path"
	worksheetNameConfigurationSuffixConstant       = ".worksheet_name"
	anchorRowConfigurationSuffixConstant           = ".anchor_row"
	anchorColumnConfigurationSuffixConstant        = ".anchor_column"
	lockFilePathConfigurationSuffixConstant        = ".lock_file_path"
	journalDatabasePathConfigurationSuffixConstant = ".journal_database_path"
)

// CommandConfiguration captures persistent settings for the run command.
//
// The endpoint URL has no default on purpose: it must be configured
// explicitly, and an empty value fails at client construction rather than
// mid-pipeline.
type CommandConfiguration struct {
	EndpointURL           string `mapstructure:"endpoint_url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	WorkbookPath          string `mapstructure:"workbook_path"`
	WorksheetName         string `mapstructure:"worksheet_name"`
	AnchorRow             int    `mapstructure:"anchor_row"`
	AnchorColumn          int    `mapstructure:"anchor_column"`
	LockFilePath          string `mapstructure:"lock_file_path"`
	JournalDatabasePath   string `mapstructure:"journal_database_path"`
}

// DefaultCommandConfiguration returns baseline configuration values for the run command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		EndpointURL:           "",
		RequestTimeoutSeconds: defaultRequestTimeoutSecondsConstant,
		WorkbookPath:          defaultWorkbookPathConstant,
		WorksheetName:         defaultWorksheetNameConstant,
		AnchorRow:             defaultAnchorRowConstant,
		AnchorColumn:          defaultAnchorColumnConstant,
		LockFilePath:          defaultLockFilePathConstant,
		JournalDatabasePath:   defaultJournalDatabasePathConstant,
	}
}

// DefaultConfigurationValues exposes the defaults keyed under the provided configuration prefix.
func DefaultConfigurationValues(configurationPrefix string) map[string]any {
	return map[string]any{
		configurationPrefix + endpointURLConfigurationSuffixConstant:         "",
		configurationPrefix + requestTimeoutConfigurationSuffixConstant:      defaultRequestTimeoutSecondsConstant,
		configurationPrefix + workbookPathConfigurationSuffixConstant:        defaultWorkbookPathConstant,
		configurationPrefix + worksheetNameConfigurationSuffixConstant:       defaultWorksheetNameConstant,
		configurationPrefix + anchorRowConfigurationSuffixConstant:           defaultAnchorRowConstant,
		configurationPrefix + anchorColumnConfigurationSuffixConstant:        defaultAnchorColumnConstant,
		configurationPrefix + lockFilePathConfigurationSuffixConstant:        defaultLockFilePathConstant,
		configurationPrefix + journalDatabasePathConfigurationSuffixConstant: defaultJournalDatabasePathConstant,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.EndpointURL = strings.TrimSpace(configuration.EndpointURL)
	sanitized.WorkbookPath = strings.TrimSpace(configuration.WorkbookPath)
	if len(sanitized.WorkbookPath) == 0 {
		sanitized.WorkbookPath = defaultWorkbookPathConstant
	}
	sanitized.WorksheetName = strings.TrimSpace(configuration.WorksheetName)
	if len(sanitized.WorksheetName) == 0 {
		sanitized.WorksheetName = defaultWorksheetNameConstant
	}
	if sanitized.RequestTimeoutSeconds <= 0 {
		sanitized.RequestTimeoutSeconds = defaultRequestTimeoutSecondsConstant
	}
	if sanitized.AnchorRow <= 0 {
		sanitized.AnchorRow = defaultAnchorRowConstant
	}
	if sanitized.AnchorColumn <= 0 {
		sanitized.AnchorColumn = defaultAnchorColumnConstant
	}
	sanitized.LockFilePath = strings.TrimSpace(configuration.LockFilePath)
	if len(sanitized.LockFilePath) == 0 {
		sanitized.LockFilePath = defaultLockFilePathConstant
	}
	sanitized.JournalDatabasePath = strings.TrimSpace(configuration.JournalDatabasePath)
	if len(sanitized.JournalDatabasePath) == 0 {
		sanitized.JournalDatabasePath = defaultJournalDatabasePathConstant
	}

	return sanitized
}
