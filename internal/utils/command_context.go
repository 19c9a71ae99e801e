package utils

import "context"

// commandContextKey scopes context values owned by this package.
type commandContextKey int

const configurationFilePathContextKey commandContextKey = iota

// CommandContextAccessor reads and writes the values sheetaudit commands
// carry through their execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationFilePath returns a context carrying the resolved
// configuration file path for downstream command diagnostics.
func (accessor CommandContextAccessor) WithConfigurationFilePath(parentContext context.Context, configurationFilePath string) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	return context.WithValue(parentContext, configurationFilePathContextKey, configurationFilePath)
}

// ConfigurationFilePath reports the configuration file path carried by the
// context, when present.
func (accessor CommandContextAccessor) ConfigurationFilePath(executionContext context.Context) (string, bool) {
	if executionContext == nil {
		return "", false
	}
	configurationFilePath, pathStored := executionContext.Value(configurationFilePathContextKey).(string)
	return configurationFilePath, pathStored
}
