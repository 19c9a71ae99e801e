package auditapi

import (
	"errors"
	"fmt"
)

const (
	serverErrorMessageTemplateConstant = "audit service responded with status %d: %s"
)

// ErrNoAuditResults marks the successful-but-empty outcome: the service
// answered with the success status and an empty result sequence. Nothing is
// rendered for this outcome.
var ErrNoAuditResults = errors.New("audit service reported no results for the document")

// ErrEndpointNotConfigured reports a missing audit endpoint URL at client construction time.
var ErrEndpointNotConfigured = errors.New("audit endpoint URL is not configured")

// ServerError captures a non-success HTTP response from the audit service.
//
// Body carries the raw response text verbatim; it is never interpreted as JSON.
type ServerError struct {
	StatusCode int
	Body       string
}

// Error renders the status code and the verbatim response body.
func (serverError *ServerError) Error() string {
	return fmt.Sprintf(serverErrorMessageTemplateConstant, serverError.StatusCode, serverError.Body)
}
