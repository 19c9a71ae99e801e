package docref

import (
	"errors"
	"regexp"
	"strings"
)

const (
	documentHostMarkerConstant = "docs.google.com"
)

var documentIdentifierExpression = regexp.MustCompile(`/d/([a-zA-Z0-9-_]+)`)

// ErrInvalidInput reports an empty value or one that does not reference a Google Docs document.
var ErrInvalidInput = errors.New("document reference is empty or not a Google Docs link")

// DocumentReference identifies the document targeted by an audit invocation.
type DocumentReference string

// Validate confirms the raw value plausibly references a Google Docs document.
//
// The value must be non-empty after trimming and contain the Google Docs host
// marker; no further parsing is performed. Validate never performs I/O.
func Validate(rawValue string) (DocumentReference, error) {
	trimmedValue := strings.TrimSpace(rawValue)
	if len(trimmedValue) == 0 {
		return "", ErrInvalidInput
	}
	if !strings.Contains(trimmedValue, documentHostMarkerConstant) {
		return "", ErrInvalidInput
	}
	return DocumentReference(trimmedValue), nil
}

// ExtractDocumentID pulls the /d/<identifier> path segment out of the reference.
//
// The identifier is used for diagnostics and journaling only; the audit
// service always receives the full reference verbatim.
func ExtractDocumentID(reference DocumentReference) (string, bool) {
	matches := documentIdentifierExpression.FindStringSubmatch(string(reference))
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}
